package recommend

import (
	"errors"
	"fmt"
)

// ErrUnauthorized is wrapped by the NetworkError returned for a 401 response.
// The session layer owns re-authentication; the wizard treats it as fatal.
var ErrUnauthorized = errors.New("unauthorized")

// ValidationError carries a human-readable rejection from the service.
// Message is shown to the user verbatim.
type ValidationError struct {
	Status  int
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NetworkError covers transport failures and non-2xx responses without a
// structured message.
type NetworkError struct {
	Status int // 0 when no response was received
	Err    error
}

func (e *NetworkError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("recommendation service returned status %d: %v", e.Status, e.Err)
	}
	return fmt.Sprintf("recommendation request failed: %v", e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// TimeoutError is returned when no response arrives before the deadline.
// It is displayed like a NetworkError.
type TimeoutError struct {
	Err error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("recommendation request timed out: %v", e.Err)
}

func (e *TimeoutError) Unwrap() error {
	return e.Err
}

// IsValidation reports whether err carries a service-reported message.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// IsTimeout reports whether err is a TimeoutError.
func IsTimeout(err error) bool {
	var t *TimeoutError
	return errors.As(err, &t)
}

// IsUnauthorized reports whether err came from a 401 response.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}
