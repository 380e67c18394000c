package wizard

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/mark3labs/smartagri/internal/farm"
)

var (
	// ErrSubmissionInFlight is returned when an action needs the wizard idle
	// but a submission has not settled yet.
	ErrSubmissionInFlight = errors.New("a submission is already in flight")

	// ErrNotAtWeather is returned by Begin outside the weather step.
	ErrNotAtWeather = errors.New("submission is only possible from the weather step")

	// ErrDisposed is returned once the wizard has been torn down.
	ErrDisposed = errors.New("wizard has been disposed")
)

// ValidationFailedError reports the fields blocking a forward move.
type ValidationFailedError struct {
	Step   Step
	Errors map[farm.Field]string
}

func (e *ValidationFailedError) Error() string {
	fields := make([]string, 0, len(e.Errors))
	for f := range e.Errors {
		fields = append(fields, string(f))
	}
	sort.Strings(fields)

	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = f + ": " + e.Errors[farm.Field(f)]
	}
	return fmt.Sprintf("%s step is incomplete: %s", e.Step, strings.Join(parts, "; "))
}
