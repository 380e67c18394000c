package farm

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrUnknownField is returned for fields not present in the model.
var ErrUnknownField = errors.New("unknown field")

// OutOfRangeError is returned when a numeric write falls outside the field's bounds.
// The field keeps its previous value.
type OutOfRangeError struct {
	Field Field
	Value float64
	Min   float64
	Max   float64
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("%s: value %s out of range [%s, %s]", e.Field,
		formatNumber(e.Value), formatNumber(e.Min), formatNumber(e.Max))
}

// InvalidOptionError is returned when an enum write is not one of the accepted options.
type InvalidOptionError struct {
	Field   Field
	Value   string
	Options []string
}

func (e *InvalidOptionError) Error() string {
	return fmt.Sprintf("%s: %q is not one of %v", e.Field, e.Value, e.Options)
}

// TypeError is returned when a write carries a Go type the field cannot hold.
type TypeError struct {
	Field Field
	Value any
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("%s: unsupported value type %T", e.Field, e.Value)
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
