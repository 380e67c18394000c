package farm

import (
	"fmt"
	"strings"
)

// Values is an immutable snapshot of every field in the model.
type Values struct {
	State          string
	District       string
	LandSizeAcres  float64
	IrrigationType string
	PreviousCrop   string

	N        float64
	P        float64
	K        float64
	PH       float64
	SoilType string

	Temperature float64
	Humidity    float64
	Rainfall    float64
	Season      string
}

// Defaults returns the documented starting values.
func Defaults() Values {
	return Values{
		LandSizeAcres:  2,
		IrrigationType: IrrigationRainfed,
		N:              60,
		P:              40,
		K:              40,
		PH:             6.5,
		SoilType:       "Loamy",
		Temperature:    28,
		Humidity:       70,
		Rainfall:       150,
		Season:         SeasonKharif,
	}
}

// Validation is the outcome of validating one wizard step.
type Validation struct {
	Valid  bool
	Errors map[Field]string // Field -> reason
}

// Model is the mutable field model owned by a single wizard instance.
// It is not safe for concurrent use.
type Model struct {
	v Values
}

// New creates a model populated with Defaults.
func New() *Model {
	return &Model{v: Defaults()}
}

// Snapshot returns a copy of the current values.
func (m *Model) Snapshot() Values {
	return m.v
}

// Reset restores every field to its default.
func (m *Model) Reset() {
	m.v = Defaults()
}

// Get returns the current value of a field: float64 for numeric fields,
// string otherwise.
func (m *Model) Get(f Field) (any, error) {
	if p := m.number(f); p != nil {
		return *p, nil
	}
	if p := m.text(f); p != nil {
		return *p, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownField, f)
}

// Number returns a numeric field's value, or 0 for non-numeric fields.
func (m *Model) Number(f Field) float64 {
	if p := m.number(f); p != nil {
		return *p
	}
	return 0
}

// Text returns a text or enum field's value, or "" for numeric fields.
func (m *Model) Text(f Field) string {
	if p := m.text(f); p != nil {
		return *p
	}
	return ""
}

// Set writes a field. Numeric fields accept float64 or int and reject values
// outside their range with *OutOfRangeError. Enum fields reject unknown options
// with *InvalidOptionError. A rejected write leaves the model unchanged.
func (m *Model) Set(f Field, value any) error {
	spec, ok := Spec(f)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownField, f)
	}

	switch spec.Kind {
	case KindNumber:
		var v float64
		switch n := value.(type) {
		case float64:
			v = n
		case float32:
			v = float64(n)
		case int:
			v = float64(n)
		default:
			return &TypeError{Field: f, Value: value}
		}
		if !spec.InRange(v) {
			return &OutOfRangeError{Field: f, Value: v, Min: spec.Min, Max: spec.Max}
		}
		*m.number(f) = v
		return nil

	case KindEnum:
		s, ok := value.(string)
		if !ok {
			return &TypeError{Field: f, Value: value}
		}
		// state may be cleared back to "not selected"
		if !(s == "" && spec.Default == "") && !spec.HasOption(s) {
			return &InvalidOptionError{Field: f, Value: s, Options: spec.Options}
		}
		*m.text(f) = s
		return nil

	default:
		s, ok := value.(string)
		if !ok {
			return &TypeError{Field: f, Value: value}
		}
		*m.text(f) = s
		return nil
	}
}

// Validate checks the fields edited on one step. Only the location step can
// fail: state must be selected before leaving it.
func (m *Model) Validate(g Group) Validation {
	res := Validation{Valid: true, Errors: map[Field]string{}}
	if g == GroupLocation && strings.TrimSpace(m.v.State) == "" {
		res.Valid = false
		res.Errors[FieldState] = "state is required"
	}
	return res
}

func (m *Model) number(f Field) *float64 {
	switch f {
	case FieldLandSizeAcres:
		return &m.v.LandSizeAcres
	case FieldN:
		return &m.v.N
	case FieldP:
		return &m.v.P
	case FieldK:
		return &m.v.K
	case FieldPH:
		return &m.v.PH
	case FieldTemperature:
		return &m.v.Temperature
	case FieldHumidity:
		return &m.v.Humidity
	case FieldRainfall:
		return &m.v.Rainfall
	}
	return nil
}

func (m *Model) text(f Field) *string {
	switch f {
	case FieldState:
		return &m.v.State
	case FieldDistrict:
		return &m.v.District
	case FieldIrrigationType:
		return &m.v.IrrigationType
	case FieldPreviousCrop:
		return &m.v.PreviousCrop
	case FieldSoilType:
		return &m.v.SoilType
	case FieldSeason:
		return &m.v.Season
	}
	return nil
}
