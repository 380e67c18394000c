// Package farm holds the wizard's input model: every farm, soil, and weather
// parameter with its range, options, and defaults.
package farm

import "math"

// Field identifies a single wizard input. Values match the request JSON keys.
type Field string

const (
	FieldState          Field = "state"
	FieldDistrict       Field = "district"
	FieldLandSizeAcres  Field = "land_size_acres"
	FieldIrrigationType Field = "irrigation_type"
	FieldPreviousCrop   Field = "previous_crop"

	FieldN        Field = "N"
	FieldP        Field = "P"
	FieldK        Field = "K"
	FieldPH       Field = "ph"
	FieldSoilType Field = "soil_type"

	FieldTemperature Field = "temperature"
	FieldHumidity    Field = "humidity"
	FieldRainfall    Field = "rainfall"
	FieldSeason      Field = "season"
)

// Kind is the value type of a field.
type Kind int

const (
	KindText   Kind = iota // Free text
	KindEnum               // One of FieldSpec.Options
	KindNumber             // float64 within [Min, Max]
)

// Group is the wizard step a field is edited on.
type Group int

const (
	GroupLocation Group = iota
	GroupSoil
	GroupWeather
)

// Irrigation types.
const (
	IrrigationRainfed  = "Rainfed"
	IrrigationCanal    = "Canal"
	IrrigationBorewell = "Borewell"
	IrrigationDrip     = "Drip"
)

// Seasons.
const (
	SeasonKharif = "Kharif"
	SeasonRabi   = "Rabi"
	SeasonSummer = "Summer"
)

// States lists the administrative regions the recommendation service knows about.
var States = []string{
	"Punjab", "Uttar Pradesh", "Madhya Pradesh", "Maharashtra", "Rajasthan",
	"Karnataka", "Tamil Nadu", "Gujarat", "West Bengal", "Haryana",
	"Kerala", "Bihar", "Andhra Pradesh", "Telangana", "Odisha",
}

// IrrigationTypes lists the accepted irrigation_type values.
var IrrigationTypes = []string{IrrigationRainfed, IrrigationCanal, IrrigationBorewell, IrrigationDrip}

// SoilTypes lists the accepted soil_type values.
var SoilTypes = []string{"Loamy", "Clayey", "Sandy", "Red", "Black", "Alluvial", "Laterite"}

// Seasons lists the accepted season values.
var Seasons = []string{SeasonKharif, SeasonRabi, SeasonSummer}

// FieldSpec describes how a field is validated and edited.
type FieldSpec struct {
	Field    Field
	Kind     Kind
	Group    Group
	LabelKey string   // Translation key for the field label
	Unit     string   // Display unit for numeric fields
	Min      float64  // Numeric lower bound (inclusive)
	Max      float64  // Numeric upper bound (inclusive)
	Step     float64  // Increment used by range controls
	Options  []string // Accepted values for enum fields
	Default  any
}

var specs = []FieldSpec{
	{Field: FieldState, Kind: KindEnum, Group: GroupLocation, LabelKey: "state", Options: States, Default: ""},
	{Field: FieldDistrict, Kind: KindText, Group: GroupLocation, LabelKey: "district", Default: ""},
	{Field: FieldLandSizeAcres, Kind: KindNumber, Group: GroupLocation, LabelKey: "land_size", Unit: "acres", Min: 0.5, Max: 50, Step: 0.5, Default: 2.0},
	{Field: FieldIrrigationType, Kind: KindEnum, Group: GroupLocation, LabelKey: "irrigation_type", Options: IrrigationTypes, Default: IrrigationRainfed},
	{Field: FieldPreviousCrop, Kind: KindText, Group: GroupLocation, LabelKey: "previous_crop", Default: ""},

	{Field: FieldN, Kind: KindNumber, Group: GroupSoil, LabelKey: "nitrogen", Unit: "kg/ha", Min: 0, Max: 150, Step: 1, Default: 60.0},
	{Field: FieldP, Kind: KindNumber, Group: GroupSoil, LabelKey: "phosphorus", Unit: "kg/ha", Min: 0, Max: 150, Step: 1, Default: 40.0},
	{Field: FieldK, Kind: KindNumber, Group: GroupSoil, LabelKey: "potassium", Unit: "kg/ha", Min: 0, Max: 250, Step: 1, Default: 40.0},
	{Field: FieldPH, Kind: KindNumber, Group: GroupSoil, LabelKey: "soil_ph", Min: 3.5, Max: 10, Step: 0.1, Default: 6.5},
	{Field: FieldSoilType, Kind: KindEnum, Group: GroupSoil, LabelKey: "soil_type", Options: SoilTypes, Default: "Loamy"},

	{Field: FieldSeason, Kind: KindEnum, Group: GroupWeather, LabelKey: "season", Options: Seasons, Default: SeasonKharif},
	{Field: FieldTemperature, Kind: KindNumber, Group: GroupWeather, LabelKey: "temperature", Unit: "°C", Min: 5, Max: 45, Step: 1, Default: 28.0},
	{Field: FieldHumidity, Kind: KindNumber, Group: GroupWeather, LabelKey: "humidity", Unit: "%", Min: 5, Max: 100, Step: 1, Default: 70.0},
	{Field: FieldRainfall, Kind: KindNumber, Group: GroupWeather, LabelKey: "avg_rainfall", Unit: "mm", Min: 0, Max: 400, Step: 1, Default: 150.0},
}

var specIndex = func() map[Field]FieldSpec {
	m := make(map[Field]FieldSpec, len(specs))
	for _, s := range specs {
		m[s.Field] = s
	}
	return m
}()

// Spec returns the metadata for a field.
func Spec(f Field) (FieldSpec, bool) {
	s, ok := specIndex[f]
	return s, ok
}

// Fields returns every field in display order.
func Fields() []Field {
	out := make([]Field, len(specs))
	for i, s := range specs {
		out[i] = s.Field
	}
	return out
}

// FieldsIn returns the fields edited on the given step, in display order.
func FieldsIn(g Group) []Field {
	var out []Field
	for _, s := range specs {
		if s.Group == g {
			out = append(out, s.Field)
		}
	}
	return out
}

// InRange reports whether v lies within the field's bounds.
func (s FieldSpec) InRange(v float64) bool {
	return !math.IsNaN(v) && v >= s.Min && v <= s.Max
}

// HasOption reports whether v is an accepted enum value.
func (s FieldSpec) HasOption(v string) bool {
	for _, o := range s.Options {
		if o == v {
			return true
		}
	}
	return false
}

// Clamp bounds v to the field's range.
func (s FieldSpec) Clamp(v float64) float64 {
	return math.Max(s.Min, math.Min(s.Max, v))
}

// Nudge moves v by n steps and clamps the result. The result is rounded to the
// step grid so repeated 0.1 increments do not drift.
func (s FieldSpec) Nudge(v float64, n int) float64 {
	next := v + float64(n)*s.Step
	if s.Step > 0 {
		next = math.Round(next/s.Step) * s.Step
		// Round away float noise such as 6.6000000000000005
		next = math.Round(next*1e6) / 1e6
	}
	return s.Clamp(next)
}
