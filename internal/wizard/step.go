package wizard

import "github.com/mark3labs/smartagri/internal/farm"

// Step is a wizard screen. Steps only move forward one at a time, back one
// at a time, or all the way to StepLocation on reset.
type Step int

const (
	StepLocation Step = iota
	StepSoil
	StepWeather
	StepResults
)

// Steps lists every step in display order.
var Steps = []Step{StepLocation, StepSoil, StepWeather, StepResults}

func (s Step) String() string {
	switch s {
	case StepLocation:
		return "location"
	case StepSoil:
		return "soil"
	case StepWeather:
		return "weather"
	case StepResults:
		return "results"
	default:
		return "unknown"
	}
}

// LabelKey is the translation key for the step title.
func (s Step) LabelKey() string {
	return "step_" + s.String()
}

// Group returns the field group edited on this step. Results has none.
func (s Step) Group() (farm.Group, bool) {
	switch s {
	case StepLocation:
		return farm.GroupLocation, true
	case StepSoil:
		return farm.GroupSoil, true
	case StepWeather:
		return farm.GroupWeather, true
	default:
		return 0, false
	}
}
