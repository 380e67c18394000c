package theme

import "charm.land/lipgloss/v2"

// Styles contains all pre-built lipgloss styles for the TUI.
type Styles struct {
	Title          lipgloss.Style
	Subtitle       lipgloss.Style
	Label          lipgloss.Style
	LabelFocused   lipgloss.Style
	Value          lipgloss.Style
	Muted          lipgloss.Style
	Error          lipgloss.Style
	ModalContainer lipgloss.Style
	StepActive     lipgloss.Style
	StepDone       lipgloss.Style
	StepPending    lipgloss.Style
	HintKey        lipgloss.Style
	HintDesc       lipgloss.Style
	HintSeparator  lipgloss.Style
}

// buildStyles constructs the pre-built styles from theme colors.
func (t *Theme) buildStyles() *Styles {
	return &Styles{
		Title: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Primary)).
			Bold(true).
			Align(lipgloss.Center),
		Subtitle: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.FgSubtle)).
			Align(lipgloss.Center),
		Label: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.FgSubtle)),
		LabelFocused: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Tertiary)).
			Bold(true),
		Value: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.FgBase)),
		Muted: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.FgMuted)),
		Error: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Error)).
			Bold(true),
		ModalContainer: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(t.Tertiary)).
			Background(lipgloss.Color(t.BgBase)).
			Padding(1, 2),
		StepActive: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.BgBase)).
			Background(lipgloss.Color(t.Primary)).
			Bold(true).
			Padding(0, 1),
		StepDone: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Success)).
			Padding(0, 1),
		StepPending: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.FgMuted)).
			Padding(0, 1),
		HintKey: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.FgSubtle)).
			Bold(true),
		HintDesc: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.FgMuted)),
		HintSeparator: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.BgSurface1)),
	}
}
