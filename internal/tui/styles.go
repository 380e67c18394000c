package tui

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/mark3labs/smartagri/internal/results"
	"github.com/mark3labs/smartagri/internal/tui/theme"
)

// renderHintBar renders key-description pairs.
// Example: renderHintBar("↑↓", "navigate", "enter", "next")
// Returns: "↑↓ navigate • enter next"
func renderHintBar(pairs ...string) string {
	if len(pairs) == 0 || len(pairs)%2 != 0 {
		return ""
	}

	s := theme.Current().S()
	var b strings.Builder
	for i := 0; i < len(pairs); i += 2 {
		if i > 0 {
			b.WriteString(" " + s.HintSeparator.Render("•") + " ")
		}
		b.WriteString(s.HintKey.Render(pairs[i]) + " " + s.HintDesc.Render(pairs[i+1]))
	}
	return b.String()
}

// bandStyle colors text by risk band.
func bandStyle(b results.Band) lipgloss.Style {
	t := theme.Current()
	c := t.Warning
	switch b {
	case results.BandLow:
		c = t.Success
	case results.BandHigh:
		c = t.Error
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(c)).Bold(true)
}
