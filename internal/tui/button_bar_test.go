package tui

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestButtonBar_Render(t *testing.T) {
	bar := NewButtonBar(CreateBackNextButtons("Back", false, true, "Next"))
	bar.SetWidth(40)
	out := plain(bar.Render())
	require.Contains(t, out, "← Back")
	require.Contains(t, out, "Next")
}

func TestButtonBar_Empty(t *testing.T) {
	require.Empty(t, NewButtonBar(nil).Render())
}

func TestCreateBackNextButtons(t *testing.T) {
	buttons := CreateBackNextButtons("Back", true, false, "Go")
	require.Len(t, buttons, 2)
	require.Equal(t, ButtonNormal, buttons[0].State)
	require.Equal(t, ButtonDisabled, buttons[1].State)

	buttons = CreateBackNextButtons("Back", false, true, "Go")
	require.Equal(t, ButtonDisabled, buttons[0].State)
	require.Equal(t, ButtonFocused, buttons[1].State)
}

func TestRenderHintBar(t *testing.T) {
	require.Equal(t, "↑↓ navigate • enter next", plain(renderHintBar("↑↓", "navigate", "enter", "next")))
	require.Empty(t, renderHintBar("odd"))
	require.Empty(t, renderHintBar())
}
