package i18n

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoad_English(t *testing.T) {
	tr, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "en", tr.Language())
	require.Equal(t, "Location", tr.T("step_location"))
	require.Equal(t, "Yield", tr.T("yield_label"))
}

func TestLoad_FallsBackToEnglish(t *testing.T) {
	tr, err := Load("HI")
	require.NoError(t, err)
	require.Equal(t, "hi", tr.Language())
	require.Equal(t, "स्थान", tr.T("step_location"))

	// Missing in hi, present in en
	require.Equal(t, "Why this crop", tr.T("why_this_crop"))

	// Missing everywhere
	require.Equal(t, "no_such_key", tr.T("no_such_key"))
}

func TestLoad_Unknown(t *testing.T) {
	_, err := Load("xx")
	require.Error(t, err)
}

func TestLanguages(t *testing.T) {
	require.Equal(t, []string{"en", "hi"}, Languages())
}

func TestOr(t *testing.T) {
	require.Equal(t, "fallback", Or(nil, "risk", "fallback"))
	require.Equal(t, "Risk", Or(MustLoad("en"), "risk", "fallback"))
	require.Equal(t, "fallback", Or(MustLoad("en"), "missing_key", "fallback"))
}
