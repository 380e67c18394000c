package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorder_Observe(t *testing.T) {
	p := NewPrometheusRecorder()
	p.ObserveSubmission("recommend", OutcomeSuccess, 120*time.Millisecond)
	p.ObserveSubmission("recommend", OutcomeSuccess, 80*time.Millisecond)
	p.ObserveSubmission("recommend", OutcomeTimeout, 30*time.Second)

	families, err := p.Gatherer().Gather()
	require.NoError(t, err)

	var total float64
	for _, mf := range families {
		if mf.GetName() != "smartagri_submissions_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			total += m.GetCounter().GetValue()
		}
	}
	require.Equal(t, 3.0, total)
}

func TestPrometheusRecorder_WriteTextfile(t *testing.T) {
	p := NewPrometheusRecorder()
	p.ObserveSubmission("recommend_quick", OutcomeNetwork, time.Second)

	path := filepath.Join(t.TempDir(), "nested", "smartagri.prom")
	require.NoError(t, p.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)
	require.True(t, strings.Contains(out, `smartagri_submissions_total{endpoint="recommend_quick",outcome="network_error"} 1`), out)
}

func TestNop(t *testing.T) {
	var r Recorder = Nop{}
	r.ObserveSubmission("recommend", OutcomeSuccess, time.Second)
}
