// Package metrics records recommendation submission outcomes with Prometheus.
package metrics

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Submission outcomes.
const (
	OutcomeSuccess    = "success"
	OutcomeValidation = "validation_error"
	OutcomeNetwork    = "network_error"
	OutcomeTimeout    = "timeout"
)

// Recorder observes recommendation service calls.
type Recorder interface {
	ObserveSubmission(endpoint, outcome string, duration time.Duration)
}

// Nop discards every observation.
type Nop struct{}

// ObserveSubmission implements Recorder.
func (Nop) ObserveSubmission(string, string, time.Duration) {}

// PrometheusRecorder implements Recorder on a private registry so that a CLI
// run can export its counters to a node_exporter textfile.
type PrometheusRecorder struct {
	registry           *prometheus.Registry
	submissionsTotal   *prometheus.CounterVec
	submissionDuration *prometheus.HistogramVec
}

// NewPrometheusRecorder creates a recorder with its own registry.
func NewPrometheusRecorder() *PrometheusRecorder {
	p := &PrometheusRecorder{
		registry: prometheus.NewRegistry(),
		submissionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "smartagri_submissions_total",
				Help: "Total number of recommendation submissions by endpoint and outcome",
			},
			[]string{"endpoint", "outcome"},
		),
		submissionDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "smartagri_submission_duration_seconds",
				Help:    "Duration of recommendation submissions in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"endpoint"},
		),
	}
	p.registry.MustRegister(p.submissionsTotal, p.submissionDuration)
	return p
}

// ObserveSubmission records one completed submission.
func (p *PrometheusRecorder) ObserveSubmission(endpoint, outcome string, duration time.Duration) {
	p.submissionsTotal.WithLabelValues(endpoint, outcome).Inc()
	p.submissionDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

// Gatherer exposes the underlying registry.
func (p *PrometheusRecorder) Gatherer() prometheus.Gatherer {
	return p.registry
}

// WriteTextfile writes the current metrics in text exposition format.
func (p *PrometheusRecorder) WriteTextfile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating metrics directory: %w", err)
	}
	if err := prometheus.WriteToTextfile(path, p.registry); err != nil {
		return fmt.Errorf("writing metrics textfile: %w", err)
	}
	return nil
}
