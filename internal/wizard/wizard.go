// Package wizard drives the recommendation flow: location, soil, and weather
// steps followed by a single submission and the results screen.
//
// A Wizard is owned by one event loop and is not safe for concurrent use.
// Callers that run the network call elsewhere use Begin and Finish so the
// outcome is applied back on the owning goroutine.
package wizard

import (
	"context"
	"errors"

	"github.com/mark3labs/smartagri/internal/farm"
	"github.com/mark3labs/smartagri/internal/i18n"
	"github.com/mark3labs/smartagri/internal/logger"
	"github.com/mark3labs/smartagri/internal/recommend"
)

// Submitter sends a request to the recommendation service.
// *recommend.Client satisfies it.
type Submitter interface {
	Submit(ctx context.Context, req recommend.Request) (*recommend.Result, error)
}

// SubmitterFunc adapts a function to Submitter.
type SubmitterFunc func(ctx context.Context, req recommend.Request) (*recommend.Result, error)

// Submit calls f.
func (f SubmitterFunc) Submit(ctx context.Context, req recommend.Request) (*recommend.Result, error) {
	return f(ctx, req)
}

// Submission is a pending request started by Begin.
type Submission struct {
	Request recommend.Request
	gen     uint64
}

// Option configures a Wizard.
type Option func(*Wizard)

// WithTranslator sets the translation table used for error messages.
func WithTranslator(tr i18n.Translator) Option {
	return func(w *Wizard) { w.tr = tr }
}

// WithFields starts the wizard from an existing field model instead of defaults.
// The wizard takes ownership of m.
func WithFields(m *farm.Model) Option {
	return func(w *Wizard) {
		if m != nil {
			w.fields = m
		}
	}
}

// Wizard is the step state machine.
type Wizard struct {
	submitter Submitter
	tr        i18n.Translator
	fields    *farm.Model

	step     Step
	loading  bool
	gen      uint64
	disposed bool

	err    error
	result *recommend.Result
}

// New creates a wizard at StepLocation with default field values.
func New(submitter Submitter, opts ...Option) *Wizard {
	w := &Wizard{
		submitter: submitter,
		fields:    farm.New(),
		step:      StepLocation,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Step returns the current step.
func (w *Wizard) Step() Step { return w.step }

// Loading reports whether a submission is in flight.
func (w *Wizard) Loading() bool { return w.loading }

// Err returns the last submission error, cleared on the next attempt.
func (w *Wizard) Err() error { return w.err }

// Result returns the displayed result, or nil before a successful submission.
func (w *Wizard) Result() *recommend.Result { return w.result }

// Fields returns a copy of the current field values.
func (w *Wizard) Fields() farm.Values { return w.fields.Snapshot() }

// Get returns a single field value.
func (w *Wizard) Get(f farm.Field) (any, error) { return w.fields.Get(f) }

// Set writes a field. Writes are refused while a submission is in flight so
// the pending request always matches what is on screen.
func (w *Wizard) Set(f farm.Field, value any) error {
	if w.loading {
		return ErrSubmissionInFlight
	}
	return w.fields.Set(f, value)
}

// Validate checks the fields of the current step.
func (w *Wizard) Validate() farm.Validation {
	g, ok := w.step.Group()
	if !ok {
		return farm.Validation{Valid: true, Errors: map[farm.Field]string{}}
	}
	return w.fields.Validate(g)
}

// Next advances one step. From the weather step it submits synchronously and
// moves to results only on success. At results it does nothing.
func (w *Wizard) Next(ctx context.Context) error {
	if w.disposed {
		return ErrDisposed
	}
	if w.loading {
		return ErrSubmissionInFlight
	}

	switch w.step {
	case StepLocation, StepSoil:
		if v := w.Validate(); !v.Valid {
			return &ValidationFailedError{Step: w.step, Errors: v.Errors}
		}
		w.step++
		return nil
	case StepWeather:
		sub, err := w.Begin()
		if err != nil {
			return err
		}
		res, err := w.submitter.Submit(ctx, sub.Request)
		w.Finish(sub, res, err)
		return w.err
	default:
		return nil
	}
}

// Begin builds the request from the current fields and enters the loading
// state. The caller must perform exactly one submission and hand its outcome
// to Finish.
func (w *Wizard) Begin() (*Submission, error) {
	switch {
	case w.disposed:
		return nil, ErrDisposed
	case w.loading:
		return nil, ErrSubmissionInFlight
	case w.step != StepWeather:
		return nil, ErrNotAtWeather
	}

	w.gen++
	w.loading = true
	w.err = nil

	logger.Debug("wizard: submission %d started", w.gen)
	return &Submission{Request: recommend.Build(w.fields.Snapshot()), gen: w.gen}, nil
}

// Finish applies the outcome of sub. It returns false, changing nothing, when
// the wizard was reset or disposed after sub began.
func (w *Wizard) Finish(sub *Submission, res *recommend.Result, err error) bool {
	if sub == nil || w.disposed || sub.gen != w.gen || !w.loading {
		logger.Debug("wizard: discarding stale submission outcome")
		return false
	}
	w.loading = false

	if err == nil && res == nil {
		err = &recommend.NetworkError{Err: errors.New("empty response")}
	}
	if err != nil {
		w.err = err
		logger.Info("wizard: submission %d failed: %v", sub.gen, err)
		return true
	}

	w.result = res
	w.step = StepResults
	logger.Info("wizard: submission %d returned %d crops", sub.gen, len(res.Crops))
	return true
}

// Back moves one step back. It does nothing at the first step and at results,
// which is left only through Reset.
func (w *Wizard) Back() error {
	if w.loading {
		return ErrSubmissionInFlight
	}
	if w.step == StepLocation || w.step == StepResults {
		return nil
	}
	w.step--
	w.err = nil
	return nil
}

// Reset restores default fields, drops the result and any error, and returns
// to the first step. An in-flight submission becomes stale.
func (w *Wizard) Reset() {
	w.fields.Reset()
	w.result = nil
	w.err = nil
	w.loading = false
	w.gen++
	w.step = StepLocation
}

// Dispose marks the wizard as torn down. Outcomes arriving afterwards are
// discarded.
func (w *Wizard) Dispose() {
	w.disposed = true
	w.loading = false
	w.gen++
}

// Disposed reports whether Dispose was called.
func (w *Wizard) Disposed() bool { return w.disposed }

// ErrorMessage is the text shown for the last submission error: the service's
// own message for validation failures, a generic message otherwise.
func (w *Wizard) ErrorMessage() string {
	if w.err == nil {
		return ""
	}
	var ve *recommend.ValidationError
	if errors.As(w.err, &ve) && ve.Message != "" {
		return ve.Message
	}
	return i18n.Or(w.tr, "recommendation_failed", "Recommendation failed")
}
