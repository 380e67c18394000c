package tui

import (
	"github.com/mark3labs/smartagri/internal/recommend"
	"github.com/mark3labs/smartagri/internal/wizard"
)

// SubmissionDoneMsg carries the outcome of a submission started from the
// weather step back to the event loop.
type SubmissionDoneMsg struct {
	Submission *wizard.Submission
	Result     *recommend.Result
	Err        error
}

// ResultSavedMsg reports the outcome of the OnResult callback.
type ResultSavedMsg struct {
	Err error
}
