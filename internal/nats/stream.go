package nats

import (
	"context"
	"strings"
	"time"

	"github.com/gosimple/slug"
	"github.com/nats-io/nats.go/jetstream"
)

const (
	// StreamName is the JetStream stream holding saved recommendations.
	StreamName = "smartagri_history"

	subjectRoot = "smartagri.history"

	// Retention keeps roughly two cropping years of history.
	Retention = 2 * 365 * 24 * time.Hour
)

// SubjectFor returns the subject a recommendation for state and season is
// stored under, e.g. "smartagri.history.uttar-pradesh.kharif". Empty parts
// become "unknown" so the subject always has four tokens.
func SubjectFor(state, season string) string {
	return subjectRoot + "." + token(state) + "." + token(season)
}

// SubjectFilter matches every record, or only one state when state is set.
func SubjectFilter(state string) string {
	if strings.TrimSpace(state) == "" {
		return subjectRoot + ".>"
	}
	return subjectRoot + "." + token(state) + ".*"
}

// token turns a free-text value into a valid subject token. Slugs never
// contain dots, spaces, or wildcards.
func token(s string) string {
	t := slug.Make(s)
	if t == "" {
		return "unknown"
	}
	return t
}

// SetupStream creates or updates the history stream.
func SetupStream(ctx context.Context, js jetstream.JetStream) (jetstream.Stream, error) {
	return js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:        StreamName,
		Description: "Saved crop recommendations",
		Subjects:    []string{subjectRoot + ".>"},
		Storage:     jetstream.FileStorage,
		MaxAge:      Retention,
	})
}
