// Package history keeps every successful recommendation in the embedded
// JetStream log so it can be listed, shown again, and compared later.
package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/aymanbagabas/go-udiff"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/rs/xid"
	"gopkg.in/yaml.v3"

	"github.com/mark3labs/smartagri/internal/logger"
	"github.com/mark3labs/smartagri/internal/nats"
	"github.com/mark3labs/smartagri/internal/recommend"
)

var (
	// ErrNotFound is returned when no record matches an id.
	ErrNotFound = errors.New("history record not found")

	// ErrAmbiguousID is returned when an id prefix matches several records.
	ErrAmbiguousID = errors.New("history id prefix is ambiguous")
)

// Record is one saved recommendation with the inputs that produced it.
type Record struct {
	ID        string            `json:"id"`
	CreatedAt time.Time         `json:"created_at"`
	Endpoint  string            `json:"endpoint"`
	Request   recommend.Request `json:"request"`
	Result    recommend.Result  `json:"result"`
}

// TopCrop returns the first ranked crop name, or "" when there is none.
func (r Record) TopCrop() string {
	if len(r.Result.Crops) == 0 {
		return ""
	}
	return r.Result.Crops[0].Name
}

// Store reads and writes history records.
type Store struct {
	js     jetstream.JetStream
	stream jetstream.Stream
	now    func() time.Time
}

// NewStore creates a store over the history stream.
func NewStore(js jetstream.JetStream, stream jetstream.Stream) *Store {
	return &Store{js: js, stream: stream, now: time.Now}
}

// Save appends a record for a successful submission.
func (s *Store) Save(ctx context.Context, endpoint string, req recommend.Request, res *recommend.Result) (*Record, error) {
	if res == nil {
		return nil, errors.New("cannot save an empty result")
	}

	rec := &Record{
		ID:        xid.New().String(),
		CreatedAt: s.now().UTC(),
		Endpoint:  endpoint,
		Request:   req,
		Result:    *res,
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal history record: %w", err)
	}

	subject := nats.SubjectFor(req.State, req.Weather.Season)
	ack, err := s.js.Publish(ctx, subject, data, jetstream.WithMsgID(rec.ID))
	if err != nil {
		return nil, fmt.Errorf("failed to publish history record: %w", err)
	}

	logger.Debug("Saved history record %s to %s (seq=%d)", rec.ID, subject, ack.Sequence)
	return rec, nil
}

// List returns records newest first. A non-empty state restricts the list to
// that state; limit <= 0 means no limit.
func (s *Store) List(ctx context.Context, state string, limit int) ([]Record, error) {
	consumer, err := s.stream.CreateOrUpdateConsumer(ctx, jetstream.ConsumerConfig{
		FilterSubject:     nats.SubjectFilter(state),
		DeliverPolicy:     jetstream.DeliverAllPolicy,
		AckPolicy:         jetstream.AckExplicitPolicy,
		InactiveThreshold: time.Minute,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create history consumer: %w", err)
	}

	var records []Record
	const batchSize = 500
	for {
		msgs, err := consumer.FetchNoWait(batchSize)
		if err != nil {
			break
		}

		count := 0
		for msg := range msgs.Messages() {
			count++
			var rec Record
			if err := json.Unmarshal(msg.Data(), &rec); err != nil {
				meta, _ := msg.Metadata()
				if meta != nil {
					logger.Warn("Skipping malformed history record (seq=%d): %v", meta.Sequence.Stream, err)
				}
				_ = msg.Ack()
				continue
			}
			records = append(records, rec)
			_ = msg.Ack()
		}

		if count < batchSize {
			break
		}
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}

// Get finds a record by id or unique id prefix.
func (s *Store) Get(ctx context.Context, id string) (*Record, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrNotFound
	}

	records, err := s.List(ctx, "", 0)
	if err != nil {
		return nil, err
	}

	var match *Record
	for i := range records {
		r := &records[i]
		if r.ID == id {
			return r, nil
		}
		if strings.HasPrefix(r.ID, id) {
			if match != nil {
				return nil, fmt.Errorf("%w: %s", ErrAmbiguousID, id)
			}
			match = r
		}
	}
	if match == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return match, nil
}

// Diff returns a unified diff of the inputs of two records, or "" when the
// inputs are identical.
func Diff(a, b *Record) (string, error) {
	left, err := yaml.Marshal(a.Request)
	if err != nil {
		return "", fmt.Errorf("marshaling %s: %w", a.ID, err)
	}
	right, err := yaml.Marshal(b.Request)
	if err != nil {
		return "", fmt.Errorf("marshaling %s: %w", b.ID, err)
	}
	return udiff.Unified(a.ID, b.ID, string(left), string(right)), nil
}
