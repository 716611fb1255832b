// Package history records completed generation requests.
//
// A [Store] persists one [Record] per request. [MongoStore] keeps records in a
// MongoDB collection; [NullStore] discards them and is used when no database
// is configured.
package history

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/cyzmcl/Lunarian/pkg/hero"
)

// Store persists generation records.
type Store interface {
	Save(ctx context.Context, rec Record) error
	// Recent returns up to n records, newest first.
	Recent(ctx context.Context, n int) ([]Record, error)
	Close(ctx context.Context) error
}

// Record describes one generation request.
type Record struct {
	ID        string        `json:"id" bson:"_id"`
	RequestID string        `json:"requestId" bson:"request_id"`
	CreatedAt time.Time     `json:"createdAt" bson:"created_at"`
	Duration  time.Duration `json:"duration" bson:"duration_ns"`
	Hero      *hero.BBox    `json:"hero,omitempty" bson:"hero,omitempty"`
	Formats   []FormatEntry `json:"formats" bson:"formats"`
}

// FormatEntry is the outcome of one target format.
type FormatEntry struct {
	ID       string        `json:"id" bson:"id"`
	Width    int           `json:"width" bson:"width"`
	Height   int           `json:"height" bson:"height"`
	Duration time.Duration `json:"duration" bson:"duration_ns"`
	Cached   bool          `json:"cached" bson:"cached"`
	Error    string        `json:"error,omitempty" bson:"error,omitempty"`
}

// NewRecord returns a record with a fresh ID and the current time.
func NewRecord(requestID string) Record {
	return Record{
		ID:        uuid.NewString(),
		RequestID: requestID,
		CreatedAt: time.Now().UTC(),
	}
}

// Failed counts entries with an error.
func (r Record) Failed() int {
	n := 0
	for _, f := range r.Formats {
		if f.Error != "" {
			n++
		}
	}
	return n
}

// NullStore discards records.
type NullStore struct{}

func NewNullStore() *NullStore { return &NullStore{} }

func (NullStore) Save(context.Context, Record) error { return nil }

func (NullStore) Recent(context.Context, int) ([]Record, error) { return nil, nil }

func (NullStore) Close(context.Context) error { return nil }
