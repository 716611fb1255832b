package history

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/cyzmcl/Lunarian/pkg/errors"
	"github.com/cyzmcl/Lunarian/pkg/hero"
)

func TestNewRecord(t *testing.T) {
	a := NewRecord("req-1")
	b := NewRecord("req-1")

	if a.ID == "" || a.ID == b.ID {
		t.Errorf("IDs should be unique and non-empty: %q %q", a.ID, b.ID)
	}
	if a.RequestID != "req-1" {
		t.Errorf("RequestID = %q", a.RequestID)
	}
	if a.CreatedAt.IsZero() {
		t.Error("CreatedAt not set")
	}
}

func TestRecordFailed(t *testing.T) {
	rec := Record{Formats: []FormatEntry{
		{ID: "a"},
		{ID: "b", Error: "boom"},
		{ID: "c", Error: "bang"},
	}}
	if got := rec.Failed(); got != 2 {
		t.Errorf("Failed() = %d, want 2", got)
	}
}

func TestRecordJSON(t *testing.T) {
	rec := NewRecord("r")
	rec.Hero = &hero.BBox{X1: 1, Y1: 2, X2: 3, Y2: 4}
	rec.Formats = []FormatEntry{{ID: "story", Width: 1080, Height: 1920, Cached: true}}

	data, err := json.Marshal(rec)
	if err != nil {
		t.Fatal(err)
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatal(err)
	}
	for _, k := range []string{"id", "requestId", "createdAt", "duration", "hero", "formats"} {
		if _, ok := m[k]; !ok {
			t.Errorf("missing key %q in %s", k, data)
		}
	}
}

func TestNullStore(t *testing.T) {
	ctx := context.Background()
	var s Store = NewNullStore()

	if err := s.Save(ctx, NewRecord("x")); err != nil {
		t.Errorf("Save: %v", err)
	}
	recs, err := s.Recent(ctx, 10)
	if err != nil || len(recs) != 0 {
		t.Errorf("Recent() = %v, %v", recs, err)
	}
	if err := s.Close(ctx); err != nil {
		t.Errorf("Close: %v", err)
	}
}

func TestNewMongoStoreValidation(t *testing.T) {
	tests := []struct {
		name string
		cfg  MongoConfig
	}{
		{"no uri", MongoConfig{Database: "d", Collection: "c"}},
		{"no database", MongoConfig{URI: "mongodb://localhost", Collection: "c"}},
		{"no collection", MongoConfig{URI: "mongodb://localhost", Database: "d"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewMongoStore(context.Background(), tt.cfg)
			if !errors.Is(err, errors.ErrCodeStore) {
				t.Errorf("error = %v, want %s", err, errors.ErrCodeStore)
			}
		})
	}
}

func TestNewMongoStoreBadURI(t *testing.T) {
	_, err := NewMongoStore(context.Background(), MongoConfig{
		URI:        "not-a-mongo-uri",
		Database:   "d",
		Collection: "c",
	})
	if !errors.Is(err, errors.ErrCodeStore) {
		t.Errorf("error = %v, want %s", err, errors.ErrCodeStore)
	}
}
