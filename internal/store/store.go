// Package store persists fetch results as keyed records. The fetch subsystem
// only ever produces records; nothing on the fetch path reads them back.
package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by Get when no record has the given id.
var ErrNotFound = errors.New("record not found")

// Record kinds, one per tool.
const (
	KindTranscript   = "transcript"
	KindMetadata     = "metadata"
	KindAvailability = "availability"
)

// Record is one stored fetch result.
type Record struct {
	ID        string    `bson:"_id" json:"id"`
	VideoID   string    `bson:"video_id" json:"video_id"`
	Kind      string    `bson:"kind" json:"kind"`
	Method    string    `bson:"method,omitempty" json:"method,omitempty"`
	Language  string    `bson:"language,omitempty" json:"language,omitempty"`
	Success   bool      `bson:"success" json:"success"`
	Payload   string    `bson:"payload" json:"payload"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// Query filters Search results. Zero fields match everything.
type Query struct {
	VideoID string
	Kind    string
	Method  string
	Limit   int
}

// Store is the persistence boundary for fetch records.
type Store interface {
	// Save stores a record and returns its id, assigning one if unset.
	Save(ctx context.Context, rec *Record) (string, error)

	// Get returns the record with the given id, or ErrNotFound.
	Get(ctx context.Context, id string) (*Record, error)

	// Search returns records matching the query, newest first.
	Search(ctx context.Context, q Query) ([]*Record, error)

	// Close releases the store's resources.
	Close(ctx context.Context) error
}
