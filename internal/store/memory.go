package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Memory is an in-process Store for tests and storage-less deployments.
type Memory struct {
	mu      sync.Mutex
	records []*Record
	byID    map[string]*Record
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{byID: make(map[string]*Record)}
}

// Save stores a copy of the record.
func (m *Memory) Save(ctx context.Context, rec *Record) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	stored := *rec
	m.records = append(m.records, &stored)
	m.byID[stored.ID] = &stored
	return stored.ID, nil
}

// Get returns the record with the given id.
func (m *Memory) Get(ctx context.Context, id string) (*Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := *rec
	return &out, nil
}

// Search returns matching records, newest first.
func (m *Memory) Search(ctx context.Context, q Query) ([]*Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []*Record
	for i := len(m.records) - 1; i >= 0; i-- {
		rec := m.records[i]
		if q.VideoID != "" && rec.VideoID != q.VideoID {
			continue
		}
		if q.Kind != "" && rec.Kind != q.Kind {
			continue
		}
		if q.Method != "" && rec.Method != q.Method {
			continue
		}
		copied := *rec
		out = append(out, &copied)
		if q.Limit > 0 && len(out) >= q.Limit {
			break
		}
	}
	return out, nil
}

// Close is a no-op.
func (m *Memory) Close(ctx context.Context) error {
	return nil
}
