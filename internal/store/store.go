// Package store defines the record collection boundary. The pipeline
// never reaches for a global collection; a Store is constructed
// explicitly and injected into the importer.
package store

import (
	"context"
	"sync"

	"github.com/arpithpm/expense-manager-sub001/internal/models"
)

// Store is the persistence collaborator for expense records. It owns
// storage format and indexing; the pipeline only lists and appends.
type Store interface {
	// List returns a snapshot of all stored records.
	List(ctx context.Context) ([]models.ExpenseRecord, error)
	// Add persists the given records.
	Add(ctx context.Context, records ...models.ExpenseRecord) error
}

// MemoryStore is an in-memory Store. Reads may happen concurrently;
// writes are mutex-guarded.
type MemoryStore struct {
	mu      sync.RWMutex
	records []models.ExpenseRecord
}

// NewMemoryStore creates a store optionally seeded with records.
func NewMemoryStore(seed ...models.ExpenseRecord) *MemoryStore {
	s := &MemoryStore{}
	s.records = append(s.records, seed...)
	return s
}

// List returns a copy of the stored records.
func (s *MemoryStore) List(_ context.Context) ([]models.ExpenseRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.ExpenseRecord, len(s.records))
	copy(out, s.records)
	return out, nil
}

// Add appends records to the store.
func (s *MemoryStore) Add(_ context.Context, records ...models.ExpenseRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = append(s.records, records...)
	return nil
}

// Len returns the number of stored records.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
