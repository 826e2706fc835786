package postgres

import (
	"context"
	"sync"
	"time"

	"github.com/harrykososuta/avf-simulator/internal/domain"
)

// MockRepository implements domain.SimulationRepository in memory, used
// when no database is configured (demo mode) and in tests.
type MockRepository struct {
	mu      sync.Mutex
	records []domain.SimulationRecord
}

// NewMockRepository creates a new mock repository
func NewMockRepository() *MockRepository {
	return &MockRepository{}
}

// SaveSimulation stores the record in memory
func (r *MockRepository) SaveSimulation(ctx context.Context, rec domain.SimulationRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, rec)
	return nil
}

// GetHistory returns in-memory records within the time range
func (r *MockRepository) GetHistory(ctx context.Context, from, to time.Time) ([]domain.SimulationRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var results []domain.SimulationRecord
	for i := len(r.records) - 1; i >= 0 && len(results) < 100; i-- {
		ts := r.records[i].Timestamp
		if !ts.Before(from) && !ts.After(to) {
			results = append(results, r.records[i])
		}
	}
	return results, nil
}

// Health always returns nil in mock mode
func (r *MockRepository) Health(ctx context.Context) error {
	return nil
}
