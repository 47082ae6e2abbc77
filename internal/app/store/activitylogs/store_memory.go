// internal/app/store/activitylogs/store_memory.go
package activitylogs

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Mohitleo09/HVC-PORTAL-sub002/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// InMemoryStore is an append-only in-memory implementation of the same
// operations as Store. It backs the timeline engine tests and serves as a
// throwaway dev backend; ordering semantics match the Mongo store
// (timestamp descending, arrival order breaking ties).
type InMemoryStore struct {
	mu   sync.RWMutex
	recs []models.ActivityLog
}

// NewInMemoryStore creates an empty InMemoryStore.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

// Clear removes all records. Useful between test cases.
func (s *InMemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recs = nil
}

// Append stores one record, assigning ID, Timestamp, and UsernameCI the
// same way the Mongo store does.
func (s *InMemoryStore) Append(_ context.Context, rec models.ActivityLog) (models.ActivityLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec.ID.IsZero() {
		rec.ID = primitive.NewObjectID()
	}
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now().UTC()
	}
	rec.UsernameCI = text.Fold(rec.Username)

	s.recs = append(s.recs, rec)
	return rec, nil
}

// Recent returns up to limit records across all users, most recent first.
func (s *InMemoryStore) Recent(_ context.Context, limit int64) ([]models.ActivityLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collect(limit, func(models.ActivityLog) bool { return true }), nil
}

// RecentByUser returns up to limit records for one user, most recent first.
func (s *InMemoryStore) RecentByUser(_ context.Context, username string, limit int64) ([]models.ActivityLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ci := text.Fold(username)
	return s.collect(limit, func(r models.ActivityLog) bool { return r.UsernameCI == ci }), nil
}

// LastSessionLogin returns the most recent login for username+sessionID,
// or nil when none exists.
func (s *InMemoryStore) LastSessionLogin(_ context.Context, username, sessionID string) (*models.ActivityLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ci := text.Fold(username)
	matches := s.collect(1, func(r models.ActivityLog) bool {
		return r.UsernameCI == ci && r.SessionID == sessionID && r.Action == models.ActionLogin
	})
	if len(matches) == 0 {
		return nil, nil
	}
	rec := matches[0]
	return &rec, nil
}

// collect returns up to limit matching records sorted by timestamp
// descending, with arrival order breaking ties (matching the Mongo store's
// {timestamp: -1, _id: -1} sort). Callers must hold s.mu.
func (s *InMemoryStore) collect(limit int64, match func(models.ActivityLog) bool) []models.ActivityLog {
	// Reverse arrival order first so a stable sort leaves records with
	// equal timestamps in newest-arrival-first order.
	ordered := make([]models.ActivityLog, 0, len(s.recs))
	for i := len(s.recs) - 1; i >= 0; i-- {
		ordered = append(ordered, s.recs[i])
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Timestamp.After(ordered[j].Timestamp)
	})

	var out []models.ActivityLog
	for _, rec := range ordered {
		if !match(rec) {
			continue
		}
		out = append(out, rec)
		if limit > 0 && int64(len(out)) >= limit {
			break
		}
	}
	return out
}
