package grants

import (
	"context"
	"slices"
	"strings"
	"sync"

	"grantnet/internal/network/models"
	"grantnet/internal/network/normalize"
)

// InMemoryStore holds grants in process. It backs the CLI fixture mode and
// tests.
type InMemoryStore struct {
	mu       sync.RWMutex
	byFunder map[string][]models.GrantRecord
}

// NewInMemory constructs a store preloaded with records.
func NewInMemory(records ...models.GrantRecord) *InMemoryStore {
	s := &InMemoryStore{byFunder: make(map[string][]models.GrantRecord)}
	s.Add(records...)
	return s
}

// Add appends records, keyed by canonical funder id.
func (s *InMemoryStore) Add(records ...models.GrantRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range records {
		r.FunderID = normalize.FunderID(r.FunderID)
		s.byFunder[r.FunderID] = append(s.byFunder[r.FunderID], r)
	}
}

// FunderIDs lists every funder with at least one record, ascending.
func (s *InMemoryStore) FunderIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.byFunder))
	for id := range s.byFunder {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

func (s *InMemoryStore) GrantsByFunder(ctx context.Context, funderID string, years []int, geography string) ([]models.GrantRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.GrantRecord, 0)
	for _, r := range s.byFunder[funderID] {
		if !slices.Contains(years, r.FiscalYear) {
			continue
		}
		if geography != "" && !strings.EqualFold(r.Geography, geography) {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}
