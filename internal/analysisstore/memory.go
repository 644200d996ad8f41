package analysisstore

import (
	"context"
	"sort"
	"sync"
	"time"

	apperrors "github.com/finopsguard/finopsguard/internal/errors"
	"github.com/finopsguard/finopsguard/internal/types"
)

// MemoryStore is an in-process Store, the default when no Postgres DSN is
// configured. Records never leave process memory.
type MemoryStore struct {
	mu      sync.RWMutex
	byID    map[string]*types.AnalysisRecord
	ordered []*types.AnalysisRecord // kept sorted by StartedAt, then RequestID, descending
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{byID: make(map[string]*types.AnalysisRecord)}
}

func (s *MemoryStore) Put(_ context.Context, record *types.AnalysisRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byID[record.RequestID]; exists {
		return nil
	}

	stored := *record
	s.byID[record.RequestID] = &stored

	idx := sort.Search(len(s.ordered), func(i int) bool {
		if s.ordered[i].StartedAt.Equal(stored.StartedAt) {
			return s.ordered[i].RequestID < stored.RequestID
		}
		return s.ordered[i].StartedAt.Before(stored.StartedAt)
	})
	s.ordered = append(s.ordered, nil)
	copy(s.ordered[idx+1:], s.ordered[idx:])
	s.ordered[idx] = &stored

	return nil
}

func (s *MemoryStore) Get(_ context.Context, requestID string) (*types.AnalysisRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.byID[requestID]
	if !ok {
		return nil, apperrors.NotFound("analysis", requestID)
	}
	copied := *record
	return &copied, nil
}

func (s *MemoryStore) List(_ context.Context, since, until time.Time, limit int, cursorToken string) ([]*types.AnalysisRecord, string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cur, err := decodeCursor(cursorToken)
	if err != nil {
		return nil, "", apperrors.InvalidRequest(err.Error())
	}

	var matches []*types.AnalysisRecord
	for _, r := range s.ordered {
		if r.StartedAt.Before(since) || !r.StartedAt.Before(until) {
			continue
		}
		if cursorToken != "" && !isBeforeCursor(r, cur) {
			continue
		}
		matches = append(matches, r)
	}

	if limit <= 0 || limit > len(matches) {
		limit = len(matches)
	}

	page := make([]*types.AnalysisRecord, 0, limit)
	for i := 0; i < limit; i++ {
		copied := *matches[i]
		page = append(page, &copied)
	}

	var next string
	if limit < len(matches) {
		last := matches[limit-1]
		next = encodeCursor(cursor{startedAt: last.StartedAt, requestID: last.RequestID})
	}

	return page, next, nil
}

// isBeforeCursor reports whether r comes strictly after cur in the
// StartedAt-descending order List walks, i.e. whether it belongs on the
// next page.
func isBeforeCursor(r *types.AnalysisRecord, cur cursor) bool {
	if r.StartedAt.Equal(cur.startedAt) {
		return r.RequestID < cur.requestID
	}
	return r.StartedAt.Before(cur.startedAt)
}
