package storage

import (
	"context"
	"errors"
	"sort"
	"sync"

	"onemax/internal/model"
)

type MemoryStore struct {
	mu          sync.RWMutex
	initialized bool
	runs        map[string]model.RunRecord
	order       map[string]int
	seq         int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Init(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.initialized {
		return nil
	}
	s.initialized = true
	s.runs = make(map[string]model.RunRecord)
	s.order = make(map[string]int)
	return nil
}

func (s *MemoryStore) SaveRun(_ context.Context, run model.RunRecord) error {
	if run.ID == "" {
		return errors.New("run id is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return errors.New("store is not initialized")
	}
	s.runs[run.ID] = cloneRun(run)
	s.seq++
	s.order[run.ID] = s.seq
	return nil
}

func (s *MemoryStore) GetRun(_ context.Context, id string) (model.RunRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	run, ok := s.runs[id]
	if !ok {
		return model.RunRecord{}, false, nil
	}
	return cloneRun(run), true, nil
}

func (s *MemoryStore) ListRuns(_ context.Context, limit int) ([]model.RunSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.runs))
	for id := range s.runs {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		a, b := s.runs[ids[i]], s.runs[ids[j]]
		if a.CreatedAtUTC == b.CreatedAtUTC {
			// Later saves first for equal timestamps.
			return s.order[ids[i]] > s.order[ids[j]]
		}
		return a.CreatedAtUTC > b.CreatedAtUTC
	})
	if limit > 0 && len(ids) > limit {
		ids = ids[:limit]
	}

	out := make([]model.RunSummary, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.runs[id].Summary())
	}
	return out, nil
}

func (s *MemoryStore) DeleteRun(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.runs, id)
	delete(s.order, id)
	return nil
}

func (s *MemoryStore) Reset(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.initialized = true
	s.runs = make(map[string]model.RunRecord)
	s.order = make(map[string]int)
	s.seq = 0
	return nil
}
