// Package memory implements the per-run session store that accumulates
// each pipeline stage's output, keyed by stage name.
package memory

import "sync"

// Stage keys written by the pipeline. Repeated writes to the same key
// overwrite the previous value; there is no history.
const (
	KeyScreeningResult    = "screening_result"
	KeyMatchingResult     = "matching_result"
	KeyInterviewQuestions = "interview_questions"
)

// Store maps stage names to stage results. A store is scoped to one
// pipeline instance; the orchestrator is the single writer per key.
// The mutex exists for the serving surface, where snapshots may be
// read while a run is in flight.
type Store struct {
	mu     sync.RWMutex
	stages map[string]any
}

// NewStore creates an empty session store.
func NewStore() *Store {
	return &Store{
		stages: make(map[string]any),
	}
}

// Put records a stage result, overwriting any previous value for key.
func (s *Store) Put(key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stages[key] = value
}

// Get returns the stored result for key, if any.
func (s *Store) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.stages[key]
	return value, ok
}

// Len returns the number of recorded stages.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.stages)
}

// Snapshot returns a copy of the current session state. Mutating the
// returned map does not affect the store.
func (s *Store) Snapshot() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot := make(map[string]any, len(s.stages))
	for key, value := range s.stages {
		snapshot[key] = value
	}
	return snapshot
}
