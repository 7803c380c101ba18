package state

import (
	"sync"
	"time"

	"github.com/cloakhq/veil/internal/analyze"
	"github.com/cloakhq/veil/internal/job"
)

// Snapshot represents the latest data available to the UI.
type Snapshot struct {
	Job         job.Snapshot
	Analysis    analyze.Result
	HasAnalysis bool
	Suggestions []string
	Healthy     bool
	LastUpdated time.Time
}

// IsOffline returns true when status queries have failed multiple times in
// a row.
func (s Snapshot) IsOffline() bool {
	return s.Job.Failures >= 2
}

// Store coordinates concurrent updates from the poller and analyzer with
// reads from the UI.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

// SetJob replaces the job portion of the snapshot.
func (s *Store) SetJob(snap job.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.Job = snap.Clone()
	s.snapshot.LastUpdated = time.Now()
}

// SetAnalysis replaces the prompt-analysis portion of the snapshot. Each
// analysis supersedes the previous one.
func (s *Store) SetAnalysis(result analyze.Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.Analysis = cloneResult(result)
	s.snapshot.HasAnalysis = true
	s.snapshot.LastUpdated = time.Now()
}

// SetSuggestions records example prompts fetched from the daemon.
func (s *Store) SetSuggestions(suggestions []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.Suggestions = cloneStrings(suggestions)
	s.snapshot.LastUpdated = time.Now()
}

// SetHealthy records the result of the last health check.
func (s *Store) SetHealthy(healthy bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.Healthy = healthy
	s.snapshot.LastUpdated = time.Now()
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Job = s.snapshot.Job.Clone()
	snap.Analysis = cloneResult(s.snapshot.Analysis)
	snap.Suggestions = cloneStrings(s.snapshot.Suggestions)
	return snap
}

func cloneResult(r analyze.Result) analyze.Result {
	dup := r
	if r.Analysis != nil {
		analysisCopy := *r.Analysis
		analysisCopy.EntitiesToRedact = cloneStrings(r.Analysis.EntitiesToRedact)
		analysisCopy.EntitiesToKeep = cloneStrings(r.Analysis.EntitiesToKeep)
		analysisCopy.UnrecognizedTerms = cloneStrings(r.Analysis.UnrecognizedTerms)
		dup.Analysis = &analysisCopy
	}
	return dup
}

func cloneStrings(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	dup := make([]string, len(values))
	copy(dup, values)
	return dup
}
