// Package inmemory provides a usage.Store kept in process memory.
package inmemory

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/papercomputeco/chatgate/pkg/usage"
)

// Store implements usage.Store using an in-memory slice.
type Store struct {
	mu      sync.RWMutex
	records []usage.Record
	ids     map[string]struct{}
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		ids: make(map[string]struct{}),
	}
}

func (s *Store) Put(_ context.Context, rec *usage.Record) error {
	if rec == nil {
		return usage.ErrNilRecord
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.ids[rec.ID]; ok {
		return fmt.Errorf("usage record %q already stored", rec.ID)
	}

	s.ids[rec.ID] = struct{}{}
	s.records = append(s.records, *rec)
	return nil
}

func (s *Store) Summary(_ context.Context, since time.Time) (*usage.Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	byOutcome := make(map[string]*usage.OutcomeSummary)
	durations := make(map[string]int64)

	for _, rec := range s.records {
		if rec.CreatedAt.Before(since) {
			continue
		}

		o, ok := byOutcome[rec.Outcome]
		if !ok {
			o = &usage.OutcomeSummary{Outcome: rec.Outcome}
			byOutcome[rec.Outcome] = o
		}
		o.Count++
		o.PromptTokens += int64(rec.PromptTokens)
		o.CompletionTokens += int64(rec.CompletionTokens)
		durations[rec.Outcome] += rec.DurationMs
	}

	summary := &usage.Summary{Since: since, Outcomes: make([]usage.OutcomeSummary, 0, len(byOutcome))}
	for outcome, o := range byOutcome {
		o.AvgDurationMs = float64(durations[outcome]) / float64(o.Count)
		summary.Outcomes = append(summary.Outcomes, *o)
	}
	slices.SortFunc(summary.Outcomes, func(a, b usage.OutcomeSummary) int {
		return strings.Compare(a.Outcome, b.Outcome)
	})

	return summary, nil
}

// Len returns the number of stored records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Close is a no-op.
func (s *Store) Close() error {
	return nil
}
