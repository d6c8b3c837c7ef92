// internal/match/state.go
package match

import (
	"sync"
	"sync/atomic"

	"hashcheck/internal/needle"
)

// LineWriter is an append-only text sink; WriteLine adds the trailing newline.
type LineWriter interface {
	WriteLine(s string) error
}

// State is the run-wide match tally. Needle flags, the matched counter and
// the matched sink only change together, under mu.
type State struct {
	mu   sync.Mutex
	set  *needle.Set
	sink LineWriter

	total     int64
	matched   atomic.Int64
	processed atomic.Int64
}

// NewState returns a zeroed tally over set that reports hits to sink.
func NewState(set *needle.Set, sink LineWriter) *State {
	return &State{set: set, sink: sink, total: int64(set.Len())}
}

// RecordMatch marks needle i, counts it and writes h to the matched sink as
// one unit. A needle that was already marked is left alone and reported as
// (false, nil), so duplicate haystack hits never double count.
func (s *State) RecordMatch(i int, h string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.set.Matched(i) {
		return false, nil
	}
	if err := s.sink.WriteLine(h); err != nil {
		return false, err
	}
	s.set.Mark(i)
	s.matched.Add(1)
	return true, nil
}

// AddProcessed adds n scanned haystack entries to the tally.
func (s *State) AddProcessed(n int) { s.processed.Add(int64(n)) }

// Saturated reports whether every needle has been matched.
func (s *State) Saturated() bool { return s.matched.Load() >= s.total }

// LargestUnmatched returns the greatest needle still waiting for a hit.
func (s *State) LargestUnmatched() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.set.LargestUnmatched()
}

// SweepUnmatched writes every unmarked needle to w in ascending order and
// returns how many were written. Call it only after all Matchers are done.
func (s *State) SweepUnmatched(w LineWriter) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	err := s.set.EachUnmatched(func(h string) error {
		if err := w.WriteLine(h); err != nil {
			return err
		}
		n++
		return nil
	})
	return n, err
}

func (s *State) Total() int     { return int(s.total) }
func (s *State) Matched() int   { return int(s.matched.Load()) }
func (s *State) Processed() int { return int(s.processed.Load()) }
