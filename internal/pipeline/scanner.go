// internal/pipeline/scanner.go
package pipeline

import (
	"context"

	"hashcheck/internal/match"
)

// BatchScanner is the minimal capability the dispatcher needs.
// *match.Matcher satisfies it; tests substitute fakes.
// Implementations own the batch and must Release it before returning.
type BatchScanner interface {
	Run(ctx context.Context, b *match.Batch) (int, error)
}

// Source yields validated haystack hashes in file order.
type Source interface {
	Next() (string, bool)
	Err() error
}

// SliceSource is a Source over an in-memory list.
type SliceSource struct {
	hashes []string
	pos    int
}

func NewSliceSource(hashes []string) *SliceSource { return &SliceSource{hashes: hashes} }

func (s *SliceSource) Next() (string, bool) {
	if s.pos >= len(s.hashes) {
		return "", false
	}
	h := s.hashes[s.pos]
	s.pos++
	return h, true
}

func (s *SliceSource) Err() error { return nil }

// Consumed is how many hashes have been handed out.
func (s *SliceSource) Consumed() int { return s.pos }
