// Package needle holds the sorted in-memory list of hashes being looked for
// and the per-needle matched flags.
//
// Lookups (Cursor.Find) only read the immutable hash slice and the optional
// Bloom filter, so any number of goroutines may run them at once. Everything
// that touches the matched flags (Mark, Matched, LargestUnmatched, the sweep)
// must be serialized by the caller; match.State owns that lock.
package needle

import (
	"errors"
	"math"
	"sort"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/bits-and-blooms/bloom/v3"
)

// ErrTooLarge is returned when the needle list cannot be indexed by uint32.
var ErrTooLarge = errors.New("needle set exceeds 4294967295 entries")

// Set is an ascending list of needles with a matched flag per index.
type Set struct {
	hashes  []string
	matched *roaring.Bitmap
	filter  *bloom.BloomFilter
	top     int // no index above top is unmatched
}

// Option configures a Set.
type Option func(*Set)

// WithBloom builds a Bloom filter over the needles with the given target
// false-positive rate. Lookups consult it before searching; results are unchanged.
func WithBloom(fpRate float64) Option {
	return func(s *Set) {
		if fpRate <= 0 || fpRate >= 1 {
			fpRate = 0.01
		}
		n := uint(len(s.hashes))
		if n == 0 {
			n = 1
		}
		f := bloom.NewWithEstimates(n, fpRate)
		for _, h := range s.hashes {
			f.AddString(h)
		}
		s.filter = f
	}
}

// New wraps hashes, which must already be sorted ascending and free of
// duplicates. The slice is retained and must not be modified afterwards.
func New(hashes []string, opts ...Option) (*Set, error) {
	if uint64(len(hashes)) > math.MaxUint32 {
		return nil, ErrTooLarge
	}
	s := &Set{
		hashes:  hashes,
		matched: roaring.New(),
		top:     len(hashes) - 1,
	}
	for _, o := range opts {
		o(s)
	}
	return s, nil
}

func (s *Set) Len() int { return len(s.hashes) }

func (s *Set) At(i int) string { return s.hashes[i] }

// Filtered reports whether a Bloom pre-filter is active.
func (s *Set) Filtered() bool { return s.filter != nil }

// seek returns the index of the first needle >= h at or after from, or Len().
// Gallops forward from `from`, then binary-searches the bracketed window.
func (s *Set) seek(from int, h string) int {
	n := len(s.hashes)
	lo, hi, step := from, from, 1
	for hi < n && s.hashes[hi] < h {
		lo = hi + 1
		hi += step
		step <<= 1
	}
	if hi > n {
		hi = n
	}
	return lo + sort.SearchStrings(s.hashes[lo:hi], h)
}

// Mark flags needle i as matched. It reports false if i was already matched.
func (s *Set) Mark(i int) bool { return s.matched.CheckedAdd(uint32(i)) }

// Matched reports whether needle i has been marked.
func (s *Set) Matched(i int) bool { return s.matched.Contains(uint32(i)) }

// MatchedCount is the number of distinct needles marked so far.
func (s *Set) MatchedCount() int { return int(s.matched.GetCardinality()) }

// LargestUnmatched returns the greatest needle not yet marked.
func (s *Set) LargestUnmatched() (string, bool) {
	for s.top >= 0 && s.matched.Contains(uint32(s.top)) {
		s.top--
	}
	if s.top < 0 {
		return "", false
	}
	return s.hashes[s.top], true
}

// EachUnmatched calls fn for every unmarked needle in ascending order,
// stopping at the first error.
func (s *Set) EachUnmatched(fn func(string) error) error {
	unmatched := roaring.Flip(s.matched, 0, uint64(len(s.hashes)))
	it := unmatched.Iterator()
	for it.HasNext() {
		if err := fn(s.hashes[it.Next()]); err != nil {
			return err
		}
	}
	return nil
}
