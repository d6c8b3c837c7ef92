// internal/match/matcher.go
package match

import (
	"context"
	"fmt"
	"log/slog"

	"hashcheck/internal/needle"
)

// ctxCheckEvery is how many entries a Matcher scans between context checks.
const ctxCheckEvery = 4096

// Matcher scans one batch at a time against the shared needle set.
type Matcher struct {
	set   *needle.Set
	state *State
	log   *slog.Logger
}

// NewMatcher binds a matcher to the run's needle set and tally.
// A nil logger discards batch logs.
func NewMatcher(set *needle.Set, state *State, log *slog.Logger) *Matcher {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Matcher{set: set, state: state, log: log}
}

// Run scans b in order and returns how many new needles it matched. The batch
// is released when Run returns. Scanning stops early once every needle has
// been matched; the remaining entries are dropped.
func (m *Matcher) Run(ctx context.Context, b *Batch) (int, error) {
	defer b.Release()

	m.log.Debug("batch started", "batch", b.Seq, "size", b.Len())

	var (
		cur     = m.set.Cursor()
		matched int
		scanned int
	)
	defer func() { m.state.AddProcessed(scanned) }()

	for i, h := range b.Hashes {
		if m.state.Saturated() {
			m.log.Debug("all needles matched, dropping rest of batch", "batch", b.Seq, "dropped", b.Len()-i)
			break
		}
		if i%ctxCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return matched, err
			}
		}
		scanned++

		idx, ok := cur.Find(h)
		if !ok {
			continue
		}
		fresh, err := m.state.RecordMatch(idx, h)
		if err != nil {
			return matched, fmt.Errorf("batch %d: write match: %w", b.Seq, err)
		}
		if fresh {
			matched++
		}
	}

	m.log.Debug("batch finished", "batch", b.Seq, "matched", matched)
	return matched, nil
}
