// internal/pipeline/pipeline.go
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"hashcheck/internal/match"
	"hashcheck/internal/needle"
)

// DefaultWorkers is the number of matchers allowed to run at once.
const DefaultWorkers = 3

// ctxCheckEvery is how many haystack reads pass between cancellation checks.
const ctxCheckEvery = 4096

// Config controls the haystack pass.
type Config struct {
	Workers   int           // concurrent matchers (>=1)
	BatchSize int           // haystack entries per batch (>=1)
	Progress  time.Duration // progress log interval; 0 disables
}

// Totals summarizes a finished pass.
type Totals struct {
	Needles      int
	Matched      int
	Unmatched    int
	Read         int  // hashes taken from the source
	Processed    int  // hashes scanned by matchers
	Batches      int  // batches handed to matchers
	ShortCircuit bool // reading stopped: haystack passed the largest unmatched needle
	Saturated    bool // reading stopped: every needle already matched
}

// Dispatcher runs matchers over haystack batches against one needle set.
type Dispatcher struct {
	cfg   Config
	set   *needle.Set
	state *match.State
	scan  BatchScanner
	log   *slog.Logger
}

// New prepares a dispatcher whose matches are appended to matched.
func New(cfg Config, set *needle.Set, matched match.LineWriter, log *slog.Logger) *Dispatcher {
	if cfg.Workers < 1 {
		cfg.Workers = DefaultWorkers
	}
	if cfg.BatchSize < 1 {
		cfg.BatchSize = match.DefaultBatchSize
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	state := match.NewState(set, matched)
	return &Dispatcher{
		cfg:   cfg,
		set:   set,
		state: state,
		scan:  match.NewMatcher(set, state, log),
		log:   log,
	}
}

// WithScanner swaps the batch scanner (tests).
func (d *Dispatcher) WithScanner(s BatchScanner) *Dispatcher {
	d.scan = s
	return d
}

// State exposes the shared tally.
func (d *Dispatcher) State() *match.State { return d.state }

// Run reads hay to the end (or to the sorted short-circuit), matches every
// batch, then writes each still-unmatched needle to unmatched in ascending
// order. Any read, write or matcher error aborts the run before the sweep.
func (d *Dispatcher) Run(ctx context.Context, hay Source, unmatched match.LineWriter) (Totals, error) {
	tot := Totals{Needles: d.set.Len()}
	if tot.Needles == 0 {
		return tot, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	var (
		gate = semaphore.NewWeighted(int64(d.cfg.Workers))
		pool = match.NewBatchPool(d.cfg.BatchSize)
		prog = newProgress(d.cfg.Progress, d.log)
	)

	dispatch := func(b *match.Batch) error {
		if err := gate.Acquire(gctx, 1); err != nil {
			b.Release()
			return fmt.Errorf("acquire matcher slot: %w", err)
		}
		tot.Batches++
		g.Go(func() error {
			defer gate.Release(1)
			_, err := d.scan.Run(gctx, b)
			return err
		})
		return nil
	}

	ceiling, _ := d.state.LargestUnmatched()
	var (
		seq     int
		b       = pool.Get(seq)
		feedErr error
	)
	for {
		if tot.Read%ctxCheckEvery == 0 && gctx.Err() != nil {
			break
		}
		h, ok := hay.Next()
		if !ok {
			feedErr = hay.Err()
			break
		}
		tot.Read++
		if h > ceiling {
			tot.ShortCircuit = true
			d.log.Info("haystack passed the largest unmatched needle, stop reading",
				"line", tot.Read, "hash", h, "ceiling", ceiling)
			break
		}
		b.Add(h)
		if !b.Full() {
			continue
		}

		if feedErr = dispatch(b); feedErr != nil {
			b = nil
			break
		}
		seq++
		b = pool.Get(seq)
		prog.tick(tot.Batches, tot.Read, d.state)

		top, ok := d.state.LargestUnmatched()
		if !ok {
			tot.Saturated = true
			d.log.Info("every needle matched, stop reading", "line", tot.Read)
			break
		}
		ceiling = top
	}

	if b != nil {
		if b.Len() > 0 && feedErr == nil && gctx.Err() == nil {
			feedErr = dispatch(b)
		} else {
			b.Release()
		}
	}

	werr := g.Wait()
	switch {
	case ctx.Err() != nil:
		return d.totals(tot), ctx.Err()
	case werr != nil:
		return d.totals(tot), werr
	case feedErr != nil && !errors.Is(feedErr, context.Canceled):
		return d.totals(tot), fmt.Errorf("feed haystack: %w", feedErr)
	}

	n, err := d.state.SweepUnmatched(unmatched)
	tot = d.totals(tot)
	tot.Unmatched = n
	if err != nil {
		return tot, fmt.Errorf("write unmatched: %w", err)
	}
	return tot, nil
}

func (d *Dispatcher) totals(t Totals) Totals {
	t.Matched = d.state.Matched()
	t.Processed = d.state.Processed()
	return t
}

// Run is a one-shot helper around New(...).Run.
func Run(ctx context.Context, cfg Config, set *needle.Set, hay Source, matched, unmatched match.LineWriter, log *slog.Logger) (Totals, error) {
	return New(cfg, set, matched, log).Run(ctx, hay, unmatched)
}
