// internal/pipeline/progress.go
package pipeline

import (
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"hashcheck/internal/match"
)

// progress logs dispatch progress at most once per interval.
type progress struct {
	every *rate.Sometimes
	log   *slog.Logger
	start time.Time
}

func newProgress(interval time.Duration, log *slog.Logger) *progress {
	if interval <= 0 {
		return nil
	}
	return &progress{
		every: &rate.Sometimes{Interval: interval},
		log:   log,
		start: time.Now(),
	}
}

func (p *progress) tick(batches, read int, st *match.State) {
	if p == nil {
		return
	}
	p.every.Do(func() {
		p.log.Info("progress",
			"batches", batches,
			"read", read,
			"matched", st.Matched(),
			"needles", st.Total(),
			"elapsed", time.Since(p.start).Round(time.Second),
		)
	})
}
