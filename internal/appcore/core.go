// internal/appcore/core.go
package appcore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"hashcheck/internal/hashfmt"
	"hashcheck/internal/input"
	"hashcheck/internal/needle"
	"hashcheck/internal/pipeline"
	"hashcheck/internal/writers"
)

// maxInvalidWarnings caps the per-line warnings for a bad needle file; the
// rest are logged at debug level and counted in the summary.
const maxInvalidWarnings = 10

type Options struct {
	NeedleFile   string
	HaystackFile string
	HashType     hashfmt.Type
	S3           input.S3Config

	MatchFile   string
	NoMatchFile string
	JSONSummary bool

	Workers   int
	BatchSize int
	Bloom     bool
	BloomFP   float64
	Progress  time.Duration

	NoMatchExitCode int
}

// Run checks every needle against the haystack and returns the exit code:
// 0 ok, NoMatchExitCode when nothing matched, 2 when an input or output
// cannot be opened, 3 on runtime failure, 130 when ctx is cancelled.
func Run(parent context.Context, stdout, stderr io.Writer, o Options, log *slog.Logger) int {
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	hashes, nst, err := loadNeedles(ctx, o, log)
	if err != nil {
		log.Error("cannot read needles", "file", o.NeedleFile, "err", err)
		return 2
	}

	var setOpts []needle.Option
	if o.Bloom {
		setOpts = append(setOpts, needle.WithBloom(o.BloomFP))
	}
	set, err := needle.New(hashes, setOpts...)
	if err != nil {
		log.Error("cannot index needles", "err", err)
		return 3
	}

	sk, err := openSinks(o.MatchFile, o.NoMatchFile, stdout)
	if err != nil {
		log.Error("cannot create output", "err", err)
		return 2
	}

	var (
		tot        pipeline.Totals
		hayInvalid int
		runErr     error
	)
	if set.Len() == 0 {
		log.Warn("no valid needles, haystack not read", "file", o.NeedleFile)
	} else {
		tot, hayInvalid, runErr = scanHaystack(ctx, o, set, sk, log)
		if errors.Is(runErr, errOpenHaystack) {
			_ = sk.Close()
			log.Error("cannot read haystack", "file", o.HaystackFile, "err", runErr)
			return 2
		}
	}

	cerr := sk.Close()
	switch {
	case ctx.Err() != nil || errors.Is(runErr, context.Canceled):
		log.Warn("interrupted", "matched", tot.Matched, "read", tot.Read)
		return 130
	case writers.IsBrokenPipe(runErr):
		return 0
	case runErr != nil:
		log.Error("run failed", "err", runErr)
		return 3
	case cerr != nil:
		log.Error("cannot finish output", "err", cerr)
		return 3
	}

	if hayInvalid > 0 {
		log.Warn("invalid haystack lines skipped", "file", o.HaystackFile, "count", hayInvalid)
	}
	log.Info("done",
		"needles", set.Len(), "matched", tot.Matched, "unmatched", tot.Unmatched,
		"read", tot.Read, "batches", tot.Batches,
		"short_circuit", tot.ShortCircuit, "saturated", tot.Saturated)

	out := stdout
	if sk.stdout {
		out = stderr
	}
	if err := writeSummary(out, o, nst, tot, hayInvalid); writers.IsBrokenPipe(err) {
		return 0
	} else if err != nil {
		log.Error("cannot write summary", "err", err)
		return 3
	}

	if tot.Matched == 0 {
		return o.NoMatchExitCode
	}
	return 0
}

var errOpenHaystack = errors.New("open haystack")

func loadNeedles(ctx context.Context, o Options, log *slog.Logger) ([]string, input.NeedleStats, error) {
	rc, err := input.Open(ctx, o.NeedleFile, o.S3)
	if err != nil {
		return nil, input.NeedleStats{}, err
	}
	defer rc.Close()

	warned := 0
	hashes, st, err := input.ReadNeedles(rc, o.HashType, func(line int) {
		if warned < maxInvalidWarnings {
			warned++
			log.Warn("invalid needle ignored", "file", o.NeedleFile, "line", line, "want", o.HashType.String())
			return
		}
		log.Debug("invalid needle ignored", "file", o.NeedleFile, "line", line)
	})
	if err != nil {
		return nil, st, err
	}

	log.Info("needles read", "file", o.NeedleFile, "type", o.HashType.Name,
		"needles", len(hashes), "lines", st.Lines)
	if st.Invalid > 0 {
		log.Warn("invalid needle lines ignored", "count", st.Invalid)
	}
	if st.Duplicates > 0 {
		log.Info("duplicate needles dropped", "count", st.Duplicates)
	}
	if st.OutOfOrder > 0 {
		log.Warn("needles are not sorted ascending, matches may be missed", "descents", st.OutOfOrder)
	}
	if st.MissingFinalNewline {
		log.Warn("needle file lacks a final newline", "file", o.NeedleFile)
	}
	return hashes, st, nil
}

func scanHaystack(ctx context.Context, o Options, set *needle.Set, sk *sinks, log *slog.Logger) (pipeline.Totals, int, error) {
	rc, err := input.Open(ctx, o.HaystackFile, o.S3)
	if err != nil {
		return pipeline.Totals{}, 0, fmt.Errorf("%w: %w", errOpenHaystack, err)
	}
	defer rc.Close()

	hay := input.NewHaystack(rc, o.HashType)
	cfg := pipeline.Config{
		Workers:   o.Workers,
		BatchSize: o.BatchSize,
		Progress:  o.Progress,
	}
	tot, err := pipeline.Run(ctx, cfg, set, hay, sk.matched, sk.unmatched, log)
	return tot, hay.Invalid(), err
}
