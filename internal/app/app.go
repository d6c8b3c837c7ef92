// internal/app/app.go
package app

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"hashcheck/internal/appcore"
	"hashcheck/internal/cli"
	"hashcheck/internal/input"
	"hashcheck/internal/logging"
	"hashcheck/internal/version"
	"hashcheck/internal/writers"
)

const name = "hashcheck"

func RunContext(parent context.Context, argv []string, stdout, stderr io.Writer) int {
	outw := bufio.NewWriter(stdout)
	defer func() { _ = outw.Flush() }()

	fs := cli.NewFlagSet(name)
	fs.SetOutput(io.Discard)

	if len(argv) == 0 {
		return usage(fs, outw, stderr, 0)
	}

	opts, err := cli.ParseArgs(fs, argv)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return usage(fs, outw, stderr, 0)
		}
		_, _ = fmt.Fprintln(stderr, err)
		return usage(fs, outw, stderr, 2)
	}

	if opts.Version {
		_, _ = fmt.Fprintf(outw, "%s version %s\n", name, version.Version)
		return flush(outw, stderr, 0)
	}

	log, err := newLogger(stderr, opts)
	if err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return 2
	}

	coreOpts := appcore.Options{
		NeedleFile:      opts.NeedleFile,
		HaystackFile:    opts.HaystackFile,
		HashType:        opts.HashType,
		S3:              input.S3ConfigFromEnv(os.Getenv),
		MatchFile:       opts.MatchFile,
		NoMatchFile:     opts.NoMatchFile,
		JSONSummary:     opts.Summary == cli.SummaryJSON,
		Workers:         opts.Workers,
		BatchSize:       opts.BatchSize,
		Bloom:           opts.Bloom,
		BloomFP:         opts.BloomFP,
		Progress:        opts.Progress,
		NoMatchExitCode: opts.NoMatchExitCode,
	}
	return appcore.Run(parent, stdout, stderr, coreOpts, log)
}

func Run(argv []string, stdout, stderr io.Writer) int {
	return RunContext(context.Background(), argv, stdout, stderr)
}

func newLogger(w io.Writer, opts cli.Options) (*slog.Logger, error) {
	level, err := logging.ParseLevel(opts.LogLevel)
	if err != nil {
		return nil, err
	}
	if opts.Quiet && level < slog.LevelWarn {
		level = slog.LevelWarn
	}
	return logging.New(w, opts.LogFormat, level)
}

func usage(fs *flag.FlagSet, outw *bufio.Writer, stderr io.Writer, code int) int {
	fs.SetOutput(outw)
	fs.Usage()
	return flush(outw, stderr, code)
}

// flush reports broken pipes as success and other write errors as exit 3.
func flush(outw *bufio.Writer, stderr io.Writer, code int) int {
	if err := outw.Flush(); writers.IsBrokenPipe(err) {
		return 0
	} else if err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return 3
	}
	return code
}
