// internal/cli/options.go
package cli

import (
	"errors"
	"flag"
	"fmt"
	"time"

	"hashcheck/internal/hashfmt"
	"hashcheck/internal/logging"
	"hashcheck/internal/match"
	"hashcheck/internal/pipeline"
)

// Summary formats.
const (
	SummaryText = "text"
	SummaryJSON = "json"
)

// Options holds all CLI flags and arguments.
type Options struct {
	// Input
	NeedleFile   string
	HaystackFile string // defaults to <type>.txt
	HashType     hashfmt.Type

	// Output
	MatchFile   string
	NoMatchFile string
	Summary     string // text | json

	// Performance
	Workers   int
	BatchSize int
	Bloom     bool
	BloomFP   float64

	// Misc
	Progress        time.Duration
	LogLevel        string
	LogFormat       string
	Quiet           bool
	NoMatchExitCode int
	Version         bool
}

// rawFlags are the values that need post-processing before they become Options.
type rawFlags struct {
	md5, sha1 bool
	typ       string
	help      bool
}

// ParseArgs registers and parses all flags on fs and returns Options.
// Flags and positionals may be interleaved ("needles.txt --md5 hay.txt").
func ParseArgs(fs *flag.FlagSet, argv []string) (Options, error) {
	var (
		opt Options
		raw rawFlags
	)

	// Input
	fs.BoolVar(&raw.md5, "md5", false, "hashes are MD5 (32 hex digits)")
	fs.BoolVar(&raw.sha1, "sha1", false, "hashes are SHA-1 (40 hex digits)")
	fs.StringVar(&raw.typ, "type", "", "hash type: md5 | sha1 | sha256 | sha512 | ntlm")

	// Output
	fs.StringVar(&opt.MatchFile, "match", "match.txt", "file receiving matched needles ('-' = stdout)")
	fs.StringVar(&opt.NoMatchFile, "nomatch", "nomatch.txt", "file receiving unmatched needles ('-' = stdout)")
	fs.StringVar(&opt.Summary, "summary", SummaryText, "final report: text | json")
	fs.IntVar(&opt.NoMatchExitCode, "no-match-exit-code", 0, "exit code when no needle matched")

	// Performance
	fs.IntVar(&opt.Workers, "workers", pipeline.DefaultWorkers, "concurrent matchers")
	fs.IntVar(&opt.Workers, "t", pipeline.DefaultWorkers, "alias of --workers")
	fs.IntVar(&opt.BatchSize, "batch-size", match.DefaultBatchSize, "haystack lines per batch")
	fs.IntVar(&opt.BatchSize, "b", match.DefaultBatchSize, "alias of --batch-size")
	fs.BoolVar(&opt.Bloom, "bloom", false, "Bloom pre-filter in front of the needle search")
	fs.Float64Var(&opt.BloomFP, "bloom-fp", 0.01, "Bloom filter false-positive rate")

	// Misc
	fs.DurationVar(&opt.Progress, "progress", 10*time.Second, "progress log interval (0 = off)")
	fs.StringVar(&opt.LogLevel, "log-level", "info", "log level: debug | info | warn | error")
	fs.StringVar(&opt.LogFormat, "log-format", logging.FormatText, "log format: text | json")
	fs.BoolVar(&opt.Quiet, "quiet", false, "only log warnings and errors")
	fs.BoolVar(&opt.Quiet, "q", false, "alias of --quiet")
	fs.BoolVar(&opt.Version, "version", false, "print version and exit")
	fs.BoolVar(&opt.Version, "v", false, "alias of --version")
	fs.BoolVar(&raw.help, "h", false, "show this help message")

	flagArgs, pos := SplitArgs(fs, argv)
	if err := fs.Parse(flagArgs); err != nil {
		return opt, err
	}
	if raw.help {
		return opt, flag.ErrHelp
	}
	if opt.Version {
		return opt, nil
	}
	pos = append(pos, fs.Args()...)

	t, err := resolveType(raw)
	if err != nil {
		return opt, err
	}
	opt.HashType = t

	switch len(pos) {
	case 1:
		opt.NeedleFile = pos[0]
		opt.HaystackFile = t.DefaultHaystack()
	case 2:
		opt.NeedleFile, opt.HaystackFile = pos[0], pos[1]
	case 0:
		return opt, errors.New("a needles file is required")
	default:
		return opt, fmt.Errorf("too many arguments: want needles.txt [haystack.txt], got %d", len(pos))
	}
	return opt, Validate(opt)
}

func resolveType(raw rawFlags) (hashfmt.Type, error) {
	n := 0
	for _, set := range []bool{raw.md5, raw.sha1, raw.typ != ""} {
		if set {
			n++
		}
	}
	switch {
	case n == 0:
		return hashfmt.Type{}, errors.New("choose a hash type: --md5, --sha1 or --type")
	case n > 1:
		return hashfmt.Type{}, errors.New("--md5, --sha1 and --type are mutually exclusive")
	case raw.md5:
		return hashfmt.MD5, nil
	case raw.sha1:
		return hashfmt.SHA1, nil
	}
	return hashfmt.ParseType(raw.typ)
}

// Validate applies CLI invariants.
func Validate(o Options) error {
	if o.Workers < 1 {
		return errors.New("--workers must be ≥ 1")
	}
	if o.BatchSize < 1 {
		return errors.New("--batch-size must be ≥ 1")
	}
	if o.Bloom && (o.BloomFP <= 0 || o.BloomFP >= 1) {
		return errors.New("--bloom-fp must be between 0 and 1 (exclusive)")
	}
	if o.MatchFile == "" || o.NoMatchFile == "" {
		return errors.New("--match and --nomatch must not be empty")
	}
	if o.MatchFile == o.NoMatchFile && o.MatchFile != "-" {
		return fmt.Errorf("--match and --nomatch both point at %q", o.MatchFile)
	}
	if o.NeedleFile == o.HaystackFile && o.NeedleFile != "-" {
		return fmt.Errorf("needles and haystack are the same file %q", o.NeedleFile)
	}
	if o.NeedleFile == "-" && o.HaystackFile == "-" {
		return errors.New("needles and haystack cannot both be read from stdin")
	}
	switch o.Summary {
	case SummaryText, SummaryJSON:
	default:
		return fmt.Errorf("invalid --summary %q", o.Summary)
	}
	if o.Progress < 0 {
		return errors.New("--progress must be ≥ 0")
	}
	if _, err := logging.ParseLevel(o.LogLevel); err != nil {
		return err
	}
	switch o.LogFormat {
	case logging.FormatText, logging.FormatJSON:
	default:
		return fmt.Errorf("invalid --log-format %q", o.LogFormat)
	}
	if o.NoMatchExitCode < 0 || o.NoMatchExitCode > 255 {
		return errors.New("--no-match-exit-code must be between 0 and 255")
	}
	return nil
}
