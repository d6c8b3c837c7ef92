// internal/cli/flagset.go
package cli

import (
	"flag"
	"fmt"
	"strings"

	"hashcheck/internal/hashfmt"
	"hashcheck/internal/version"
)

// NewFlagSet returns a configured FlagSet with custom usage/help.
func NewFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.Usage = func() {
		out := fs.Output()
		def := func(flagName string) string {
			if f := fs.Lookup(flagName); f != nil {
				return f.DefValue
			}
			return ""
		}

		fmt.Fprintf(out, "%s – check a list of hashes against a sorted reference list\n\n", name)
		fmt.Fprintf(out, "Version: %s\n\n", version.Version)
		fmt.Fprintf(out, "Usage:\n  %s needles.txt --md5|--sha1|--type T [haystack.txt] [flags]\n\n", name)
		fmt.Fprintln(out, "Both lists must be sorted ascending (e.g. `LC_ALL=C sort`); the haystack")
		fmt.Fprintln(out, "defaults to <type>.txt in the current directory. Files may be gzip, zstd")
		fmt.Fprintln(out, "or lz4 compressed, '-' for STDIN, or s3://bucket/key.")

		fmt.Fprintln(out, "\nInput:")
		fmt.Fprintln(out, "      --md5                   Hashes are MD5")
		fmt.Fprintln(out, "      --sha1                  Hashes are SHA-1")
		fmt.Fprintf(out, "      --type string           Hash type: %s\n", strings.Join(hashfmt.Names(), " | "))

		fmt.Fprintln(out, "\nOutput:")
		fmt.Fprintf(out, "      --match file            Matched needles [%s]\n", def("match"))
		fmt.Fprintf(out, "      --nomatch file          Unmatched needles [%s]\n", def("nomatch"))
		fmt.Fprintf(out, "      --summary string        Final report: text | json [%s]\n", def("summary"))
		fmt.Fprintf(out, "      --no-match-exit-code int  Exit code when nothing matched [%s]\n", def("no-match-exit-code"))

		fmt.Fprintln(out, "\nPerformance:")
		fmt.Fprintf(out, "  -t, --workers int           Concurrent matchers [%s]\n", def("workers"))
		fmt.Fprintf(out, "  -b, --batch-size int        Haystack lines per batch [%s]\n", def("batch-size"))
		fmt.Fprintf(out, "      --bloom                 Bloom pre-filter for the needle search [%s]\n", def("bloom"))
		fmt.Fprintf(out, "      --bloom-fp float        Bloom false-positive rate [%s]\n", def("bloom-fp"))

		fmt.Fprintln(out, "\nMiscellaneous:")
		fmt.Fprintf(out, "      --progress duration     Progress log interval, 0 = off [%s]\n", def("progress"))
		fmt.Fprintf(out, "      --log-level string      debug | info | warn | error [%s]\n", def("log-level"))
		fmt.Fprintf(out, "      --log-format string     text | json [%s]\n", def("log-format"))
		fmt.Fprintf(out, "  -q, --quiet                 Only log warnings and errors [%s]\n", def("quiet"))
		fmt.Fprintln(out, "  -v, --version               Print version and exit")
		fmt.Fprintln(out, "  -h, --help                  Show this help and exit")

		fmt.Fprintln(out, "\nEnvironment (s3:// inputs):")
		fmt.Fprintln(out, "  HASHCHECK_S3_ENDPOINT, HASHCHECK_S3_ACCESS_KEY, HASHCHECK_S3_SECRET_KEY,")
		fmt.Fprintln(out, "  HASHCHECK_S3_REGION, HASHCHECK_S3_INSECURE (AWS_* credentials also honoured)")
	}
	return fs
}
