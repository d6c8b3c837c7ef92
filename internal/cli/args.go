// internal/cli/args.go
package cli

import (
	"flag"
	"strings"
)

// SplitArgs separates flag arguments from positionals so that flags may follow
// file names. A flag that takes a value keeps its value with it; "--" ends flag
// parsing and "-" (stdin) is a positional.
func SplitArgs(fs *flag.FlagSet, argv []string) (flagArgs, pos []string) {
	for i := 0; i < len(argv); i++ {
		a := argv[i]
		switch {
		case a == "--":
			return flagArgs, append(pos, argv[i+1:]...)
		case a == "-" || !strings.HasPrefix(a, "-"):
			pos = append(pos, a)
			continue
		}
		flagArgs = append(flagArgs, a)
		name := strings.TrimLeft(a, "-")
		if strings.Contains(name, "=") {
			continue
		}
		if f := fs.Lookup(name); f != nil && !isBoolFlag(f) && i+1 < len(argv) {
			flagArgs = append(flagArgs, argv[i+1])
			i++
		}
	}
	return flagArgs, pos
}

func isBoolFlag(f *flag.Flag) bool {
	bf, ok := f.Value.(interface{ IsBoolFlag() bool })
	return ok && bf.IsBoolFlag()
}
