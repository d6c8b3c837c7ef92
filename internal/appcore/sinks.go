package appcore

import (
	"errors"
	"io"

	"hashcheck/internal/writers"
)

// sinks owns the matched and unmatched destinations. When both are stdout
// they share one buffered sink so lines never interleave mid-buffer.
type sinks struct {
	matched   *writers.Sink
	unmatched *writers.Sink
	stdout    bool // either sink writes to stdout
}

func openSinks(matchPath, noMatchPath string, stdout io.Writer) (*sinks, error) {
	m, err := writers.Create(matchPath, stdout)
	if err != nil {
		return nil, err
	}
	if matchPath == "-" && noMatchPath == "-" {
		return &sinks{matched: m, unmatched: m, stdout: true}, nil
	}
	u, err := writers.Create(noMatchPath, stdout)
	if err != nil {
		_ = m.Close()
		return nil, err
	}
	return &sinks{matched: m, unmatched: u, stdout: matchPath == "-" || noMatchPath == "-"}, nil
}

func (s *sinks) Close() error {
	err := s.matched.Close()
	if s.unmatched != s.matched {
		err = errors.Join(err, s.unmatched.Close())
	}
	return err
}
