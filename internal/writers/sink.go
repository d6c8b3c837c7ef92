// internal/writers/sink.go
package writers

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"syscall"
)

// Sink is a buffered, append-only destination of newline-terminated lines.
type Sink struct {
	name    string
	bw      *bufio.Writer
	closers []io.Closer // flushed/closed in order after bw
	lines   int
}

// NewSink wraps w; closing the sink flushes but never closes w.
func NewSink(name string, w io.Writer) *Sink {
	return &Sink{name: name, bw: bufio.NewWriterSize(w, 64<<10)}
}

// Create opens path for writing, truncating it. "-" writes to stdout, which
// is never closed. A registered suffix (.gz, .zst) compresses the stream.
func Create(path string, stdout io.Writer) (*Sink, error) {
	if path == "-" {
		return NewSink("stdout", stdout), nil
	}
	fh, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	s := &Sink{name: path, closers: []io.Closer{fh}}
	var w io.Writer = fh
	if enc, ok := EncoderFor(path); ok {
		ew, err := enc(fh)
		if err != nil {
			_ = fh.Close()
			return nil, fmt.Errorf("create %s: %w", path, err)
		}
		s.closers = []io.Closer{ew, fh}
		w = ew
	}
	s.bw = bufio.NewWriterSize(w, 64<<10)
	return s, nil
}

// WriteLine appends line followed by '\n'.
func (s *Sink) WriteLine(line string) error {
	if _, err := s.bw.WriteString(line); err != nil {
		return fmt.Errorf("%s: %w", s.name, err)
	}
	if err := s.bw.WriteByte('\n'); err != nil {
		return fmt.Errorf("%s: %w", s.name, err)
	}
	s.lines++
	return nil
}

// Lines is the number of lines written so far.
func (s *Sink) Lines() int { return s.lines }

// Name is the path (or "stdout") the sink writes to.
func (s *Sink) Name() string { return s.name }

// Close flushes buffered lines and closes any encoder and file. A reader
// that went away early (broken pipe) is not an error.
func (s *Sink) Close() error {
	err := s.bw.Flush()
	for _, c := range s.closers {
		if cerr := c.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	if IsBrokenPipe(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("%s: %w", s.name, err)
	}
	return nil
}

// IsBrokenPipe reports whether err means the reader went away, as when the
// output is piped into `head`.
func IsBrokenPipe(err error) bool {
	return err != nil && (errors.Is(err, syscall.EPIPE) || errors.Is(err, io.ErrClosedPipe))
}
