// internal/input/lines.go
package input

import (
	"bufio"
	"errors"
	"io"

	"hashcheck/internal/hashfmt"
)

// lineReader yields raw lines (terminator included) without per-line allocation.
type lineReader struct {
	br      *bufio.Reader
	n       int
	noFinal bool // the last line had no trailing '\n'
}

func newLineReader(r io.Reader) *lineReader {
	return &lineReader{br: bufio.NewReaderSize(r, 64<<10)}
}

// next returns the next line. An over-long line is reported as (nil, true) so
// the caller counts it as invalid; the slice is only valid until the next call.
func (lr *lineReader) next() ([]byte, bool, error) {
	b, err := lr.br.ReadSlice('\n')
	switch {
	case err == nil:
		lr.n++
		return b, true, nil
	case errors.Is(err, bufio.ErrBufferFull):
		for errors.Is(err, bufio.ErrBufferFull) {
			_, err = lr.br.ReadSlice('\n')
		}
		if err != nil && err != io.EOF {
			return nil, false, err
		}
		lr.n++
		return nil, true, nil
	case err == io.EOF:
		if len(b) == 0 {
			return nil, false, nil
		}
		lr.n++
		lr.noFinal = true
		return b, true, nil
	default:
		return nil, false, err
	}
}

// NeedleStats describes what ReadNeedles saw.
type NeedleStats struct {
	Lines               int
	Invalid             int
	Duplicates          int
	OutOfOrder          int
	MissingFinalNewline bool
}

// ReadNeedles loads every valid hash from r in file order. Adjacent duplicates
// are dropped so each distinct needle appears once. Lines that do not validate
// are skipped; onInvalid (optional) receives their 1-based line numbers.
// Order is not enforced, only counted in OutOfOrder.
func ReadNeedles(r io.Reader, t hashfmt.Type, onInvalid func(line int)) ([]string, NeedleStats, error) {
	var (
		st  NeedleStats
		out []string
		lr  = newLineReader(r)
	)
	for {
		line, ok, err := lr.next()
		if err != nil {
			return nil, st, err
		}
		if !ok {
			break
		}
		h, valid := t.Normalize(line)
		if !valid {
			st.Invalid++
			if onInvalid != nil {
				onInvalid(lr.n)
			}
			continue
		}
		if n := len(out); n > 0 {
			if h == out[n-1] {
				st.Duplicates++
				continue
			}
			if h < out[n-1] {
				st.OutOfOrder++
			}
		}
		out = append(out, h)
	}
	st.Lines = lr.n
	st.MissingFinalNewline = lr.noFinal
	return out, st, nil
}

// Haystack lazily yields validated hashes from a haystack stream in file order.
type Haystack struct {
	lr      *lineReader
	t       hashfmt.Type
	invalid int
	err     error
}

// NewHaystack wraps r; it does not take ownership of closing it.
func NewHaystack(r io.Reader, t hashfmt.Type) *Haystack {
	return &Haystack{lr: newLineReader(r), t: t}
}

// Next returns the next valid hash, skipping (and counting) invalid lines.
// It returns false at EOF or on a read error; check Err afterwards.
func (h *Haystack) Next() (string, bool) {
	if h.err != nil {
		return "", false
	}
	for {
		line, ok, err := h.lr.next()
		if err != nil {
			h.err = err
			return "", false
		}
		if !ok {
			return "", false
		}
		if v, valid := h.t.Normalize(line); valid {
			return v, true
		}
		h.invalid++
	}
}

// Err returns the first read error, if any.
func (h *Haystack) Err() error { return h.err }

// Lines is the number of physical lines consumed so far.
func (h *Haystack) Lines() int { return h.lr.n }

// Invalid is the number of lines skipped because they did not validate.
func (h *Haystack) Invalid() int { return h.invalid }
