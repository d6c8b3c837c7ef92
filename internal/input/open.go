// internal/input/open.go
package input

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

var (
	magicGzip = []byte{0x1f, 0x8b}
	magicZstd = []byte{0x28, 0xb5, 0x2f, 0xfd}
	magicLZ4  = []byte{0x04, 0x22, 0x4d, 0x18}
)

// multiReadCloser closes every closer, innermost first, when Close is called.
type multiReadCloser struct {
	io.Reader
	closers []io.Closer
}

func (m *multiReadCloser) Close() error {
	var err error
	for _, c := range m.closers {
		if cerr := c.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}

type closeFunc func() error

func (f closeFunc) Close() error { return f() }

// Open returns a reader for path. "-" reads stdin, "s3://bucket/key" streams an
// object from an S3-compatible endpoint (see S3Config), anything else is a local
// file. gzip, zstd and lz4 payloads are decoded transparently, detected by magic
// bytes or by a .gz/.zst/.lz4 suffix.
func Open(ctx context.Context, path string, s3 S3Config) (io.ReadCloser, error) {
	var (
		raw io.ReadCloser
		err error
	)
	switch {
	case path == "-":
		raw = io.NopCloser(os.Stdin)
	case strings.HasPrefix(path, "s3://"):
		raw, err = openS3(ctx, path, s3)
	default:
		raw, err = openFile(path)
	}
	if err != nil {
		return nil, err
	}
	rc, err := decode(raw, path)
	if err != nil {
		_ = raw.Close()
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return rc, nil
}

func openFile(path string) (io.ReadCloser, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	adviseSequential(fh)
	return fh, nil
}

func decode(raw io.ReadCloser, path string) (io.ReadCloser, error) {
	br := bufio.NewReaderSize(raw, 64<<10)
	sig, _ := br.Peek(4)

	switch {
	case bytes.HasPrefix(sig, magicGzip) || strings.HasSuffix(path, ".gz"):
		gr, err := gzip.NewReader(br)
		if err != nil {
			return nil, err
		}
		return &multiReadCloser{Reader: gr, closers: []io.Closer{gr, raw}}, nil
	case bytes.HasPrefix(sig, magicZstd) || strings.HasSuffix(path, ".zst"):
		zr, err := zstd.NewReader(br)
		if err != nil {
			return nil, err
		}
		release := closeFunc(func() error { zr.Close(); return nil })
		return &multiReadCloser{Reader: zr, closers: []io.Closer{release, raw}}, nil
	case bytes.HasPrefix(sig, magicLZ4) || strings.HasSuffix(path, ".lz4"):
		return &multiReadCloser{Reader: lz4.NewReader(br), closers: []io.Closer{raw}}, nil
	}
	return &multiReadCloser{Reader: br, closers: []io.Closer{raw}}, nil
}
