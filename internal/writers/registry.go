// internal/writers/registry.go
package writers

import (
	"io"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// EncoderFunc wraps w in a compressing writer. Closing the returned writer
// flushes the encoder but must not close w.
type EncoderFunc func(w io.Writer) (io.WriteCloser, error)

// Encoders maps an output file suffix to its compressor (last registration wins).
var Encoders = map[string]EncoderFunc{}

func RegisterEncoder(suffix string, fn EncoderFunc) { Encoders[suffix] = fn }

// EncoderFor returns the encoder registered for path's suffix, if any.
func EncoderFor(path string) (EncoderFunc, bool) {
	for suffix, fn := range Encoders {
		if strings.HasSuffix(path, suffix) {
			return fn, true
		}
	}
	return nil, false
}

func init() {
	RegisterEncoder(".gz", func(w io.Writer) (io.WriteCloser, error) {
		return gzip.NewWriter(w), nil
	})
	RegisterEncoder(".zst", func(w io.Writer) (io.WriteCloser, error) {
		return zstd.NewWriter(w)
	})
}
