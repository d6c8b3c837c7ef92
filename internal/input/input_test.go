package input

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hashcheck/internal/hashfmt"
)

const (
	h1 = "0cc175b9c0f1b6a831c399e269772661"
	h2 = "92eb5ffee6ae2fec3ad71c777531578f"
	h3 = "d41d8cd98f00b204e9800998ecf8427e"
)

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, data, 0o644))
	return p
}

func readAll(t *testing.T, path string) string {
	t.Helper()
	rc, err := Open(context.Background(), path, S3Config{})
	require.NoError(t, err)
	defer func() { _ = rc.Close() }()
	b, err := io.ReadAll(rc)
	require.NoError(t, err)
	return string(b)
}

func TestOpenPlainAndCompressed(t *testing.T) {
	const body = h1 + "\n" + h2 + "\n"

	var gz bytes.Buffer
	gw := gzip.NewWriter(&gz)
	_, err := gw.Write([]byte(body))
	require.NoError(t, err)
	require.NoError(t, gw.Close())

	var zs bytes.Buffer
	zw, err := zstd.NewWriter(&zs)
	require.NoError(t, err)
	_, err = zw.Write([]byte(body))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	var lz bytes.Buffer
	lw := lz4.NewWriter(&lz)
	_, err = lw.Write([]byte(body))
	require.NoError(t, err)
	require.NoError(t, lw.Close())

	cases := map[string][]byte{
		"plain.txt":      []byte(body),
		"magic-gzip.bin": gz.Bytes(),
		"hay.txt.gz":     gz.Bytes(),
		"magic-zstd.bin": zs.Bytes(),
		"hay.txt.zst":    zs.Bytes(),
		"magic-lz4.bin":  lz.Bytes(),
		"hay.txt.lz4":    lz.Bytes(),
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, body, readAll(t, writeFile(t, name, data)))
		})
	}
}

func TestOpenMissingFile(t *testing.T) {
	_, err := Open(context.Background(), filepath.Join(t.TempDir(), "nope.txt"), S3Config{})
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestSplitObjectURL(t *testing.T) {
	b, k, err := SplitObjectURL("s3://corpus/hashes/md5.txt.zst")
	require.NoError(t, err)
	assert.Equal(t, "corpus", b)
	assert.Equal(t, "hashes/md5.txt.zst", k)

	for _, bad := range []string{"s3://", "s3://bucket", "s3://bucket/", "s3:///key", "file://x/y"} {
		_, _, err := SplitObjectURL(bad)
		assert.ErrorIs(t, err, ErrBadObjectURL, bad)
	}
}

func TestS3ConfigFromEnv(t *testing.T) {
	env := map[string]string{
		"HASHCHECK_S3_ENDPOINT":   "localhost:9000",
		"AWS_ACCESS_KEY_ID":       "minioadmin",
		"HASHCHECK_S3_SECRET_KEY": "secret",
		"HASHCHECK_S3_INSECURE":   "true",
	}
	c := S3ConfigFromEnv(func(k string) string { return env[k] })
	assert.Equal(t, S3Config{
		Endpoint:  "localhost:9000",
		AccessKey: "minioadmin",
		SecretKey: "secret",
		Insecure:  true,
	}, c)

	def := S3ConfigFromEnv(func(string) string { return "" })
	assert.Equal(t, "s3.amazonaws.com", def.Endpoint)
	assert.False(t, def.Insecure)
}

func TestReadNeedles(t *testing.T) {
	in := strings.Join([]string{
		h1,
		"not a hash",
		strings.ToUpper(h2),
		h2, // duplicate after normalization
		"",
		h3[:20],
		h3, // no trailing newline
	}, "\n")

	var bad []int
	got, st, err := ReadNeedles(strings.NewReader(in), hashfmt.MD5, func(n int) { bad = append(bad, n) })
	require.NoError(t, err)
	assert.Equal(t, []string{h1, h2, h3}, got)
	assert.Equal(t, []int{2, 5, 6}, bad)
	assert.Equal(t, NeedleStats{Lines: 7, Invalid: 3, Duplicates: 1, MissingFinalNewline: true}, st)
}

func TestReadNeedlesCountsOutOfOrder(t *testing.T) {
	_, st, err := ReadNeedles(strings.NewReader(h2+"\n"+h1+"\n"), hashfmt.MD5, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, st.OutOfOrder)
	assert.False(t, st.MissingFinalNewline)
}

func TestHaystackSkipsInvalidAndOverlongLines(t *testing.T) {
	long := strings.Repeat("a", 100<<10)
	in := h1 + "\n" + long + "\n" + "zz\n" + h2 + "\r\n" + h3
	hs := NewHaystack(strings.NewReader(in), hashfmt.MD5)

	var got []string
	for {
		h, ok := hs.Next()
		if !ok {
			break
		}
		got = append(got, h)
	}
	require.NoError(t, hs.Err())
	assert.Equal(t, []string{h1, h2, h3}, got)
	assert.Equal(t, 5, hs.Lines())
	assert.Equal(t, 2, hs.Invalid())
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, io.ErrUnexpectedEOF }

func TestHaystackSurfacesReadErrors(t *testing.T) {
	hs := NewHaystack(failingReader{}, hashfmt.MD5)
	_, ok := hs.Next()
	assert.False(t, ok)
	assert.ErrorIs(t, hs.Err(), io.ErrUnexpectedEOF)
}
