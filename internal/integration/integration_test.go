// internal/integration/integration_test.go
package integration

import (
	"bytes"
	"crypto/md5"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hashcheck/internal/app"
	"hashcheck/pkg/api"
)

// rep builds a 32-digit md5-shaped hash from one hex digit.
func rep(c byte) string { return strings.Repeat(string(c), 32) }

func write(t *testing.T, dir, name string, lines ...string) string {
	t.Helper()
	fn := filepath.Join(dir, name)
	data := ""
	if len(lines) > 0 {
		data = strings.Join(lines, "\n") + "\n"
	}
	require.NoError(t, os.WriteFile(fn, []byte(data), 0o644))
	return fn
}

func readLines(t *testing.T, fn string) []string {
	t.Helper()
	b, err := os.ReadFile(fn)
	require.NoError(t, err)
	s := strings.TrimSuffix(string(b), "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

type run struct {
	dir            string
	match, nomatch string
	code           int
	stdout, stderr string
}

func runApp(t *testing.T, dir string, args ...string) run {
	t.Helper()
	r := run{
		dir:     dir,
		match:   filepath.Join(dir, "match.txt"),
		nomatch: filepath.Join(dir, "nomatch.txt"),
	}
	argv := append([]string{"--match", r.match, "--nomatch", r.nomatch, "--progress", "0"}, args...)
	var out, errBuf bytes.Buffer
	r.code = app.Run(argv, &out, &errBuf)
	r.stdout, r.stderr = out.String(), errBuf.String()
	return r
}

func TestScenarioBasicMatch(t *testing.T) {
	dir := t.TempDir()
	needles := write(t, dir, "needles.txt", rep('a'), rep('b'), rep('c'))
	hay := write(t, dir, "hay.txt", rep('a'), rep('d'))

	r := runApp(t, dir, "--md5", needles, hay)
	require.Equal(t, 0, r.code, r.stderr)
	assert.Equal(t, "matched 1, not matched 2, total 3\n", r.stdout)
	assert.Equal(t, []string{rep('a')}, readLines(t, r.match))
	assert.Equal(t, []string{rep('b'), rep('c')}, readLines(t, r.nomatch))
}

func TestScenarioDuplicateHaystackEntries(t *testing.T) {
	dir := t.TempDir()
	needles := write(t, dir, "needles.txt", rep('a'), rep('b'))
	hay := write(t, dir, "hay.txt", rep('b'), rep('b'))

	r := runApp(t, dir, "--md5", needles, hay)
	require.Equal(t, 0, r.code, r.stderr)
	assert.Equal(t, "matched 1, not matched 1, total 2\n", r.stdout)
	assert.Equal(t, []string{rep('b')}, readLines(t, r.match))
	assert.Equal(t, []string{rep('a')}, readLines(t, r.nomatch))
}

func TestScenarioSortedShortCircuit(t *testing.T) {
	dir := t.TempDir()
	needles := write(t, dir, "needles.txt", rep('e'))
	var hayLines []string
	for _, c := range []byte("0123456789abcdef") {
		hayLines = append(hayLines, rep(c))
	}
	hay := write(t, dir, "hay.txt", hayLines...)

	r := runApp(t, dir, "--md5", "--summary", "json", "--batch-size", "4", needles, hay)
	require.Equal(t, 0, r.code, r.stderr)

	var sum api.SummaryV1
	require.NoError(t, json.Unmarshal([]byte(r.stdout), &sum))
	assert.Equal(t, "md5", sum.HashType)
	assert.Equal(t, 1, sum.Matched)
	assert.Equal(t, 0, sum.Unmatched)
	assert.True(t, sum.ShortCircuit || sum.Saturated)
	assert.Less(t, sum.HaystackRead, len(hayLines)+1)
	assert.Equal(t, []string{rep('e')}, readLines(t, r.match))
}

func TestScenarioEmptyNeedleSet(t *testing.T) {
	dir := t.TempDir()
	needles := write(t, dir, "needles.txt", "not a hash", "abc")
	missingHay := filepath.Join(dir, "does-not-exist.txt")

	r := runApp(t, dir, "--md5", "--no-match-exit-code", "1", needles, missingHay)
	assert.Equal(t, 1, r.code, r.stderr)
	assert.Equal(t, "matched 0, not matched 0, total 0\n", r.stdout)
	assert.Empty(t, readLines(t, r.match))
	assert.Empty(t, readLines(t, r.nomatch))
}

func TestNormalizesAndSkipsInvalidLines(t *testing.T) {
	dir := t.TempDir()
	needles := write(t, dir, "needles.txt",
		strings.ToUpper(rep('a')), "garbage", rep('b'), rep('b'), rep('c')+"\r")
	hay := write(t, dir, "hay.txt", rep('1'), "zz", rep('b'), rep('c'))

	r := runApp(t, dir, "--md5", "--summary", "json", needles, hay)
	require.Equal(t, 0, r.code, r.stderr)

	var sum api.SummaryV1
	require.NoError(t, json.Unmarshal([]byte(r.stdout), &sum))
	assert.Equal(t, 3, sum.Needles)
	assert.Equal(t, 1, sum.InvalidNeedles)
	assert.Equal(t, 1, sum.DuplicateNeedles)
	assert.Equal(t, 1, sum.HaystackInvalid)
	assert.Equal(t, 2, sum.Matched)
	assert.Equal(t, []string{rep('a')}, readLines(t, r.nomatch))
	assert.Contains(t, r.stderr, "invalid needle ignored")
}

func TestCompressedHaystack(t *testing.T) {
	dir := t.TempDir()
	needles := write(t, dir, "needles.txt", rep('1'), rep('2'))

	hay := filepath.Join(dir, "hay.txt.gz")
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write([]byte(rep('2') + "\n" + rep('3') + "\n"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, os.WriteFile(hay, buf.Bytes(), 0o644))

	r := runApp(t, dir, "--md5", needles, hay)
	require.Equal(t, 0, r.code, r.stderr)
	assert.Equal(t, []string{rep('2')}, readLines(t, r.match))
	assert.Equal(t, []string{rep('1')}, readLines(t, r.nomatch))
}

func TestMatchesToStdoutMovesSummaryToStderr(t *testing.T) {
	dir := t.TempDir()
	needles := write(t, dir, "needles.txt", rep('a'), rep('b'))
	hay := write(t, dir, "hay.txt", rep('a'))
	nomatch := filepath.Join(dir, "nm.txt")

	var out, errBuf bytes.Buffer
	code := app.Run([]string{"--md5", "--match", "-", "--nomatch", nomatch, "--progress", "0", needles, hay}, &out, &errBuf)
	require.Equal(t, 0, code, errBuf.String())
	assert.Equal(t, rep('a')+"\n", out.String())
	assert.Contains(t, errBuf.String(), "matched 1, not matched 1, total 2")
	assert.Equal(t, []string{rep('b')}, readLines(t, nomatch))
}

func md5Hex(i int) string { return fmt.Sprintf("%x", md5.Sum([]byte(fmt.Sprint(i)))) }

func TestParallelMatchesEqualSerial(t *testing.T) {
	dir := t.TempDir()

	var needleLines, hayLines []string
	for i := 0; i < 3000; i++ {
		h := md5Hex(i)
		if i%3 != 0 {
			hayLines = append(hayLines, h)
		}
		if i%2 == 0 {
			needleLines = append(needleLines, h)
		}
	}
	slices.Sort(needleLines)
	slices.Sort(hayLines)
	needles := write(t, dir, "needles.txt", needleLines...)
	hay := write(t, dir, "hay.txt", hayLines...)

	result := func(workers string) ([]string, []string) {
		r := runApp(t, t.TempDir(), "--md5", "-t", workers, "-b", "37", needles, hay)
		require.Equal(t, 0, r.code, r.stderr)
		m := readLines(t, r.match)
		slices.Sort(m)
		return m, readLines(t, r.nomatch)
	}

	serialM, serialU := result("1")
	parM, parU := result("8")
	assert.Equal(t, serialM, parM)
	assert.Equal(t, serialU, parU)
	assert.Len(t, serialM, 1000) // even i not divisible by 3
	assert.Len(t, serialM, len(needleLines)-len(serialU))
}

func TestBloomPrefilterSameResult(t *testing.T) {
	dir := t.TempDir()
	needles := write(t, dir, "needles.txt", rep('1'), rep('5'), rep('9'))
	hay := write(t, dir, "hay.txt", rep('0'), rep('5'), rep('7'), rep('9'))

	r := runApp(t, dir, "--md5", "--bloom", "--bloom-fp", "0.001", needles, hay)
	require.Equal(t, 0, r.code, r.stderr)
	m := readLines(t, r.match)
	slices.Sort(m)
	assert.Equal(t, []string{rep('5'), rep('9')}, m)
	assert.Equal(t, []string{rep('1')}, readLines(t, r.nomatch))
}

func TestExitCodes(t *testing.T) {
	dir := t.TempDir()
	needles := write(t, dir, "needles.txt", rep('a'))
	hay := write(t, dir, "hay.txt", rep('b'))

	t.Run("no match default", func(t *testing.T) {
		assert.Equal(t, 0, runApp(t, t.TempDir(), "--md5", needles, hay).code)
	})
	t.Run("no match custom", func(t *testing.T) {
		assert.Equal(t, 1, runApp(t, t.TempDir(), "--md5", "--no-match-exit-code", "1", needles, hay).code)
	})
	t.Run("missing needles", func(t *testing.T) {
		assert.Equal(t, 2, runApp(t, t.TempDir(), "--md5", filepath.Join(dir, "nope.txt"), hay).code)
	})
	t.Run("missing haystack", func(t *testing.T) {
		assert.Equal(t, 2, runApp(t, t.TempDir(), "--md5", needles, filepath.Join(dir, "nope.txt")).code)
	})
	t.Run("unwritable output", func(t *testing.T) {
		var out, errBuf bytes.Buffer
		code := app.Run([]string{"--md5", "--match", filepath.Join(dir, "no", "dir.txt"), "--nomatch", filepath.Join(dir, "n.txt"), needles, hay}, &out, &errBuf)
		assert.Equal(t, 2, code)
	})
	t.Run("usage", func(t *testing.T) {
		assert.Equal(t, 2, runApp(t, t.TempDir(), needles, hay).code)
	})
}

func TestHelpAndVersion(t *testing.T) {
	var out, errBuf bytes.Buffer
	require.Equal(t, 0, app.Run(nil, &out, &errBuf))
	assert.Contains(t, out.String(), "Usage:")

	out.Reset()
	require.Equal(t, 0, app.Run([]string{"--version"}, &out, &errBuf))
	assert.True(t, strings.HasPrefix(out.String(), "hashcheck version "))
}
