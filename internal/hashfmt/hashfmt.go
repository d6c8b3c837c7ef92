// internal/hashfmt/hashfmt.go
package hashfmt

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownType is returned by ParseType for names outside the table below.
var ErrUnknownType = errors.New("unknown hash type")

// Type is a fixed-width hex digest format.
type Type struct {
	Name   string
	HexLen int
}

var (
	MD5    = Type{Name: "md5", HexLen: 32}
	SHA1   = Type{Name: "sha1", HexLen: 40}
	SHA256 = Type{Name: "sha256", HexLen: 64}
	SHA512 = Type{Name: "sha512", HexLen: 128}
	NTLM   = Type{Name: "ntlm", HexLen: 32}
)

var byName = map[string]Type{
	MD5.Name:    MD5,
	SHA1.Name:   SHA1,
	SHA256.Name: SHA256,
	SHA512.Name: SHA512,
	NTLM.Name:   NTLM,
}

// Names lists the supported type names in a stable order (for usage text).
func Names() []string { return []string{"md5", "sha1", "sha256", "sha512", "ntlm"} }

// ParseType resolves a type name, case-insensitively. "sha-1" style dashes are tolerated.
func ParseType(name string) (Type, error) {
	n := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "-", "")
	if t, ok := byName[n]; ok {
		return t, nil
	}
	return Type{}, fmt.Errorf("%w %q (want one of %s)", ErrUnknownType, name, strings.Join(Names(), ", "))
}

// DefaultHaystack is the haystack file used when none is given: "<name>.txt".
func (t Type) DefaultHaystack() string { return t.Name + ".txt" }

func (t Type) String() string { return t.Name }

// Normalize validates one input line and returns the canonical lower-case digest.
// Trailing CR/LF and surrounding blanks are ignored; anything else that is not
// exactly HexLen hex digits is rejected.
func (t Type) Normalize(line []byte) (string, bool) {
	line = trim(line)
	if len(line) != t.HexLen {
		return "", false
	}
	buf := make([]byte, len(line))
	for i, c := range line {
		switch {
		case c >= '0' && c <= '9', c >= 'a' && c <= 'f':
			buf[i] = c
		case c >= 'A' && c <= 'F':
			buf[i] = c + ('a' - 'A')
		default:
			return "", false
		}
	}
	return string(buf), true
}

func trim(b []byte) []byte {
	for len(b) > 0 && isBlank(b[len(b)-1]) {
		b = b[:len(b)-1]
	}
	for len(b) > 0 && isBlank(b[0]) {
		b = b[1:]
	}
	return b
}

func isBlank(c byte) bool { return c == ' ' || c == '\t' || c == '\r' || c == '\n' }
