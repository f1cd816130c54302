// internal/version/token.go
package version

import (
	"fmt"
	"strings"
)

// Token selects which firmware schema a caller wants resolved.
// The zero Token is invalid; construct through Concrete, Latest,
// Unknown or ParseToken.
type Token struct {
	kind    tokenKind
	version Version
}

type tokenKind uint8

const (
	tokenInvalid tokenKind = iota
	tokenConcrete
	tokenLatest
	tokenUnknown
)

// Concrete targets one specific firmware version.
func Concrete(v Version) Token {
	return Token{kind: tokenConcrete, version: v}
}

// Latest targets the newest version any definition knows about.
func Latest() Token {
	return Token{kind: tokenLatest}
}

// Unknown requests trial-and-error mode: every definition applies
// and transfers degrade to single-field telegrams.
func Unknown() Token {
	return Token{kind: tokenUnknown}
}

// ParseToken parses "latest", "unknown" or a concrete version string.
func ParseToken(s string) (Token, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "latest":
		return Latest(), nil
	case "unknown":
		return Unknown(), nil
	}
	v, err := Parse(s)
	if err != nil {
		return Token{}, err
	}
	return Concrete(v), nil
}

// IsConcrete reports whether t names one specific version; the
// version is the second return value.
func (t Token) IsConcrete() (Version, bool) {
	return t.version, t.kind == tokenConcrete
}

// IsLatest reports whether t is the "latest" sentinel.
func (t Token) IsLatest() bool {
	return t.kind == tokenLatest
}

// IsUnknown reports whether t is the trial-and-error sentinel.
func (t Token) IsUnknown() bool {
	return t.kind == tokenUnknown
}

// Valid reports whether t was properly constructed.
func (t Token) Valid() bool {
	return t.kind != tokenInvalid
}

func (t Token) String() string {
	switch t.kind {
	case tokenConcrete:
		return t.version.String()
	case tokenLatest:
		return "latest"
	case tokenUnknown:
		return "unknown"
	}
	return "invalid"
}

// Resolve pins t to a concrete version where possible. latest is the
// version "latest" should resolve to, normally the maximum bound seen
// across a definition catalog. Unknown stays unknown.
func (t Token) Resolve(latest Version) (Token, error) {
	switch t.kind {
	case tokenConcrete, tokenUnknown:
		return t, nil
	case tokenLatest:
		return Concrete(latest), nil
	}
	return Token{}, fmt.Errorf("%w: invalid token", ErrBadVersion)
}
