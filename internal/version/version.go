// internal/version/version.go
package version

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrBadVersion is returned for version strings or tokens that cannot
// be parsed into a comparable firmware version.
var ErrBadVersion = errors.New("version: malformed version")

// Version is a firmware version with up to four numeric components
// (major.minor.patch.build). Missing components compare as zero.
// The zero Version means "no version"; bounds use it for "unbounded".
type Version struct {
	parts [4]int
}

// New builds a Version from up to four components.
func New(parts ...int) Version {
	var v Version
	for i, p := range parts {
		if i >= len(v.parts) {
			break
		}
		v.parts[i] = p
	}
	return v
}

// Parse parses a dotted version string like "3.90.1".
// Extra components beyond the fourth are ignored, matching
// controller firmware strings observed in the wild.
func Parse(s string) (Version, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Version{}, fmt.Errorf("%w: empty string", ErrBadVersion)
	}
	var v Version
	for i, part := range strings.Split(s, ".") {
		if i >= len(v.parts) {
			break
		}
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return Version{}, fmt.Errorf("%w: %q", ErrBadVersion, s)
		}
		v.parts[i] = n
	}
	return v, nil
}

// MustParse is Parse for static version literals.
func MustParse(s string) Version {
	v, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return v
}

// IsZero reports whether v is the zero ("no version") value.
func (v Version) IsZero() bool {
	return v.parts == [4]int{}
}

// Compare returns -1, 0 or 1 comparing v against o component-wise.
func (v Version) Compare(o Version) int {
	for i := range v.parts {
		switch {
		case v.parts[i] < o.parts[i]:
			return -1
		case v.parts[i] > o.parts[i]:
			return 1
		}
	}
	return 0
}

// Less reports whether v orders strictly before o.
func (v Version) Less(o Version) bool {
	return v.Compare(o) < 0
}

// InRange reports whether v lies within [since, until], both inclusive.
// A zero bound is unbounded on that side.
func (v Version) InRange(since, until Version) bool {
	if !since.IsZero() && v.Compare(since) < 0 {
		return false
	}
	if !until.IsZero() && v.Compare(until) > 0 {
		return false
	}
	return true
}

// Max returns the larger of v and o.
func (v Version) Max(o Version) Version {
	if v.Compare(o) >= 0 {
		return v
	}
	return o
}

func (v Version) String() string {
	if v.IsZero() {
		return "0"
	}
	// Firmware strings carry three components; print the build
	// number only when set.
	s := fmt.Sprintf("%d.%d.%d", v.parts[0], v.parts[1], v.parts[2])
	if v.parts[3] != 0 {
		s += fmt.Sprintf(".%d", v.parts[3])
	}
	return s
}
