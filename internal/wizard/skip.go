package wizard

import (
	"fmt"
	"strings"
)

// Prompts that can be skipped with --skip.
const (
	SkipUser        = "user"
	SkipUserVerify  = "user-verify"
	SkipGroup       = "group"
	SkipGroupVerify = "group-verify"
	SkipFiles       = "files"
	SkipFilesVerify = "files-verify"
	SkipType        = "type"
	SkipID          = "id"
	SkipName        = "name"
	SkipDescription = "description"
)

// SkipValues lists every accepted --skip value.
var SkipValues = []string{
	SkipUser, SkipUserVerify, SkipGroup, SkipGroupVerify, SkipFiles,
	SkipFilesVerify, SkipType, SkipID, SkipName, SkipDescription,
}

// Skips records which prompts are suppressed.
type Skips struct {
	all bool
	set map[string]bool
}

// ParseSkips validates --skip values. noInteractive suppresses every prompt.
func ParseSkips(noInteractive bool, values []string) (Skips, error) {
	s := Skips{all: noInteractive, set: make(map[string]bool)}
	for _, v := range values {
		v = strings.ToLower(strings.TrimSpace(v))
		if !isSkipValue(v) {
			return Skips{}, fmt.Errorf("invalid --skip value %q: expected one of %s", v, strings.Join(SkipValues, ", "))
		}
		s.set[v] = true
	}
	return s, nil
}

// Has reports whether the prompt called name is skipped.
func (s Skips) Has(name string) bool {
	return s.all || s.set[name]
}

func isSkipValue(v string) bool {
	for _, s := range SkipValues {
		if s == v {
			return true
		}
	}
	return false
}
