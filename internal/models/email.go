package models

import (
	"regexp"
	"sort"
	"strings"
)

// emailShape is the loose local@domain pattern used for all sources. It is a
// syntactic filter only, not an RFC 5322 validator.
var emailShape = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)

// NormalizeEmail cleans a raw address token into its canonical form:
// lowercased, trimmed of surrounding whitespace and angle brackets, with any
// mailto: prefix removed. The second return value reports whether the result
// looks like an email address at all; callers skip tokens that do not.
func NormalizeEmail(raw string) (string, bool) {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = strings.TrimPrefix(s, "mailto:")
	s = strings.TrimSpace(strings.Trim(s, "<>"))
	if !emailShape.MatchString(s) {
		return "", false
	}
	return s, true
}

// EmailSet is a set of unique, normalized email addresses. Membership is
// case-insensitive because every address is normalized on insertion.
type EmailSet map[string]struct{}

// NewEmailSet returns an empty set.
func NewEmailSet() EmailSet {
	return make(EmailSet)
}

// Add normalizes raw and inserts it. It returns false when raw does not look
// like an email address, in which case the set is unchanged.
func (s EmailSet) Add(raw string) bool {
	addr, ok := NormalizeEmail(raw)
	if !ok {
		return false
	}
	s[addr] = struct{}{}
	return true
}

// Contains reports whether the set holds the given address, compared
// case-insensitively.
func (s EmailSet) Contains(raw string) bool {
	addr, ok := NormalizeEmail(raw)
	if !ok {
		return false
	}
	_, found := s[addr]
	return found
}

// Len returns the number of unique addresses in the set.
func (s EmailSet) Len() int {
	return len(s)
}

// Sorted returns the addresses in lexicographic order, so that output is
// stable across runs with identical inputs.
func (s EmailSet) Sorted() []string {
	addrs := make([]string, 0, len(s))
	for addr := range s {
		addrs = append(addrs, addr)
	}
	sort.Strings(addrs)
	return addrs
}

// Union combines any number of sets into a new one. Nil sets are allowed and
// contribute nothing.
func Union(sets ...EmailSet) EmailSet {
	merged := NewEmailSet()
	for _, set := range sets {
		for addr := range set {
			merged[addr] = struct{}{}
		}
	}
	return merged
}
