package protocol

import (
	"strings"
	"unicode"
)

// Set is an immutable collection of protocol names. The zero value is the
// empty set, which means "impose no restriction; use the runtime's own
// default enabled protocols". Entries keep the exact spelling they were
// created with; case-insensitive comparison happens only when a set is
// matched against a socket's supported protocols.
type Set struct {
	values []string
}

// NewSet builds a set from the given names, discarding duplicates and empty
// strings while preserving first-occurrence order.
func NewSet(names ...string) Set {
	if len(names) == 0 {
		return Set{}
	}
	seen := make(map[string]struct{}, len(names))
	values := make([]string, 0, len(names))
	for _, name := range names {
		if name == "" {
			continue
		}
		key := lower(name)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		values = append(values, name)
	}
	return Set{values: values}
}

// ParseList builds a set from a comma or whitespace separated list, the
// format accepted by the SECDIAL_ENABLED_TLS_PROTOCOLS environment
// variable. Empty tokens are discarded.
func ParseList(list string) Set {
	return NewSet(splitList(list)...)
}

// Values returns the set's entries in insertion order. The returned slice
// is a copy and may be modified freely.
func (s Set) Values() []string {
	if len(s.values) == 0 {
		return nil
	}
	values := make([]string, len(s.values))
	copy(values, s.values)
	return values
}

// Len returns the number of entries in the set.
func (s Set) Len() int { return len(s.values) }

// IsEmpty reports whether the set has no entries.
func (s Set) IsEmpty() bool { return len(s.values) == 0 }

// Contains reports whether the set holds the given name, compared
// case-insensitively.
func (s Set) Contains(name string) bool {
	key := lower(name)
	for _, v := range s.values {
		if lower(v) == key {
			return true
		}
	}
	return false
}

// String renders the set as a quoted, comma-separated list suitable for
// error messages, e.g. 'TLSv1.2', 'TLSv1.1'.
func (s Set) String() string {
	return quoteList(s.values)
}

func quoteList(names []string) string {
	var b strings.Builder
	for i, name := range names {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteByte('\'')
		b.WriteString(name)
		b.WriteByte('\'')
	}
	return b.String()
}

func splitList(list string) []string {
	return strings.FieldsFunc(list, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})
}

func lower(s string) string { return strings.ToLower(s) }
