// Package attrs holds the raw string attributes of one server record and
// converts them to typed values with fixed fallbacks. A missing or unparsable
// value never produces an error.
package attrs

import (
	"maps"
	"strconv"
	"strings"
	"time"
)

// timeLayouts are the timestamp formats the API has been seen to emit.
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// Attributes is an immutable copy of a record's fields.
type Attributes struct {
	m map[string]string
}

// New copies m into a new Attributes.
func New(m map[string]string) Attributes {
	return Attributes{m: maps.Clone(m)}
}

// Lookup returns the raw value for key and whether it was present.
func (a Attributes) Lookup(key string) (string, bool) {
	v, ok := a.m[key]
	return v, ok
}

// String returns the raw value for key, or "".
func (a Attributes) String(key string) string {
	return a.m[key]
}

// Int parses key as a base-10 integer, returning fallback when the value is
// missing or not a number.
func (a Attributes) Int(key string, fallback int) int {
	v, ok := a.m[key]
	if !ok {
		return fallback
	}

	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return fallback
	}

	return n
}

// Flag reports whether key holds an integer greater than zero.
func (a Attributes) Flag(key string) bool {
	return a.Int(key, 0) > 0
}

// Time parses key as a timestamp. The bool is false when the value is missing
// or in no known layout.
func (a Attributes) Time(key string) (time.Time, bool) {
	v := strings.TrimSpace(a.m[key])
	if v == "" {
		return time.Time{}, false
	}

	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

// Len returns the number of attributes.
func (a Attributes) Len() int { return len(a.m) }

// Raw returns a copy of the underlying map.
func (a Attributes) Raw() map[string]string {
	out := maps.Clone(a.m)
	if out == nil {
		out = make(map[string]string)
	}

	return out
}
