// Package colpath addresses columns through nested groups. A Path is the
// sequence of names from the top-level frame down to a column; Node builds
// path-indexed trees over resolved columns.
package colpath

import (
	"slices"
	"strings"
)

// Separator joins path segments in String and Parse.
const Separator = "."

// Path is an ordered list of name segments. Depth is len-1.
type Path []string

// Of builds a path from segments.
func Of(segments ...string) Path {
	return Path(slices.Clone(segments))
}

// Parse splits a dotted string into a path. An empty string yields an empty path.
func Parse(s string) Path {
	if s == "" {
		return Path{}
	}
	return Path(strings.Split(s, Separator))
}

// Depth returns the nesting depth; top-level columns have depth 0.
func (p Path) Depth() int { return len(p) - 1 }

// Name returns the last segment.
func (p Path) Name() string {
	if len(p) == 0 {
		return ""
	}
	return p[len(p)-1]
}

// Parent returns the path without its last segment.
func (p Path) Parent() Path {
	if len(p) == 0 {
		return Path{}
	}
	return p[:len(p)-1:len(p)-1]
}

// Append returns a new path with extra segments. The receiver is not modified.
func (p Path) Append(segments ...string) Path {
	out := make(Path, 0, len(p)+len(segments))
	out = append(out, p...)
	return append(out, segments...)
}

// Concat appends another path.
func (p Path) Concat(other Path) Path { return p.Append(other...) }

// Equal reports segment-wise equality.
func (p Path) Equal(other Path) bool { return slices.Equal(p, other) }

// HasPrefix reports whether prefix is an ancestor of p or p itself.
func (p Path) HasPrefix(prefix Path) bool {
	return len(prefix) <= len(p) && slices.Equal(p[:len(prefix)], prefix)
}

// IsDescendantOf reports whether p lies strictly below ancestor.
func (p Path) IsDescendantOf(ancestor Path) bool {
	return len(p) > len(ancestor) && p.HasPrefix(ancestor)
}

// Last returns the trailing n segments, or the whole path when n exceeds it.
func (p Path) Last(n int) Path {
	if n >= len(p) {
		return p
	}
	return p[len(p)-n:]
}

// Drop removes the leading n segments.
func (p Path) Drop(n int) Path {
	if n >= len(p) {
		return Path{}
	}
	return p[n:]
}

// Key is a map key unique per path. Segments may contain the separator, so
// a control byte is used instead.
func (p Path) Key() string { return strings.Join(p, "\x00") }

// String renders the path with Separator.
func (p Path) String() string { return strings.Join(p, Separator) }

// Join renders the path with a custom separator.
func (p Path) Join(sep string) string { return strings.Join(p, sep) }
