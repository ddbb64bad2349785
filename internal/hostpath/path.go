package hostpath

import (
	"slices"
	"strings"
)

// Path is a parsed, normalized host service path.
type Path struct {
	Segments []string
}

// Root is the empty path "/".
var Root = Path{}

// String serializes the Path into its canonical form.
func (p Path) String() string {
	if len(p.Segments) == 0 {
		return "/"
	}
	return "/" + strings.Join(p.Segments, "/")
}

// Equal reports whether both paths name the same node.
func (p Path) Equal(other Path) bool {
	return slices.Equal(p.Segments, other.Segments)
}

// Parent returns the enclosing path. The parent of Root is Root.
func (p Path) Parent() Path {
	if len(p.Segments) == 0 {
		return Root
	}
	return Path{Segments: slices.Clone(p.Segments[:len(p.Segments)-1])}
}

// Base returns the last segment, or "" for Root.
func (p Path) Base() string {
	if len(p.Segments) == 0 {
		return ""
	}
	return p.Segments[len(p.Segments)-1]
}

// Child returns p extended by one segment.
func (p Path) Child(name string) Path {
	segs := make([]string, 0, len(p.Segments)+1)
	segs = append(segs, p.Segments...)
	return Path{Segments: append(segs, name)}
}

// HasPrefix reports whether prefix is p or one of its ancestors.
func (p Path) HasPrefix(prefix Path) bool {
	if len(prefix.Segments) > len(p.Segments) {
		return false
	}
	return slices.Equal(p.Segments[:len(prefix.Segments)], prefix.Segments)
}
