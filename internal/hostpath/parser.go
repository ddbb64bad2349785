package hostpath

import (
	"fmt"
	"regexp"
	"strings"
)

var segmentRegex = regexp.MustCompile(`^[a-zA-Z0-9_.-]+$`)

// isValidSegmentName rejects names that are legal for the regex but would
// make paths ambiguous.
func isValidSegmentName(name string) bool {
	return name != "." && name != ".." && name != "-"
}

// Parse validates raw and returns its normalized form.
func Parse(raw string) (Path, error) {
	if raw == "" {
		return Path{}, fmt.Errorf("host path cannot be empty")
	}
	if !strings.HasPrefix(raw, "/") {
		return Path{}, fmt.Errorf("host path %q must be absolute", raw)
	}

	trimmed := strings.TrimSuffix(raw[1:], "/")
	if trimmed == "" {
		return Root, nil
	}

	var p Path
	for _, seg := range strings.Split(trimmed, "/") {
		if seg == "" {
			return Path{}, fmt.Errorf("host path %q contains empty segment", raw)
		}
		if !segmentRegex.MatchString(seg) {
			return Path{}, fmt.Errorf("invalid host path segment format: %q", seg)
		}
		if !isValidSegmentName(seg) {
			return Path{}, fmt.Errorf("invalid host path segment name: %q", seg)
		}
		p.Segments = append(p.Segments, seg)
	}
	return p, nil
}

// MustParse is Parse for compile-time constants; it panics on error.
func MustParse(raw string) Path {
	p, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return p
}

// Join concatenates a configured prefix and a relative service name, the way
// "$serverPath + 'random'" is built, and parses the result.
func Join(prefix, name string) (Path, error) {
	if !strings.HasSuffix(prefix, "/") && name != "" {
		prefix += "/"
	}
	return Parse(prefix + name)
}
