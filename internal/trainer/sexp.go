package trainer

import (
	"fmt"
	"strings"
)

// node is an S-expression: either an atom or a list.
type node struct {
	atom   string
	list   []node
	isList bool
}

func (n node) String() string {
	if !n.isList {
		return n.atom
	}
	parts := make([]string, len(n.list))
	for i, c := range n.list {
		parts[i] = c.String()
	}
	return "(" + strings.Join(parts, " ") + ")"
}

// head returns the first atom of a list, or "".
func (n node) head() string {
	if !n.isList || len(n.list) == 0 || n.list[0].isList {
		return ""
	}
	return n.list[0].atom
}

// parseSexps reads all top-level lists of src.
func parseSexps(src string) ([]node, error) {
	var (
		stack [][]node
		out   []node
		atom  strings.Builder
	)
	flush := func() error {
		if atom.Len() == 0 {
			return nil
		}
		if len(stack) == 0 {
			return fmt.Errorf("atom %q outside of a list", atom.String())
		}
		top := len(stack) - 1
		stack[top] = append(stack[top], node{atom: atom.String()})
		atom.Reset()
		return nil
	}

	for _, r := range src {
		switch {
		case r == '(':
			if err := flush(); err != nil {
				return nil, err
			}
			stack = append(stack, nil)
		case r == ')':
			if err := flush(); err != nil {
				return nil, err
			}
			if len(stack) == 0 {
				return nil, fmt.Errorf("unbalanced ')'")
			}
			n := node{list: stack[len(stack)-1], isList: true}
			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				out = append(out, n)
			} else {
				top := len(stack) - 1
				stack[top] = append(stack[top], n)
			}
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
			if err := flush(); err != nil {
				return nil, err
			}
		default:
			atom.WriteRune(r)
		}
	}
	if err := flush(); err != nil {
		return nil, err
	}
	if len(stack) != 0 {
		return nil, fmt.Errorf("unbalanced '(': %d list(s) left open", len(stack))
	}
	return out, nil
}
