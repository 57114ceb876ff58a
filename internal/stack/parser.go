// Package stack parses the tree-drawn output of the Graphite stack listing
// into an ordered list of branch names.
package stack

import (
	"strings"

	wraperrors "github.com/claycoleman/graphite-cli-wrapper/internal/errors"
)

// Node glyphs used by the stack listing
const (
	currentNodeGlyph = "◉"
	otherNodeGlyph   = "◯"
)

// Tree-drawing glyphs that only appear when the stack branches
const (
	verticalBarGlyph     = "│"
	branchingCornerGlyph = "─┐"
)

// ParseListingLine parses a single line of the stack listing.
//
// A line carrying a node glyph yields a branch name: the last whitespace
// separated token after stripping a trailing parenthetical annotation such as
// "(needs restack)". A line that is only such an annotation (the annotation
// wrapped onto its own line) is absorbed and yields nothing. A line carrying
// a multi-child tree glyph means the stack is not linear and fails the parse.
func ParseListingLine(line string) (branch string, ok bool, err error) {
	if strings.Contains(line, verticalBarGlyph) || strings.Contains(line, branchingCornerGlyph) {
		return "", false, wraperrors.ErrNonLinearStack
	}

	if !strings.Contains(line, currentNodeGlyph) && !strings.Contains(line, otherNodeGlyph) {
		return "", false, nil
	}

	trimmed := stripTrailingAnnotation(strings.TrimSpace(line))
	fields := strings.Fields(trimmed)
	if len(fields) == 0 {
		return "", false, nil
	}
	name := fields[len(fields)-1]
	if name == currentNodeGlyph || name == otherNodeGlyph {
		// Node glyph with no branch name after it
		return "", false, nil
	}
	return name, true, nil
}

// stripTrailingAnnotation removes a trailing "(...)" annotation, if any
func stripTrailingAnnotation(line string) string {
	if !strings.HasSuffix(line, ")") {
		return line
	}
	open := strings.LastIndex(line, "(")
	if open == -1 {
		return line
	}
	return strings.TrimSpace(line[:open])
}

// Read parses the raw multi-line stack listing into branch names ordered
// bottom to top, trunk excluded. Branching anywhere in the listing aborts the
// whole parse; a listing that does not begin at trunk, or that holds no
// branches beyond trunk, is rejected.
func Read(raw, trunk string) ([]string, error) {
	var branches []string
	for _, line := range strings.Split(raw, "\n") {
		branch, ok, err := ParseListingLine(line)
		if err != nil {
			return nil, err
		}
		if ok {
			branches = append(branches, branch)
		}
	}

	if len(branches) == 0 {
		return nil, wraperrors.ErrEmptyStack
	}
	if branches[0] != trunk {
		return nil, wraperrors.ErrMissingTrunk
	}
	if len(branches) < 2 {
		return nil, wraperrors.ErrEmptyStack
	}

	return branches[1:], nil
}

// IndexOf returns the position of branch in the stack, or -1
func IndexOf(stack []string, branch string) int {
	for i, b := range stack {
		if b == branch {
			return i
		}
	}
	return -1
}
