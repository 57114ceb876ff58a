// Package comment implements the stack comment format posted on every pull
// request in a submitted stack, and the reconciliation of historical lineage
// from previously posted comments.
//
// The comment body is the one bit-exact persisted format in the system: it
// must remain stable across versions so old comments stay parseable.
package comment

import (
	"strconv"
	"strings"

	"github.com/claycoleman/graphite-cli-wrapper/internal/github"
)

// Header is the fixed first line of every stack comment
const Header = "### Stack\n"

// trunkMarker is the second line of every stack comment. The comment format
// always displays the stack rooted at main.
const trunkMarker = "main"

// Tree connector glyphs: branchConnector for every entry but the topmost,
// lastConnector for the topmost.
const (
	branchConnector = "├─"
	lastConnector   = "└─"
)

// Markers wrapping the entry this comment lives on
const (
	currentPrefix = "**"
	currentSuffix = " ⬅️**"
)

// prOpenToken and prCloseToken delimit the PR number reference in an entry
const (
	prOpenToken  = "(#"
	prCloseToken = ")"
)

// pendingPlaceholder is rendered for branches that have no pull request yet.
// It carries no PR reference, so such entries are unparseable as historical
// branches; a branch only enters the durable lineage once submitted.
const pendingPlaceholder = "PR pending"

// Entry is one parsed stack comment line: the PR it references and whether it
// carried the current-branch marker.
type Entry struct {
	Number  int
	Title   string
	Current bool
}

// Format renders the stack comment for a stack, bottom to top. Entries take
// their title and PR number from the directory; branches without a PR render
// the pending placeholder. The entry for currentBranch is wrapped in the
// bold-and-arrow marker.
func Format(stack []string, dir *github.Directory, currentBranch string) string {
	lines := make([]string, 0, len(stack)+2)
	lines = append(lines, strings.TrimSuffix(Header, "\n"), trunkMarker)

	for i, branch := range stack {
		connector := branchConnector
		if i == len(stack)-1 {
			connector = lastConnector
		}

		indent := strings.Repeat("─", i)

		prText := pendingPlaceholder
		if record, ok := dir.Record(branch); ok {
			prText = record.Title + " " + prOpenToken + strconv.Itoa(record.Number) + prCloseToken
		}

		if branch == currentBranch {
			prText = currentPrefix + prText + currentSuffix
		}

		lines = append(lines, connector+indent+" "+prText)
	}

	return strings.Join(lines, "\n")
}

// Parse extracts the ordered (PR number, title) entries from a stack comment
// body. Text that does not begin with the fixed header yields nil. Lines that
// do not form a valid entry are skipped, never fatal. An entry may wrap onto
// following lines (titles can contain newlines); continuation lines belong to
// the most recent connector line.
func Parse(body string) []Entry {
	if !strings.HasPrefix(body, Header) {
		return nil
	}

	var entries []Entry
	var segment []string

	flush := func() {
		if len(segment) == 0 {
			return
		}
		if entry, ok := parseEntry(strings.Join(segment, "\n")); ok {
			entries = append(entries, entry)
		}
		segment = nil
	}

	lines := strings.Split(body, "\n")
	for _, line := range lines[1:] {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, branchConnector) || strings.HasPrefix(trimmed, lastConnector) {
			flush()
			segment = []string{trimmed}
			continue
		}
		if len(segment) > 0 {
			// Continuation of a wrapped title
			segment = append(segment, line)
		}
	}
	flush()

	return entries
}

// parseEntry parses one connector-prefixed segment into an Entry. The
// connector and any run of horizontal indent glyphs are skipped; the PR
// number anchors on the last valid reference so parentheses inside titles do
// not truncate them. A bold prefix counts as the current-branch marker only
// when closed by the arrow suffix; a plain bold close still yields the title.
func parseEntry(segment string) (Entry, bool) {
	content := strings.TrimPrefix(segment, branchConnector)
	content = strings.TrimPrefix(content, lastConnector)
	content = strings.TrimLeft(content, "─")
	content = strings.TrimSpace(content)

	bold := strings.HasPrefix(content, currentPrefix)
	current := bold && strings.HasSuffix(content, strings.TrimPrefix(currentSuffix, " "))

	refStart, number, ok := lastPRReference(content)
	if !ok {
		return Entry{}, false
	}

	title := strings.TrimSpace(content[:refStart])
	if bold {
		title = strings.TrimSpace(strings.TrimPrefix(title, currentPrefix))
	}

	return Entry{Number: number, Title: title, Current: current}, true
}

// lastPRReference finds the last valid "(#<digits>)" reference in content,
// returning its start offset and the parsed number.
func lastPRReference(content string) (int, int, bool) {
	search := content
	for {
		idx := strings.LastIndex(search, prOpenToken)
		if idx == -1 {
			return 0, 0, false
		}

		rest := content[idx+len(prOpenToken):]
		close := strings.Index(rest, prCloseToken)
		if close > 0 {
			if number, ok := parseDigits(rest[:close]); ok {
				return idx, number, true
			}
		}

		search = search[:idx]
	}
}

// parseDigits parses a PR number, rejecting anything but plain digits
func parseDigits(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}
