package comment

import (
	"fmt"
	"strings"

	"github.com/claycoleman/graphite-cli-wrapper/internal/github"
)

// historicalKeyPrefix prefixes synthetic branch keys for merged-out entries.
// Synthetic keys must never be used as real branch names.
const historicalKeyPrefix = "historical_"

// HistoricalKey builds the synthetic branch identifier for a merged PR
func HistoricalKey(prNumber int) string {
	return fmt.Sprintf("%s%d", historicalKeyPrefix, prNumber)
}

// IsHistoricalKey reports whether a branch identifier is synthetic
func IsHistoricalKey(branch string) bool {
	return strings.HasPrefix(branch, historicalKeyPrefix)
}

// Reconcile splits a previously posted stack comment into historical and
// current lineage against the live directory.
//
// The pivot is the first comment entry whose URL (synthesized from the
// directory's owner/repo and the entry's PR number) belongs to a live pull
// request. Entries before the pivot have merged and dropped out of the live
// stack: each becomes a synthetic historical branch with the title recorded
// in the comment and a placeholder base of trunk. The true historical base
// is unrecoverable, and this ancestry is for display only, never for
// submission. Entries at or after the pivot belong to the current stack and
// are discarded.
//
// When no pivot is found the lineage cannot be anchored and both results are
// empty. Anchoring at the first still-live entry makes repeated
// reconciliation a fixed point: the historical list never grows across runs
// that see the same live stack.
func Reconcile(body string, dir *github.Directory) ([]string, map[string]github.PullRequestRecord) {
	entries := Parse(body)
	if len(entries) == 0 {
		return nil, map[string]github.PullRequestRecord{}
	}

	liveURLs := dir.URLSet()
	pivot := -1
	for i, entry := range entries {
		if liveURLs[dir.PullURL(entry.Number)] {
			pivot = i
			break
		}
	}
	if pivot == -1 {
		return nil, map[string]github.PullRequestRecord{}
	}

	var branches []string
	records := make(map[string]github.PullRequestRecord, pivot)
	for _, entry := range entries[:pivot] {
		key := HistoricalKey(entry.Number)
		records[key] = github.PullRequestRecord{
			Number: entry.Number,
			URL:    dir.PullURL(entry.Number),
			Base:   trunkMarker,
			Title:  entry.Title,
		}
		branches = append(branches, key)
	}

	return branches, records
}
