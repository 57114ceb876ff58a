// Package update runs the best-effort background check for a newer wrapper
// release. It shares no state with the stack engine and must never block or
// fail the primary operation.
package update

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/go-github/v62/github"

	"github.com/claycoleman/graphite-cli-wrapper/internal/tui"
)

const (
	releaseOwner = "claycoleman"
	releaseRepo  = "graphite-cli-wrapper"

	// checkInterval is how long a completed check suppresses the next one
	checkInterval = 24 * time.Hour

	// joinTimeout bounds how long process exit waits for an in-flight check
	joinTimeout = 2 * time.Second
)

// Cache is the persisted state of the background check
type Cache struct {
	LastCheck        time.Time `json:"last_check"`
	LatestVersion    string    `json:"latest_version"`
	ShowNotification bool      `json:"show_notification"`
}

// CachePath returns where the check state is stored. GTW_CACHE_FILE
// overrides the default user cache location.
func CachePath() string {
	if path := os.Getenv("GTW_CACHE_FILE"); path != "" {
		return path
	}
	base, err := os.UserCacheDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "gtw-update.json")
	}
	return filepath.Join(base, "gtw", "update.json")
}

// loadCache reads the persisted state; any failure yields an empty cache
func loadCache() Cache {
	var cache Cache
	data, err := os.ReadFile(CachePath())
	if err != nil {
		return cache
	}
	_ = json.Unmarshal(data, &cache)
	return cache
}

// saveCache persists the state, silently dropping it on failure
func saveCache(cache Cache) {
	data, err := json.Marshal(cache)
	if err != nil {
		return
	}
	path := CachePath()
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return
	}
	_ = os.WriteFile(path, data, 0600)
}

// ShouldCheck reports whether the last completed check is stale
func ShouldCheck(cache Cache, now time.Time) bool {
	if cache.LastCheck.IsZero() {
		return true
	}
	return now.Sub(cache.LastCheck) >= checkInterval
}

// IsNewer reports whether latest is a strictly newer x.y.z version than
// current. Malformed versions never report an update.
func IsNewer(current, latest string) bool {
	currentParts, ok := parseVersion(current)
	if !ok {
		return false
	}
	latestParts, ok := parseVersion(latest)
	if !ok {
		return false
	}

	for i := range currentParts {
		if latestParts[i] != currentParts[i] {
			return latestParts[i] > currentParts[i]
		}
	}
	return false
}

func parseVersion(version string) ([3]int, bool) {
	var parts [3]int
	fields := strings.Split(strings.TrimPrefix(version, "v"), ".")
	if len(fields) != 3 {
		return parts, false
	}
	for i, field := range fields {
		n, err := strconv.Atoi(field)
		if err != nil || n < 0 {
			return parts, false
		}
		parts[i] = n
	}
	return parts, true
}

// Checker is an in-flight background check
type Checker struct {
	version string
	done    chan struct{}
}

// Start launches the background check and returns immediately
func Start(version string) *Checker {
	checker := &Checker{version: version, done: make(chan struct{})}
	go func() {
		defer close(checker.done)
		checker.run()
	}()
	return checker
}

func (c *Checker) run() {
	cache := loadCache()
	if !ShouldCheck(cache, time.Now()) {
		return
	}

	latest, ok := latestReleaseVersion()
	if !ok {
		return
	}

	saveCache(Cache{
		LastCheck:        time.Now(),
		LatestVersion:    latest,
		ShowNotification: IsNewer(c.version, latest),
	})
}

// latestReleaseVersion queries the newest published release tag
func latestReleaseVersion() (string, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), joinTimeout)
	defer cancel()

	release, _, err := github.NewClient(nil).Repositories.GetLatestRelease(ctx, releaseOwner, releaseRepo)
	if err != nil || release.TagName == nil {
		return "", false
	}
	return strings.TrimPrefix(*release.TagName, "v"), true
}

// WaitAndNotify joins the background check with a bounded wait, then prints
// the pending update notification, if any, and clears it. An unfinished
// check is abandoned, never cancelled.
func (c *Checker) WaitAndNotify(splog *tui.Splog) {
	select {
	case <-c.done:
	case <-time.After(joinTimeout):
	}

	cache := loadCache()
	if !cache.ShowNotification {
		return
	}
	if !IsNewer(c.version, cache.LatestVersion) {
		// Already updated since the check ran
		cache.ShowNotification = false
		saveCache(cache)
		return
	}

	splog.Newline()
	splog.Tip("A new version of gtw is available: %s → %s", c.version, cache.LatestVersion)
	splog.Info("Run %s to update.", tui.Bold("npm install -g gtw"))

	cache.ShowNotification = false
	saveCache(cache)
}
