package submit

import (
	"os"
	"path/filepath"
)

// templatePaths are the locations GitHub recognizes for a pull request
// template, relative to the repository root, in lookup order.
var templatePaths = []string{
	filepath.Join(".github", "pull_request_template.md"),
	filepath.Join(".github", "PULL_REQUEST_TEMPLATE.md"),
	"pull_request_template.md",
	"PULL_REQUEST_TEMPLATE.md",
	filepath.Join("docs", "pull_request_template.md"),
	filepath.Join("docs", "PULL_REQUEST_TEMPLATE.md"),
}

// FindPRTemplate returns the repository's pull request template contents, or
// false if none exists. Unreadable templates are treated as absent.
func FindPRTemplate(repoRoot string) (string, bool) {
	for _, rel := range templatePaths {
		contents, err := os.ReadFile(filepath.Join(repoRoot, rel))
		if err != nil {
			continue
		}
		return string(contents), true
	}
	return "", false
}
