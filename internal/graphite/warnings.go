package graphite

import "strings"

// warningStart marks the first line of the Graphite CLI's version nag banner
const warningStart = "ℹ️ The Graphite CLI version"

// warningEnd marks the banner's closing line
const warningEnd = "- Team Graphite :)"

// FilterVersionWarning removes the Graphite CLI's version upgrade banner from
// captured output so the banner never reaches the stack parsers. Output that
// carries no banner passes through unchanged.
func FilterVersionWarning(output string) string {
	if !strings.Contains(output, warningStart) {
		return output
	}

	lines := strings.Split(output, "\n")
	kept := make([]string, 0, len(lines))
	inWarning := false
	for _, line := range lines {
		if !inWarning && strings.Contains(line, warningStart) {
			inWarning = true
			continue
		}
		if inWarning {
			if strings.Contains(line, warningEnd) {
				inWarning = false
			}
			continue
		}
		kept = append(kept, line)
	}

	return strings.TrimSpace(strings.Join(kept, "\n"))
}
