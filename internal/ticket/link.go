// Package ticket extracts ticket links from feature documents, injects new
// ones, and talks to the ticketing backend.
package ticket

import (
	"fmt"
	"regexp"
	"strings"
)

// linkRe matches the bold-label link line `**Jira**: [KEY-123](...)`.
// Only the key is captured; the URL is whatever follows.
var linkRe = regexp.MustCompile(`\*\*Jira\*\*:\s*\[([A-Z]+-[0-9]+)\]`)

// HasLink returns the first ticket key referenced in text, if any.
func HasLink(text string) (string, bool) {
	m := linkRe.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// InsertionPoint returns the line index at which a new link line belongs:
// just after the first top-level heading, skipping any blank lines that
// immediately follow it. Without a heading the answer is line 1.
func InsertionPoint(text string) int {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if strings.HasPrefix(line, "# ") {
			at := i + 1
			for at < len(lines) && strings.TrimSpace(lines[at]) == "" {
				at++
			}
			return at
		}
	}
	return 1
}

// InsertLink splices `**Jira**: [key](url)` into text at the insertion
// point, preceded by a blank line. All other content is preserved as-is.
func InsertLink(text, key, url string) string {
	lines := strings.Split(text, "\n")
	at := InsertionPoint(text)
	if at > len(lines) {
		at = len(lines)
	}
	link := fmt.Sprintf("**Jira**: [%s](%s)", key, url)

	out := make([]string, 0, len(lines)+2)
	out = append(out, lines[:at]...)
	out = append(out, "", link)
	out = append(out, lines[at:]...)
	return strings.Join(out, "\n")
}
