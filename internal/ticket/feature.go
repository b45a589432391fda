package ticket

import (
	"regexp"
	"strings"
)

var (
	titleRe   = regexp.MustCompile(`(?m)^#\s+(.+)$`)
	frLineRe  = regexp.MustCompile(`(?m)^\s*-\s*\[\s*\]\s*(FR-\d+:\s*.+)$`)
	sectionRe = regexp.MustCompile(`(?m)^##\s+`)
)

// Title extracts the document title from the first top-level heading.
func Title(content string) string {
	m := titleRe.FindStringSubmatch(content)
	if m == nil {
		return "Untitled Feature"
	}
	return strings.TrimSpace(m[1])
}

// Section returns the content under the `## name` heading, up to the next
// `##` heading or end of document. Empty string when the section is absent.
func Section(content, name string) string {
	re := regexp.MustCompile(`(?m)^##\s+` + regexp.QuoteMeta(name) + `\s*$`)
	loc := re.FindStringIndex(content)
	if loc == nil {
		return ""
	}
	rest := content[loc[1]:]
	if next := sectionRe.FindStringIndex(rest); next != nil {
		rest = rest[:next[0]]
	}
	return strings.TrimSpace(rest)
}

// FunctionalRequirements returns each unchecked `- [ ] FR-n: ...` line.
func FunctionalRequirements(content string) []string {
	var frs []string
	for _, m := range frLineRe.FindAllStringSubmatch(content, -1) {
		frs = append(frs, strings.TrimSpace(m[1]))
	}
	return frs
}

// Description builds the ticket body from the feature's overview and
// success criteria.
func Description(overview, successCriteria string) string {
	var parts []string
	if overview != "" {
		parts = append(parts, overview)
	}
	if successCriteria != "" {
		parts = append(parts, "\n\n*Acceptance Criteria:*\n"+successCriteria)
	}
	if len(parts) == 0 {
		return "See linked feature specification."
	}
	return strings.Join(parts, "\n")
}
