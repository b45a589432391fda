package ticket

import (
	"strings"
	"testing"
)

func TestHasLink(t *testing.T) {
	tests := []struct {
		name string
		text string
		key  string
		ok   bool
	}{
		{"no link", "# Title\n\nBody", "", false},
		{"simple link", "**Jira**: [AWB-123](https://example.atlassian.net/browse/AWB-123)", "AWB-123", true},
		{"link inside document", "# Title\n\n**Jira**: [PROJ-7](url)\n\nBody", "PROJ-7", true},
		{"first of two wins", "**Jira**: [A-1](u)\n**Jira**: [B-2](u)", "A-1", true},
		{"lowercase key rejected", "**Jira**: [awb-123](url)", "", false},
		{"plain mention is not a link", "see AWB-123 for details", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, ok := HasLink(tt.text)
			if ok != tt.ok || key != tt.key {
				t.Errorf("HasLink = (%q, %v), want (%q, %v)", key, ok, tt.key, tt.ok)
			}
		})
	}
}

func TestInsertionPoint(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{"heading then blank", "# Title\n\nBody", 2},
		{"heading no blank", "# Title\nBody", 1},
		{"heading many blanks", "# Title\n\n\n\nBody", 4},
		{"no heading", "just some text\nmore text", 1},
		{"heading not first line", "preamble\n# Title\n\nBody", 3},
		{"subheading is not top-level", "## Section\nBody", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := InsertionPoint(tt.text); got != tt.want {
				t.Errorf("InsertionPoint(%q) = %d, want %d", tt.text, got, tt.want)
			}
		})
	}
}

func TestInsertLink(t *testing.T) {
	original := "# Dark Mode\n\n## Overview\n\nBody text here."
	got := InsertLink(original, "AWB-42", "https://example.atlassian.net/browse/AWB-42")

	want := "# Dark Mode\n\n\n**Jira**: [AWB-42](https://example.atlassian.net/browse/AWB-42)\n## Overview\n\nBody text here."
	if got != want {
		t.Errorf("InsertLink produced:\n%q\nwant:\n%q", got, want)
	}

	// Everything other than the inserted lines survives byte-for-byte.
	for _, line := range strings.Split(original, "\n") {
		if !strings.Contains(got, line) {
			t.Errorf("original line %q lost during insertion", line)
		}
	}
}

func TestInsertLinkRoundTrip(t *testing.T) {
	texts := []string{
		"# Title\n\nBody",
		"no heading at all\nsecond line",
		"# Title\nimmediate body",
	}
	for _, text := range texts {
		inserted := InsertLink(text, "KEY-9", "https://example/browse/KEY-9")
		key, ok := HasLink(inserted)
		if !ok || key != "KEY-9" {
			t.Errorf("round trip on %q: HasLink = (%q, %v)", text, key, ok)
		}
	}
}
