// Package status classifies agent status.md content into a lifecycle state
// using ordered keyword matching.
package status

import (
	"regexp"
	"strings"
)

// Status is an agent folder's lifecycle state.
type Status string

const (
	Completed  Status = "completed"
	Blocked    Status = "blocked"
	InProgress Status = "in-progress"
	NotStarted Status = "not-started"
)

// sampleLimit caps how much of the text is examined, so a huge status file
// stays cheap to classify.
const sampleLimit = 500

// checks is evaluated top to bottom and the first status with any matching
// pattern wins. The slice order IS the priority contract: completed beats
// blocked beats in-progress, regardless of where the keywords appear in the
// text. Do not reorder.
var checks = []struct {
	status   Status
	patterns []*regexp.Regexp
}{
	{Completed, words("completed", "done", "finished")},
	{Blocked, words("blocked", "waiting", "stuck")},
	{InProgress, words("in progress", "working", "started")},
}

func words(keywords ...string) []*regexp.Regexp {
	res := make([]*regexp.Regexp, len(keywords))
	for i, kw := range keywords {
		res[i] = regexp.MustCompile(`(?i)\b` + kw + `\b`)
	}
	return res
}

// Parse classifies text. Unmatched text is NotStarted.
func Parse(text string) Status {
	if runes := []rune(text); len(runes) > sampleLimit {
		text = string(runes[:sampleLimit])
	}
	for _, c := range checks {
		for _, re := range c.patterns {
			if re.MatchString(text) {
				return c.status
			}
		}
	}
	return NotStarted
}

// DisplayText renders a status slug as space-separated words.
func DisplayText(s Status) string {
	return strings.ReplaceAll(string(s), "-", " ")
}
