package analyze

import (
	"fmt"
	"regexp"
	"strings"
)

// questionRe matches one numbered, bold-titled question line:
//
//	1. **How should errors be reported?**
var questionRe = regexp.MustCompile(`(?m)^\s*(\d+)\.\s+\*\*(.+?)\*\*\s*$`)

const maxContextLen = 500

// ParseQuestions extracts numbered questions from agent markdown output.
// The text between one question line and the next becomes that question's
// context, collapsed to single-spaced prose and truncated when very long.
// Used when a stream delivers a raw output tail without a structured
// questions event.
func ParseQuestions(markdown string) []Question {
	locs := questionRe.FindAllStringSubmatchIndex(markdown, -1)
	var questions []Question
	for i, loc := range locs {
		id := 0
		fmt.Sscanf(markdown[loc[2]:loc[3]], "%d", &id)
		title := strings.TrimSpace(markdown[loc[4]:loc[5]])

		end := len(markdown)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		context := cleanContext(markdown[loc[1]:end])

		questions = append(questions, Question{ID: id, Title: title, Context: context})
	}
	return questions
}

func cleanContext(raw string) string {
	s := strings.TrimLeft(raw, " \t\n-")
	s = strings.Join(strings.Fields(s), " ")
	if r := []rune(s); len(r) > maxContextLen {
		s = string(r[:maxContextLen]) + "..."
	}
	return s
}

// FormatAnswers renders submitted question/answer pairs as markdown for
// display in a session log.
func FormatAnswers(questions []Question, answers []Answer) string {
	byID := make(map[int]string, len(answers))
	for _, a := range answers {
		byID[a.QuestionID] = a.Answer
	}

	var b strings.Builder
	for _, q := range questions {
		fmt.Fprintf(&b, "### %d. %s\n\n", q.ID, q.Title)
		answer, ok := byID[q.ID]
		if !ok || answer == "" {
			answer = "(No answer provided)"
		}
		b.WriteString(answer)
		b.WriteString("\n\n")
	}
	return strings.TrimRight(b.String(), "\n") + "\n"
}
