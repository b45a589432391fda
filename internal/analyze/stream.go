package analyze

import (
	"bufio"
	"io"

	"github.com/tidwall/gjson"
)

// EventType is the type tag of a streamed session event.
type EventType string

const (
	EventOutput    EventType = "output"
	EventQuestions EventType = "questions"
	EventComplete  EventType = "complete"
	EventError     EventType = "error"
	EventCancelled EventType = "cancelled"
)

// Event is one ordered message from the session stream.
type Event struct {
	Type      EventType
	Text      string     // output events
	Questions []Question // questions events
	Err       string     // error events
}

// Terminal reports whether the event ends the session.
func (e Event) Terminal() bool {
	switch e.Type {
	case EventComplete, EventError, EventCancelled:
		return true
	}
	return false
}

// EventReader decodes newline-delimited JSON events from the backend's
// streaming channel. Lines that are not valid JSON or carry an unknown type
// are skipped rather than treated as fatal, so a chatty backend can't kill
// the stream.
type EventReader struct {
	body    io.ReadCloser
	scanner *bufio.Scanner
}

// NewEventReader wraps a stream body.
func NewEventReader(body io.ReadCloser) *EventReader {
	sc := bufio.NewScanner(body)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return &EventReader{body: body, scanner: sc}
}

// Next returns the next recognized event, or io.EOF when the stream ends.
func (r *EventReader) Next() (Event, error) {
	for r.scanner.Scan() {
		ev, ok := ParseEvent(r.scanner.Text())
		if ok {
			return ev, nil
		}
	}
	if err := r.scanner.Err(); err != nil {
		return Event{}, err
	}
	return Event{}, io.EOF
}

// Close releases the underlying stream.
func (r *EventReader) Close() error {
	return r.body.Close()
}

// ParseEvent decodes a single event line. The backend's payloads are loose,
// so fields are picked out with gjson instead of a rigid struct decode.
func ParseEvent(line string) (Event, bool) {
	if !gjson.Valid(line) {
		return Event{}, false
	}
	switch EventType(gjson.Get(line, "type").String()) {
	case EventOutput:
		return Event{Type: EventOutput, Text: gjson.Get(line, "text").String()}, true
	case EventQuestions:
		var qs []Question
		gjson.Get(line, "questions").ForEach(func(_, q gjson.Result) bool {
			qs = append(qs, Question{
				ID:      int(q.Get("id").Int()),
				Title:   q.Get("title").String(),
				Context: q.Get("context").String(),
			})
			return true
		})
		return Event{Type: EventQuestions, Questions: qs}, true
	case EventComplete:
		return Event{Type: EventComplete}, true
	case EventError:
		return Event{Type: EventError, Err: gjson.Get(line, "error").String()}, true
	case EventCancelled:
		return Event{Type: EventCancelled}, true
	}
	return Event{}, false
}
