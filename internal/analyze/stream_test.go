package analyze

import (
	"io"
	"strings"
	"testing"
)

func TestParseEvent(t *testing.T) {
	tests := []struct {
		name string
		line string
		want Event
		ok   bool
	}{
		{"output", `{"type":"output","text":"hello\n"}`, Event{Type: EventOutput, Text: "hello\n"}, true},
		{"complete", `{"type":"complete"}`, Event{Type: EventComplete}, true},
		{"cancelled", `{"type":"cancelled"}`, Event{Type: EventCancelled}, true},
		{"error", `{"type":"error","error":"agent crashed"}`, Event{Type: EventError, Err: "agent crashed"}, true},
		{"unknown type", `{"type":"heartbeat"}`, Event{}, false},
		{"not json", `plain text output`, Event{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseEvent(tt.line)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if got.Type != tt.want.Type || got.Text != tt.want.Text || got.Err != tt.want.Err {
				t.Errorf("event = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParseEventQuestions(t *testing.T) {
	line := `{"type":"questions","questions":[{"id":1,"title":"Scope?","context":"Which pages apply"},{"id":2,"title":"Storage?"}]}`
	ev, ok := ParseEvent(line)
	if !ok {
		t.Fatal("expected questions event to parse")
	}
	if len(ev.Questions) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(ev.Questions))
	}
	if ev.Questions[0].ID != 1 || ev.Questions[0].Title != "Scope?" || ev.Questions[0].Context != "Which pages apply" {
		t.Errorf("questions[0] = %+v", ev.Questions[0])
	}
	if ev.Questions[1].ID != 2 || ev.Questions[1].Context != "" {
		t.Errorf("questions[1] = %+v", ev.Questions[1])
	}
}

func TestEventReaderSkipsNoise(t *testing.T) {
	stream := strings.Join([]string{
		`{"type":"output","text":"line one"}`,
		`not json at all`,
		`{"type":"heartbeat"}`,
		`{"type":"complete"}`,
	}, "\n")
	r := NewEventReader(io.NopCloser(strings.NewReader(stream)))
	defer r.Close()

	ev, err := r.Next()
	if err != nil || ev.Type != EventOutput {
		t.Fatalf("first event = %+v, %v", ev, err)
	}
	ev, err = r.Next()
	if err != nil || ev.Type != EventComplete {
		t.Fatalf("second event = %+v, %v", ev, err)
	}
	if !ev.Terminal() {
		t.Error("complete should be terminal")
	}
	if _, err := r.Next(); err != io.EOF {
		t.Errorf("expected EOF after stream end, got %v", err)
	}
}

func TestTerminal(t *testing.T) {
	for _, ev := range []Event{{Type: EventComplete}, {Type: EventError}, {Type: EventCancelled}} {
		if !ev.Terminal() {
			t.Errorf("%s should be terminal", ev.Type)
		}
	}
	for _, ev := range []Event{{Type: EventOutput}, {Type: EventQuestions}} {
		if ev.Terminal() {
			t.Errorf("%s should not be terminal", ev.Type)
		}
	}
}
