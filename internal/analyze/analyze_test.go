package analyze

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClientStart(t *testing.T) {
	var gotBody map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/analyze/start" {
			t.Errorf("path = %s", r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&gotBody)
		json.NewEncoder(w).Encode(StartResponse{SessionID: "abc123", Status: StatusStarting})
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	resp, err := c.Start(context.Background(), "/home/me/ws", "features/dark-mode")
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if resp.SessionID != "abc123" || resp.Status != StatusStarting {
		t.Errorf("resp = %+v", resp)
	}
	if gotBody["workspace_path"] != "/home/me/ws" || gotBody["feature_path"] != "features/dark-mode" {
		t.Errorf("request body = %v", gotBody)
	}
}

func TestClientSubmitAnswers(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/analyze/s1/answers" {
			t.Errorf("path = %s", r.URL.Path)
		}
		var body struct {
			Answers []Answer `json:"answers"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		if len(body.Answers) != 1 || body.Answers[0].QuestionID != 2 {
			t.Errorf("answers = %+v", body.Answers)
		}
		w.Write([]byte(`{"status":"processing"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	err := c.SubmitAnswers(context.Background(), "s1", []Answer{{QuestionID: 2, Answer: "yes"}})
	if err != nil {
		t.Fatalf("SubmitAnswers: %v", err)
	}
}

func TestClientBackendError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "session not found", 404)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	if err := c.Cancel(context.Background(), "nope"); err == nil {
		t.Error("expected error for non-2xx response")
	}
}

func TestClientStream(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/analyze/s9/events" {
			t.Errorf("path = %s", r.URL.Path)
		}
		w.Write([]byte(`{"type":"output","text":"thinking"}` + "\n" + `{"type":"complete"}` + "\n"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	stream, err := c.Stream(context.Background(), "s9")
	if err != nil {
		t.Fatalf("Stream: %v", err)
	}
	defer stream.Close()

	ev, err := stream.Next()
	if err != nil || ev.Type != EventOutput || ev.Text != "thinking" {
		t.Fatalf("first event = %+v, %v", ev, err)
	}
	ev, err = stream.Next()
	if err != nil || ev.Type != EventComplete {
		t.Fatalf("second event = %+v, %v", ev, err)
	}
}
