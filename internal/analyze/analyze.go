// Package analyze is the client side of the external analysis backend: it
// starts sessions, streams their events, submits answers and cancels.
package analyze

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// SessionStatus mirrors the backend's session lifecycle.
type SessionStatus string

const (
	StatusStarting          SessionStatus = "starting"
	StatusRunning           SessionStatus = "running"
	StatusAwaitingAnswers   SessionStatus = "awaiting_answers"
	StatusProcessingAnswers SessionStatus = "processing_answers"
	StatusComplete          SessionStatus = "complete"
	StatusError             SessionStatus = "error"
	StatusCancelled         SessionStatus = "cancelled"
)

// Question is a clarifying question raised by the analysis agent.
type Question struct {
	ID      int    `json:"id"`
	Title   string `json:"title"`
	Context string `json:"context,omitempty"`
}

// Answer pairs a question with the user's reply.
type Answer struct {
	QuestionID int    `json:"question_id"`
	Answer     string `json:"answer"`
}

// Client calls the analysis backend.
type Client struct {
	base string
	http *http.Client
}

// NewClient creates a Client for the backend at base. Requests other than
// the event stream time out; the stream request deliberately has no
// client-side deadline since analysis sessions are long-lived.
func NewClient(base string) *Client {
	return &Client{
		base: base,
		http: &http.Client{Timeout: 30 * time.Second},
	}
}

// StartResponse is the backend's answer to starting a session.
type StartResponse struct {
	SessionID string        `json:"session_id"`
	Status    SessionStatus `json:"status"`
}

// Start begins an analysis session for the feature at featurePath inside
// workspacePath.
func (c *Client) Start(ctx context.Context, workspacePath, featurePath string) (*StartResponse, error) {
	body := map[string]string{
		"workspace_path": workspacePath,
		"feature_path":   featurePath,
	}
	var out StartResponse
	if err := c.postJSON(ctx, "/api/analyze/start", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SubmitAnswers posts the user's answers for an awaiting session.
func (c *Client) SubmitAnswers(ctx context.Context, sessionID string, answers []Answer) error {
	body := map[string]any{"answers": answers}
	return c.postJSON(ctx, "/api/analyze/"+sessionID+"/answers", body, nil)
}

// Cancel asks the backend to stop the session. The backend's cooperation is
// assumed; a cancelled event arrives on the stream when it complies.
func (c *Client) Cancel(ctx context.Context, sessionID string) error {
	return c.postJSON(ctx, "/api/analyze/"+sessionID+"/cancel", struct{}{}, nil)
}

// StatusResponse reports a session's current state.
type StatusResponse struct {
	SessionID string        `json:"session_id"`
	Status    SessionStatus `json:"status"`
	Questions []Question    `json:"questions,omitempty"`
}

// Status fetches the session's current status and any pending questions.
func (c *Client) Status(ctx context.Context, sessionID string) (*StatusResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/api/analyze/"+sessionID+"/status", nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("analyze status: %w", err)
	}
	defer resp.Body.Close()
	if err := checkStatus(resp); err != nil {
		return nil, err
	}
	var out StatusResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("analyze status: decode: %w", err)
	}
	return &out, nil
}

// Stream opens the session's event channel. The returned reader delivers
// one JSON event per line until the session reaches a terminal state or ctx
// is cancelled. Close the reader when done.
func (c *Client) Stream(ctx context.Context, sessionID string) (*EventReader, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/api/analyze/"+sessionID+"/events", nil)
	if err != nil {
		return nil, err
	}
	// No timeout: the stream lives as long as the session.
	streamClient := &http.Client{}
	resp, err := streamClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("analyze stream: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, fmt.Errorf("analyze stream: backend returned %d", resp.StatusCode)
	}
	return NewEventReader(resp.Body), nil
}

func (c *Client) postJSON(ctx context.Context, path string, body any, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+path, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	defer resp.Body.Close()
	if err := checkStatus(resp); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: decode response: %w", path, err)
	}
	return nil
}

func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode <= 299 {
		return nil
	}
	msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	return fmt.Errorf("backend returned %d: %s", resp.StatusCode, bytes.TrimSpace(msg))
}
