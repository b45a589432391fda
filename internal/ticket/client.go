package ticket

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client calls the ticketing backend.
type Client struct {
	base string
	http *http.Client
}

// NewClient creates a Client for the backend at base (e.g.
// "http://localhost:8000").
func NewClient(base string) *Client {
	return &Client{
		base: base,
		http: &http.Client{Timeout: 60 * time.Second},
	}
}

// CreateRequest is the body of POST /api/jira/create.
type CreateRequest struct {
	FeatureContent string `json:"feature_content"`
	FeaturePath    string `json:"feature_path"`
	ProjectKey     string `json:"project_key"`
	CreateSubtasks bool   `json:"create_subtasks"`
	SubtaskType    string `json:"subtask_type"`
}

// Story describes the created parent issue.
type Story struct {
	Key     string `json:"key"`
	URL     string `json:"url"`
	Summary string `json:"summary"`
}

// Subtask describes one attempted subtask creation.
type Subtask struct {
	Success bool   `json:"success"`
	Key     string `json:"key,omitempty"`
	Summary string `json:"summary"`
	Error   string `json:"error,omitempty"`
}

// CreateResponse is the backend's answer to a create request.
type CreateResponse struct {
	Success          bool      `json:"success"`
	Story            *Story    `json:"story,omitempty"`
	Subtasks         []Subtask `json:"subtasks,omitempty"`
	JiraLinkMarkdown string    `json:"jira_link_markdown,omitempty"`
	Error            string    `json:"error,omitempty"`
	ErrorType        string    `json:"error_type,omitempty"`
}

// Create posts the feature content to the backend and returns the result.
// A non-2xx response or transport failure is returned as an error; a
// response with Success=false is NOT an error, the caller decides.
func (c *Client) Create(ctx context.Context, req CreateRequest) (*CreateResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode create request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/api/jira/create", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("jira create: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("jira create: backend returned %d: %s", resp.StatusCode, bytes.TrimSpace(msg))
	}

	var out CreateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("jira create: decode response: %w", err)
	}
	return &out, nil
}
