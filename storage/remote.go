package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// RemoteStore is the client for the hosted comments and likes API.
type RemoteStore struct {
	baseURL string
	client  *http.Client
}

// NewRemoteStore creates a client for the API rooted at baseURL
// (e.g. http://localhost:8080).
func NewRemoteStore(baseURL string, client *http.Client) *RemoteStore {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &RemoteStore{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
	}
}

type countBody struct {
	Count int `json:"count"`
}

type passwordBody struct {
	Password string `json:"password"`
}

type errorBody struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func (r *RemoteStore) ListComments(ctx context.Context, toolID string) ([]Comment, error) {
	var comments []Comment
	if err := r.do(ctx, http.MethodGet, toolPath(toolID, "comments"), nil, &comments); err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	if comments == nil {
		comments = []Comment{}
	}
	return comments, nil
}

func (r *RemoteStore) CountComments(ctx context.Context, toolID string) (int, error) {
	var out countBody
	if err := r.do(ctx, http.MethodGet, toolPath(toolID, "comments", "count"), nil, &out); err != nil {
		return 0, fmt.Errorf("failed to count comments: %w", err)
	}
	return out.Count, nil
}

func (r *RemoteStore) AddComment(ctx context.Context, c NewComment) (Comment, error) {
	var out Comment
	if err := r.do(ctx, http.MethodPost, toolPath(c.ToolID, "comments"), c, &out); err != nil {
		return Comment{}, fmt.Errorf("failed to add comment: %w", err)
	}
	return out, nil
}

func (r *RemoteStore) DeleteComment(ctx context.Context, id, password string) error {
	path := "/api/comments/" + url.PathEscape(id)
	if err := r.do(ctx, http.MethodDelete, path, passwordBody{Password: password}, nil); err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	return nil
}

func (r *RemoteStore) GetLikes(ctx context.Context, toolID string) (int, error) {
	var out countBody
	if err := r.do(ctx, http.MethodGet, toolPath(toolID, "likes"), nil, &out); err != nil {
		return 0, fmt.Errorf("failed to load likes: %w", err)
	}
	return out.Count, nil
}

func (r *RemoteStore) SetLikes(ctx context.Context, toolID string, count int) error {
	if err := r.do(ctx, http.MethodPut, toolPath(toolID, "likes"), countBody{Count: count}, nil); err != nil {
		return fmt.Errorf("failed to save likes: %w", err)
	}
	return nil
}

func (r *RemoteStore) Close() error {
	r.client.CloseIdleConnections()
	return nil
}

func toolPath(toolID string, parts ...string) string {
	return "/api/tools/" + url.PathEscape(toolID) + "/" + strings.Join(parts, "/")
}

func (r *RemoteStore) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, r.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return statusError(resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func statusError(resp *http.Response) error {
	switch resp.StatusCode {
	case http.StatusForbidden:
		return ErrWrongPassword
	case http.StatusNotFound:
		return ErrNotFound
	}

	var base error
	if resp.StatusCode == http.StatusBadRequest {
		base = ErrInvalid
	}

	data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var eb errorBody
	msg := strings.TrimSpace(string(data))
	if err := json.Unmarshal(data, &eb); err == nil && eb.Error != "" {
		msg = eb.Error
	}
	if base != nil {
		return fmt.Errorf("%w: server returned %d: %s", base, resp.StatusCode, msg)
	}
	return fmt.Errorf("server returned %d: %s", resp.StatusCode, msg)
}
