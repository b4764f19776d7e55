package ollama

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

	"github.com/ollama/ollama/api"

	"paperhub/config"
	"paperhub/lineio"
)

const (
	DefaultHost  = "http://localhost:11434"
	DefaultModel = "qwen3:4b-instruct-2507-q4_K_M"

	maxLineSize = 512 * 1024
)

// Client talks to a local Ollama daemon. Chat reads the NDJSON stream itself
// so that a corrupt line is skipped instead of ending the response; model
// listing and health checks go through api.Client.
type Client struct {
	client  *api.Client
	http    *http.Client
	model   string
	baseURL *url.URL
	options map[string]any
}

// StreamCallback receives each content fragment of a streamed reply.
type StreamCallback func(chunk string) error

// chatLine is one NDJSON object of a /api/chat stream. The daemon reports
// generation failures as {"error": "..."} lines.
type chatLine struct {
	api.ChatResponse
	Error string `json:"error,omitempty"`
}

func NewClient(baseURL, model string) (*Client, error) {
	if baseURL == "" {
		baseURL = DefaultHost
	}
	if model == "" {
		model = DefaultModel
	}

	parsedURL, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid Ollama URL: %w", err)
	}
	if parsedURL.Scheme == "" || parsedURL.Host == "" {
		return nil, fmt.Errorf("invalid Ollama URL %q: scheme and host are required", baseURL)
	}

	return &Client{
		client:  api.NewClient(parsedURL, http.DefaultClient),
		http:    http.DefaultClient,
		model:   model,
		baseURL: parsedURL,
	}, nil
}

// SetOptions sets generation options (temperature, num_predict, ...) sent
// with every chat request.
func (c *Client) SetOptions(opts map[string]any) {
	c.options = opts
}

// Chat posts {model, messages, stream:true} to /api/chat and streams content
// fragments to callback. It returns nil once the daemon marks the reply done
// or closes the stream.
func (c *Client) Chat(ctx context.Context, messages []api.Message, callback StreamCallback) error {
	stream := true
	req := api.ChatRequest{
		Model:    c.model,
		Messages: messages,
		Stream:   &stream,
		Options:  c.options,
	}

	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to marshal chat request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL.JoinPath("api", "chat").String(), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/x-ndjson")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return fmt.Errorf("failed to reach Ollama at %s: %w", c.baseURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		var line chatLine
		msg := strings.TrimSpace(string(data))
		if json.Unmarshal(data, &line) == nil && line.Error != "" {
			msg = line.Error
		}
		return api.StatusError{StatusCode: resp.StatusCode, Status: resp.Status, ErrorMessage: msg}
	}

	return ReadStream(resp.Body, callback)
}

// ReadStream decodes an Ollama chat NDJSON stream. Each line is parsed on its
// own: lines that fail to parse or exceed maxLineSize are logged and
// dropped, an error line is fatal, and done or EOF ends the stream.
func ReadStream(r io.Reader, callback StreamCallback) error {
	return lineio.Each(r, maxLineSize, func(raw []byte) (bool, error) {
		var line chatLine
		if err := json.Unmarshal(raw, &line); err != nil {
			if config.DebugLog != nil {
				config.DebugLog.Printf("[Ollama] Skipping malformed stream line: %v (%q)", err, truncate(raw, 120))
			}
			return false, nil
		}

		if line.Error != "" {
			return true, fmt.Errorf("ollama: %s", line.Error)
		}

		if line.Message.Content != "" && callback != nil {
			if err := callback(line.Message.Content); err != nil {
				return true, err
			}
		}
		return line.Done, nil
	})
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}

type ModelInfo struct {
	Name string
	Size int64
}

func (c *Client) ListModels(ctx context.Context) ([]ModelInfo, error) {
	resp, err := c.client.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list models: %w", err)
	}

	models := make([]ModelInfo, len(resp.Models))
	for i, model := range resp.Models {
		models[i] = ModelInfo{
			Name: model.Name,
			Size: model.Size,
		}
	}

	return models, nil
}

func (c *Client) SetModel(model string) {
	c.model = model
}

func (c *Client) GetModel() string {
	return c.model
}

func (c *Client) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := c.client.List(ctx)
	return err
}
