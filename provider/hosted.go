package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"paperhub/config"
	"paperhub/lineio"
	"paperhub/model"
)

const hostedModelName = "hosted"

// HostedProvider sends turns to the PaperHub /api/chat endpoint.
//
// The endpoint synthesizes the system prompt itself from the raw attachment
// text, so only Context and the user/assistant history are sent. Replies use
// the data-stream line protocol (see ReadDataStream).
type HostedProvider struct {
	url    string
	client *http.Client
	model  string
}

// HostedRequest is the body of POST /api/chat.
type HostedRequest struct {
	Messages []HostedMessage `json:"messages"`
	Context  string          `json:"context,omitempty"`
}

type HostedMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// HostedError is the JSON body of a failed /api/chat call.
type HostedError struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// NewHostedProvider creates a client for the endpoint at chatURL
// (e.g. "http://localhost:8080/api/chat"). A nil client uses a default
// one without a timeout, since replies are streamed.
func NewHostedProvider(chatURL string, client *http.Client) (*HostedProvider, error) {
	if chatURL == "" {
		chatURL = config.DefaultHostedURL
	}
	u, err := url.Parse(chatURL)
	if err != nil {
		return nil, fmt.Errorf("invalid hosted URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid hosted URL %q: scheme must be http or https", chatURL)
	}
	if client == nil {
		client = &http.Client{}
	}

	return &HostedProvider{
		url:    chatURL,
		client: client,
		model:  hostedModelName,
	}, nil
}

// Chat posts the turn and streams text parts to callback.
//
// A non-2xx response is fatal and carries the server's error text. Inside
// the stream, a malformed line is logged and skipped, an error part ends the
// call with that error, and a finish part or EOF ends it successfully.
func (p *HostedProvider) Chat(ctx context.Context, req model.ChatRequest, callback model.StreamCallback) error {
	body, err := json.Marshal(HostedRequest{
		Messages: ConvertToHostedMessages(req.Messages),
		Context:  req.Context,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal chat request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("failed to reach chat endpoint: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return hostedStatusError(resp)
	}

	return ReadDataStream(resp.Body, callback)
}

func hostedStatusError(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var he HostedError
	if err := json.Unmarshal(data, &he); err == nil && he.Error != "" {
		if he.Details != "" {
			return fmt.Errorf("chat endpoint returned %d: %s (%s)", resp.StatusCode, he.Error, he.Details)
		}
		return fmt.Errorf("chat endpoint returned %d: %s", resp.StatusCode, he.Error)
	}
	return fmt.Errorf("chat endpoint returned %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
}

// Data-stream part codes.
const (
	PartText   = '0'
	PartError  = '3'
	PartFinish = 'd'
)

const maxStreamLine = 1 << 20

// ErrStreamError wraps an error part reported inside a stream.
var ErrStreamError = errors.New("generation failed")

// ReadDataStream decodes the data-stream line protocol: each line is
// <code>:<json>. Text parts (0:"...") go to callback, an error part
// (3:"...") is fatal, a finish part (d:{...}) ends the stream and other part
// codes are ignored. Lines that cannot be decoded or exceed maxStreamLine
// are skipped.
func ReadDataStream(r io.Reader, callback model.StreamCallback) error {
	return lineio.Each(r, maxStreamLine, func(raw []byte) (bool, error) {
		line := string(raw)
		code, payload, ok := strings.Cut(line, ":")
		if !ok || len(code) != 1 {
			logSkippedLine("missing part code", line)
			return false, nil
		}

		switch code[0] {
		case PartText:
			var text string
			if err := json.Unmarshal([]byte(payload), &text); err != nil {
				logSkippedLine(err.Error(), line)
				return false, nil
			}
			if text == "" || callback == nil {
				return false, nil
			}
			return false, callback(text)

		case PartError:
			var msg string
			if err := json.Unmarshal([]byte(payload), &msg); err != nil {
				msg = payload
			}
			return true, fmt.Errorf("%w: %s", ErrStreamError, msg)

		case PartFinish:
			return true, nil
		}
		return false, nil
	})
}

func logSkippedLine(reason, line string) {
	if config.DebugLog == nil {
		return
	}
	if len(line) > 120 {
		line = line[:120] + "..."
	}
	config.DebugLog.Printf("[Hosted] Skipping malformed stream line (%s): %q", reason, line)
}

func (p *HostedProvider) GetModel() string {
	return p.model
}

// SetModel only changes the display name; the server picks its own model.
func (p *HostedProvider) SetModel(model string) {
	p.model = model
}

// Ping checks that the server behind the chat URL answers /healthz.
func (p *HostedProvider) Ping(ctx context.Context) error {
	u, err := url.Parse(p.url)
	if err != nil {
		return err
	}
	u.Path = "/healthz"
	u.RawQuery = ""

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return err
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("hosted ping failed: %w", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("hosted ping failed: status %d", resp.StatusCode)
	}
	return nil
}
