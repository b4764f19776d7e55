package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ollama/ollama/api"
)

func collect(t *testing.T, stream string) (string, error) {
	t.Helper()
	var b strings.Builder
	err := ReadStream(strings.NewReader(stream), func(chunk string) error {
		b.WriteString(chunk)
		return nil
	})
	return b.String(), err
}

func TestReadStream(t *testing.T) {
	tests := []struct {
		name    string
		stream  string
		want    string
		wantErr bool
	}{
		{
			name: "fragments then done",
			stream: `{"message":{"role":"assistant","content":"X "},"done":false}
{"message":{"role":"assistant","content":"is "},"done":false}
{"message":{"role":"assistant","content":"a concept."},"done":false}
{"message":{"role":"assistant","content":""},"done":true}
`,
			want: "X is a concept.",
		},
		{
			name: "malformed line skipped",
			stream: `{"message":{"role":"assistant","content":"X "},"done":false}
{"message":{"role":"assist
{"message":{"role":"assistant","content":"is "},"done":false}
not json at all
{"message":{"role":"assistant","content":"a concept."},"done":true}
`,
			want: "X is a concept.",
		},
		{
			name:   "eof without done",
			stream: `{"message":{"role":"assistant","content":"partial"}}` + "\n",
			want:   "partial",
		},
		{
			name: "content after done ignored",
			stream: `{"message":{"content":"a"},"done":true}
{"message":{"content":"b"},"done":false}
`,
			want: "a",
		},
		{
			name: "error line is fatal",
			stream: `{"message":{"content":"a"}}
{"error":"model runner has unexpectedly stopped"}
{"message":{"content":"b"}}
`,
			want:    "a",
			wantErr: true,
		},
		{
			name: "oversized line skipped",
			stream: `{"message":{"content":"X "}}` + "\n" +
				`{"message":{"content":"` + strings.Repeat("y", maxLineSize) + `"}}` + "\n" +
				`{"message":{"content":"is fine."},"done":true}` + "\n",
			want: "X is fine.",
		},
		{
			name:   "blank lines",
			stream: "\n\n" + `{"message":{"content":"ok"},"done":true}` + "\n\n",
			want:   "ok",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := collect(t, tt.stream)
			if tt.wantErr && err == nil {
				t.Error("expected error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("content = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestClientChat(t *testing.T) {
	var got api.ChatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat" || r.Method != http.MethodPost {
			http.NotFound(w, r)
			return
		}
		json.NewDecoder(r.Body).Decode(&got)
		w.Header().Set("Content-Type", "application/x-ndjson")
		w.Write([]byte(`{"message":{"role":"assistant","content":"Hello"},"done":false}` + "\n"))
		w.Write([]byte(`{"message":{"role":"assistant","content":" there"},"done":true}` + "\n"))
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL, "llama3.2")
	if err != nil {
		t.Fatal(err)
	}

	var b strings.Builder
	err = client.Chat(context.Background(), []api.Message{{Role: "user", Content: "hi"}}, func(chunk string) error {
		b.WriteString(chunk)
		return nil
	})
	if err != nil {
		t.Fatalf("Chat() error: %v", err)
	}
	if b.String() != "Hello there" {
		t.Errorf("content = %q", b.String())
	}
	if got.Model != "llama3.2" || got.Stream == nil || !*got.Stream || len(got.Messages) != 1 {
		t.Errorf("request = %+v", got)
	}
}

func TestClientChatStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"model \"nope\" not found, try pulling it first"}`))
	}))
	defer srv.Close()

	client, _ := NewClient(srv.URL, "nope")
	err := client.Chat(context.Background(), nil, nil)
	if err == nil || !strings.Contains(err.Error(), "try pulling it first") {
		t.Errorf("Chat() error = %v", err)
	}
}

func TestClientUnreachable(t *testing.T) {
	client, _ := NewClient("http://127.0.0.1:1", "")
	if err := client.Chat(context.Background(), nil, nil); err == nil {
		t.Error("expected connection error")
	}
}

func TestNewClientDefaults(t *testing.T) {
	client, err := NewClient("", "")
	if err != nil {
		t.Fatal(err)
	}
	if client.GetModel() != DefaultModel {
		t.Errorf("model = %q", client.GetModel())
	}
	if _, err := NewClient("localhost", ""); err == nil {
		t.Error("expected error for URL without scheme")
	}
}
