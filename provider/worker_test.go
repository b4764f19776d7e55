package provider

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"paperhub/model"
	"paperhub/provider/testutil"
	"paperhub/worker"
)

func newTestWorkerProvider(upstream *testutil.MockProvider) (*WorkerProvider, *[]worker.Progress, *[]string) {
	var mu sync.Mutex
	var progress []worker.Progress
	var built []string
	p := NewWorkerProvider("Qwen2.5-3B-Instruct-q4f16_1-MLC", func(modelID string) (model.Provider, error) {
		mu.Lock()
		built = append(built, modelID)
		mu.Unlock()
		upstream.SetModel(modelID)
		return upstream, nil
	}, func(pr worker.Progress) {
		mu.Lock()
		progress = append(progress, pr)
		mu.Unlock()
	})
	return p, &progress, &built
}

func TestWorkerProviderChat(t *testing.T) {
	upstream := testutil.NewStreamingMock("", []string{"X ", "is ", "a concept."}, nil)
	p, progress, built := newTestWorkerProvider(upstream)
	defer p.Close()

	var reply strings.Builder
	req := testutil.TestRequest(testutil.TestMessages())
	if err := p.Chat(context.Background(), req, func(chunk string) error {
		reply.WriteString(chunk)
		return nil
	}); err != nil {
		t.Fatalf("Chat() error = %v", err)
	}

	if reply.String() != "X is a concept." {
		t.Errorf("reply = %q", reply.String())
	}
	if len(*progress) == 0 || (*progress)[len(*progress)-1].Percent != 100 {
		t.Errorf("progress = %+v, want to end at 100", *progress)
	}

	sent := upstream.Requests()
	if len(sent) != 1 || sent[0].System != req.System || len(sent[0].Messages) != 3 {
		t.Errorf("upstream requests = %+v", sent)
	}

	// A second turn does not reload.
	if err := p.Chat(context.Background(), req, func(string) error { return nil }); err != nil {
		t.Fatal(err)
	}
	if len(*built) != 1 {
		t.Errorf("engine built %d times, want 1", len(*built))
	}
}

func TestWorkerProviderLoadError(t *testing.T) {
	upstream := testutil.NewMockProvider("")
	upstream.PingFunc = func(context.Context) error { return errors.New("daemon offline") }
	p, _, _ := newTestWorkerProvider(upstream)
	defer p.Close()

	err := p.Chat(context.Background(), testutil.TestRequest(testutil.SingleUserMessage("hi")), func(string) error { return nil })
	if err == nil || !strings.Contains(err.Error(), "daemon offline") {
		t.Errorf("Chat() error = %v, want load failure", err)
	}
}

func TestWorkerProviderGenerateError(t *testing.T) {
	upstream := testutil.NewStreamingMock("", []string{"par"}, errors.New("context window exceeded"))
	p, _, _ := newTestWorkerProvider(upstream)
	defer p.Close()

	var reply string
	err := p.Chat(context.Background(), testutil.TestRequest(testutil.SingleUserMessage("hi")), func(c string) error {
		reply += c
		return nil
	})
	if err == nil || err.Error() != "context window exceeded" {
		t.Errorf("Chat() error = %v", err)
	}
	if reply != "par" {
		t.Errorf("partial reply = %q", reply)
	}
}

func TestWorkerProviderCancel(t *testing.T) {
	upstream := testutil.NewMockProvider("")
	upstream.ChatFunc = func(ctx context.Context, req model.ChatRequest, cb model.StreamCallback) error {
		if err := cb("first"); err != nil {
			return err
		}
		<-ctx.Done()
		return ctx.Err()
	}
	p, _, _ := newTestWorkerProvider(upstream)
	defer p.Close()

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() {
		errc <- p.Chat(ctx, testutil.TestRequest(testutil.SingleUserMessage("hi")), func(string) error {
			cancel()
			return nil
		})
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Chat() error = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Chat() did not return after cancel")
	}

	// The worker is still usable after an aborted turn.
	upstream.ChatFunc = func(ctx context.Context, req model.ChatRequest, cb model.StreamCallback) error {
		return cb("again")
	}
	var reply string
	if err := p.Chat(context.Background(), testutil.TestRequest(nil), func(c string) error {
		reply += c
		return nil
	}); err != nil || reply != "again" {
		t.Errorf("follow-up Chat() = %q, %v", reply, err)
	}
}

func TestWorkerProviderSetModel(t *testing.T) {
	upstream := testutil.NewStreamingMock("", []string{"ok"}, nil)
	p, _, built := newTestWorkerProvider(upstream)
	defer p.Close()

	noop := func(string) error { return nil }
	req := testutil.TestRequest(testutil.SingleUserMessage("hi"))
	if err := p.Chat(context.Background(), req, noop); err != nil {
		t.Fatal(err)
	}

	p.SetModel("Llama-3.2-1B-Instruct-q4f16_1-MLC")
	if p.GetModel() != "Llama-3.2-1B-Instruct-q4f16_1-MLC" {
		t.Errorf("GetModel() = %s", p.GetModel())
	}
	if err := p.Chat(context.Background(), req, noop); err != nil {
		t.Fatal(err)
	}

	want := []string{"Qwen2.5-3B-Instruct-q4f16_1-MLC", "Llama-3.2-1B-Instruct-q4f16_1-MLC"}
	if len(*built) != 2 || (*built)[0] != want[0] || (*built)[1] != want[1] {
		t.Errorf("built = %v, want %v", *built, want)
	}
}
