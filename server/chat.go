package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"paperhub/model"
	"paperhub/provider"
)

const maxChatBody = 8 << 20

const upstreamFailure = "Failed to reach the model server. Check that it is running and the model is installed."

// handleChat streams a reply in the data-stream protocol. The system prompt
// is built here from the request's document context.
//
// Upstream failure before the first fragment is a 500 JSON error; once the
// stream has started it becomes an error part.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req provider.HostedRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxChatBody)).Decode(&req); err != nil {
		s.metrics.chatRequests.WithLabelValues("bad_request").Inc()
		writeError(w, http.StatusBadRequest, "invalid json", err)
		return
	}

	chatReq := model.ChatRequest{
		System:   model.BuildSystemPrompt("", req.Context),
		Context:  req.Context,
		Messages: provider.ConvertFromHostedMessages(req.Messages),
	}

	stream := newPartWriter(w)
	err := s.upstream.Chat(r.Context(), chatReq, stream.text)

	switch {
	case err == nil:
		stream.finish()
		s.metrics.chatRequests.WithLabelValues("ok").Inc()
	case errors.Is(err, context.Canceled) && r.Context().Err() != nil:
		// Client went away.
		s.metrics.chatRequests.WithLabelValues("canceled").Inc()
	case !stream.started:
		s.logger.Error("chat_upstream_failed", "error", err, "model", s.upstream.GetModel())
		s.metrics.chatRequests.WithLabelValues("upstream_error").Inc()
		writeError(w, http.StatusInternalServerError, upstreamFailure, err)
	default:
		s.logger.Warn("chat_stream_failed", "error", err, "fragments", stream.fragments)
		s.metrics.streamErrors.Inc()
		s.metrics.chatRequests.WithLabelValues("stream_error").Inc()
		stream.fail(err)
	}
}

// partWriter writes data-stream parts, flushing after each one.
type partWriter struct {
	w         http.ResponseWriter
	flusher   http.Flusher
	started   bool
	fragments int
}

func newPartWriter(w http.ResponseWriter) *partWriter {
	f, _ := w.(http.Flusher)
	return &partWriter{w: w, flusher: f}
}

func (p *partWriter) start() {
	if p.started {
		return
	}
	p.started = true
	h := p.w.Header()
	h.Set("Content-Type", "text/plain; charset=utf-8")
	h.Set("Cache-Control", "no-cache")
	h.Set("X-Vercel-AI-Data-Stream", "v1")
	p.w.WriteHeader(http.StatusOK)
}

func (p *partWriter) write(code byte, v any) error {
	p.start()
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(p.w, "%c:%s\n", code, data); err != nil {
		return err
	}
	if p.flusher != nil {
		p.flusher.Flush()
	}
	return nil
}

func (p *partWriter) text(chunk string) error {
	p.fragments++
	return p.write(provider.PartText, chunk)
}

func (p *partWriter) fail(err error) {
	_ = p.write(provider.PartError, err.Error())
}

func (p *partWriter) finish() {
	_ = p.write(provider.PartFinish, map[string]string{"finishReason": "stop"})
}
