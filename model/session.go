package model

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"paperhub/config"
)

// TurnState is the chat turn state machine.
type TurnState int

const (
	StateIdle TurnState = iota
	StateStreaming
)

func (s TurnState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateStreaming:
		return "streaming"
	default:
		return fmt.Sprintf("TurnState(%d)", int(s))
	}
}

// Turn is the handle for one in-flight exchange. ID is the assistant
// placeholder message that fragments are folded into.
type Turn struct {
	ID      string
	Request ChatRequest
}

// Session owns the canonical message list, the composer input, the active
// attachment and the Idle/Streaming state machine. All methods are safe for
// concurrent use; fragments for a turn must be applied in arrival order.
type Session struct {
	mu sync.Mutex

	basePrompt string
	messages   []Message
	input      string

	attachment *Attachment
	attaching  bool

	state      TurnState
	activeTurn string
	cancel     context.CancelFunc
	lastErr    error
}

// NewSession creates an idle, empty session. basePrompt is the default
// system prompt used when no attachment is active.
func NewSession(basePrompt string) *Session {
	return &Session{basePrompt: basePrompt}
}

func (s *Session) SetInput(v string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.input = v
}

func (s *Session) Input() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.input
}

// Messages returns a snapshot of the displayed messages.
func (s *Session) Messages() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Message, len(s.messages))
	copy(out, s.messages)
	return out
}

func (s *Session) State() TurnState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) Streaming() bool {
	return s.State() == StateStreaming
}

// Attaching reports whether a document is currently being extracted.
func (s *Session) Attaching() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.attaching
}

// Err returns the error surfaced by the last turn, if any.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

func (s *Session) ClearErr() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastErr = nil
}

// Attachment returns the active attachment.
func (s *Session) Attachment() (Attachment, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.attachment == nil {
		return Attachment{}, false
	}
	return *s.attachment, true
}

// SystemPrompt returns the prompt the next turn would be sent with.
func (s *Session) SystemPrompt() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.systemPromptLocked()
}

func (s *Session) systemPromptLocked() string {
	text := ""
	if s.attachment != nil {
		text = s.attachment.ExtractedText
	}
	return BuildSystemPrompt(s.basePrompt, text)
}

// Begin moves Idle → Streaming for the current input.
//
// It appends the user message and an empty assistant placeholder, clears the
// input and returns the turn plus a context that Cancel aborts. When the
// session is streaming, an attachment is being processed or the input is
// blank, nothing changes and the corresponding error is returned.
func (s *Session) Begin(ctx context.Context) (Turn, context.Context, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateStreaming {
		return Turn{}, nil, ErrTurnInProgress
	}
	if s.attaching {
		return Turn{}, nil, ErrAttachmentBusy
	}
	if strings.TrimSpace(s.input) == "" {
		return Turn{}, nil, ErrEmptyInput
	}

	s.messages = append(s.messages, NewMessage(RoleUser, s.input))

	var history []Message
	for _, msg := range s.messages {
		if msg.IsTurn() {
			history = append(history, msg)
		}
	}

	placeholder := NewMessage(RoleAssistant, "")
	s.messages = append(s.messages, placeholder)
	s.input = ""
	s.lastErr = nil

	docText := ""
	if s.attachment != nil {
		docText = s.attachment.ExtractedText
	}

	turnCtx, cancel := newTurnContext(ctx)
	s.state = StateStreaming
	s.activeTurn = placeholder.ID
	s.cancel = cancel

	if config.DebugLog != nil {
		config.DebugLog.Printf("[Session] Turn %s started (%d history messages, attachment=%v)", placeholder.ID, len(history), s.attachment != nil)
	}

	return Turn{
		ID: placeholder.ID,
		Request: ChatRequest{
			System:   s.systemPromptLocked(),
			Context:  docText,
			Messages: history,
		},
	}, turnCtx, nil
}

func newTurnContext(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return context.WithCancel(parent)
}

// ApplyChunk appends a fragment to the turn's placeholder. Fragments for a
// turn that is no longer active are dropped. Reports whether it was applied.
func (s *Session) ApplyChunk(turnID, chunk string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateStreaming || turnID != s.activeTurn {
		return false
	}
	idx := s.indexLocked(turnID)
	if idx < 0 {
		return false
	}
	s.messages[idx].Content += chunk
	return true
}

// Complete ends the turn: Streaming → Idle.
//
// A nil err is the terminal signal. Any other error is surfaced through Err;
// cancellation by the user is not. An assistant placeholder that never
// received a fragment is removed.
func (s *Session) Complete(turnID string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if turnID == "" || turnID != s.activeTurn {
		return
	}

	if s.cancel != nil {
		s.cancel()
	}
	s.cancel = nil
	s.activeTurn = ""
	s.state = StateIdle

	if err == nil {
		return
	}

	if config.DebugLog != nil {
		config.DebugLog.Printf("[Session] Turn %s ended with error: %v", turnID, err)
	}

	if idx := s.indexLocked(turnID); idx >= 0 && s.messages[idx].Content == "" {
		s.messages = append(s.messages[:idx], s.messages[idx+1:]...)
	}
	if !errors.Is(err, context.Canceled) {
		s.lastErr = err
	}
}

// Cancel interrupts the in-flight turn, if any.
func (s *Session) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
	}
}

// Send runs a full turn against p, blocking until the stream ends.
func (s *Session) Send(ctx context.Context, p Provider) error {
	turn, turnCtx, err := s.Begin(ctx)
	if err != nil {
		return err
	}

	err = p.Chat(turnCtx, turn.Request, func(chunk string) error {
		s.ApplyChunk(turn.ID, chunk)
		return nil
	})
	s.Complete(turn.ID, err)
	return err
}

// NewConversation discards all messages and the attachment. It is only
// permitted while Idle with no extraction running, and confirm is consulted
// when there is anything to discard.
func (s *Session) NewConversation(confirm func() bool) error {
	s.mu.Lock()
	if err := s.resetBlockedLocked(); err != nil {
		s.mu.Unlock()
		return err
	}
	hasState := len(s.messages) > 0 || s.attachment != nil
	s.mu.Unlock()

	if hasState && (confirm == nil || !confirm()) {
		return ErrNotConfirmed
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.resetBlockedLocked(); err != nil {
		return err
	}
	s.messages = nil
	s.attachment = nil
	s.lastErr = nil
	return nil
}

func (s *Session) resetBlockedLocked() error {
	switch {
	case s.state == StateStreaming:
		return ErrTurnInProgress
	case s.attaching:
		return ErrAttachmentBusy
	}
	return nil
}

// Attach validates, extracts and installs a document as the active
// attachment, replacing any previous one.
//
// Unsupported kinds are rejected before extraction with no state change.
// If extraction fails or yields no text the previous attachment is kept.
func (s *Session) Attach(ctx context.Context, ex Extractor, file FileInput) error {
	kind, err := ParseMimeKind(file.MimeType)
	if err != nil {
		return err
	}

	s.mu.Lock()
	if s.attaching {
		s.mu.Unlock()
		return ErrAttachmentBusy
	}
	s.attaching = true
	s.mu.Unlock()

	text, err := ex.Extract(ctx, kind, file.Data)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.attaching = false

	if err != nil {
		return fmt.Errorf("failed to read %s: %w", file.Name, err)
	}
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("failed to read %s: %w", file.Name, ErrEmptyAttachment)
	}

	s.attachment = &Attachment{
		FileName:      file.Name,
		Kind:          kind,
		ExtractedText: text,
	}
	s.messages = append(s.messages, NewMessage(RoleSystem,
		fmt.Sprintf("Attached %q (%d characters). Answers will draw on this document.", file.Name, len([]rune(text)))))

	if config.DebugLog != nil {
		config.DebugLog.Printf("[Session] Attached %s (%s, %d bytes of text)", file.Name, kind, len(text))
	}
	return nil
}

// RemoveAttachment drops the active attachment. Reports whether one existed.
func (s *Session) RemoveAttachment() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.attachment == nil {
		return false
	}
	s.attachment = nil
	return true
}

func (s *Session) indexLocked(id string) int {
	for i := len(s.messages) - 1; i >= 0; i-- {
		if s.messages[i].ID == id {
			return i
		}
	}
	return -1
}
