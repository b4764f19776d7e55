package model

import "errors"

var (
	// ErrTurnInProgress is returned when an action requires the Idle state.
	ErrTurnInProgress = errors.New("a response is still streaming")

	// ErrAttachmentBusy is returned when submitting while a file is being processed.
	ErrAttachmentBusy = errors.New("attachment is still being processed")

	ErrEmptyInput   = errors.New("message is empty")
	ErrNotConfirmed = errors.New("new conversation not confirmed")

	// ErrUnsupportedKind rejects attachments other than PDF or plain text.
	ErrUnsupportedKind = errors.New("unsupported file type")

	// ErrInvalidComment is returned when a comment body or password is missing.
	ErrInvalidComment = errors.New("comment text and password are required")
)

// ErrEmptyAttachment rejects documents that yielded no text.
var ErrEmptyAttachment = errors.New("no text could be extracted from the document")
