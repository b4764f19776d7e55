package model

import (
	"context"
	"fmt"
	"mime"
	"strings"
)

// MimeKind is the accepted attachment kind.
type MimeKind string

const (
	KindPDF  MimeKind = "pdf"
	KindText MimeKind = "text"
)

// ParseMimeKind maps a MIME type to an accepted kind. Only application/pdf
// and text/plain are accepted; parameters such as charset are ignored.
func ParseMimeKind(mimeType string) (MimeKind, error) {
	mediaType, _, err := mime.ParseMediaType(mimeType)
	if err != nil {
		mediaType = strings.ToLower(strings.TrimSpace(mimeType))
	}

	switch mediaType {
	case "application/pdf":
		return KindPDF, nil
	case "text/plain":
		return KindText, nil
	default:
		return "", fmt.Errorf("%w: %q (only PDF and plain text files are supported)", ErrUnsupportedKind, mimeType)
	}
}

// Attachment is the single active document whose extracted text is fed
// into every turn's system prompt.
type Attachment struct {
	FileName      string
	Kind          MimeKind
	ExtractedText string
}

// FileInput is an uploaded file as handed to the session.
type FileInput struct {
	Name     string
	MimeType string
	Data     []byte
}

// Extractor pulls raw text out of an accepted document.
type Extractor interface {
	Extract(ctx context.Context, kind MimeKind, data []byte) (string, error)
}
