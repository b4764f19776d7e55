// Package extract pulls raw text out of uploaded documents so it can be fed
// to the chat as attachment context.
package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"

	"paperhub/config"
	"paperhub/model"
)

// ErrNoText is returned when a document contains no extractable text
// (e.g. a scanned PDF without a text layer).
var ErrNoText = errors.New("document contains no extractable text")

// Extractor implements model.Extractor for PDF and plain text.
type Extractor struct {
	// MaxChars truncates the extracted text; 0 means no limit.
	MaxChars int
}

// New returns an Extractor that keeps at most maxChars runes of text
// (0 for no limit).
func New(maxChars int) *Extractor {
	return &Extractor{MaxChars: maxChars}
}

// Extract returns the document text. PDF pages are read in order and joined
// with blank lines; a page that fails to decode is skipped.
func (e *Extractor) Extract(ctx context.Context, kind model.MimeKind, data []byte) (string, error) {
	var (
		text string
		err  error
	)

	switch kind {
	case model.KindPDF:
		text, err = e.extractPDF(ctx, data)
	case model.KindText:
		if !utf8.Valid(data) {
			return "", fmt.Errorf("text file is not valid UTF-8")
		}
		text = string(data)
	default:
		return "", fmt.Errorf("%w: %q", model.ErrUnsupportedKind, kind)
	}
	if err != nil {
		return "", err
	}

	if strings.TrimSpace(text) == "" {
		return "", ErrNoText
	}
	return e.truncate(text), nil
}

func (e *Extractor) extractPDF(ctx context.Context, data []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}

	var b strings.Builder
	total := r.NumPage()
	for i := 1; i <= total; i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		pageText, err := readPage(r, i)
		if err != nil {
			if config.DebugLog != nil {
				config.DebugLog.Printf("[Extract] Skipping page %d/%d: %v", i, total, err)
			}
			continue
		}
		pageText = strings.TrimSpace(pageText)
		if pageText == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(pageText)
	}

	if config.DebugLog != nil {
		config.DebugLog.Printf("[Extract] PDF: %d pages, %d chars", total, b.Len())
	}
	return b.String(), nil
}

// readPage converts panics from malformed content streams into errors.
func readPage(r *pdf.Reader, num int) (text string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("malformed page: %v", rec)
		}
	}()

	p := r.Page(num)
	if p.V.IsNull() {
		return "", nil
	}
	return p.GetPlainText(nil)
}

func (e *Extractor) truncate(text string) string {
	if e.MaxChars <= 0 || utf8.RuneCountInString(text) <= e.MaxChars {
		return text
	}
	runes := []rune(text)
	return string(runes[:e.MaxChars])
}

// DetectMIME guesses an upload's MIME type from its name and content. The
// extension wins for .pdf and .txt; otherwise content sniffing decides.
func DetectMIME(name string, data []byte) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf":
		return "application/pdf"
	case ".txt", ".text":
		return "text/plain; charset=utf-8"
	}
	return http.DetectContentType(data)
}

var _ model.Extractor = (*Extractor)(nil)
