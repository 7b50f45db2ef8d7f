package extractor

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"docreel/config"

	"go.uber.org/zap"
)

// Kind is the document family an upload is parsed as.
type Kind string

const (
	KindPDF   Kind = "pdf"
	KindWord  Kind = "word"
	KindHTML  Kind = "html"
	KindFeed  Kind = "feed"
	KindPlain Kind = "plain"
)

// Extractor pulls narration source text out of uploaded documents.
type Extractor struct {
	log      *zap.Logger
	maxChars int
}

// New returns an extractor truncating to config.MaxSourceChars.
func New(log *zap.Logger) *Extractor {
	return &Extractor{log: log, maxChars: config.MaxSourceChars}
}

// Detect maps a content type, or a filename when the type is missing or
// generic, to a document kind.
func Detect(contentType, filename string) Kind {
	hint := strings.ToLower(strings.TrimSpace(contentType))
	if hint == "" || hint == "application/octet-stream" {
		hint = strings.ToLower(filepath.Ext(filename))
	}

	switch {
	case strings.Contains(hint, "pdf"):
		return KindPDF
	case strings.Contains(hint, "word"), strings.Contains(hint, "docx"):
		return KindWord
	case strings.Contains(hint, "htm"):
		return KindHTML
	case strings.Contains(hint, "rss"), strings.Contains(hint, "atom"), strings.Contains(hint, "feed"):
		return KindFeed
	default:
		return KindPlain
	}
}

// Extract returns at most maxChars characters of text from the file at path.
// Failures are logged and whatever was read before the failure is returned.
func (e *Extractor) Extract(path string, kind Kind) string {
	var (
		text string
		err  error
	)

	switch kind {
	case KindPDF:
		text, err = extractPDF(path)
	case KindWord:
		text, err = extractDocx(path)
	case KindHTML:
		text, err = extractHTML(path)
	case KindFeed:
		text, err = extractFeed(path)
	default:
		text, err = extractPlain(path)
	}

	if err != nil {
		e.log.Warn("text extraction failed",
			zap.String("path", filepath.Base(path)),
			zap.String("kind", string(kind)),
			zap.Error(err))
	}

	return truncate(text, e.maxChars)
}

func extractPlain(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read file: %w", err)
	}
	if !utf8.Valid(data) {
		return strings.ToValidUTF8(string(data), "�"), fmt.Errorf("file is not valid UTF-8")
	}
	return string(data), nil
}

// truncate cuts s to max characters without splitting a UTF-8 sequence.
func truncate(s string, max int) string {
	if max <= 0 || utf8.RuneCountInString(s) <= max {
		return s
	}
	n := 0
	for i := range s {
		if n == max {
			return s[:i]
		}
		n++
	}
	return s
}
