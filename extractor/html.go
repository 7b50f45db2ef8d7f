package extractor

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	readability "github.com/go-shiori/go-readability"
)

// extractHTML keeps only the readable article body of an uploaded page.
func extractHTML(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open html: %w", err)
	}
	defer f.Close()

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	pageURL := &url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}

	article, err := readability.FromReader(f, pageURL)
	if err != nil {
		return "", fmt.Errorf("readability extraction failed: %w", err)
	}

	if article.Title != "" {
		return article.Title + "\n" + article.TextContent, nil
	}
	return article.TextContent, nil
}
