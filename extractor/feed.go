package extractor

import (
	"fmt"
	"os"
	"strings"

	"github.com/mmcdole/gofeed"
)

// extractFeed turns an RSS/Atom document into one paragraph per item.
func extractFeed(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open feed: %w", err)
	}
	defer f.Close()

	feed, err := gofeed.NewParser().Parse(f)
	if err != nil {
		return "", fmt.Errorf("failed to parse feed: %w", err)
	}

	var b strings.Builder
	if feed.Title != "" {
		b.WriteString(feed.Title)
		b.WriteString("\n")
	}
	for _, item := range feed.Items {
		summary := item.Description
		if summary == "" {
			summary = item.Content
		}
		b.WriteString(item.Title)
		b.WriteString("\n")
		if summary != "" {
			b.WriteString(strings.TrimSpace(summary))
			b.WriteString("\n")
		}
	}
	return b.String(), nil
}
