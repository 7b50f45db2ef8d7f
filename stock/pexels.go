package stock

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path/filepath"
	"time"

	"docreel/common"
	"docreel/config"

	"go.uber.org/zap"
)

// Pexels finds and downloads one landscape stock clip per query
// Endpoint: GET https://api.pexels.com/videos/search
// Response: {"videos": [{"video_files": [{"link": "...", "width": 1920, "height": 1080}]}]}
type Pexels struct {
	apiKey  string
	baseURL string
	client  *http.Client
	log     *zap.Logger
}

func NewPexels(cfg config.PexelsConfig, log *zap.Logger) *Pexels {
	return &Pexels{
		apiKey:  cfg.APIKey,
		baseURL: cfg.BaseURL,
		client:  &http.Client{Timeout: 120 * time.Second},
		log:     log,
	}
}

type videoFile struct {
	Link   string `json:"link"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

type searchResponse struct {
	Videos []struct {
		VideoFiles []videoFile `json:"video_files"`
	} `json:"videos"`
}

// Fetch downloads the best match for query to dest. It reports false on
// any failure so the caller can substitute a placeholder.
func (p *Pexels) Fetch(ctx context.Context, query, dest string) bool {
	if p.apiKey == "" {
		p.log.Debug("PEXELS_API_KEY not set, skipping footage", zap.String("query", query))
		return false
	}

	link, err := p.search(ctx, query)
	if err != nil {
		p.log.Warn("stock footage search failed", zap.String("query", query), zap.Error(err))
		return false
	}

	if err := common.Download(ctx, p.client, link, dest); err != nil {
		p.log.Warn("stock footage download failed",
			zap.String("query", query),
			zap.String("dest", filepath.Base(dest)),
			zap.Error(err))
		return false
	}
	return true
}

func (p *Pexels) search(ctx context.Context, query string) (string, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("per_page", "1")
	params.Set("orientation", "landscape")
	params.Set("size", "medium")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/videos/search?"+params.Encode(), nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("pexels error: status %d: %s", resp.StatusCode, string(body))
	}

	var parsed searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode pexels response: %w", err)
	}
	if len(parsed.Videos) == 0 {
		return "", errors.New("no videos found")
	}
	return pickFile(parsed.Videos[0].VideoFiles)
}

// pickFile prefers the first rendition at least as wide as the output frame.
func pickFile(files []videoFile) (string, error) {
	if len(files) == 0 {
		return "", errors.New("video has no files")
	}
	for _, f := range files {
		if f.Width >= config.FrameWidth && f.Link != "" {
			return f.Link, nil
		}
	}
	if files[0].Link == "" {
		return "", errors.New("video file has no link")
	}
	return files[0].Link, nil
}
