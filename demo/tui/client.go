package tui

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"docreel/common"
	"docreel/types"
)

// StudioClient is a thin HTTP client for the docreel API
type StudioClient struct {
	baseURL string
	client  *http.Client
}

// NewStudioClient creates a client. Rendering is synchronous on the server,
// so the timeout is generous.
func NewStudioClient(baseURL string) *StudioClient {
	return &StudioClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: 30 * time.Minute,
		},
	}
}

// Health returns the server's reported status
func (c *StudioClient) Health(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/health", nil)
	if err != nil {
		return "", err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to reach server: %w", err)
	}
	defer resp.Body.Close()

	var out struct {
		Status string `json:"status"`
	}
	if err := decodeResponse(resp, &out); err != nil {
		return "", err
	}
	return out.Status, nil
}

// Upload sends a document and returns its extracted text
func (c *StudioClient) Upload(docPath string) (string, error) {
	f, err := os.Open(docPath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filepath.Base(docPath))
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(part, f); err != nil {
		return "", err
	}
	if err := mw.Close(); err != nil {
		return "", err
	}

	resp, err := c.client.Post(c.baseURL+"/upload", mw.FormDataContentType(), &body)
	if err != nil {
		return "", fmt.Errorf("failed to upload: %w", err)
	}
	defer resp.Body.Close()

	var out struct {
		Status string `json:"status"`
		Text   string `json:"text"`
	}
	if err := decodeResponse(resp, &out); err != nil {
		return "", err
	}
	return out.Text, nil
}

// GenerateScript asks the server for a narration script
func (c *StudioClient) GenerateScript(text, genre, duration string) ([]types.ScriptSegment, error) {
	form := url.Values{"text": {text}, "genre": {genre}, "duration": {duration}}
	resp, err := c.client.PostForm(c.baseURL+"/generate-script", form)
	if err != nil {
		return nil, fmt.Errorf("failed to generate script: %w", err)
	}
	defer resp.Body.Close()

	var segments []types.ScriptSegment
	if err := decodeResponse(resp, &segments); err != nil {
		return nil, err
	}
	return segments, nil
}

// CreateVideo renders the script and returns the server-relative video URL
func (c *StudioClient) CreateVideo(segments []types.ScriptSegment, genre string) (string, error) {
	script, err := json.Marshal(segments)
	if err != nil {
		return "", err
	}

	resp, err := c.client.PostForm(c.baseURL+"/create-video", url.Values{"script": {string(script)}, "genre": {genre}})
	if err != nil {
		return "", fmt.Errorf("failed to create video: %w", err)
	}
	defer resp.Body.Close()

	var out struct {
		Status   string `json:"status"`
		VideoURL string `json:"video_url"`
	}
	if err := decodeResponse(resp, &out); err != nil {
		return "", err
	}
	return out.VideoURL, nil
}

// Download saves a rendered video into dir and returns the file path
func (c *StudioClient) Download(videoURL, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	dest := filepath.Join(dir, path.Base(videoURL))

	resp, err := c.client.Get(c.baseURL + videoURL)
	if err != nil {
		return "", fmt.Errorf("failed to download: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", responseError(resp)
	}
	if err := common.WriteFile(dest, resp.Body); err != nil {
		return "", err
	}
	return dest, nil
}

func decodeResponse(resp *http.Response, v interface{}) error {
	if resp.StatusCode != http.StatusOK {
		return responseError(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// responseError prefers the server's "detail" message over the raw body
func responseError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var detail struct {
		Detail string `json:"detail"`
	}
	if json.Unmarshal(body, &detail) == nil && detail.Detail != "" {
		return fmt.Errorf("server returned %d: %s", resp.StatusCode, detail.Detail)
	}
	return fmt.Errorf("server returned %d: %s", resp.StatusCode, string(body))
}
