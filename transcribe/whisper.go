package transcribe

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"docreel/config"
	"docreel/types"

	"go.uber.org/zap"
)

// Whisper implements word-level transcription using the OpenAI audio API
// Endpoint: POST https://api.openai.com/v1/audio/transcriptions
// Request: multipart file + model, response_format=verbose_json,
// timestamp_granularities[]=word
// Response: {"text": "...", "words": [{"word": "hi", "start": 0.0, "end": 0.4}]}
type Whisper struct {
	apiKey   string
	model    string
	endpoint string
	client   *http.Client
	log      *zap.Logger
}

func NewWhisper(cfg config.OpenAIConfig, log *zap.Logger) *Whisper {
	return &Whisper{
		apiKey:   cfg.APIKey,
		model:    cfg.TranscriptionModel,
		endpoint: cfg.BaseURL + "/audio/transcriptions",
		client:   &http.Client{Timeout: 120 * time.Second},
		log:      log,
	}
}

// Transcribe returns the words spoken in audioPath with offsets relative to
// the start of the file. Failures are logged and yield no words.
func (w *Whisper) Transcribe(ctx context.Context, audioPath string) []types.WordTimestamp {
	words, err := w.transcribe(ctx, audioPath)
	if err != nil {
		w.log.Warn("transcription failed, captions dropped for this clip",
			zap.String("audio", filepath.Base(audioPath)),
			zap.Error(err))
		return []types.WordTimestamp{}
	}
	return types.Sanitize(words)
}

func (w *Whisper) transcribe(ctx context.Context, audioPath string) ([]types.WordTimestamp, error) {
	if w.apiKey == "" {
		return nil, errors.New("OPENAI_API_KEY is not set")
	}

	body, contentType, err := multipartBody(audioPath, w.model)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.endpoint, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", w.apiKey))

	resp, err := w.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("openai transcription error: status %d: %s", resp.StatusCode, string(msg))
	}

	var parsed struct {
		Text  string                `json:"text"`
		Words []types.WordTimestamp `json:"words"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode transcription: %w", err)
	}
	return parsed.Words, nil
}

func multipartBody(audioPath, model string) (*bytes.Buffer, string, error) {
	f, err := os.Open(audioPath)
	if err != nil {
		return nil, "", err
	}
	defer f.Close()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	part, err := mw.CreateFormFile("file", filepath.Base(audioPath))
	if err != nil {
		return nil, "", err
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, "", err
	}

	fields := [][2]string{
		{"model", model},
		{"response_format", "verbose_json"},
		{"timestamp_granularities[]", "word"},
	}
	for _, kv := range fields {
		if err := mw.WriteField(kv[0], kv[1]); err != nil {
			return nil, "", err
		}
	}
	if err := mw.Close(); err != nil {
		return nil, "", err
	}
	return &buf, mw.FormDataContentType(), nil
}
