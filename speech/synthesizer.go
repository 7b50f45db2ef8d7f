package speech

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"docreel/config"
)

// ErrNoAPIKey is returned when no Azure Speech key is configured.
var ErrNoAPIKey = errors.New("AZURE_SPEECH_KEY is not set")

// Voices picks the narration voice for a genre.
type Voices struct {
	Default     string
	Documentary string
}

func (v Voices) ForGenre(genre string) string {
	if strings.EqualFold(strings.TrimSpace(genre), config.DocumentaryGenre) {
		return v.Documentary
	}
	return v.Default
}

// AzureSynthesizer renders text to speech through the Azure Speech REST API.
// Endpoint: POST https://<region>.tts.speech.microsoft.com/cognitiveservices/v1
type AzureSynthesizer struct {
	key      string
	endpoint string
	format   string
	client   *http.Client
}

func NewAzureSynthesizer(cfg config.SpeechConfig) *AzureSynthesizer {
	return &AzureSynthesizer{
		key:      cfg.Key,
		endpoint: cfg.Endpoint,
		format:   cfg.OutputFormat,
		client:   &http.Client{Timeout: 60 * time.Second},
	}
}

// Synthesize writes the spoken text to dest. dest is left untouched on error.
func (a *AzureSynthesizer) Synthesize(ctx context.Context, text, voice, dest string) error {
	if a.key == "" {
		return ErrNoAPIKey
	}

	ssml, err := buildSSML(text, voice)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.endpoint, bytes.NewReader(ssml))
	if err != nil {
		return err
	}
	req.Header.Set("Ocp-Apim-Subscription-Key", a.key)
	req.Header.Set("Content-Type", "application/ssml+xml")
	req.Header.Set("X-Microsoft-OutputFormat", a.format)
	req.Header.Set("User-Agent", "docreel")

	resp, err := a.client.Do(req)
	if err != nil {
		return fmt.Errorf("azure tts request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("azure tts error: status %d: %s", resp.StatusCode, string(body))
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read tts audio: %w", err)
	}
	if len(audio) == 0 {
		return errors.New("azure tts returned no audio")
	}
	return os.WriteFile(dest, audio, 0644)
}

func buildSSML(text, voice string) ([]byte, error) {
	lang := "en-US"
	if parts := strings.SplitN(voice, "-", 3); len(parts) == 3 {
		lang = parts[0] + "-" + parts[1]
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<speak version="1.0" xmlns="http://www.w3.org/2001/10/synthesis" xml:lang="%s">`, lang)
	buf.WriteString(`<voice name="`)
	if err := xml.EscapeText(&buf, []byte(voice)); err != nil {
		return nil, err
	}
	buf.WriteString(`">`)
	if err := xml.EscapeText(&buf, []byte(text)); err != nil {
		return nil, err
	}
	buf.WriteString(`</voice></speak>`)
	return buf.Bytes(), nil
}
