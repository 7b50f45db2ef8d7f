package script

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/http"
	"time"

	cohere "github.com/cohere-ai/cohere-go/v2"
	cohereclient "github.com/cohere-ai/cohere-go/v2/client"
)

// CohereChat implements ChatProvider using the Cohere Chat API
// SDK: github.com/cohere-ai/cohere-go/v2
type CohereChat struct {
	client *cohereclient.Client
	model  string
}

// NewCohereChat builds a client that forces HTTP/1.1; Cohere's edge has
// reset HTTP/2 streams on long generations.
func NewCohereChat(apiKey, model string) *CohereChat {
	if apiKey == "" {
		return &CohereChat{model: model}
	}
	httpClient := &http.Client{
		Timeout: 120 * time.Second,
		Transport: &http.Transport{
			TLSNextProto:      make(map[string]func(authority string, c *tls.Conn) http.RoundTripper),
			ForceAttemptHTTP2: false,
		},
	}
	client := cohereclient.NewClient(
		cohereclient.WithToken(apiKey),
		cohereclient.WithHTTPClient(httpClient),
	)
	return &CohereChat{client: client, model: model}
}

func (c *CohereChat) ModelName() string { return c.model }

func (c *CohereChat) Complete(ctx context.Context, system, user string) (string, error) {
	if c.client == nil {
		return "", errors.New("COHERE_API_KEY is not set")
	}

	resp, err := c.client.Chat(ctx, &cohere.ChatRequest{
		Message:  user,
		Model:    cohere.String(c.model),
		Preamble: cohere.String(system),
	})
	if err != nil {
		return "", fmt.Errorf("cohere chat error: %w", err)
	}
	if resp == nil {
		return "", errors.New("cohere chat returned empty response")
	}
	return resp.Text, nil
}
