package script

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"docreel/config"
	"docreel/types"

	"go.uber.org/zap"
)

const systemPrompt = "You are a creative director."

// ChatProvider sends one system+user exchange to a language model and
// returns the raw assistant text.
type ChatProvider interface {
	Complete(ctx context.Context, system, user string) (string, error)
	ModelName() string
}

// NewDefaultChatProvider picks the provider named in cfg.Script.Provider.
func NewDefaultChatProvider(cfg *config.Config) ChatProvider {
	if cfg.Script.Provider == "cohere" {
		return NewCohereChat(cfg.Cohere.APIKey, cfg.Cohere.Model)
	}
	return &OpenAIChat{
		apiKey:   cfg.OpenAI.APIKey,
		model:    cfg.OpenAI.ChatModel,
		endpoint: cfg.OpenAI.BaseURL + "/chat/completions",
	}
}

// Generator turns source text into an ordered narration script.
type Generator struct {
	provider ChatProvider
	log      *zap.Logger
}

func NewGenerator(provider ChatProvider, log *zap.Logger) *Generator {
	return &Generator{provider: provider, log: log}
}

// Generate asks the model for a script. It fails only when the model call
// itself fails; unusable model output becomes a single fallback segment.
func (g *Generator) Generate(ctx context.Context, text, genre, duration string) ([]types.ScriptSegment, error) {
	prompt := BuildPrompt(text, genre, duration)

	content, err := g.provider.Complete(ctx, systemPrompt, prompt)
	if err != nil {
		return nil, fmt.Errorf("%s script generation: %w", g.provider.ModelName(), err)
	}

	segments, err := ParseResponse(content)
	if err != nil {
		g.log.Warn("model output is not a JSON script, using single segment",
			zap.String("model", g.provider.ModelName()),
			zap.Error(err))
		return []types.ScriptSegment{{Text: content, SearchTerm: config.FallbackSearchTerm}}, nil
	}

	g.log.Info("script generated",
		zap.String("model", g.provider.ModelName()),
		zap.String("genre", genre),
		zap.Int("segments", len(segments)))
	return segments, nil
}

// BuildPrompt renders the creative brief sent to the model.
func BuildPrompt(text, genre, duration string) string {
	return fmt.Sprintf(`Create a narrated video script based on the text provided.
Style: %s.
Target Duration: %s.

Format strictly as a JSON list of objects:
[
    {
        "text": "Narration sentence here.",
        "search_term": "1-3 word visual keyword for stock video search (e.g. 'corporate meeting', 'sunset ocean')"
    }
]

Source Text: %s
`, genre, duration, text)
}

// ParseResponse strips an optional markdown code fence and decodes the
// script array. Segments with no narration are dropped; a script that ends
// up empty is an error.
func ParseResponse(content string) ([]types.ScriptSegment, error) {
	body := stripFence(content)

	var segments []types.ScriptSegment
	if err := json.Unmarshal([]byte(body), &segments); err != nil {
		return nil, fmt.Errorf("decode script: %w", err)
	}

	out := segments[:0]
	for _, s := range segments {
		if strings.TrimSpace(s.Text) == "" {
			continue
		}
		if strings.TrimSpace(s.SearchTerm) == "" {
			s.SearchTerm = config.DefaultSearchTerm
		}
		out = append(out, s)
	}
	if len(out) == 0 {
		return nil, errors.New("script has no segments")
	}
	return out, nil
}

func stripFence(content string) string {
	s := strings.TrimSpace(content)
	if i := strings.Index(s, "```json"); i >= 0 {
		s = s[i+len("```json"):]
	} else if strings.HasPrefix(s, "```") {
		s = s[len("```"):]
	} else {
		return s
	}
	if j := strings.Index(s, "```"); j >= 0 {
		s = s[:j]
	}
	return strings.TrimSpace(s)
}
