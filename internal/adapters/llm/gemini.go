package llm

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/kwhsu/riskprofiler/internal/domain"
)

// GeminiClient implements domain.TextGenerator against the Gemini API.
type GeminiClient struct {
	client    *genai.Client
	modelName string
}

// NewGeminiClient creates a generator using an API key. Callers decide what
// to do when no key is available (the engine falls back to canonical
// content); this constructor requires one.
func NewGeminiClient(ctx context.Context, apiKey, modelName string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	if modelName == "" {
		modelName = "gemini-2.0-flash"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}

	return &GeminiClient{
		client:    client,
		modelName: modelName,
	}, nil
}

// Available implements domain.TextGenerator. A constructed client always
// has a credential; availability is decided at construction time.
func (g *GeminiClient) Available() bool {
	return true
}

// GenerateText implements domain.TextGenerator.
func (g *GeminiClient) GenerateText(ctx context.Context, spec domain.PromptSpec) (string, error) {
	contents := []*genai.Content{
		genai.NewContentFromText(spec.User, genai.RoleUser),
	}

	temp := spec.Temperature
	cfg := &genai.GenerateContentConfig{
		Temperature:     &temp,
		MaxOutputTokens: spec.MaxOutputTokens,
	}
	if spec.System != "" {
		cfg.SystemInstruction = genai.NewContentFromText(spec.System, genai.RoleUser)
	}

	res, err := g.client.Models.GenerateContent(ctx, g.modelName, contents, cfg)
	if err != nil {
		return "", fmt.Errorf("gemini generate content: %w", err)
	}

	text := strings.TrimSpace(res.Text())
	if text == "" {
		return "", fmt.Errorf("gemini returned empty text")
	}

	return stripMarkup(text), nil
}

// stripMarkup removes quote and markdown markers the model tends to wrap
// short answers in.
func stripMarkup(s string) string {
	replacer := strings.NewReplacer(`"`, "", "'", "", "*", "")
	return strings.TrimSpace(replacer.Replace(s))
}
