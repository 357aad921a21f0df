package llm

import (
	"context"
	"errors"
	"strings"

	"google.golang.org/genai"
)

const GeminiProviderName = "gemini"

// NewGeminiFactory returns a Factory whose clients share one genai client.
func NewGeminiFactory(ctx context.Context, apiKey string) (Factory, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("gemini api key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  strings.TrimSpace(apiKey),
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}
	return func(model string, temperature float32) (Client, error) {
		return &geminiClient{client: client, model: model, temperature: temperature}, nil
	}, nil
}

type geminiClient struct {
	client      *genai.Client
	model       string
	temperature float32
}

func (g *geminiClient) Generate(ctx context.Context, system, user string) (string, error) {
	cfg := &genai.GenerateContentConfig{
		Temperature:       genai.Ptr(g.temperature),
		ResponseMIMEType:  "application/json",
		SystemInstruction: genai.NewContentFromText(system, genai.RoleUser),
	}
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(user), cfg)
	if err != nil {
		return "", err
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", errors.New("gemini returned an empty response")
	}
	return text, nil
}
