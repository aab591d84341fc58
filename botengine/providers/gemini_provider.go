package providers

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/nobotchat/relay/domains/responder"
)

const DefaultGeminiModel = "gemini-2.0-flash"

// GeminiProvider is the adapter for the Google Gemini API.
type GeminiProvider struct{}

func NewGeminiProvider() *GeminiProvider {
	return &GeminiProvider{}
}

func (p *GeminiProvider) Name() string {
	return "gemini"
}

// Generate implements the responder.Provider interface for Gemini.
func (p *GeminiProvider) Generate(ctx context.Context, apiKey string, req responder.Request) (string, error) {
	if apiKey == "" {
		return "", fmt.Errorf("gemini: no API key configured")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return "", fmt.Errorf("gemini: %w", err)
	}

	var genConfig *genai.GenerateContentConfig
	if req.SystemPrompt != "" {
		genConfig = &genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(req.SystemPrompt, ""),
		}
	}

	var contents []*genai.Content
	for _, t := range req.History {
		role := genai.RoleUser
		if t.Role == "agent" {
			role = genai.RoleModel
		}
		contents = append(contents, &genai.Content{
			Role:  role,
			Parts: []*genai.Part{{Text: t.Text}},
		})
	}
	contents = append(contents, &genai.Content{
		Role:  genai.RoleUser,
		Parts: []*genai.Part{{Text: req.UserText}},
	})

	model := req.Model
	if model == "" {
		model = DefaultGeminiModel
	}

	result, err := client.Models.GenerateContent(ctx, model, contents, genConfig)
	if err != nil {
		return "", fmt.Errorf("gemini: generate: %w", err)
	}

	return strings.TrimSpace(result.Text()), nil
}
