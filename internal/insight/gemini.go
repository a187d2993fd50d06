// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package insight

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/scoreazy/report-engine/pkg/types"
)

// eduSafetySettings are the content-safety thresholds for an audience of
// minors: harassment and hate speech are blocked outright, explicit and
// dangerous content from a medium likelihood up.
var eduSafetySettings = []*genai.SafetySetting{
	{Category: genai.HarmCategoryHarassment, Threshold: genai.HarmBlockThresholdBlockLowAndAbove},
	{Category: genai.HarmCategoryHateSpeech, Threshold: genai.HarmBlockThresholdBlockLowAndAbove},
	{Category: genai.HarmCategorySexuallyExplicit, Threshold: genai.HarmBlockThresholdBlockMediumAndAbove},
	{Category: genai.HarmCategoryDangerousContent, Threshold: genai.HarmBlockThresholdBlockMediumAndAbove},
}

// GeminiBackend implements TextBackend against the Gemini API.
type GeminiBackend struct {
	client *genai.Client
	model  string
}

// NewGeminiBackend builds the Gemini client. A missing API key is the one
// configuration error that stops a run before it starts.
func NewGeminiBackend(ctx context.Context, cfg types.AIConfig) (*GeminiBackend, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}

	return &GeminiBackend{client: client, model: cfg.Model}, nil
}

// GenerateJSON requests deterministic structured output (temperature 0,
// JSON response MIME type).
func (b *GeminiBackend) GenerateJSON(ctx context.Context, prompt string) (string, error) {
	return b.generate(ctx, prompt, &genai.GenerateContentConfig{
		Temperature:      genai.Ptr[float32](0.0),
		MaxOutputTokens:  1000,
		ResponseMIMEType: "application/json",
		SafetySettings:   eduSafetySettings,
	})
}

// GenerateText requests plain prose with mild sampling.
func (b *GeminiBackend) GenerateText(ctx context.Context, prompt string) (string, error) {
	return b.generate(ctx, prompt, &genai.GenerateContentConfig{
		Temperature:     genai.Ptr[float32](0.3),
		MaxOutputTokens: 1500,
		SafetySettings:  eduSafetySettings,
	})
}

func (b *GeminiBackend) generate(ctx context.Context, prompt string, cfg *genai.GenerateContentConfig) (string, error) {
	resp, err := b.client.Models.GenerateContent(ctx, b.model, genai.Text(prompt), cfg)
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("gemini returned no text")
	}
	return text, nil
}
