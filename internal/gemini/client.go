// Package gemini implements the AI collaborator on top of Google's Gemini
// API. The caller supplies a system prompt, the personalization context, and
// the user message; the reply is free text plus best-effort suggested
// actions.
package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/teigesaccord/sandy/internal/config"
)

// Reply is the AI collaborator's response. Suggestions are extracted from the
// reply text with light pattern matching and are non-authoritative.
type Reply struct {
	Text        string   `json:"text"`
	Suggestions []string `json:"suggestions,omitempty"`
	Confidence  float64  `json:"confidence,omitempty"`
}

// Client defines the AI operations used by the chat and recommendation
// flows. The personalization context is passed explicitly on every call; the
// client keeps no per-user state.
type Client interface {
	Complete(ctx context.Context, systemPrompt string, personalization any, userMessage string) (*Reply, error)
}

type sdkClient struct {
	genaiClient   *genai.Client
	log           *slog.Logger
	contentConfig *genai.GenerateContentConfig
	modelName     string
	maxRetries    int
	retryDelay    time.Duration
}

// NewClient creates a Gemini-backed AI client from the provided
// configuration.
func NewClient(ctx context.Context, cfg config.GeminiConfig, log *slog.Logger) (Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}

	gi, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	temperature := cfg.Temperature
	baseCfg := &genai.GenerateContentConfig{
		Temperature: &temperature,
	}

	logger := log.With("component", "gemini_client")
	logger.Info("gemini client initialized", "model", cfg.ModelName)
	return &sdkClient{
		genaiClient:   gi,
		log:           logger,
		contentConfig: baseCfg,
		modelName:     cfg.ModelName,
		maxRetries:    cfg.MaxRetries,
		retryDelay:    time.Duration(cfg.RetryDelaySeconds) * time.Second,
	}, nil
}

// Complete sends one chat turn to Gemini. The personalization context is
// serialized into the system instruction so the model conditions every reply
// on the user's profile.
func (c *sdkClient) Complete(ctx context.Context, systemPrompt string, personalization any, userMessage string) (*Reply, error) {
	c.log.DebugContext(ctx, "generating completion", "message_length", len(userMessage))

	instruction := systemPrompt + "\n\n" + renderPersonalization(personalization)

	cfg := *c.contentConfig
	cfg.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: instruction}}}

	contents := []*genai.Content{genai.NewContentFromText(userMessage, genai.RoleUser)}

	resp, err := c.generateWithRetries(ctx, contents, &cfg)
	if err != nil {
		c.log.ErrorContext(ctx, "gemini completion failed", "error", err)
		return nil, fmt.Errorf("gemini API call failed: %w", err)
	}

	text, err := extractText(resp)
	if err != nil {
		if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != genai.BlockedReasonUnspecified {
			c.log.ErrorContext(ctx, "gemini completion blocked", "reason", resp.PromptFeedback.BlockReason)
			return nil, fmt.Errorf("gemini completion blocked: %s", resp.PromptFeedback.BlockReasonMessage)
		}
		return nil, fmt.Errorf("failed to extract completion text: %w", err)
	}

	text = NormalizeReply(text)
	reply := &Reply{
		Text:        text,
		Suggestions: ExtractSuggestions(text),
		Confidence:  replyConfidence(resp),
	}
	return reply, nil
}

// generateWithRetries calls the API, retrying on retriable server-side codes
// (500, 503) up to the configured limit.
func (c *sdkClient) generateWithRetries(ctx context.Context, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	var resp *genai.GenerateContentResponse
	var err error

	for i := 0; i <= c.maxRetries; i++ {
		resp, err = c.genaiClient.Models.GenerateContent(ctx, c.modelName, contents, cfg)
		if err == nil {
			return resp, nil
		}

		var apiErr *genai.APIError
		if errors.As(err, &apiErr) && (apiErr.Code == 500 || apiErr.Code == 503) {
			if i < c.maxRetries {
				c.log.WarnContext(ctx, "retrying gemini call after retriable error",
					"attempt", i+1, "max_retries", c.maxRetries, "code", apiErr.Code, "delay", c.retryDelay)
				select {
				case <-time.After(c.retryDelay):
					continue
				case <-ctx.Done():
					return nil, ctx.Err()
				}
			}
			return nil, fmt.Errorf("gemini API call failed after %d retries (code %d): %w", c.maxRetries, apiErr.Code, err)
		}

		return nil, fmt.Errorf("gemini API call failed: %w", err)
	}
	return nil, err
}

func renderPersonalization(personalization any) string {
	doc, err := json.MarshalIndent(personalization, "", "  ")
	if err != nil {
		// The context types are plain structs; this should not happen.
		return PersonalizationPreamble + "{}"
	}
	return PersonalizationPreamble + string(doc)
}

func extractText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", errors.New("response contains no candidates")
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", errors.New("response candidate contains no content")
	}

	var sb strings.Builder
	for _, part := range candidate.Content.Parts {
		sb.WriteString(part.Text)
	}
	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", errors.New("response candidate contains no text")
	}
	return text, nil
}

func replyConfidence(resp *genai.GenerateContentResponse) float64 {
	if len(resp.Candidates) > 0 && resp.Candidates[0].FinishReason == genai.FinishReasonStop {
		return 1
	}
	return 0
}
