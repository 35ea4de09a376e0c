package adapters

import (
	"context"
	"fmt"
	"strings"

	"github.com/mindloom/topicmind/adapters/openai"
)

// DefaultLabelClient implements LabelClient using OpenAI
type DefaultLabelClient struct {
	client       openai.LanguageModelClient
	systemPrompt string
	model        string
	temperature  *float32 // Optional temperature. If nil, omit from request.
}

const defaultModel = "gpt-4.1-mini"
const defaultSystemPrompt = `You are a topic naming assistant. Given the top keywords of a discovered topic and a few representative documents, produce a short human-readable name for the topic.

Rules:
- Respond with exactly one line of the form "topic: <name>"
- Keep the name short and descriptive (2-5 words)
- Name the theme, not the documents (e.g., "topic: Sleep Quality", "topic: Family Conflict")
- Be consistent: similar topics should get similar names`

// NewDefaultLabelClient creates a new label client using OpenAI with API key from environment
func NewDefaultLabelClient(apiKey *string, systemPrompt string, model string, temperature *float32) (*DefaultLabelClient, error) {
	key, err := loadEnvVar(apiKey, "OPENAI_API_KEY")
	if err != nil {
		return nil, err
	}

	instance := DefaultLabelClient{
		client:       openai.NewClient(*key),
		systemPrompt: defaultSystemPrompt,
		model:        defaultModel,
		temperature:  temperature,
	}

	if systemPrompt != "" {
		instance.systemPrompt = systemPrompt
	}

	if model != "" {
		instance.model = model
	}

	return &instance, nil
}

// GenerateLabel names a topic from its keywords and sample documents. The
// raw response is returned as-is; callers strip the "topic:" prefix and
// handle malformed output.
func (c *DefaultLabelClient) GenerateLabel(ctx context.Context, keywords []string, sampleDocs []string) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "Keywords: %s\n", strings.Join(keywords, ", "))
	for i, doc := range sampleDocs {
		fmt.Fprintf(&b, "\nDocument %d:\n%s\n", i+1, truncate(doc, 500))
	}
	prompt := b.String()

	req := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatMessage{
			{
				Role:    openai.MessageRoleSystem,
				Content: &c.systemPrompt,
			},
			{
				Role:    openai.MessageRoleUser,
				Content: &prompt,
			},
		},
		MaxCompletionTokens: 50,
	}

	// Only set temperature if specified (some models don't support it)
	if c.temperature != nil {
		req.Temperature = *c.temperature
	}

	resp, err := c.client.ChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("failed to get label response: %w", err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == nil {
		return "", fmt.Errorf("no response from label model")
	}

	return strings.TrimSpace(*resp.Choices[0].Message.Content), nil
}

// truncate cuts long documents so prompts stay small.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
