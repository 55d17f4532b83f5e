package gemini

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/nguyentantai21042004/dub-flow/internal/dubbing"
)

// generate runs one GenerateContent call against the current API key and
// classifies failures for the pipeline's retry loop: quota and availability
// problems rotate to the next key and surface as retryable, credential
// problems are final.
func (c *Client) generate(ctx context.Context, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	key := c.currentAPIKey()

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  key,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	result, err := client.Models.GenerateContent(ctx, model, contents, cfg)
	if err != nil {
		return nil, c.classify(ctx, err)
	}

	if result == nil || len(result.Candidates) == 0 || result.Candidates[0].Content == nil {
		return nil, &dubbing.ValidationError{Reason: "empty response from gemini"}
	}

	return result, nil
}

func (c *Client) classify(ctx context.Context, err error) error {
	msg := err.Error()

	switch {
	case strings.Contains(msg, "429"),
		strings.Contains(msg, "quota"),
		strings.Contains(msg, "RESOURCE_EXHAUSTED"),
		strings.Contains(msg, "503"),
		strings.Contains(msg, "UNAVAILABLE"):
		c.logger.Warn(ctx, "Gemini key exhausted or unavailable, rotating to the next key")
		c.rotateKey()
		return fmt.Errorf("%w: %v", dubbing.ErrUnavailable, err)

	case strings.Contains(msg, "401"),
		strings.Contains(msg, "403"),
		strings.Contains(msg, "API key"),
		strings.Contains(msg, "PERMISSION_DENIED"),
		strings.Contains(msg, "UNAUTHENTICATED"):
		return &dubbing.AccessError{Service: "gemini", Err: err}

	default:
		return fmt.Errorf("gemini generate: %w", err)
	}
}

func (c *Client) currentAPIKey() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.apiKeys[c.currentKey]
}

func (c *Client) rotateKey() {
	c.mu.Lock()
	c.currentKey = (c.currentKey + 1) % len(c.apiKeys)
	c.mu.Unlock()
}

// generateText is the plain-prompt path used by labeling and translation.
func (c *Client) generateText(ctx context.Context, prompt string) (string, error) {
	result, err := c.generate(ctx, c.textModel, genai.Text(prompt), nil)
	if err != nil {
		return "", err
	}

	var text strings.Builder
	for _, part := range result.Candidates[0].Content.Parts {
		text.WriteString(part.Text)
	}

	if text.Len() == 0 {
		return "", &dubbing.ValidationError{Reason: "gemini returned no text parts"}
	}

	return text.String(), nil
}
