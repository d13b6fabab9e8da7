package ai

import (
	"context"
	"fmt"
	"time"

	xhttp "BottomScan/pkg/http"
)

const anthropicEndpoint = "https://api.anthropic.com/v1/messages"

// Anthropic is the HTTP interpreter backed by an Anthropic-style messages
// endpoint. The call carries its own timeout; denial and parsing policy
// stay in the Gate.
type Anthropic struct {
	apiKey string
	model  string
	client *xhttp.Client
}

// AnthropicOption configures the provider.
type AnthropicOption func(*Anthropic)

func WithModel(model string) AnthropicOption {
	return func(a *Anthropic) { a.model = model }
}

func WithTimeout(d time.Duration) AnthropicOption {
	return func(a *Anthropic) { a.client = xhttp.NewClient(xhttp.WithTimeout(d)) }
}

func NewAnthropic(apiKey string, opts ...AnthropicOption) *Anthropic {
	a := &Anthropic{
		apiKey: apiKey,
		model:  "claude-3-5-haiku-latest",
		client: xhttp.NewClient(xhttp.WithTimeout(20 * time.Second)),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Anthropic) ProviderName() string { return "anthropic" }

type anthropicRequest struct {
	Model     string             `json:"model"`
	MaxTokens int                `json:"max_tokens"`
	System    string             `json:"system"`
	Messages  []anthropicMessage `json:"messages"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

const systemPrompt = "You are a market regime interpreter. Answer with a single JSON object " +
	`{"regime": string, "confidence": integer 0-100, "summary": string, "risks": [at most 3 strings]}` +
	" and nothing else."

// Generate posts the structured evidence and returns the raw text body of
// the first content block, which the Gate parses and validates.
func (a *Anthropic) Generate(ctx context.Context, prompt string) (string, error) {
	var resp anthropicResponse
	err := a.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodPost,
		URL:    anthropicEndpoint,
		Headers: map[string]string{
			"Content-Type":      "application/json",
			"x-api-key":         a.apiKey,
			"anthropic-version": "2023-06-01",
		},
		Body: anthropicRequest{
			Model:     a.model,
			MaxTokens: 512,
			System:    systemPrompt,
			Messages:  []anthropicMessage{{Role: "user", Content: prompt}},
		},
	}, &resp)
	if err != nil {
		return "", fmt.Errorf("anthropic call: %w", err)
	}
	if len(resp.Content) == 0 {
		return "", fmt.Errorf("anthropic call: empty content")
	}
	return resp.Content[0].Text, nil
}
