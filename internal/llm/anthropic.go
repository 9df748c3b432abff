package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// DefaultAnthropicModel is used when no model override is configured.
const DefaultAnthropicModel = "claude-3-5-haiku-20241022"

const anthropicVersion = "2023-06-01"

// Anthropic is a messages-API client for Anthropic Claude.
type Anthropic struct {
	BaseURL string
	APIKey  string
	Model   string
	Client  *http.Client
}

func NewAnthropic(baseURL, apiKey, model string) *Anthropic {
	if baseURL == "" {
		baseURL = "https://api.anthropic.com"
	}
	if model == "" {
		model = DefaultAnthropicModel
	}
	return &Anthropic{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Model:   model,
		Client:  &http.Client{Timeout: 90 * time.Second},
	}
}

func (p *Anthropic) Name() string { return BackendAnthropic }

type anthropicMsg struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicReq struct {
	Model     string         `json:"model"`
	MaxTokens int            `json:"max_tokens"`
	Messages  []anthropicMsg `json:"messages"`
}

type anthropicResp struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (p *Anthropic) Summarize(ctx context.Context, lines []string, style Style) (string, error) {
	text, err := p.message(ctx, BuildPrompt(lines, style), 1024)
	if err != nil {
		return "", err
	}
	return text, nil
}

// ValidateCredential sends a minimal message; any 2xx means the key works.
func (p *Anthropic) ValidateCredential(ctx context.Context) bool {
	if p.Client == nil || strings.TrimSpace(p.APIKey) == "" {
		return false
	}
	_, err := p.message(ctx, "test", 10)
	return err == nil
}

func (p *Anthropic) message(ctx context.Context, prompt string, maxTokens int) (string, error) {
	if p.Client == nil {
		return "", errors.New("anthropic: http client is nil")
	}
	if strings.TrimSpace(p.APIKey) == "" {
		return "", errors.New("anthropic: api key is required")
	}

	reqBody := anthropicReq{
		Model:     p.Model,
		MaxTokens: maxTokens,
		Messages: []anthropicMsg{
			{Role: "user", Content: prompt},
		},
	}
	b, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/v1/messages", strings.TrimRight(p.BaseURL, "/"))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", p.APIKey)
	req.Header.Set("anthropic-version", anthropicVersion)

	resp, err := p.Client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("anthropic: %s", errBody(resp))
	}

	var decoded anthropicResp
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", err
	}
	if decoded.Error != nil && decoded.Error.Message != "" {
		return "", errors.New(decoded.Error.Message)
	}
	if len(decoded.Content) == 0 {
		return "", errors.New("anthropic: empty response")
	}
	return decoded.Content[0].Text, nil
}
