// Package llm – provider contract
//
// This file defines the Provider interface implemented by the concrete
// backends (OpenAI, Anthropic, Gemini), the selector constants used in
// configuration, the factory that maps a selector to a client, and the shared
// prompt assembly every backend uses.
package llm

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Backend selectors accepted by New (and the LLM_PROVIDER setting).
const (
	BackendOpenAI    = "openai"
	BackendAnthropic = "anthropic"
	BackendGemini    = "gemini"
)

// Provider generates chat summaries from normalized conversation lines.
// Implementations are safe for concurrent use.
type Provider interface {
	// Summarize produces a summary of lines in the requested style. It is the
	// caller's job to short-circuit empty input; implementations may assume
	// lines is non-empty.
	Summarize(ctx context.Context, lines []string, style Style) (string, error)

	// ValidateCredential reports whether the configured credential is usable,
	// by making a minimal call against the live service. Intended as an
	// advisory startup probe, not a guarantee.
	ValidateCredential(ctx context.Context) bool

	// Name returns the backend selector, e.g. "openai".
	Name() string
}

// Options configures the backend selected by New. Model and BaseURL are
// optional overrides; tests point BaseURL at a local fake.
type Options struct {
	Backend string
	APIKey  string
	Model   string
	BaseURL string
}

// New builds the provider named by opts.Backend. An unknown selector is a
// configuration fault and returns an error rather than a fallback.
func New(opts Options) (Provider, error) {
	switch strings.ToLower(strings.TrimSpace(opts.Backend)) {
	case BackendOpenAI:
		return NewOpenAI(opts.BaseURL, opts.APIKey, opts.Model), nil
	case BackendAnthropic:
		return NewAnthropic(opts.BaseURL, opts.APIKey, opts.Model), nil
	case BackendGemini:
		return NewGemini(opts.BaseURL, opts.APIKey, opts.Model), nil
	default:
		return nil, fmt.Errorf("llm: unknown provider %q", opts.Backend)
	}
}

// BuildPrompt assembles the full prompt sent to a backend: style instruction,
// a fixed lead-in, the conversation lines joined by newlines, and a closing
// request. Unknown styles use the default style's instruction.
func BuildPrompt(lines []string, style Style) string {
	var b strings.Builder
	b.WriteString(StyleInstruction(style))
	b.WriteString("\n\nThe following is a conversation from a Telegram chat:\n\n")
	b.WriteString(strings.Join(lines, "\n"))
	b.WriteString("\n\nPlease summarize the above conversation.")
	return b.String()
}

// errBody extracts a bounded excerpt of a non-2xx response body for error
// messages, falling back to the status code when the body is empty.
func errBody(resp *http.Response) string {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4*1024))
	msg := strings.TrimSpace(string(body))
	if msg == "" {
		msg = fmt.Sprintf("status %d", resp.StatusCode)
	}
	return msg
}
