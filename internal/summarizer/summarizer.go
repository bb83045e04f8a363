package summarizer

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"

	systemPrompt = "You are an assistant that analyzes text and provides a summary, " +
		"ignoring text that might be navigation related."

	temperature = 0.8
)

// ErrSummarizationFailed wraps every provider failure.
var ErrSummarizationFailed = errors.New("summarization failed")

// Input describes the payload for a summary request.
type Input struct {
	// Text contains the plain text to summarise.
	Text string
	// Instruction tells the model what kind of summary to write.
	Instruction string
}

// UserPrompt is the user message sent to the model.
func (in Input) UserPrompt() string {
	return in.Instruction + "\n\n" + in.Text
}

// Summarizer produces a single summary for a given input text.
type Summarizer interface {
	Summarize(ctx context.Context, input Input) (string, error)
}

type Config struct {
	Provider string
	APIKey   string
	// Model falls back to the provider default when empty.
	Model           string
	MaxOutputTokens int64
}

// New builds the summarizer for cfg.Provider.
func New(cfg Config) (Summarizer, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("API key for provider %q is empty", cfg.Provider)
	}

	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case ProviderOpenAI, "":
		return NewOpenAISummarizer(cfg.APIKey, cfg.Model, cfg.MaxOutputTokens)
	case ProviderAnthropic:
		return NewAnthropicSummarizer(cfg.APIKey, cfg.Model, cfg.MaxOutputTokens)
	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.Provider)
	}
}

func validateInput(input Input) error {
	if strings.TrimSpace(input.Text) == "" {
		return errors.New("input is empty")
	}

	return nil
}
