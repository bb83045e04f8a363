package summarizer

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	anthropicoption "github.com/anthropics/anthropic-sdk-go/option"
)

const (
	defaultAnthropicModel = "claude-3-5-haiku-latest"
	// Upper bound accepted by the smaller Claude models.
	anthropicMaxOutputTokensLimit = 8192
)

// AnthropicSummarizer calls the Anthropic Messages API.
type AnthropicSummarizer struct {
	client          anthropic.Client
	model           string
	maxOutputTokens int64
}

func NewAnthropicSummarizer(
	apiKey string,
	model string,
	maxOutputTokens int64,
	opts ...anthropicoption.RequestOption,
) (*AnthropicSummarizer, error) {
	if strings.TrimSpace(model) == "" {
		model = defaultAnthropicModel
	}
	if maxOutputTokens <= 0 || maxOutputTokens > anthropicMaxOutputTokensLimit {
		maxOutputTokens = anthropicMaxOutputTokensLimit
	}

	opts = append([]anthropicoption.RequestOption{
		anthropicoption.WithAPIKey(apiKey),
		anthropicoption.WithMaxRetries(0),
	}, opts...)

	return &AnthropicSummarizer{
		client:          anthropic.NewClient(opts...),
		model:           model,
		maxOutputTokens: maxOutputTokens,
	}, nil
}

func (s *AnthropicSummarizer) Summarize(
	ctx context.Context,
	input Input,
) (string, error) {
	if err := validateInput(input); err != nil {
		return "", fmt.Errorf("%w: %w", ErrSummarizationFailed, err)
	}

	msg, err := s.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(s.model),
		MaxTokens:   s.maxOutputTokens,
		Temperature: anthropic.Float(temperature),
		System:      []anthropic.TextBlockParam{{Text: systemPrompt}},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(input.UserPrompt())),
		},
	})
	if err != nil {
		return "", fmt.Errorf("%w: do request: %w", ErrSummarizationFailed, err)
	}

	var b strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}

	summary := strings.TrimSpace(b.String())
	if summary == "" {
		return "", fmt.Errorf("%w: output text is missing (stop reason = %s)", ErrSummarizationFailed, msg.StopReason)
	}

	return summary, nil
}
