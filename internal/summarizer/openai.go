package summarizer

import (
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/responses"
)

const (
	defaultOpenAIModel           = "gpt-4o-mini"
	defaultOpenAIMaxOutputTokens = 16000
)

// OpenAISummarizer calls OpenAI's Responses API to produce summaries.
type OpenAISummarizer struct {
	client          openai.Client
	model           string
	maxOutputTokens int64
}

// NewOpenAISummarizer builds a new summarizer instance. Retries are
// disabled so failures reach the caller immediately.
func NewOpenAISummarizer(
	apiKey string,
	model string,
	maxOutputTokens int64,
	opts ...option.RequestOption,
) (*OpenAISummarizer, error) {
	if strings.TrimSpace(model) == "" {
		model = defaultOpenAIModel
	}
	if maxOutputTokens <= 0 {
		maxOutputTokens = defaultOpenAIMaxOutputTokens
	}

	opts = append([]option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}, opts...)

	return &OpenAISummarizer{
		client:          openai.NewClient(opts...),
		model:           model,
		maxOutputTokens: maxOutputTokens,
	}, nil
}

func (s *OpenAISummarizer) Summarize(
	ctx context.Context,
	input Input,
) (string, error) {
	if err := validateInput(input); err != nil {
		return "", fmt.Errorf("%w: %w", ErrSummarizationFailed, err)
	}

	resp, err := s.client.Responses.New(ctx, responses.ResponseNewParams{
		Model:           s.model,
		MaxOutputTokens: openai.Int(s.maxOutputTokens),
		Temperature:     openai.Float(temperature),
		Instructions:    openai.String(systemPrompt),
		Input: responses.ResponseNewParamsInputUnion{
			OfString: openai.String(input.UserPrompt()),
		},
	})
	if err != nil {
		return "", fmt.Errorf("%w: do request: %w", ErrSummarizationFailed, err)
	}

	if resp.Status == "incomplete" {
		return "", fmt.Errorf(
			"%w: response is incomplete (reason = %s, maxOutputTokens = %d)",
			ErrSummarizationFailed,
			resp.IncompleteDetails.Reason,
			s.maxOutputTokens,
		)
	}

	summary := strings.TrimSpace(resp.OutputText())
	if summary == "" {
		return "", fmt.Errorf("%w: output text is missing (status = %s)", ErrSummarizationFailed, resp.Status)
	}

	return summary, nil
}
