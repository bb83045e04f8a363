package summarizer

import (
	"context"

	"docsum/internal/ratelimiter"
)

// RateLimitedSummarizer sends every request for one provider through a
// shared limiter.
type RateLimitedSummarizer struct {
	next    Summarizer
	limiter *ratelimiter.RateLimiter
	key     string
}

func NewRateLimitedSummarizer(
	next Summarizer,
	limiter *ratelimiter.RateLimiter,
	provider string,
) *RateLimitedSummarizer {
	return &RateLimitedSummarizer{next: next, limiter: limiter, key: provider}
}

func (s *RateLimitedSummarizer) Summarize(ctx context.Context, input Input) (string, error) {
	var summary string

	err := s.limiter.Do(ctx, s.key, func() error {
		var callErr error
		summary, callErr = s.next.Summarize(ctx, input)

		return callErr
	})
	if err != nil {
		return "", err
	}

	return summary, nil
}
