package pipeline

import (
	"context"
	"fmt"

	"docsum/internal/session"
	"docsum/internal/summarizer"
)

const websiteSteps = 2

// SummarizeURL fetches one page and summarizes it. On success the website
// summary replaces any file results; on failure the store is untouched.
func (o *Orchestrator) SummarizeURL(
	ctx context.Context,
	rawURL string,
	length summarizer.Length,
) (session.Results, error) {
	jobID, err := o.begin(websiteSteps, "Fetching page")
	if err != nil {
		return session.Results{}, err
	}

	log := o.log.With("jobID", jobID)
	o.report(0, "Fetching page")

	callCtx := context.WithoutCancel(ctx)

	text, ok := o.pages.Extract(callCtx, rawURL)
	if !ok {
		o.finish(StateFailed)
		return o.store.Current(), ErrCouldNotExtract
	}
	o.report(1, "Fetched page")

	if o.stopRequested(ctx) {
		o.finish(StateCancelled)
		return o.store.Current(), ErrCancelled
	}

	summary, err := o.summarizer.Summarize(callCtx, summarizer.Input{
		Text:        text,
		Instruction: summarizer.Instruction(length, summarizer.ScopeSingle),
	})
	if err != nil {
		log.ErrorContext(ctx, "Failed to summarize page",
			"error", err,
			"url", rawURL)

		o.finish(StateFailed)

		return o.store.Current(), fmt.Errorf("summarize %s: %w", rawURL, err)
	}

	if o.stopRequested(ctx) {
		o.finish(StateCancelled)
		return o.store.Current(), ErrCancelled
	}

	o.store.CommitWebsite(rawURL, summary)
	o.report(websiteSteps, "Summarized page")
	o.finish(StateCompleted)

	log.InfoContext(ctx, "Page is summarized",
		"url", rawURL,
		"textLen", len(text))

	return o.store.Current(), nil
}
