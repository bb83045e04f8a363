package pipeline

import (
	"context"
	"fmt"

	"docsum/internal/domain"
	"docsum/internal/session"
	"docsum/internal/summarizer"
)

// Policy selects which summaries a batch produces.
type Policy struct {
	Individual bool
	Overall    bool
	Length     summarizer.Length
}

// TotalSteps is one step per decode, one per individual summary and one
// for the overall summary.
func (p Policy) TotalSteps(items int) int {
	steps := items
	if p.Individual {
		steps += items
	}
	if p.Overall {
		steps++
	}

	return steps
}

// EffectivePolicy applies the single-file override: one file is always
// summarized as the overall result only.
func EffectivePolicy(items int, p Policy) Policy {
	if items == 1 {
		p.Individual = false
		p.Overall = true
	}

	return p
}

// Outcome is what a background job started with Start ends with.
type Outcome struct {
	Results session.Results
	Err     error
}

// Run summarizes items in order. The previous results are snapshotted
// first and restored on cancellation or on the first failure, so callers
// never see a partial result set.
func (o *Orchestrator) Run(
	ctx context.Context,
	items []domain.SourceDocument,
	policy Policy,
) (session.Results, error) {
	policy, jobID, err := o.prepare(items, policy)
	if err != nil {
		return session.Results{}, err
	}

	return o.run(ctx, jobID, items, policy)
}

// Start validates the batch and runs it in the background. Validation
// errors and ErrJobRunning are returned directly; everything else arrives
// on the channel, which receives exactly one Outcome.
func (o *Orchestrator) Start(
	ctx context.Context,
	items []domain.SourceDocument,
	policy Policy,
) (<-chan Outcome, error) {
	policy, jobID, err := o.prepare(items, policy)
	if err != nil {
		return nil, err
	}

	done := make(chan Outcome, 1)
	go func() {
		res, runErr := o.run(ctx, jobID, items, policy)
		done <- Outcome{Results: res, Err: runErr}
	}()

	return done, nil
}

func (o *Orchestrator) prepare(items []domain.SourceDocument, policy Policy) (Policy, string, error) {
	if len(items) == 0 {
		return policy, "", ErrNoItems
	}

	policy = EffectivePolicy(len(items), policy)
	if !policy.Individual && !policy.Overall {
		return policy, "", ErrNoOutputSelected
	}

	jobID, err := o.begin(policy.TotalSteps(len(items)), "Starting")
	if err != nil {
		return policy, "", err
	}

	return policy, jobID, nil
}

func (o *Orchestrator) run(
	ctx context.Context,
	jobID string,
	items []domain.SourceDocument,
	policy Policy,
) (session.Results, error) {
	total := policy.TotalSteps(len(items))

	log := o.log.With("jobID", jobID)
	log.InfoContext(ctx, "Batch is started",
		"items", len(items),
		"individual", policy.Individual,
		"overall", policy.Overall,
		"length", policy.Length,
		"totalSteps", total)

	o.store.Snapshot()
	o.report(0, "Starting")

	// Network calls are not interrupted by cancellation; only the next
	// step is skipped.
	callCtx := context.WithoutCancel(ctx)

	var (
		completed int
		texts     = make([]domain.ExtractedText, 0, len(items))
		results   []domain.SummaryResult
	)

	for i, item := range items {
		if o.stopRequested(ctx) {
			return o.abort(ctx, StateCancelled, ErrCancelled)
		}

		extracted, decodeErr := o.decoder.Decode(item.Name, item.Data)
		if decodeErr != nil {
			log.ErrorContext(ctx, "Failed to decode file",
				"error", decodeErr,
				"filename", item.Name,
				"index", i)

			return o.abort(ctx, StateFailed, decodeErr)
		}

		texts = append(texts, extracted)
		completed++
		o.report(completed, fmt.Sprintf("Extracted %s (%d/%d)", item.Name, i+1, len(items)))

		if !policy.Individual {
			continue
		}

		if o.stopRequested(ctx) {
			return o.abort(ctx, StateCancelled, ErrCancelled)
		}

		summary, sumErr := o.summarizer.Summarize(callCtx, summarizer.Input{
			Text:        extracted.Text,
			Instruction: summarizer.Instruction(policy.Length, summarizer.ScopeSingle),
		})
		if sumErr != nil {
			log.ErrorContext(ctx, "Failed to summarize file",
				"error", sumErr,
				"filename", item.Name,
				"index", i)

			return o.abort(ctx, StateFailed, fmt.Errorf("summarize %s: %w", item.Name, sumErr))
		}
		if o.stopRequested(ctx) {
			return o.abort(ctx, StateCancelled, ErrCancelled)
		}

		results = append(results, domain.SummaryResult{
			SourceName: extracted.Meta.Filename,
			Summary:    summary,
			Meta:       extracted.Meta,
		})
		completed++
		o.report(completed, fmt.Sprintf("Summarized %s (%d/%d)", item.Name, i+1, len(items)))
	}

	var overall string
	if policy.Overall {
		if o.stopRequested(ctx) {
			return o.abort(ctx, StateCancelled, ErrCancelled)
		}

		summary, sumErr := o.summarizer.Summarize(callCtx, summarizer.Input{
			Text:        AggregateBody(texts),
			Instruction: summarizer.Instruction(policy.Length, summarizer.ScopeOverall),
		})
		if sumErr != nil {
			log.ErrorContext(ctx, "Failed to create overall summary",
				"error", sumErr,
				"items", len(texts))

			return o.abort(ctx, StateFailed, fmt.Errorf("summarize overall: %w", sumErr))
		}
		if o.stopRequested(ctx) {
			return o.abort(ctx, StateCancelled, ErrCancelled)
		}

		overall = summary
		completed++
		o.report(completed, "Created overall summary")
	}

	if o.stopRequested(ctx) {
		return o.abort(ctx, StateCancelled, ErrCancelled)
	}

	o.store.CommitFiles(results, overall)
	o.finish(StateCompleted)

	log.InfoContext(ctx, "Batch is completed",
		"items", len(items),
		"summaries", len(results),
		"hasOverall", overall != "")

	return o.store.Current(), nil
}

func (o *Orchestrator) abort(ctx context.Context, state State, err error) (session.Results, error) {
	o.store.Restore()
	o.finish(state)

	o.log.InfoContext(ctx, "Batch is stopped and previous results are restored",
		"jobID", o.JobID(),
		"state", state,
		"progress", o.Progress().Completed)

	return o.store.Current(), err
}
