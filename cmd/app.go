package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"docsum/internal/config"
	"docsum/internal/decoder"
	"docsum/internal/domain"
	"docsum/internal/fetcher"
	"docsum/internal/pipeline"
	"docsum/internal/ratelimiter"
	"docsum/internal/render"
	"docsum/internal/session"
	"docsum/internal/summarizer"

	"github.com/urfave/cli/v2"
	"mvdan.cc/xurls/v2"
)

type app struct {
	cfg config.Config
	log *slog.Logger
}

// newOrchestrator wires the job pipeline. The returned func releases the
// provider rate limiter.
func (a *app) newOrchestrator(
	ctx context.Context,
	store *session.Store,
) (*pipeline.Orchestrator, func(), error) {
	s, err := summarizer.New(summarizer.Config{
		Provider:        a.cfg.Provider,
		APIKey:          a.cfg.APIKey(),
		Model:           a.cfg.Model,
		MaxOutputTokens: a.cfg.MaxOutputTokens,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("create summarizer: %w", err)
	}
	a.log.InfoContext(ctx, "Summarizer is initialized",
		"provider", a.cfg.Provider,
		"model", a.cfg.Model)

	limiter := ratelimiter.New(a.cfg.MinCallInterval, a.log)
	limited := summarizer.NewRateLimitedSummarizer(s, limiter, a.cfg.Provider)
	cached := summarizer.NewCachingSummarizer(limited, a.cfg.CacheSize, a.cfg.CacheTTL, a.log)

	pages := fetcher.New(fetcher.Config{
		Timeout:      a.cfg.FetchTimeout,
		MaxBodyBytes: a.cfg.FetchMaxBytes,
	}, a.log)

	orch := pipeline.New(
		decoder.NewRegistry(a.log),
		cached,
		pages,
		store,
		a.log,
		pipeline.WithProgress(func(p pipeline.Progress) {
			fmt.Fprintf(os.Stderr, "[%d/%d] %s\n", p.Completed, p.Total, p.Label)
		}),
	)

	return orch, limiter.Stop, nil
}

// cancelOnSignal turns SIGINT/SIGTERM into a cancel request until the
// returned stop func is called.
func (a *app) cancelOnSignal(ctx context.Context, orch *pipeline.Orchestrator) func() {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)

	done := make(chan struct{})
	go func() {
		for {
			select {
			case sig := <-sigs:
				a.log.InfoContext(ctx, "Cancel is requested",
					"signal", sig.String())
				orch.Cancel()
			case <-done:
				return
			}
		}
	}()

	return func() {
		signal.Stop(sigs)
		close(done)
	}
}

func (a *app) filesAction(c *cli.Context) error {
	ctx := c.Context

	if c.NArg() == 0 {
		return errors.New("no files given")
	}

	length, err := summarizer.ParseLength(c.String("length"))
	if err != nil {
		return err
	}
	format, err := render.ParseFormat(c.String("format"))
	if err != nil {
		return err
	}

	items, err := readFiles(c.Args().Slice())
	if err != nil {
		return err
	}

	store := session.NewStore()
	orch, release, err := a.newOrchestrator(ctx, store)
	if err != nil {
		return err
	}
	defer release()

	stop := a.cancelOnSignal(ctx, orch)
	defer stop()

	_, err = orch.Run(ctx, items, pipeline.Policy{
		Individual: c.Bool("individual"),
		Overall:    c.Bool("overall"),
		Length:     length,
	})
	switch {
	case errors.Is(err, pipeline.ErrCancelled):
		a.log.InfoContext(ctx, "Batch is cancelled so previous results are shown",
			"jobID", orch.JobID())
	case err != nil:
		return err
	}

	if n := c.Int("select"); n > 0 && err == nil {
		if _, err = store.Select(n - 1); err != nil {
			return fmt.Errorf("select file %d: %w", n, err)
		}
	}

	return render.Write(c.App.Writer, format, render.Report{
		JobID:   orch.JobID(),
		State:   string(orch.State()),
		Results: store.Current(),
	})
}

func (a *app) urlAction(c *cli.Context) error {
	ctx := c.Context

	rawURL, err := firstWebURL(c.Args().Slice())
	if err != nil {
		return err
	}

	length, err := summarizer.ParseLength(c.String("length"))
	if err != nil {
		return err
	}
	format, err := render.ParseFormat(c.String("format"))
	if err != nil {
		return err
	}

	store := session.NewStore()
	orch, release, err := a.newOrchestrator(ctx, store)
	if err != nil {
		return err
	}
	defer release()

	stop := a.cancelOnSignal(ctx, orch)
	defer stop()

	res, err := orch.SummarizeURL(ctx, rawURL, length)
	if err != nil && !errors.Is(err, pipeline.ErrCancelled) {
		return err
	}

	return render.Write(c.App.Writer, format, render.Report{
		JobID:   orch.JobID(),
		State:   string(orch.State()),
		Results: res,
	})
}

func (a *app) formatsAction(c *cli.Context) error {
	return render.Capabilities(c.App.Writer, decoder.NewRegistry(a.log).Capabilities())
}

func readFiles(paths []string) ([]domain.SourceDocument, error) {
	items := make([]domain.SourceDocument, 0, len(paths))

	var errs []error
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			errs = append(errs, fmt.Errorf("read %s: %w", path, err))
			continue
		}

		items = append(items, domain.SourceDocument{
			Name: filepath.Base(path),
			Data: data,
		})
	}

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	return items, nil
}

// firstWebURL returns the first http or https URL found in args.
func firstWebURL(args []string) (string, error) {
	re, err := xurls.StrictMatchingScheme(`https?://`)
	if err != nil {
		return "", fmt.Errorf("compile url matcher: %w", err)
	}

	for _, arg := range args {
		if u := re.FindString(arg); u != "" {
			return u, nil
		}
	}

	return "", errors.New("no http or https URL found")
}
