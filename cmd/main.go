package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"docsum/internal/config"

	"github.com/urfave/cli/v2"
)

func main() {
	start := time.Now()
	ctx := context.Background()

	level := new(slog.LevelVar)
	log := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(log)

	cfg, err := config.Load()
	if err != nil {
		log.ErrorContext(ctx, "Failed to load config",
			"error", err)

		os.Exit(2)
	}
	level.Set(cfg.LogLevel)

	a := &app{cfg: cfg, log: log}

	cliApp := &cli.App{
		Name:  "docsum",
		Usage: "extract text from documents and web pages and summarize it",
		Commands: []*cli.Command{
			{
				Name:      "files",
				Usage:     "summarize one or more local files",
				ArgsUsage: "FILE...",
				Flags:     filesFlags(),
				Action:    a.filesAction,
			},
			{
				Name:      "url",
				Usage:     "summarize a web page; the first http(s) URL in the arguments is used",
				ArgsUsage: "TEXT",
				Flags:     []cli.Flag{lengthFlag(), formatFlag()},
				Action:    a.urlAction,
			},
			{
				Name:   "formats",
				Usage:  "list supported file extensions",
				Action: a.formatsAction,
			},
		},
	}

	if err = cliApp.RunContext(ctx, os.Args); err != nil {
		log.ErrorContext(ctx, "Command failed",
			"error", err,
			"uptimeSeconds", time.Since(start).Seconds())

		os.Exit(1)
	}
}

func filesFlags() []cli.Flag {
	return []cli.Flag{
		lengthFlag(),
		formatFlag(),
		&cli.BoolFlag{
			Name:  "individual",
			Usage: "summarize each file on its own",
			Value: true,
		},
		&cli.BoolFlag{
			Name:  "overall",
			Usage: "summarize all files together",
			Value: true,
		},
		&cli.IntFlag{
			Name:  "select",
			Usage: "show the full summary of the N-th file (1-based)",
		},
	}
}

func lengthFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "length",
		Aliases: []string{"l"},
		Usage:   "summary length: short, medium or detailed",
		Value:   "medium",
	}
}

func formatFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Usage:   "output format: text, json or yaml",
		Value:   "text",
	}
}
