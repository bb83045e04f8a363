// Package fetcher extracts readable text from web pages.
package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"docsum/internal/htmltext"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html/charset"
)

const (
	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
		"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/127.0.0.0 Safari/537.36"

	// Minimum rune count of extracted page text.
	MinTextLength = 100

	DefaultTimeout      = 10 * time.Second
	DefaultMaxBodyBytes = 10 << 20
)

var ErrContentTooShort = errors.New("content too short")

//nolint:gochecknoglobals // Constant list.
var nonContentTags = []string{"script", "style", "noscript", "footer", "nav", "aside"}

type Config struct {
	Timeout      time.Duration
	MaxBodyBytes int64
}

type Fetcher struct {
	client       *http.Client
	maxBodyBytes int64
	log          *slog.Logger
}

func New(cfg Config, log *slog.Logger) *Fetcher {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}

	return &Fetcher{
		client:       &http.Client{Timeout: cfg.Timeout},
		maxBodyBytes: cfg.MaxBodyBytes,
		log:          log,
	}
}

// Extract fetches rawURL and returns its visible text collapsed to single
// spaces. Any failure is logged and reported as false.
func (f *Fetcher) Extract(ctx context.Context, rawURL string) (string, bool) {
	text, err := f.fetchPage(ctx, rawURL)
	if err != nil {
		f.log.WarnContext(ctx, "Failed to extract page text",
			"error", err,
			"url", rawURL)

		return "", false
	}

	f.log.InfoContext(ctx, "Page text is extracted",
		"url", rawURL,
		"textLen", len(text))

	return text, true
}

func (f *Fetcher) fetchPage(ctx context.Context, rawURL string) (string, error) {
	rawURL = strings.TrimSpace(rawURL)

	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parse URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("parse URL: unsupported scheme %q", u.Scheme)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")

	resp, err := f.client.Do(req) //nolint:gosec // User-supplied URL is the point.
	if err != nil {
		return "", fmt.Errorf("do request: %w", err)
	}
	defer func() {
		if err = resp.Body.Close(); err != nil {
			f.log.ErrorContext(ctx, "Failed to close response body",
				"error", err,
				"url", rawURL)
		}
	}()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return "", fmt.Errorf("do request: unexpected status: %d", resp.StatusCode)
	}

	body, err := charset.NewReader(
		io.LimitReader(resp.Body, f.maxBodyBytes),
		resp.Header.Get("Content-Type"),
	)
	if err != nil {
		return "", fmt.Errorf("detect charset: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return "", fmt.Errorf("create document from reader: %w", err)
	}

	htmltext.Remove(doc.Selection, nonContentTags...)
	text := htmltext.Words(doc.Selection)

	if n := utf8.RuneCountInString(text); n < MinTextLength {
		return "", fmt.Errorf("%w: %d characters", ErrContentTooShort, n)
	}

	return text, nil
}
