// Package pipeline drives extraction and summarization of uploaded files
// and web pages, one job at a time.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"

	"docsum/internal/domain"
	"docsum/internal/session"
	"docsum/internal/summarizer"

	"github.com/google/uuid"
)

type State string

const (
	StateIdle      State = "idle"
	StateRunning   State = "running"
	StateCancelled State = "cancelled"
	StateCompleted State = "completed"
	StateFailed    State = "failed"
)

var (
	ErrNoItems          = errors.New("no files to summarize")
	ErrNoOutputSelected = errors.New("select individual summaries, an overall summary, or both")
	ErrJobRunning       = errors.New("another job is running")
	ErrCancelled        = errors.New("job cancelled")
	ErrCouldNotExtract  = errors.New("could not extract page content")
)

// Decoder turns an uploaded file into text.
type Decoder interface {
	Decode(name string, data []byte) (domain.ExtractedText, error)
}

// PageExtractor fetches a web page's text. False means nothing usable
// could be extracted.
type PageExtractor interface {
	Extract(ctx context.Context, rawURL string) (string, bool)
}

type Progress struct {
	Completed int
	Total     int
	Label     string
}

func (p Progress) Fraction() float64 {
	if p.Total == 0 {
		return 0
	}

	return float64(p.Completed) / float64(p.Total)
}

type ProgressFunc func(Progress)

type Option func(*Orchestrator)

// WithProgress registers fn to be called after every step. fn runs on the
// job's goroutine and may call Cancel.
func WithProgress(fn ProgressFunc) Option {
	return func(o *Orchestrator) {
		o.onProgress = fn
	}
}

type Orchestrator struct {
	decoder    Decoder
	summarizer summarizer.Summarizer
	pages      PageExtractor
	store      *session.Store
	onProgress ProgressFunc
	log        *slog.Logger

	mu       sync.Mutex
	state    State
	progress Progress
	jobID    string

	cancelRequested atomic.Bool
}

func New(
	decoder Decoder,
	s summarizer.Summarizer,
	pages PageExtractor,
	store *session.Store,
	log *slog.Logger,
	opts ...Option,
) *Orchestrator {
	o := &Orchestrator{
		decoder:    decoder,
		summarizer: s,
		pages:      pages,
		store:      store,
		log:        log,
		state:      StateIdle,
	}

	for _, opt := range opts {
		opt(o)
	}

	return o
}

func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()

	return o.state
}

func (o *Orchestrator) Progress() Progress {
	o.mu.Lock()
	defer o.mu.Unlock()

	return o.progress
}

func (o *Orchestrator) JobID() string {
	o.mu.Lock()
	defer o.mu.Unlock()

	return o.jobID
}

// Cancel asks the running job to stop before its next step. An in-flight
// fetch or summarization is allowed to finish. It is a no-op when idle.
func (o *Orchestrator) Cancel() {
	if o.State() == StateRunning {
		o.cancelRequested.Store(true)
	}
}

func (o *Orchestrator) begin(total int, label string) (string, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.state == StateRunning {
		return "", ErrJobRunning
	}

	o.cancelRequested.Store(false)
	o.state = StateRunning
	o.jobID = uuid.NewString()
	o.progress = Progress{Total: total, Label: label}

	return o.jobID, nil
}

func (o *Orchestrator) finish(state State) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.state = state
}

func (o *Orchestrator) report(completed int, label string) {
	o.mu.Lock()
	o.progress.Completed = completed
	o.progress.Label = label
	p := o.progress
	o.mu.Unlock()

	if o.onProgress != nil {
		o.onProgress(p)
	}
}

func (o *Orchestrator) stopRequested(ctx context.Context) bool {
	return o.cancelRequested.Load() || ctx.Err() != nil
}

// AggregateBody concatenates texts in order, each block headed by its
// 1-based index and filename.
func AggregateBody(texts []domain.ExtractedText) string {
	blocks := make([]string, len(texts))
	for i, t := range texts {
		blocks[i] = fmt.Sprintf("#%d %s:\n%s", i+1, t.Meta.Filename, t.Text)
	}

	return strings.Join(blocks, "\n\n")
}
