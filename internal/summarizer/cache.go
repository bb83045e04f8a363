package summarizer

import (
	"container/list"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"sync"
	"time"
)

type cachedSummary struct {
	key      string
	summary  string
	storedAt time.Time
}

// CachingSummarizer remembers summaries of identical requests for ttl,
// keeping at most maxEntries of them and dropping the least recently used
// first. A zero size or ttl passes every call through.
type CachingSummarizer struct {
	next       Summarizer
	maxEntries int
	ttl        time.Duration
	now        func() time.Time
	log        *slog.Logger

	mu      sync.Mutex
	entries map[string]*list.Element
	recent  *list.List
}

func NewCachingSummarizer(
	next Summarizer,
	maxEntries int,
	ttl time.Duration,
	log *slog.Logger,
) *CachingSummarizer {
	return &CachingSummarizer{
		next:       next,
		maxEntries: maxEntries,
		ttl:        ttl,
		now:        time.Now,
		log:        log,
		entries:    make(map[string]*list.Element),
		recent:     list.New(),
	}
}

func (s *CachingSummarizer) enabled() bool {
	return s.maxEntries > 0 && s.ttl > 0
}

func (s *CachingSummarizer) Summarize(ctx context.Context, input Input) (string, error) {
	if !s.enabled() {
		return s.next.Summarize(ctx, input)
	}

	key := requestKey(input)

	if summary, ok := s.lookup(key); ok {
		s.log.DebugContext(ctx, "Summary cache hit",
			"textLen", len(input.Text))

		return summary, nil
	}

	summary, err := s.next.Summarize(ctx, input)
	if err != nil {
		return "", err
	}

	s.remember(key, summary)

	return summary, nil
}

func (s *CachingSummarizer) lookup(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	elem, ok := s.entries[key]
	if !ok {
		return "", false
	}

	entry := elem.Value.(*cachedSummary)
	if s.now().Sub(entry.storedAt) >= s.ttl {
		s.forget(elem)

		return "", false
	}

	s.recent.MoveToFront(elem)

	return entry.summary, true
}

func (s *CachingSummarizer) remember(key, summary string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if elem, ok := s.entries[key]; ok {
		s.forget(elem)
	}

	s.entries[key] = s.recent.PushFront(&cachedSummary{
		key:      key,
		summary:  summary,
		storedAt: s.now(),
	})

	for s.recent.Len() > s.maxEntries {
		s.forget(s.recent.Back())
	}
}

// forget must be called with mu held.
func (s *CachingSummarizer) forget(elem *list.Element) {
	delete(s.entries, elem.Value.(*cachedSummary).key)
	s.recent.Remove(elem)
}

// requestKey hashes instruction and text, NUL-separated.
func requestKey(input Input) string {
	h := sha256.New()
	h.Write([]byte(input.Instruction))
	h.Write([]byte{0})
	h.Write([]byte(input.Text))

	return hex.EncodeToString(h.Sum(nil))
}
