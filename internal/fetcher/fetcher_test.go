package fetcher

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

const articleBody = "Go is an open source programming language that makes it simple to build " +
	"secure, scalable systems. It was designed at Google and is used widely for services."

func newServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return srv
}

func TestExtractStripsNonContent(t *testing.T) {
	var gotUA string

	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(`<html><head><script>track()</script></head><body>
			<nav>Home About Contact</nav>
			<article><h1>Go</h1>
			<p>` + articleBody + `</p></article>
			<noscript>Enable JS</noscript>
			<aside>Ads</aside><footer>Copyright</footer>
		</body></html>`))
	})

	f := New(Config{}, slog.Default())

	text, ok := f.Extract(context.Background(), srv.URL)
	if !ok {
		t.Fatalf("expected page text to be extracted")
	}

	if want := "Go " + articleBody; text != want {
		t.Fatalf("unexpected text:\n got %q\nwant %q", text, want)
	}

	if !strings.HasPrefix(gotUA, "Mozilla/5.0") {
		t.Fatalf("expected browser user agent, got %q", gotUA)
	}
}

func TestExtractRejectsShortPages(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html><body><p>Subscribe to continue reading.</p></body></html>`))
	})

	f := New(Config{}, slog.Default())

	if text, ok := f.Extract(context.Background(), srv.URL); ok || text != "" {
		t.Fatalf("expected short page to be rejected, got %q", text)
	}

	_, err := f.fetchPage(context.Background(), srv.URL)
	if !errors.Is(err, ErrContentTooShort) {
		t.Fatalf("expected ErrContentTooShort, got %v", err)
	}
}

func TestExtractExactlyMinLength(t *testing.T) {
	body := strings.Repeat("a", MinTextLength)

	srv := newServer(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<p>" + body + "</p>"))
	})

	text, ok := New(Config{}, slog.Default()).Extract(context.Background(), srv.URL)
	if !ok || text != body {
		t.Fatalf("expected %d-character page to be accepted, got ok=%v len=%d", MinTextLength, ok, len(text))
	}
}

func TestExtractStatusFailure(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, strings.Repeat("not found ", 50), http.StatusNotFound)
	})

	if _, ok := New(Config{}, slog.Default()).Extract(context.Background(), srv.URL); ok {
		t.Fatalf("expected non-2xx response to be rejected")
	}
}

func TestExtractNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	addr := srv.URL
	srv.Close()

	if _, ok := New(Config{}, slog.Default()).Extract(context.Background(), addr); ok {
		t.Fatalf("expected closed server to be rejected")
	}
}

func TestExtractTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := newServer(t, func(w http.ResponseWriter, _ *http.Request) {
		<-release
		_, _ = w.Write([]byte("<p>" + articleBody + "</p>"))
	})
	defer close(release)

	f := New(Config{Timeout: 50 * time.Millisecond}, slog.Default())

	if _, ok := f.Extract(context.Background(), srv.URL); ok {
		t.Fatalf("expected timeout to be rejected")
	}
}

func TestExtractUnsupportedScheme(t *testing.T) {
	if _, ok := New(Config{}, slog.Default()).Extract(context.Background(), "ftp://example.com/file"); ok {
		t.Fatalf("expected ftp URL to be rejected")
	}
}

func TestExtractDecodesDeclaredCharset(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=iso-8859-1")
		_, _ = w.Write([]byte("<p>Caf\xe9 " + articleBody + "</p>"))
	})

	text, ok := New(Config{}, slog.Default()).Extract(context.Background(), srv.URL)
	if !ok {
		t.Fatalf("expected page text to be extracted")
	}

	if !strings.HasPrefix(text, "Café ") {
		t.Fatalf("expected latin-1 body to be decoded, got %q", text[:10])
	}
}
