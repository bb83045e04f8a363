package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"docsum/internal/config"
	"docsum/internal/pipeline"
	"docsum/internal/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFirstWebURL(t *testing.T) {
	u, err := firstWebURL([]string{"please read", "this https://example.com/a?b=1 today"})
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/a?b=1", u)

	u, err = firstWebURL([]string{"http://example.org"})
	require.NoError(t, err)
	assert.Equal(t, "http://example.org", u)

	_, err = firstWebURL([]string{"ftp://example.com/file", "example.com"})
	require.Error(t, err)
}

func TestReadFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0o600))

	items, err := readFiles([]string{path})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "notes.txt", items[0].Name)
	assert.Equal(t, []byte("hello"), items[0].Data)

	_, err = readFiles([]string{path, filepath.Join(dir, "a"), filepath.Join(dir, "b")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), filepath.Join(dir, "a"))
	assert.Contains(t, err.Error(), filepath.Join(dir, "b"))
}

func TestNewOrchestratorReturnsRelease(t *testing.T) {
	a := &app{
		cfg: config.Config{
			Provider:        "openai",
			OpenAIAPIKey:    "test-key",
			MinCallInterval: time.Millisecond,
			CacheSize:       1,
			CacheTTL:        time.Minute,
		},
		log: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	orch, release, err := a.newOrchestrator(context.Background(), session.NewStore())
	require.NoError(t, err)
	require.NotNil(t, orch)
	require.NotNil(t, release)
	assert.Equal(t, pipeline.StateIdle, orch.State())

	release()
	release()
}

func TestNewOrchestratorMissingKey(t *testing.T) {
	a := &app{
		cfg: config.Config{Provider: "anthropic", OpenAIAPIKey: "only-openai"},
		log: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	orch, release, err := a.newOrchestrator(context.Background(), session.NewStore())
	require.Error(t, err)
	assert.Nil(t, orch)
	assert.Nil(t, release)
}
