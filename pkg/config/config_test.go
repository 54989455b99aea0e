package config

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wiki_ladder/pkg/graph"
	"wiki_ladder/pkg/links"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ladder.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 5000, cfg.Search.MaxSteps)
	assert.Equal(t, 2*time.Minute, cfg.Search.Timeout)
	assert.True(t, cfg.Search.Warm)
	assert.Equal(t, ":8080", cfg.Server.Addr)
}

func TestLoadEmptyPath(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := writeConfig(t, `
search:
  max_steps: 250
  timeout: 45s
  abort_on_retrieval_error: true
source:
  graph: links.bin
log:
  level: debug
  format: json
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 250, cfg.Search.MaxSteps)
	assert.Equal(t, 45*time.Second, cfg.Search.Timeout)
	assert.True(t, cfg.Search.AbortOnRetrievalError)
	assert.True(t, cfg.Search.Warm, "unset keys keep defaults")
	assert.Equal(t, "links.bin", cfg.Source.Graph)
	assert.Equal(t, Default().Source.BaseURL, cfg.Source.BaseURL)
	assert.Equal(t, "json", cfg.Log.Format)

	sc := cfg.Search.Engine()
	assert.Equal(t, 250, sc.MaxSteps)
	assert.True(t, sc.AbortOnRetrievalError)
}

func TestLoadEmptyFile(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	_, err := Load(writeConfig(t, "search:\n  max_stepz: 3\n"))
	assert.Error(t, err)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"negative steps", "search:\n  max_steps: -1\n"},
		{"negative timeout", "search:\n  timeout: -5s\n"},
		{"no source", "source:\n  base_url: \"\"\n"},
		{"bad level", "log:\n  level: chatty\n"},
		{"bad format", "log:\n  format: xml\n"},
		{"no addr", "server:\n  addr: \"\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestSourceHTTP(t *testing.T) {
	hc := Default().Source.HTTP()
	assert.Equal(t, "https://en.wikipedia.org/wiki/", hc.BaseURL)
	assert.Positive(t, hc.RequestsPerSecond)
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(LogConfig{Level: "warn", Format: "json"}, &buf)
	require.NoError(t, err)

	logger.Info("dropped")
	logger.Warn("kept", "page", "Go")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)
	var rec map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &rec))
	assert.Equal(t, "kept", rec["msg"])
	assert.Equal(t, "Go", rec["page"])

	_, err = NewLogger(LogConfig{Format: "xml"}, &buf)
	assert.Error(t, err)
}

func TestOpenFetcherSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "links.bin")
	g := graph.Build([]graph.RawLink{{From: "A", To: "B"}}, []string{"A"})
	require.NoError(t, graph.WriteBinary(path, g))

	src := SourceConfig{Graph: path}
	fetcher, snapshot, err := src.OpenFetcher(slog.New(slog.DiscardHandler))
	require.NoError(t, err)
	require.NotNil(t, snapshot)
	assert.Equal(t, uint32(2), snapshot.NumNodes)

	set, err := fetcher.Fetch(context.Background(), "A")
	require.NoError(t, err)
	assert.True(t, set.Has("B"))
}

func TestOpenFetcherHTTP(t *testing.T) {
	fetcher, snapshot, err := Default().Source.OpenFetcher(slog.New(slog.DiscardHandler))
	require.NoError(t, err)
	assert.Nil(t, snapshot)
	assert.IsType(t, &links.HTTPFetcher{}, fetcher)
}

func TestOpenFetcherMissingSnapshot(t *testing.T) {
	src := SourceConfig{Graph: filepath.Join(t.TempDir(), "missing.bin")}
	_, _, err := src.OpenFetcher(slog.New(slog.DiscardHandler))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
