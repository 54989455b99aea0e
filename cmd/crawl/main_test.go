package main

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wiki_ladder/pkg/graph"
)

func TestCrawlWritesSnapshot(t *testing.T) {
	pages := map[string][]string{
		"A": {"B", "C", "Help:Contents"},
		"B": {"D"},
		"C": {"A"},
		"D": {},
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimPrefix(r.URL.Path, "/wiki/")
		out, ok := pages[id]
		if !ok {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, "<html><body>")
		for _, to := range out {
			fmt.Fprintf(w, `<a href="/wiki/%s">%s</a>`, to, to)
		}
		fmt.Fprint(w, "</body></html>")
	}))
	defer srv.Close()

	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "ladder.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("log:\n  level: error\n"), 0644))
	out := filepath.Join(dir, "links.bin")

	cmd := newRootCmd()
	cmd.SetArgs([]string{
		"--config", cfgPath,
		"--base-url", srv.URL + "/wiki/",
		"--seed", "A",
		"--output", out,
	})
	require.NoError(t, cmd.ExecuteContext(context.Background()))

	g, err := graph.ReadBinary(out)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C", "D"}, g.Titles)
	assert.Equal(t, 4, g.NumExpanded())

	set, err := g.Fetch(context.Background(), "A")
	require.NoError(t, err)
	assert.Equal(t, []string{"B", "C"}, set.Sorted())
}

func TestCrawlRequiresSeed(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetArgs([]string{"--output", filepath.Join(t.TempDir(), "x.bin")})
	assert.Error(t, cmd.ExecuteContext(context.Background()))
}
