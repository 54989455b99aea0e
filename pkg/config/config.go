// Package config loads the YAML configuration shared by the commands.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"wiki_ladder/pkg/graph"
	"wiki_ladder/pkg/links"
	"wiki_ladder/pkg/search"
)

// Config is the root of a configuration file.
type Config struct {
	Search SearchConfig `yaml:"search"`
	Source SourceConfig `yaml:"source"`
	Server ServerConfig `yaml:"server"`
	Log    LogConfig    `yaml:"log"`
}

// SearchConfig bounds each ladder search.
type SearchConfig struct {
	MaxSteps              int           `yaml:"max_steps"`
	Timeout               time.Duration `yaml:"timeout"`
	AbortOnRetrievalError bool          `yaml:"abort_on_retrieval_error"`
	Warm                  bool          `yaml:"warm"`
	WarmConcurrency       int           `yaml:"warm_concurrency"`
}

// SourceConfig selects where links come from. When Graph is set the
// snapshot file is used and the HTTP settings are ignored.
type SourceConfig struct {
	Graph             string        `yaml:"graph"`
	BaseURL           string        `yaml:"base_url"`
	UserAgent         string        `yaml:"user_agent"`
	RequestTimeout    time.Duration `yaml:"request_timeout"`
	RequestsPerSecond float64       `yaml:"requests_per_second"`
	Burst             int           `yaml:"burst"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr          string        `yaml:"addr"`
	ReadTimeout   time.Duration `yaml:"read_timeout"`
	WriteTimeout  time.Duration `yaml:"write_timeout"`
	MaxConcurrent int           `yaml:"max_concurrent"`
	CORSOrigin    string        `yaml:"cors_origin"`
}

// LogConfig selects the log level and handler.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text or json
}

// Default returns the configuration used when no file is given.
func Default() Config {
	sc := search.DefaultConfig()
	hc := links.DefaultHTTPConfig()
	return Config{
		Search: SearchConfig{
			MaxSteps:        sc.MaxSteps,
			Timeout:         sc.Timeout,
			Warm:            sc.Warm,
			WarmConcurrency: links.DefaultWarmConcurrency,
		},
		Source: SourceConfig{
			BaseURL:           hc.BaseURL,
			UserAgent:         hc.UserAgent,
			RequestTimeout:    hc.RequestTimeout,
			RequestsPerSecond: hc.RequestsPerSecond,
			Burst:             hc.Burst,
		},
		Server: ServerConfig{
			Addr:          ":8080",
			ReadTimeout:   5 * time.Second,
			WriteTimeout:  sc.Timeout + 10*time.Second,
			MaxConcurrent: 16,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads the YAML file at path over the defaults. Unknown keys are
// rejected. An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	if err := decode(f, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func decode(r io.Reader, cfg *Config) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	switch {
	case c.Search.MaxSteps < 0:
		return fmt.Errorf("search.max_steps must be >= 0, got %d", c.Search.MaxSteps)
	case c.Search.Timeout < 0:
		return fmt.Errorf("search.timeout must be >= 0, got %s", c.Search.Timeout)
	case c.Search.WarmConcurrency < 0:
		return fmt.Errorf("search.warm_concurrency must be >= 0, got %d", c.Search.WarmConcurrency)
	case c.Source.RequestsPerSecond < 0:
		return fmt.Errorf("source.requests_per_second must be >= 0, got %g", c.Source.RequestsPerSecond)
	case c.Source.Graph == "" && c.Source.BaseURL == "":
		return errors.New("source: one of graph or base_url is required")
	case c.Server.Addr == "":
		return errors.New("server.addr is required")
	case c.Server.MaxConcurrent < 1:
		return fmt.Errorf("server.max_concurrent must be >= 1, got %d", c.Server.MaxConcurrent)
	}
	if _, err := parseLevel(c.Log.Level); err != nil {
		return err
	}
	if f := strings.ToLower(c.Log.Format); f != "text" && f != "json" {
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}
	return nil
}

// Engine converts the search section into a search.Config.
func (c SearchConfig) Engine() search.Config {
	return search.Config{
		MaxSteps:              c.MaxSteps,
		Timeout:               c.Timeout,
		AbortOnRetrievalError: c.AbortOnRetrievalError,
		Warm:                  c.Warm,
	}
}

// HTTP converts the source section into a links.HTTPConfig.
func (c SourceConfig) HTTP() links.HTTPConfig {
	return links.HTTPConfig{
		BaseURL:           c.BaseURL,
		UserAgent:         c.UserAgent,
		RequestTimeout:    c.RequestTimeout,
		RequestsPerSecond: c.RequestsPerSecond,
		Burst:             c.Burst,
	}
}

// OpenFetcher returns the fetcher the source section selects: the snapshot
// at Graph when set, otherwise an HTTPFetcher. The snapshot is returned too
// so callers can report its size; it is nil for the HTTP source.
func (c SourceConfig) OpenFetcher(logger *slog.Logger) (links.Fetcher, *graph.LinkGraph, error) {
	if c.Graph == "" {
		return links.NewHTTPFetcher(c.HTTP(), nil, logger), nil, nil
	}
	g, err := graph.ReadBinary(c.Graph)
	if err != nil {
		return nil, nil, fmt.Errorf("load snapshot %s: %w", c.Graph, err)
	}
	logger.Info("loaded snapshot", "path", c.Graph, "pages", g.NumNodes, "expanded", g.NumExpanded(), "links", g.NumEdges)
	return g, g, nil
}

// NewLogger builds a logger writing to w at the configured level.
func NewLogger(c LogConfig, w io.Writer) (*slog.Logger, error) {
	level, err := parseLevel(c.Level)
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}
	switch strings.ToLower(c.Format) {
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	case "text", "":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	}
	return nil, fmt.Errorf("unknown log format %q", c.Format)
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if s == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("log.level: %w", err)
	}
	return level, nil
}
