package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"wiki_ladder/pkg/config"
	"wiki_ladder/pkg/links"
	"wiki_ladder/pkg/search"
)

// Exit codes.
const (
	exitOK       = 0
	exitNotFound = 1
	exitTimeout  = 2
	exitError    = 3
)

type ladderFlags struct {
	configPath   string
	timeout      time.Duration
	maxSteps     int
	abortOnError bool
	noWarm       bool
	graphPath    string
	baseURL      string
	jsonOut      bool
}

// jsonResult is the --json output.
type jsonResult struct {
	Start   string   `json:"start"`
	End     string   `json:"end"`
	Found   bool     `json:"found"`
	Reason  string   `json:"reason,omitempty"`
	Ladder  []string `json:"ladder"`
	Steps   int      `json:"steps"`
	Skipped int      `json:"skipped"`
	Elapsed string   `json:"elapsed"`
}

func main() {
	// An interrupt ends the search as a timeout with its partial result.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	code := exitOK
	cmd := newRootCmd(stdout, stderr, &code)
	cmd.SetArgs(args)
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(stderr, "ladder: %v\n", err)
		if code == exitOK {
			code = exitError
		}
	}
	return code
}

func newRootCmd(stdout, stderr io.Writer, code *int) *cobra.Command {
	var f ladderFlags
	cmd := &cobra.Command{
		Use:   "ladder <start> <end>",
		Short: "Find a chain of article links from one page to another",
		Long: `ladder follows article links from the start page, always expanding the
partial ladder whose last page shares the most links with the end page,
until it reaches a page that links to the end page.`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, f)
			if err != nil {
				return err
			}
			return find(cmd.Context(), cfg, args[0], args[1], f.jsonOut, stdout, stderr, code)
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&f.configPath, "config", "", "Path to a YAML config file")
	fl.DurationVar(&f.timeout, "timeout", 0, "Wall-clock limit for the search (0 = no limit)")
	fl.IntVar(&f.maxSteps, "max-steps", 0, "Maximum frontier expansions (0 = no limit)")
	fl.BoolVar(&f.abortOnError, "abort-on-error", false, "Fail on the first page that cannot be retrieved")
	fl.BoolVar(&f.noWarm, "no-warm", false, "Fetch candidate pages one at a time")
	fl.StringVar(&f.graphPath, "graph", "", "Search an offline link snapshot instead of live pages")
	fl.StringVar(&f.baseURL, "base-url", "", "Page URL prefix for live fetching")
	fl.BoolVar(&f.jsonOut, "json", false, "Print the result as JSON")
	return cmd
}

// loadConfig reads the config file and applies the flags that were set.
func loadConfig(cmd *cobra.Command, f ladderFlags) (config.Config, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return config.Config{}, err
	}
	fl := cmd.Flags()
	if fl.Changed("timeout") {
		cfg.Search.Timeout = f.timeout
	}
	if fl.Changed("max-steps") {
		cfg.Search.MaxSteps = f.maxSteps
	}
	if fl.Changed("abort-on-error") {
		cfg.Search.AbortOnRetrievalError = f.abortOnError
	}
	if f.noWarm {
		cfg.Search.Warm = false
	}
	if fl.Changed("graph") {
		cfg.Source.Graph = f.graphPath
	}
	if fl.Changed("base-url") {
		cfg.Source.BaseURL = f.baseURL
	}
	return cfg, cfg.Validate()
}

func find(ctx context.Context, cfg config.Config, start, end string, jsonOut bool, stdout, stderr io.Writer, code *int) error {
	logger, err := config.NewLogger(cfg.Log, stderr)
	if err != nil {
		return err
	}
	fetcher, _, err := cfg.Source.OpenFetcher(logger)
	if err != nil {
		return err
	}
	memo := links.NewMemo(fetcher,
		links.WithLogger(logger),
		links.WithWarmConcurrency(cfg.Search.WarmConcurrency))
	engine := search.NewEngine(memo, cfg.Search.Engine(), search.WithLogger(logger))

	res, err := engine.Find(ctx, start, end)
	switch {
	case err == nil:
	case errors.Is(err, search.ErrNotFound):
		*code = exitNotFound
	case errors.Is(err, search.ErrTimeout):
		*code = exitTimeout
	default:
		*code = exitError
		if res == nil {
			return err
		}
	}

	if jsonOut {
		out := jsonResult{
			Start:   start,
			End:     end,
			Found:   res.State == search.Found,
			Ladder:  res.Ladder.IDs(),
			Steps:   res.Steps,
			Skipped: res.Skipped,
			Elapsed: res.Elapsed.Round(time.Millisecond).String(),
		}
		if !out.Found {
			out.Reason = res.Reason.String()
		}
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if encErr := enc.Encode(out); encErr != nil {
			return encErr
		}
		if *code == exitError {
			return err
		}
		return nil
	}

	if res.State == search.Found {
		fmt.Fprintln(stdout, strings.Join(res.Ladder.IDs(), " -> "))
		return nil
	}
	if *code == exitError {
		return err
	}
	fmt.Fprintf(stderr, "no ladder from %s to %s (%s after %d steps)\n", start, end, res.Reason, res.Steps)
	return nil
}
