package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"wiki_ladder/pkg/config"
	"wiki_ladder/pkg/graph"
	"wiki_ladder/pkg/links"
)

type crawlFlags struct {
	configPath  string
	seeds       []string
	maxPages    int
	concurrency int
	output      string
	baseURL     string
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "crawl: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var f crawlFlags
	cmd := &cobra.Command{
		Use:   "crawl --seed <page> [--seed <page>...]",
		Short: "Crawl article links breadth-first and write a link snapshot",
		Long: `crawl expands pages breadth-first from the seed pages, stores every
discovered link, and writes the result as a binary snapshot that ladder and
server can search offline with --graph.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(f.seeds) == 0 {
				return errors.New("at least one --seed is required")
			}
			cfg, err := config.Load(f.configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("base-url") {
				cfg.Source.BaseURL = f.baseURL
			}
			return crawl(cmd.Context(), cfg, f)
		},
	}
	cmd.Flags().StringVar(&f.configPath, "config", "", "Path to a YAML config file")
	cmd.Flags().StringArrayVar(&f.seeds, "seed", nil, "Page to start crawling from (repeatable)")
	cmd.Flags().IntVar(&f.maxPages, "max-pages", 1000, "Maximum pages to expand")
	cmd.Flags().IntVar(&f.concurrency, "concurrency", 8, "Concurrent page fetches")
	cmd.Flags().StringVar(&f.output, "output", "links.bin", "Output snapshot file path")
	cmd.Flags().StringVar(&f.baseURL, "base-url", "", "Page URL prefix")
	return cmd
}

func crawl(ctx context.Context, cfg config.Config, f crawlFlags) error {
	logger, err := config.NewLogger(cfg.Log, os.Stderr)
	if err != nil {
		return err
	}
	start := time.Now()
	fetcher := links.NewHTTPFetcher(cfg.Source.HTTP(), nil, logger)

	// Step 1: Crawl.
	logger.Info("crawling", "seeds", f.seeds, "max_pages", f.maxPages, "base_url", cfg.Source.BaseURL)
	res, err := graph.Crawl(ctx, fetcher, f.seeds, graph.CrawlOptions{
		MaxPages:    f.maxPages,
		Concurrency: f.concurrency,
		Logger:      logger,
	})
	if err != nil {
		return fmt.Errorf("crawl: %w", err)
	}
	logger.Info("crawl complete", "expanded", len(res.Expanded), "failed", len(res.Failed), "links", len(res.Links))

	// Step 2: Build graph.
	g := graph.Build(res.Links, res.Expanded)
	logger.Info("graph built", "pages", g.NumNodes, "links", g.NumEdges)

	// Step 3: Serialize to binary.
	if err := graph.WriteBinary(f.output, g); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}

	info, err := os.Stat(f.output)
	if err != nil {
		return err
	}
	logger.Info("done",
		"elapsed", time.Since(start).Round(time.Second),
		"output", f.output,
		"mb", fmt.Sprintf("%.1f", float64(info.Size())/(1024*1024)))
	return nil
}
