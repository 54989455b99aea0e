package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"wiki_ladder/pkg/api"
	"wiki_ladder/pkg/config"
	"wiki_ladder/pkg/links"
	"wiki_ladder/pkg/search"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "server: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		configPath string
		addr       string
		graphPath  string
		corsOrigin string
	)
	cmd := &cobra.Command{
		Use:           "server",
		Short:         "Serve ladder queries over HTTP",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.Server.Addr = addr
			}
			if cmd.Flags().Changed("graph") {
				cfg.Source.Graph = graphPath
			}
			if cmd.Flags().Changed("cors-origin") {
				cfg.Server.CORSOrigin = corsOrigin
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return serve(cmd.Context(), cfg)
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "Path to a YAML config file")
	cmd.Flags().StringVar(&addr, "addr", ":8080", "HTTP listen address")
	cmd.Flags().StringVar(&graphPath, "graph", "", "Serve from an offline link snapshot instead of live pages")
	cmd.Flags().StringVar(&corsOrigin, "cors-origin", "", "CORS allowed origin (empty = same-origin)")
	return cmd
}

func serve(ctx context.Context, cfg config.Config) error {
	logger, err := config.NewLogger(cfg.Log, os.Stderr)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)
	start := time.Now()

	fetcher, snapshot, err := cfg.Source.OpenFetcher(logger)
	if err != nil {
		return err
	}
	stats := api.StatsResponse{Source: "http"}
	if snapshot != nil {
		stats = api.StatsResponse{
			Source:        "snapshot",
			SnapshotPages: snapshot.NumNodes,
			SnapshotLinks: snapshot.NumEdges,
		}
	}

	// One memo for the process: concurrent queries share fetched pages.
	memo := links.NewMemo(fetcher,
		links.WithLogger(logger),
		links.WithWarmConcurrency(cfg.Search.WarmConcurrency))
	engine := search.NewEngine(memo, cfg.Search.Engine(), search.WithLogger(logger))

	logger.Info("ready", "elapsed", time.Since(start).Round(time.Millisecond), "source", stats.Source)

	srvCfg := api.DefaultConfig(cfg.Server.Addr)
	srvCfg.ReadTimeout = cfg.Server.ReadTimeout
	srvCfg.WriteTimeout = cfg.Server.WriteTimeout
	srvCfg.MaxConcurrent = cfg.Server.MaxConcurrent
	srvCfg.CORSOrigin = cfg.Server.CORSOrigin
	srvCfg.RequestTimeout = 0
	if cfg.Search.Timeout > 0 {
		srvCfg.RequestTimeout = cfg.Search.Timeout + 5*time.Second
	}

	handlers := api.NewHandlers(engine, memo, stats, logger)
	srv := api.NewServer(srvCfg, handlers, logger)
	if err := api.ListenAndServe(ctx, srv, logger); err != nil {
		return fmt.Errorf("server stopped: %w", err)
	}
	return nil
}
