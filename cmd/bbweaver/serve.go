package main

import (
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/grahms/bbweaver"
	"github.com/grahms/bbweaver/internal/config"
	"github.com/grahms/bbweaver/internal/server"
)

func serveCmd() *cobra.Command {
	var envFiles []string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP render server",
		Long: `Start the HTTP render server.

Settings come from BBWEAVER_* environment variables, optionally seeded
from .env files given with --env.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(envFiles...)
			if err != nil {
				return err
			}
			logger, err := cfg.Logger(os.Stderr)
			if err != nil {
				return err
			}
			tags, err := cfg.TagSet()
			if err != nil {
				return err
			}

			reg := prometheus.NewRegistry()
			reg.MustRegister(
				collectors.NewGoCollector(),
				collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			)
			metrics := server.NewMetrics(reg)

			opts := append(cfg.EngineOptions(logger), bbweaver.WithEventSink(metrics))
			engine := bbweaver.NewEngine(tags, opts...)

			logger.Info("tag set loaded", "tags", len(tags), "file", cfg.TagsFile)

			srv := server.New(engine,
				server.WithAddr(cfg.Addr),
				server.WithShutdownTimeout(cfg.ShutdownTimeout),
				server.WithMaxBodyBytes(cfg.MaxBodyBytes),
				server.WithCacheSize(cfg.CacheSize),
				server.WithMetrics(metrics),
				server.WithLogger(logger),
			)
			return srv.Run(cmd.Context())
		},
	}

	cmd.Flags().StringSliceVar(&envFiles, "env", nil, "Load .env files before reading the environment")
	return cmd
}
