package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"resume-screener/internal/bootstrap"
	"resume-screener/internal/shared/config"
	"resume-screener/internal/shared/server"
	"resume-screener/internal/shared/telemetry"
)

var servePort string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web form and JSON API",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&servePort, "port", "", "Port to listen on (overrides PORT)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg := config.Load()
	if servePort != "" {
		cfg.Port = servePort
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	app, err := bootstrap.Build(cfg)
	if err != nil {
		return fmt.Errorf("failed to build app: %w", err)
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	go app.Sessions.Run(ctx, time.Minute)

	addr := server.Addr(cfg.Port)
	telemetry.Info("server.start", map[string]any{
		"addr":        addr,
		"env":         cfg.Env,
		"ranking_url": cfg.RankingServiceURL,
	})
	return app.Router.Run(addr)
}
