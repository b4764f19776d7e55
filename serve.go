package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"paperhub/config"
	"paperhub/provider"
	"paperhub/server"
	"paperhub/storage"
)

var serveListen string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the hosted chat endpoint and the comments and likes API",
	Long: `Serve the PaperHub HTTP API:

  POST   /api/chat                       streamed chat over the configured upstream
  GET    /api/tools/{id}/comments        list comments, newest first
  POST   /api/tools/{id}/comments        add a comment
  GET    /api/tools/{id}/comments/count  count comments
  DELETE /api/comments/{id}              delete with the comment's password
  GET    /api/tools/{id}/likes           read the like counter
  PUT    /api/tools/{id}/likes           write the like counter
  GET    /metrics, /healthz

Comments and likes are stored in <data_dir>/paperhub.db.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&serveListen, "listen", "l", "", "listen address (overrides [server] listen)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	config.InitDebugLog(cfg.DataDir(), debugFlag)

	level, err := config.ParseLevel(cfg.Server.LogLevel)
	if err != nil {
		return err
	}
	if debugFlag {
		level = slog.LevelDebug
	}
	logger, closeLog := config.SetupLogger(cfg.ServerLogFile(), level)
	defer closeLog()

	store, err := storage.NewSQLiteStore(cfg.DatabasePath())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer store.Close()

	upstream, err := provider.UpstreamFromConfig(cfg)
	if err != nil {
		return err
	}

	addr := cfg.Server.Listen
	if serveListen != "" {
		addr = serveListen
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("starting server",
		"addr", addr,
		"upstream", cfg.Server.Upstream,
		"model", upstream.GetModel(),
		"database", cfg.DatabasePath(),
	)

	srv := server.New(server.Options{
		Store:         store,
		Upstream:      upstream,
		Logger:        logger,
		RatePerSecond: cfg.Server.RatePerSecond,
		Burst:         cfg.Server.Burst,
	})
	return srv.Run(ctx, addr)
}
