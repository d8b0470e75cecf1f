package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/RauAliaxYr/ApocalypticBase/internal/httpapi"
	"github.com/RauAliaxYr/ApocalypticBase/internal/storage"
)

var flagAPIAddr string

var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the JSON API",
	Long: `Serve tile and enemy definitions, scores, recent runs and on-demand
board simulations over HTTP.

Endpoints:
  GET  /healthz
  GET  /api/defs
  GET  /api/stats
  GET  /api/scores/{mode}?limit=N
  GET  /api/runs?mode=M&limit=N
  POST /api/simulate   {"boards":50,"swaps":30,"workers":4,"seed":1}

Examples:
  apocbase api
  apocbase api --addr 127.0.0.1:8080 --log-level debug`,
	Run: runAPI,
}

func init() {
	apiCmd.Flags().StringVar(&flagAPIAddr, "addr", httpapi.DefaultAddr, "HTTP listen address")
}

func runAPI(_ *cobra.Command, _ []string) {
	cfg, err := loadConfig()
	if err != nil {
		fail("loading config: %v", err)
	}

	apiLogger := logger.WithPrefix("apocbase-api")

	// Score endpoints answer 503 without a database.
	var store httpapi.Store
	db, err := storage.Open(flagDBPath)
	if err != nil {
		apiLogger.Warn("could not open scores database", "err", err)
	} else {
		defer db.Close()
		store = db
	}

	srv, err := httpapi.New(&cfg, store, httpapi.WithLogger(apiLogger))
	if err != nil {
		fail("building api: %v", err)
	}

	fmt.Printf("Serving API on %s\n", flagAPIAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.ListenAndServe(ctx, flagAPIAddr); err != nil {
		apiLogger.Error("api stopped", "err", err)
		os.Exit(1)
	}
}
