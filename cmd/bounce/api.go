package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-bounce/internal/api"
	"github.com/vovakirdan/tui-bounce/internal/storage"
)

var (
	flagHTTPAddr string
	flagAPINoDB  bool
)

var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the HTTP API",
	Long: `Serve levels, progress and headless simulations as JSON.

Endpoints:
  GET  /api/v1/health
  GET  /api/v1/levels
  GET  /api/v1/levels/:id
  GET  /api/v1/levels/:id/best?limit=10
  POST /api/v1/levels/:id/preview   {"to": {"x": 167, "y": 258}}
  POST /api/v1/levels/:id/simulate  {"to": {"x": 167, "y": 258}}

Examples:
  bounce api
  bounce api --http :9090
  bounce api --no-db`,
	Args: cobra.NoArgs,
	Run:  runAPI,
}

func init() {
	apiCmd.Flags().StringVar(&flagHTTPAddr, "http", "", "HTTP listen address (default from settings)")
	apiCmd.Flags().BoolVar(&flagAPINoDB, "no-db", false, "Serve without the progress database")
}

func runAPI(_ *cobra.Command, _ []string) {
	cfg, err := loadSettings()
	if err != nil {
		fatal("%v", err)
	}
	logger, err := newLogger(os.Stderr, cfg, "bounce-api")
	if err != nil {
		fatal("%v", err)
	}
	catalog, err := loadCatalog(cfg)
	if err != nil {
		fatal("cannot load levels: %v", err)
	}

	var store *storage.Store
	if !flagAPINoDB {
		store, err = openStore(cfg)
		if err != nil {
			fatal("opening progress database: %v", err)
		}
		defer store.Close()
	}

	addr := cfg.Server.HTTPAddr
	if flagHTTPAddr != "" {
		addr = flagHTTPAddr
	}

	gin.SetMode(gin.ReleaseMode)
	router := api.NewServer(catalog, store, logger).NewRouter()
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("starting HTTP API", "address", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", "err", err)
	}
}
