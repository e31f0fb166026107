/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the payroll engine server.
  Handles configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Parse command-line flags
  2. Build the structured logger
  3. Open the config store (file or SQLite) and audit archive
  4. Create the company, handler and router
  5. Start the optional payroll scheduler
  6. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -port          HTTP server port (default: 8080)
  -config        Payroll config file, .json or .yaml (default: payroll_config.json)
  -db            SQLite database path; when set, config and audit archive
                 live in SQLite and -config is ignored
  -pay-interval  Run payroll automatically at this interval (default: 0, off)
  -scenario      Demo scenario to load on start (default: none)
  -log-level     debug | info | warn | error (default: info)
  -log-format    text | json (default: text)

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop the scheduler
  2. Stop accepting new connections
  3. Wait for active requests to complete (30s timeout)
  4. Close database connection
  5. Exit

EXAMPLES:
  # Defaults: JSON config file, in-memory audit log
  ./server

  # SQLite-backed config and audit archive
  ./server -db="./data/payroll.db"

  # Weekly automatic payroll with JSON logs
  ./server -pay-interval=168h -log-format=json

SEE ALSO:
  - api/server.go: Router configuration
  - company/company.go: Company
  - store/file, store/sqlite: Persistence
*/
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/warp/payroll-engine/api"
	"github.com/warp/payroll-engine/company"
	"github.com/warp/payroll-engine/metrics"
	filestore "github.com/warp/payroll-engine/store/file"
	"github.com/warp/payroll-engine/store/sqlite"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "server: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Flags
	port := flag.Int("port", 8080, "HTTP server port")
	configPath := flag.String("config", filestore.DefaultPath, "Payroll config file (.json or .yaml)")
	dbPath := flag.String("db", "", "SQLite database path for config and audit archive")
	payInterval := flag.Duration("pay-interval", 0, "Automatic payroll interval (0 disables)")
	scenario := flag.String("scenario", "", "Demo scenario to load on start")
	logLevel := flag.String("log-level", "info", "Log level: debug, info, warn, error")
	logFormat := flag.String("log-format", "text", "Log format: text, json")
	flag.Parse()

	logger, err := newLogger(*logLevel, *logFormat)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	ctx := context.Background()

	// Metrics
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	opts := []company.Option{
		company.WithLogger(logger),
		company.WithMetrics(metrics.New(reg)),
	}

	// Persistence
	var store company.ConfigStore
	if *dbPath != "" {
		db, err := sqlite.New(*dbPath, sqlite.WithLogger(logger))
		if err != nil {
			return fmt.Errorf("initialize database: %w", err)
		}
		defer db.Close()
		store = db
		opts = append(opts, company.WithArchive(db))
		logger.Info("using sqlite store", "path", *dbPath)
	} else {
		store = filestore.New(*configPath)
		logger.Info("using config file", "path", *configPath)
	}

	c, err := company.New(ctx, store, opts...)
	if err != nil {
		return fmt.Errorf("initialize company: %w", err)
	}

	handler := api.NewHandler(c)
	router := api.NewRouter(handler, api.WithMetricsEndpoint(reg))

	if *scenario != "" {
		if err := handler.ApplyScenario(ctx, *scenario); err != nil {
			return fmt.Errorf("load scenario: %w", err)
		}
		logger.Info("scenario loaded", "scenario", *scenario)
	}

	scheduler := api.NewPayrollScheduler(c, logger, *payInterval)
	handler.Scheduler = scheduler
	scheduler.Start()
	defer scheduler.Stop()

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	serverErr := make(chan error, 1)
	go func() {
		logger.Info("server starting", "addr", fmt.Sprintf("http://localhost:%d", *port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-serverErr:
		return fmt.Errorf("server failed: %w", err)
	case <-quit:
	}

	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logger.Info("server stopped")
	return nil
}

func newLogger(level, format string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid -log-level %q: %w", level, err)
	}
	opts := &slog.HandlerOptions{Level: lvl}

	switch strings.ToLower(format) {
	case "text":
		return slog.New(slog.NewTextHandler(os.Stderr, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(os.Stderr, opts)), nil
	}
	return nil, fmt.Errorf("invalid -log-format %q (use text or json)", format)
}
