// Command lifewatchd runs the life-watch capture pipeline: it watches a
// frame source for motion, captures a burst of images on each incident,
// runs object detection over them, and stores the results.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/castle8080/lifewatch/internal/app"
	"github.com/castle8080/lifewatch/internal/config"
)

func main() {
	var (
		configF    = flag.String("config", "", "Path to a TOML configuration file (overrides compiled-in defaults)")
		imageDirF  = flag.String("image-dir", "", "Directory captured images are stored under (overrides config)")
		dbPathF    = flag.String("db-path", "", "SQLite database path for image metadata (overrides config)")
		logLevelF  = flag.String("log-level", "", "Log level: debug, info, warn, error (overrides config)")
		logFormatF = flag.String("log-format", "", "Log format: text, json (overrides config)")
	)
	flag.Parse()

	cfg, err := config.Load(*configF)
	if err != nil {
		fmt.Fprintf(os.Stderr, "lifewatchd: failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *imageDirF != "" {
		cfg.ImageDirectory = *imageDirF
	}
	if *dbPathF != "" {
		cfg.DatabasePath = *dbPathF
	}
	if *logLevelF != "" {
		cfg.LogLevel = *logLevelF
	}
	if *logFormatF != "" {
		cfg.LogFormat = *logFormatF
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	a, err := app.Build(cfg, logger)
	if err != nil {
		logger.Error("failed to build pipeline", "error", err)
		os.Exit(1)
	}

	if cfg.MetricsAddr != "" {
		go serveMetrics(cfg.MetricsAddr, a, logger)
	}

	// Create channel used by both the signal handler and the pipeline
	// goroutine to notify the main goroutine when to stop.
	errc := make(chan error, 1)

	go func() {
		c := make(chan os.Signal, 1)
		signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
		errc <- fmt.Errorf("%s", <-c)
	}()

	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		errc <- a.Run(ctx)
	}()

	runErr := <-errc
	logger.Info("exiting", "reason", runErr)
	cancel()

	if runErr != nil {
		os.Exit(1)
	}
}

func newLogger(cfg config.AppConfiguration) *slog.Logger {
	var level slog.Level
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	return slog.New(handler)
}

func serveMetrics(addr string, a *app.App, logger *slog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", a.Metrics.Handler())
	logger.Info("serving metrics", "addr", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Error("metrics server exited", "error", err)
	}
}
