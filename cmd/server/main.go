package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mcpserver/internal/cache"
	"mcpserver/internal/config"
	"mcpserver/internal/handlers"
	"mcpserver/internal/instrumentation"
	"mcpserver/internal/mcp"
)

func main() {
	os.Exit(run())
}

// run wires the server and blocks until shutdown. Deferred cleanup runs
// before the exit code reaches main.
func run() int {
	// Load configuration
	cfg, err := config.LoadFromEnv()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		return 1
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "error", err)
		return 1
	}

	logLevel := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	process := mcp.CaptureProcessInfo(time.Now())
	serverInfo := mcp.ServerInfo{Name: cfg.ServerName, Version: cfg.ServerVersion}

	logger.Info("mcp_service_starting",
		"addr", cfg.Addr(),
		"pid", process.PID,
		"timeout_ms", cfg.TimeoutMS,
		"cache_enabled", cfg.CacheEnabled(),
	)

	executor := mcp.NewToolExecutor(serverInfo, cfg.ProtocolVersion, process, time.Now)
	registry, err := mcp.NewRegistry(mcp.DefaultTools(executor)...)
	if err != nil {
		logger.Error("failed to build tool registry", "error", err)
		return 1
	}

	metrics := instrumentation.NewMetrics()

	var invoker mcp.Invoker = mcp.NewToolInvoker(registry, logger)
	if cfg.CacheEnabled() {
		store, err := cache.NewRedisStore(cfg.RedisURL, cfg.RedisPassword, logger)
		if err != nil {
			logger.Error("failed to connect result cache", "error", err)
			return 1
		}
		defer store.Close()

		invoker = cache.NewInvoker(invoker, registry, store, cfg.CacheTTL(), metrics, logger)
		logger.Info("result_cache_initialized", "ttl_sec", cfg.CacheTTLSec)
	}

	dispatcher, err := mcp.NewDispatcher(mcp.DispatcherConfig{
		Registry:        registry,
		Invoker:         invoker,
		ServerInfo:      serverInfo,
		ProtocolVersion: cfg.ProtocolVersion,
		Logger:          logger,
		Recorder:        metrics,
	})
	if err != nil {
		logger.Error("failed to create dispatcher", "error", err)
		return 1
	}

	routerCfg := handlers.RouterConfig{
		Dispatcher:   dispatcher,
		Status:       handlers.NewStatusHandler(serverInfo, cfg.ProtocolVersion, process, registry.Names(), time.Now, logger),
		Timeout:      cfg.Timeout(),
		MaxBodyBytes: cfg.MaxBodyBytes,
		AllowOrigin:  cfg.CORSAllowOrigin,
		Logger:       logger,
	}

	var metricsSrv *http.Server
	if cfg.PrometheusPort == 0 {
		routerCfg.Metrics = metrics.Handler()
	} else {
		mux := http.NewServeMux()
		mux.Handle("/metrics", metrics.Handler())
		metricsSrv = &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.PrometheusPort),
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
	}

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      handlers.NewRouter(routerCfg),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.Timeout() + 5*time.Second,
	}

	serveErr := make(chan error, 2)
	go func() {
		logger.Info("mcp_server_listening", "addr", cfg.Addr(), "tools", registry.Len())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- fmt.Errorf("mcp server: %w", err)
		}
	}()

	if metricsSrv != nil {
		go func() {
			logger.Info("metrics_server_listening", "port", cfg.PrometheusPort)
			if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				serveErr <- fmt.Errorf("metrics server: %w", err)
			}
		}()
	}

	// Wait for interrupt signal or a listener failure
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	exitCode := 0
	select {
	case sig := <-sigChan:
		logger.Info("shutdown_signal_received", "signal", sig.String())
	case err := <-serveErr:
		logger.Error("server_error", "error", err)
		exitCode = 1
	}

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server_shutdown_error", "error", err)
	}
	if metricsSrv != nil {
		if err := metricsSrv.Shutdown(ctx); err != nil {
			logger.Error("metrics_shutdown_error", "error", err)
		}
	}

	logger.Info("mcp_service_stopped")
	return exitCode
}
