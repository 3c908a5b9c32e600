package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/aescanero/gistproxy/internal/application/lookup"
	"github.com/aescanero/gistproxy/internal/config"
	"github.com/aescanero/gistproxy/pkg/adapters/github"
	"github.com/aescanero/gistproxy/pkg/adapters/metrics/prometheus"
	"github.com/aescanero/gistproxy/pkg/api/grpc"
	"github.com/aescanero/gistproxy/pkg/api/http"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Version is set by build flags
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger := initLogger(cfg.LogLevel)
	defer logger.Sync()

	logger.Info("starting gist proxy",
		zap.String("version", Version),
		zap.String("build_time", BuildTime))

	githubClient, err := github.NewClient(&github.Config{
		BaseURL:   cfg.GitHub.APIURL,
		UserAgent: cfg.GitHub.UserAgent,
		Timeout:   cfg.GitHub.Timeout,
		Logger:    logger,
	})
	if err != nil {
		logger.Fatal("failed to create GitHub client", zap.Error(err))
	}

	metricsCollector := prometheus.NewCollector()

	lookupSvc := lookup.NewService(githubClient, metricsCollector, logger)

	httpServer := http.NewServer(&http.Config{
		Port:              cfg.HTTPPort,
		OpsPort:           cfg.OpsPort,
		ReadHeaderTimeout: cfg.Timeouts.ReadHeaderTimeout,
		Lookup:            lookupSvc,
		Metrics:           metricsCollector,
		Logger:            logger,
	})

	var grpcServer *grpc.Server
	if cfg.GRPCEnabled {
		grpcServer, err = grpc.NewServer(&grpc.Config{
			Port:   cfg.GRPCPort,
			Logger: logger,
		})
		if err != nil {
			logger.Fatal("failed to create gRPC server", zap.Error(err))
		}

		go func() {
			if err := grpcServer.Start(); err != nil {
				logger.Fatal("gRPC server failed", zap.Error(err))
			}
		}()
	}

	go func() {
		if err := httpServer.Start(); err != nil {
			logger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	if grpcServer != nil {
		grpcServer.SetServing(true)
	}

	logger.Info("gist proxy started",
		zap.Int("http_port", cfg.HTTPPort),
		zap.Int("ops_port", cfg.OpsPort),
		zap.Bool("grpc_enabled", cfg.GRPCEnabled),
		zap.String("github_api_url", cfg.GitHub.APIURL))

	// Wait for interrupt signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	logger.Info("received shutdown signal")

	if grpcServer != nil {
		grpcServer.SetServing(false)
	}

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Timeouts.ShutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", zap.Error(err))
	}

	if grpcServer != nil {
		if err := grpcServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("gRPC server shutdown error", zap.Error(err))
		}
	}

	logger.Info("gist proxy shut down complete")
}

// initLogger initializes the logger based on log level
func initLogger(level string) *zap.Logger {
	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		zapLevel = zapcore.InfoLevel
	}

	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(zapLevel)
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := config.Build()
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}

	return logger
}
