package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/finassist/dashboard-bff-go/internal/config"
	"github.com/finassist/dashboard-bff-go/internal/handler"
	"github.com/finassist/dashboard-bff-go/internal/infra/cache"
	"github.com/finassist/dashboard-bff-go/internal/infra/client"
	"github.com/finassist/dashboard-bff-go/internal/infra/observability"
	"github.com/finassist/dashboard-bff-go/internal/infra/resilience"
	"github.com/finassist/dashboard-bff-go/internal/service"
	"github.com/finassist/dashboard-bff-go/internal/transcript"
)

func main() {
	// --- Load .env file (for local development) ---
	_ = config.LoadDotEnv(".env")

	// --- Config ---
	cfg := config.Load()

	// --- Logger ---
	logger := observability.NewLogger(cfg.LogLevel)
	defer logger.Sync()

	logger.Info("configuration loaded",
		zap.Int("port", cfg.Port),
		zap.String("log_level", cfg.LogLevel),
		zap.String("report_api_url", cfg.ReportAPIURL),
		zap.String("chat_api_url", cfg.ChatAPIURL),
		zap.String("ingest_api_url", cfg.IngestAPIURL),
		zap.Duration("http_timeout", cfg.HTTPTimeout),
		zap.Duration("upload_timeout", cfg.UploadTimeout),
		zap.Duration("cache_ttl", cfg.CacheTTL),
		zap.Int("max_retries", cfg.MaxRetries),
		zap.Duration("initial_backoff", cfg.InitialBackoff),
		zap.Bool("auth_enabled", cfg.JWTSecret != ""),
	)

	// --- Tracing ---
	shutdown, err := observability.InitTracer(cfg.OTLPEndpoint, "dashboard-bff")
	if err != nil {
		logger.Fatal("failed to init tracer", zap.Error(err))
	}
	defer shutdown(context.Background())

	// --- Metrics ---
	metrics := observability.NewMetrics()

	// --- Cache ---
	sectionCache := cache.New[any](cfg.CacheTTL)

	// --- Resilience ---
	resilienceCfg := resilience.Config{
		MaxRetries:     cfg.MaxRetries,
		InitialBackoff: cfg.InitialBackoff,
		MaxConcurrency: cfg.MaxConcurrency,
	}
	reportCB := resilience.NewCircuitBreaker("reporting")
	answerCB := resilience.NewCircuitBreaker("answer")
	ingestCB := resilience.NewCircuitBreaker("ingest")
	uploadBulkhead := resilience.NewBulkhead(cfg.MaxConcurrency)

	// --- Clients ---
	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}
	uploadClient := &http.Client{Timeout: cfg.UploadTimeout}

	reportClient := client.NewReportingClient(httpClient, cfg.ReportAPIURL, reportCB, resilienceCfg)
	answerClient := client.NewAnswerClient(httpClient, cfg.ChatAPIURL, answerCB, resilienceCfg)
	ingestClient := client.NewIngestClient(uploadClient, cfg.IngestAPIURL, ingestCB)

	// --- Transcript store ---
	store := transcript.NewFileStore(cfg.TranscriptDir, logger)

	// --- Services ---
	reportSvc := service.NewReportService(reportClient, sectionCache, metrics, logger, cfg.TopLimit)
	session := service.NewSession(reportSvc, logger, cfg.ReconPageSize)
	chatSvc := service.NewChatService(answerClient, store, metrics, logger)
	uploadSvc := service.NewUploadService(ingestClient, reportSvc, uploadBulkhead, metrics, logger)

	// --- Router ---
	router := handler.NewRouter(handler.Services{
		Reports: reportSvc,
		Session: session,
		Chat:    chatSvc,
		Upload:  uploadSvc,
	}, metrics, logger, cfg.JWTSecret)

	// --- Server ---
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 3 * time.Minute, // uploads stream through to ingestion
		IdleTimeout:  60 * time.Second,
	}

	// --- Graceful shutdown ---
	go func() {
		logger.Info("server starting", zap.Int("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("server shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("server forced shutdown", zap.Error(err))
	}

	logger.Info("server stopped")
}
