package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/zento-labs/zento/internal/config"
	dbRedis "github.com/zento-labs/zento/internal/db/redis"
	logpkg "github.com/zento-labs/zento/internal/logger"
	"github.com/zento-labs/zento/internal/metrics"
	insightsrepo "github.com/zento-labs/zento/internal/repository/insights"
	profilerepo "github.com/zento-labs/zento/internal/repository/profile"
	chiTransport "github.com/zento-labs/zento/internal/transport/chi"
	openaiTransport "github.com/zento-labs/zento/internal/transport/openai"
	"github.com/zento-labs/zento/internal/transport/qloo"
	chatuc "github.com/zento-labs/zento/internal/usecase/chat"
	classifyuc "github.com/zento-labs/zento/internal/usecase/classify"
	dispatchuc "github.com/zento-labs/zento/internal/usecase/dispatch"
	formatuc "github.com/zento-labs/zento/internal/usecase/format"
	healthuc "github.com/zento-labs/zento/internal/usecase/health"
	resolveuc "github.com/zento-labs/zento/internal/usecase/resolve"
	signaluc "github.com/zento-labs/zento/internal/usecase/signal"
	"github.com/zento-labs/zento/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.New(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting zento API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("db_addrs", cfg.Database.Addrs),
	)

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Username: cfg.Database.Username,
		Password: cfg.Database.Password,
	})
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	// Wait for database to be ready
	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	// Register pipeline metrics explicitly (no init())
	metrics.RegisterPipelineMetrics()

	// Transport clients
	insights := qloo.NewClient(&qloo.Config{
		BaseURL:     cfg.Insights.BaseURL,
		APIKey:      cfg.Insights.APIKey,
		Timeout:     time.Duration(cfg.Insights.TimeoutSec) * time.Second,
		MaxRetries:  cfg.Insights.MaxRetries,
		QueryTagCap: cfg.Pipeline.QueryTagCap,
		Logger:      logger,
	})

	completer := openaiTransport.NewCompleter(&openaiTransport.Config{
		APIKey:         cfg.Completion.APIKey,
		BaseURL:        cfg.Completion.BaseURL,
		Models:         cfg.Completion.Models,
		MaxTokens:      cfg.Completion.MaxTokens,
		Temperature:    cfg.Completion.Temperature,
		RequestTimeout: time.Duration(cfg.Completion.RequestTimeoutSec) * time.Second,
		Logger:         logger,
	})
	logger.Info("Providers created",
		zap.String("insights_base_url", cfg.Insights.BaseURL),
		zap.Strings("completion_models", cfg.Completion.Models),
	)

	// Repositories
	profiles := profilerepo.New(store, cfg.Database.KeyPrefix)
	cachedInsights := insightsrepo.New(insights, store, cfg.Database.KeyPrefix,
		time.Duration(cfg.Insights.CacheTTLSec)*time.Second, logger)

	// Use case services
	classifier := classifyuc.New(completer, logger)
	resolver := resolveuc.New(insights, resolveuc.Config{
		KeywordCap:  cfg.Pipeline.KeywordSearchCap,
		EntityCap:   cfg.Pipeline.EntitySearchCap,
		Concurrency: cfg.Pipeline.SearchConcurrency,
	}, logger)
	composer := signaluc.New(signaluc.Config{
		ContextTagCap:       cfg.Pipeline.ContextTagCap,
		ProfileTagCap:       cfg.Pipeline.ProfileTagCap,
		WeightedTagCap:      cfg.Pipeline.WeightedTagCap,
		NewTagWeight:        cfg.Pipeline.NewTagWeight,
		ContextTagWeight:    cfg.Pipeline.ContextTagWeight,
		DefaultTagWeight:    cfg.Pipeline.DefaultTagWeight,
		SensitivityDenylist: cfg.Pipeline.SensitivityDenylist,
	})
	dispatcher := dispatchuc.New(cachedInsights, dispatchuc.Config{}, logger)
	formatter := formatuc.New(completer, logger)
	chatSvc := chatuc.New(profiles, classifier, resolver, composer, dispatcher, formatter, logger)

	// Health service
	healthSvc := healthuc.New(store, completer)

	// Create chi server
	server := chiTransport.NewServer(chatSvc, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Routes(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"code":    "internal_error",
						"message": "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())

			// Set X-Request-ID in response header
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line, one line per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
