package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/akward-edu/story-player/internal/config"
	"github.com/akward-edu/story-player/internal/handler"
	"github.com/akward-edu/story-player/internal/model/story"
	"github.com/akward-edu/story-player/internal/service/catalog"
	"github.com/akward-edu/story-player/internal/service/classifier"
	"github.com/akward-edu/story-player/internal/service/report"
	"github.com/akward-edu/story-player/internal/service/sampler"
	sessionservice "github.com/akward-edu/story-player/internal/service/session"
	"github.com/akward-edu/story-player/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	zapLog, err := logger.New(logger.Config{Level: cfg.Log.Level, Encoding: cfg.Log.Encoding})
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = zapLog.Sync() }()

	catalogSvc := catalog.NewService(cfg.Stories, story.NewMemoryStore(story.Seed()), zapLog)

	// Frame classifier is optional: without Ark credentials sessions run
	// without emotion data.
	var frameClassifier sampler.Classifier
	classifierSvc, err := classifier.NewService(ctx, cfg.AI)
	switch {
	case err != nil:
		zapLog.Warn("failed to initialize frame classifier, continuing without emotion data", zap.Error(err))
	case classifierSvc == nil:
		zapLog.Info("ark credentials not configured, emotion sampling disabled")
	default:
		frameClassifier = classifierSvc
		zapLog.Info("frame classifier initialized")
	}

	submitter := report.NewSubmitter(cfg.Progress, zapLog)
	if submitter == nil {
		zapLog.Info("progress endpoint not configured, reports stay local")
	}

	sessionSvc := sessionservice.NewService(catalogSvc, frameClassifier, submitter, cfg.Sampler, cfg.Risk, zapLog)
	defer sessionSvc.Shutdown()

	router := handler.NewRouter(catalogSvc, sessionSvc, zapLog)

	startServer(ctx, cfg.Server, router, zapLog)
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler, zapLog *zap.Logger) {
	addr := serverCfg.Addr()
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	zapLog.Info("story player backend listening", zap.String("addr", addr))
	if err := runServer(ctx, srv); err != nil {
		zapLog.Fatal("server error", zap.Error(err))
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
