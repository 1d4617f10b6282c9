// Command server starts the career-compass HTTP server.
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

	"github.com/fairyhunter13/career-compass/internal/adapter/ai"
	"github.com/fairyhunter13/career-compass/internal/adapter/httpserver"
	"github.com/fairyhunter13/career-compass/internal/adapter/observability"
	"github.com/fairyhunter13/career-compass/internal/adapter/taxonomy"
	qdrantcli "github.com/fairyhunter13/career-compass/internal/adapter/vector/qdrant"
	"github.com/fairyhunter13/career-compass/internal/app"
	"github.com/fairyhunter13/career-compass/internal/cache"
	"github.com/fairyhunter13/career-compass/internal/config"
	"github.com/fairyhunter13/career-compass/internal/ragseed"
	"github.com/fairyhunter13/career-compass/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := observability.SetupLogger(cfg)
	slog.SetDefault(logger)

	observability.InitMetrics()

	shutdownTracer, err := observability.SetupTracing(cfg)
	if err != nil {
		slog.Error("failed to setup tracing", slog.Any("error", err))
	}
	defer func() {
		if shutdownTracer != nil {
			_ = shutdownTracer(context.Background())
		}
	}()

	ctx := context.Background()

	tax, err := taxonomy.LoadCSV(cfg.SkillsCSV)
	if err != nil {
		slog.Error("taxonomy load failed", slog.Any("error", err))
		os.Exit(1)
	}
	deny, err := usecase.LoadDenyList(cfg.DenyListFile)
	if err != nil {
		slog.Error("deny list load failed", slog.Any("error", err))
		os.Exit(1)
	}

	aicl := ai.NewEmbedCache(ai.New(cfg), cfg.EmbedCacheSize)

	qcli := qdrantcli.New(cfg.QdrantURL, cfg.QdrantAPIKey)
	if err := qcli.EnsureCollection(ctx, cfg.QdrantCollection, cfg.VectorSize, "Cosine"); err != nil {
		slog.Warn("qdrant collection bootstrap failed, retrieval degraded", slog.Any("error", err))
	}
	store := qdrantcli.NewStore(qcli, aicl, cfg.QdrantCollection)

	caches := cache.NewLayered()
	std := usecase.NewStandardizer(tax, deny)
	rag := usecase.NewContextAssembler(store, caches)
	profiles := usecase.NewProfileService(aicl, tax, std, rag, caches)
	analyzer := usecase.NewAnalyzeService(aicl, tax, std, profiles)
	asker := usecase.NewAskService(aicl, rag, profiles, caches)
	letters := usecase.NewLetterService(aicl, caches)
	seeder := ragseed.New(aicl, store, cfg.KnowledgeCSV)

	srv := httpserver.NewServer(analyzer, asker, letters, seeder, caches)
	handler := app.BuildRouter(cfg, srv)

	srvHTTP := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           handler,
		ReadTimeout:       cfg.HTTPReadTimeout,
		WriteTimeout:      cfg.HTTPWriteTimeout,
		IdleTimeout:       cfg.HTTPIdleTimeout,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("http server starting", slog.Int("port", cfg.Port))
		errCh <- srvHTTP.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		slog.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", slog.Any("error", err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ServerShutdownTimeout)
	defer cancel()
	_ = srvHTTP.Shutdown(shutdownCtx)
}
