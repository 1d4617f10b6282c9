// Command ragseed populates the knowledge collection from the curated CSV.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/fairyhunter13/career-compass/internal/adapter/ai"
	"github.com/fairyhunter13/career-compass/internal/adapter/observability"
	qdrantcli "github.com/fairyhunter13/career-compass/internal/adapter/vector/qdrant"
	"github.com/fairyhunter13/career-compass/internal/config"
	"github.com/fairyhunter13/career-compass/internal/ragseed"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	logger := observability.SetupLogger(cfg)
	slog.SetDefault(logger)

	csvPath := flag.String("csv", cfg.KnowledgeCSV, "knowledge CSV to ingest")
	timeout := flag.Duration("timeout", 10*time.Minute, "overall ingestion deadline")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	aicl := ai.NewEmbedCache(ai.New(cfg), cfg.EmbedCacheSize)
	qcli := qdrantcli.New(cfg.QdrantURL, cfg.QdrantAPIKey)
	if err := qcli.EnsureCollection(ctx, cfg.QdrantCollection, cfg.VectorSize, "Cosine"); err != nil {
		slog.Error("qdrant collection bootstrap failed", slog.Any("error", err))
		os.Exit(1)
	}
	store := qdrantcli.NewStore(qcli, aicl, cfg.QdrantCollection)

	n, err := ragseed.New(aicl, store, *csvPath).Reingest(ctx)
	if err != nil {
		slog.Error("ingestion failed", slog.Any("error", err), slog.Int("written", n))
		os.Exit(1)
	}
	slog.Info("ingestion complete", slog.Int("snippets", n))
}
