// Package ragseed loads the curated knowledge CSV and populates the vector
// collection the retrieval passes search.
package ragseed

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/fairyhunter13/career-compass/internal/domain"
	obsctx "github.com/fairyhunter13/career-compass/internal/observability"
)

const embedBatch = 64

// Seeder embeds knowledge snippets and writes them into the store.
type Seeder struct {
	ai    domain.AIClient
	store domain.KnowledgeStore
	path  string
}

// New builds a seeder for one CSV source.
func New(ai domain.AIClient, store domain.KnowledgeStore, csvPath string) *Seeder {
	return &Seeder{ai: ai, store: store, path: csvPath}
}

// Reingest loads the CSV and upserts every snippet, returning the count
// written. Snippets whose embedding fails are skipped, not fatal; upserting
// by stable id makes reingestion idempotent.
func (s *Seeder) Reingest(ctx context.Context) (int, error) {
	snippets, err := LoadCSV(s.path)
	if err != nil {
		return 0, err
	}
	lg := obsctx.Logger(ctx)

	written := 0
	for i := 0; i < len(snippets); i += embedBatch {
		end := i + embedBatch
		if end > len(snippets) {
			end = len(snippets)
		}
		chunk := snippets[i:end]
		texts := make([]string, len(chunk))
		for j, sn := range chunk {
			texts[j] = embedText(sn)
		}
		vecs, err := s.ai.Embed(ctx, texts)
		if err != nil {
			return written, fmt.Errorf("embed batch at %d: %w", i, err)
		}
		keep := make([]domain.KnowledgeSnippet, 0, len(chunk))
		keepVecs := make([][]float32, 0, len(chunk))
		for j, sn := range chunk {
			if j >= len(vecs) || len(vecs[j]) == 0 {
				lg.Warn("snippet skipped, embedding unavailable", "topic", sn.Topic)
				continue
			}
			keep = append(keep, sn)
			keepVecs = append(keepVecs, vecs[j])
		}
		if len(keep) == 0 {
			continue
		}
		if err := s.store.Upsert(ctx, keep, keepVecs); err != nil {
			return written, err
		}
		written += len(keep)
	}
	lg.Info("knowledge collection seeded", "snippets", written, "source", s.path)
	return written, nil
}

// embedText is the canonical text form a snippet is embedded under. Topic,
// keywords, and advice together give retrieval the most anchors.
func embedText(sn domain.KnowledgeSnippet) string {
	parts := []string{sn.Topic}
	if len(sn.Keywords) > 0 {
		parts = append(parts, strings.Join(sn.Keywords, " "))
	}
	if sn.Advice != "" {
		parts = append(parts, sn.Advice)
	}
	return strings.Join(parts, ". ")
}

// LoadCSV reads a knowledge CSV (header: id,topic,category,keywords,
// adviceText; keywords pipe-separated). Rows missing an id get a generated
// ULID, which makes them non-idempotent across reingestions.
func LoadCSV(path string) ([]domain.KnowledgeSnippet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("op=ragseed.LoadCSV: %w", err)
	}
	defer func() { _ = f.Close() }()
	return Parse(f)
}

// Parse builds snippets from CSV content.
func Parse(r io.Reader) ([]domain.KnowledgeSnippet, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("op=ragseed.Parse read header: %w", err)
	}
	col := map[string]int{}
	for i, h := range header {
		col[strings.TrimSpace(strings.ToLower(h))] = i
	}
	get := func(row []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	entropy := ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0) //nolint:gosec // ids only need uniqueness
	var out []domain.KnowledgeSnippet
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("op=ragseed.Parse read row: %w", err)
		}
		sn := domain.KnowledgeSnippet{
			ID:       get(row, "id"),
			Topic:    get(row, "topic"),
			Category: get(row, "category"),
			Advice:   get(row, "advicetext"),
		}
		if sn.Topic == "" || sn.Advice == "" {
			continue
		}
		if sn.ID == "" {
			sn.ID = ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
		}
		if kws := get(row, "keywords"); kws != "" {
			for _, kw := range strings.Split(kws, "|") {
				if kw = strings.TrimSpace(kw); kw != "" {
					sn.Keywords = append(sn.Keywords, kw)
				}
			}
		}
		out = append(out, sn)
	}
	return out, nil
}
