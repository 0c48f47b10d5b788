package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"

	"eduassist/internal/config"
	"eduassist/internal/indexer"
	"eduassist/internal/llm"
	"eduassist/internal/vectorstore"
)

func main() {
	corpusPath := flag.String("corpus", "./data/corpus.json", "path to the nested corpus JSON file")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))

	if err := os.MkdirAll(cfg.IndexDir, 0755); err != nil {
		log.Fatalf("Failed to create index directory: %v", err)
	}

	embedder := llm.NewEmbeddingsClient(cfg.EmbeddingBaseURL, cfg.LLMAPIKey, cfg.EmbeddingModel, cfg.VectorSize)

	// The flat index artifacts are always written; the Qdrant mirror is
	// only populated when that backend is selected.
	var qdrantIndex *vectorstore.QdrantIndex
	if cfg.VectorStore == config.StoreQdrant {
		qdrantIndex, err = vectorstore.NewQdrantIndex(cfg.QdrantURL, cfg.QdrantCollection, cfg.VectorSize)
		if err != nil {
			log.Fatalf("Failed to create Qdrant client: %v", err)
		}
	}

	builder := indexer.New(
		embedder,
		cfg.VectorSize,
		cfg.IndexPath(),
		cfg.MetadataPath(),
		cfg.MatrixPath(),
		qdrantIndex,
	)

	result, err := builder.Build(context.Background(), *corpusPath)
	if err != nil {
		log.Fatalf("Index build failed: %v", err)
	}
	slog.Info("Index build complete",
		"entries", result.Entries,
		"dim", result.Dim,
		"index", cfg.IndexPath(),
	)
}
