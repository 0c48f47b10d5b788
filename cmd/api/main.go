package main

import (
	"context"
	"log"
	"log/slog"
	nethttp "net/http"
	"os"

	"eduassist/internal/config"
	"eduassist/internal/corpus"
	"eduassist/internal/engine"
	"eduassist/internal/http"
	"eduassist/internal/langdetect"
	"eduassist/internal/llm"
	"eduassist/internal/session"
	"eduassist/internal/speech"
	"eduassist/internal/storage"
	"eduassist/internal/vectorstore"
)

func main() {
	// Load configuration first (needed for log level)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Configure structured logging with configurable level and format
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	slog.Debug("Logging configured", "level", cfg.LogLevel.String(), "format", cfg.LogFormat)

	// Initialize database
	db, err := storage.New(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer func() {
		_ = db.Close()
	}()

	if err := storage.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	slog.Info("Database initialized", "path", cfg.DBPath)

	// Load the corpus metadata written by the index builder. The entries
	// are position-aligned with the index vectors; a count mismatch means
	// the artifacts come from different builds.
	metadata, err := corpus.LoadMetadata(cfg.MetadataPath())
	if err != nil {
		log.Fatalf("Failed to load corpus metadata: %v", err)
	}
	if len(metadata) == 0 {
		log.Fatalf("Corpus metadata %s is empty; run the indexer first", cfg.MetadataPath())
	}
	slog.Info("Corpus metadata loaded", "path", cfg.MetadataPath(), "entries", len(metadata))

	ctx := context.Background()

	var index vectorstore.SimilarityIndex
	switch cfg.VectorStore {
	case config.StoreQdrant:
		qdrantIndex, err := vectorstore.NewQdrantIndex(cfg.QdrantURL, cfg.QdrantCollection, cfg.VectorSize)
		if err != nil {
			log.Fatalf("Failed to create Qdrant client: %v", err)
		}
		if err := qdrantIndex.EnsureCollection(ctx); err != nil {
			log.Fatalf("Failed to ensure Qdrant collection: %v", err)
		}
		slog.Info("Qdrant collection ready", "collection", cfg.QdrantCollection, "vector_size", cfg.VectorSize)
		index = qdrantIndex
	default:
		flatIndex, err := vectorstore.LoadFlatIndex(cfg.IndexPath())
		if err != nil {
			log.Fatalf("Failed to load similarity index: %v", err)
		}
		slog.Info("Similarity index loaded", "path", cfg.IndexPath(), "vectors", flatIndex.Len())
		index = flatIndex
	}

	if index.Len() != len(metadata) {
		log.Fatalf("Index has %d vectors but metadata has %d entries; rebuild the index", index.Len(), len(metadata))
	}
	if index.Dimension() != cfg.VectorSize {
		log.Fatalf("Index dimension mismatch: expected %d, got %d", cfg.VectorSize, index.Dimension())
	}

	// Validate embedding client vector size (fail-fast)
	embedder := llm.NewEmbeddingsClient(cfg.EmbeddingBaseURL, cfg.LLMAPIKey, cfg.EmbeddingModel, cfg.VectorSize)
	testEmbeddings, err := embedder.EmbedTexts(ctx, []string{"test"})
	if err != nil {
		log.Fatalf("Failed to validate embedding client: %v", err)
	}
	if len(testEmbeddings) == 0 || len(testEmbeddings[0]) != cfg.VectorSize {
		log.Fatalf("Embedding vector size mismatch: expected %d, got %d", cfg.VectorSize, len(testEmbeddings[0]))
	}
	slog.Info("Embedding client validated", "vector_size", cfg.VectorSize)

	// Create LLM client (external service layer)
	llmClient := llm.NewClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModel)

	detector := langdetect.NewLinguaDetector()

	var synthesizer speech.Synthesizer = speech.Disabled{}
	if cfg.SpeechEnabled {
		synthesizer = speech.NewOpenAISynthesizer(cfg.SpeechAPIKey, cfg.SpeechBaseURL)
		slog.Info("Speech synthesis enabled")
	}

	// Create query engine
	queryEngine, err := engine.New(
		embedder,
		index,
		metadata,
		detector,
		llmClient,
		synthesizer,
		engine.Policy{
			TopK:              cfg.TopK,
			MinScore:          cfg.MinScore,
			FallbackThreshold: cfg.FallbackThreshold,
			FallbackMaxTokens: cfg.FallbackMaxTokens,
			FallbackLang:      cfg.FallbackLang,
			GenerationTimeout: cfg.GenerationTimeout,
		},
	)
	if err != nil {
		log.Fatalf("Failed to create query engine: %v", err)
	}
	slog.Info("Query engine initialized",
		"top_k", cfg.TopK,
		"min_score", cfg.MinScore,
		"fallback_threshold", cfg.FallbackThreshold,
	)

	// Create router with dependencies
	deps := &http.Deps{
		Engine:   queryEngine,
		Sessions: session.NewManager(),
		QueryLog: storage.NewQueryRepo(db),
		Facets:   corpus.CollectFacets(metadata),
		Index:    index,
		DB:       db,
	}
	router := http.NewRouter(deps)

	// Start API server
	addr := ":" + cfg.APIPort
	slog.Info("Starting API server", "addr", addr)
	slog.Debug("LLM configuration", "base_url", cfg.LLMBaseURL, "model", cfg.LLMModel)
	if err := nethttp.ListenAndServe(addr, router); err != nil {
		log.Fatalf("API server failed to start: %v", err)
	}
}
