// Package indexer builds the persisted similarity index from a structured
// corpus file. It runs offline as a batch job; the serving process only ever
// reads its output.
package indexer

import (
	"context"
	"fmt"
	"log/slog"

	"eduassist/internal/corpus"
	"eduassist/internal/vectorstore"
)

// Embedder is the batch embedding contract the builder needs. It must be the
// same model the query engine uses at serving time.
type Embedder interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Builder converts a nested corpus into the three persisted artifacts: the
// embedding matrix, the position-aligned metadata sequence, and the
// serialized flat index. Optionally it also mirrors the vectors into a
// Qdrant collection.
type Builder struct {
	embedder     Embedder
	dim          int
	indexPath    string
	metadataPath string
	matrixPath   string
	qdrant       *vectorstore.QdrantIndex
	logger       *slog.Logger
}

// New creates a builder writing to the given artifact paths. qdrant may be
// nil.
func New(embedder Embedder, dim int, indexPath, metadataPath, matrixPath string, qdrant *vectorstore.QdrantIndex) *Builder {
	return &Builder{
		embedder:     embedder,
		dim:          dim,
		indexPath:    indexPath,
		metadataPath: metadataPath,
		matrixPath:   matrixPath,
		qdrant:       qdrant,
		logger:       slog.Default(),
	}
}

// Result summarizes a completed build.
type Result struct {
	Entries int
	Dim     int
}

// Build runs the whole pipeline: flatten, embed in one batch, index,
// persist. Any failure aborts the build; each artifact is written through a
// temp file so a previous good artifact is never replaced by a truncated
// one.
func (b *Builder) Build(ctx context.Context, corpusPath string) (*Result, error) {
	nested, err := corpus.LoadNested(corpusPath)
	if err != nil {
		return nil, err
	}

	entries := corpus.Flatten(nested)
	if len(entries) == 0 {
		return nil, fmt.Errorf("corpus %s contains no entries", corpusPath)
	}
	b.logger.InfoContext(ctx, "corpus flattened", "entries", len(entries))

	vectors, err := b.embedder.EmbedTexts(ctx, corpus.Questions(entries))
	if err != nil {
		return nil, fmt.Errorf("failed to embed corpus: %w", err)
	}
	if len(vectors) != len(entries) {
		return nil, fmt.Errorf("embedded %d vectors for %d entries", len(vectors), len(entries))
	}
	b.logger.InfoContext(ctx, "corpus embedded", "vectors", len(vectors), "dim", b.dim)

	index, err := vectorstore.NewFlatIndex(b.dim)
	if err != nil {
		return nil, err
	}
	if err := index.Add(vectors); err != nil {
		return nil, fmt.Errorf("failed to build index: %w", err)
	}

	if err := vectorstore.SaveMatrix(b.matrixPath, vectors, b.dim); err != nil {
		return nil, err
	}
	if err := corpus.SaveMetadata(b.metadataPath, entries); err != nil {
		return nil, err
	}
	if err := index.Save(b.indexPath); err != nil {
		return nil, err
	}
	b.logger.InfoContext(ctx, "artifacts persisted",
		"index", b.indexPath,
		"metadata", b.metadataPath,
		"matrix", b.matrixPath,
	)

	if b.qdrant != nil {
		if err := b.qdrant.EnsureCollection(ctx); err != nil {
			return nil, err
		}
		if err := b.qdrant.UpsertAll(ctx, vectors); err != nil {
			return nil, err
		}
		b.logger.InfoContext(ctx, "vectors mirrored to qdrant", "count", len(vectors))
	}

	return &Result{Entries: len(entries), Dim: b.dim}, nil
}
