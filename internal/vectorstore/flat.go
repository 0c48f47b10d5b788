package vectorstore

import (
	"context"
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// FlatIndex is an exact brute-force nearest-neighbor index over squared
// Euclidean distance. Every query scans the whole matrix; no approximation,
// no quantization. Build once offline, load wholesale at service start.
type FlatIndex struct {
	Vectors [][]float32
	Dim     int
}

// NewFlatIndex creates an empty flat index for vectors of the given
// dimensionality.
func NewFlatIndex(dim int) (*FlatIndex, error) {
	if dim <= 0 {
		return nil, fmt.Errorf("dimension must be greater than 0, got %d", dim)
	}
	return &FlatIndex{Dim: dim}, nil
}

// Add appends vectors to the index. Position of each vector is its order of
// insertion, which must match the corpus metadata position.
func (f *FlatIndex) Add(vectors [][]float32) error {
	for i, vec := range vectors {
		if len(vec) != f.Dim {
			return fmt.Errorf("vector %d has dimension %d, expected %d", i, len(vec), f.Dim)
		}
	}
	f.Vectors = append(f.Vectors, vectors...)
	return nil
}

// Search returns the k nearest vectors by ascending squared Euclidean
// distance. Equal distances keep insertion order.
func (f *FlatIndex) Search(_ context.Context, query []float32, k int) ([]Hit, error) {
	if k <= 0 {
		return nil, fmt.Errorf("k must be greater than 0")
	}
	if len(query) != f.Dim {
		return nil, fmt.Errorf("query has dimension %d, expected %d", len(query), f.Dim)
	}

	hits := make([]Hit, 0, len(f.Vectors))
	for pos, vec := range f.Vectors {
		var dist float32
		for i := range vec {
			d := vec[i] - query[i]
			dist += d * d
		}
		hits = append(hits, Hit{Position: pos, Distance: dist})
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Distance < hits[j].Distance
	})

	if len(hits) > k {
		hits = hits[:k]
	}
	return hits, nil
}

// Len returns the number of indexed vectors.
func (f *FlatIndex) Len() int { return len(f.Vectors) }

// Dimension returns the vector dimensionality.
func (f *FlatIndex) Dimension() int { return f.Dim }

// Save persists the index with gob, writing to a temp file renamed into
// place.
func (f *FlatIndex) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create index directory: %w", err)
	}

	tmp := path + ".tmp"
	file, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("failed to create index file: %w", err)
	}

	if err := gob.NewEncoder(file).Encode(f); err != nil {
		_ = file.Close()
		return fmt.Errorf("failed to encode index: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close index file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to replace index file: %w", err)
	}
	return nil
}

// LoadFlatIndex reads a persisted index from disk.
func LoadFlatIndex(path string) (*FlatIndex, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open index file: %w", err)
	}
	defer func() {
		_ = file.Close()
	}()

	var f FlatIndex
	if err := gob.NewDecoder(file).Decode(&f); err != nil {
		return nil, fmt.Errorf("failed to decode index: %w", err)
	}
	if f.Dim <= 0 {
		return nil, fmt.Errorf("index file has invalid dimension %d", f.Dim)
	}
	for i, vec := range f.Vectors {
		if len(vec) != f.Dim {
			return nil, fmt.Errorf("index vector %d has dimension %d, expected %d", i, len(vec), f.Dim)
		}
	}
	return &f, nil
}
