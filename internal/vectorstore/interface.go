package vectorstore

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_similarity_index.go -package=mocks eduassist/internal/vectorstore SimilarityIndex

import "context"

// Hit is a single nearest-neighbor result. Position is the corpus index
// position of the matched vector; Distance is the squared Euclidean distance
// to the query. Ties between equal distances keep whatever order the backing
// index produced (unstable, not part of the contract).
type Hit struct {
	Position int
	Distance float32
}

// SimilarityIndex is a read-only nearest-neighbor index over the corpus
// embedding matrix. Implementations must be safe for concurrent searches
// once loaded; the index is never mutated while serving.
type SimilarityIndex interface {
	// Search returns up to k hits ordered by ascending distance.
	Search(ctx context.Context, query []float32, k int) ([]Hit, error)

	// Len returns the number of indexed vectors.
	Len() int

	// Dimension returns the vector dimensionality fixed at build time.
	Dimension() int
}
