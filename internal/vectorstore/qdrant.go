package vectorstore

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/qdrant/go-client/qdrant"

	"eduassist/internal/contextutil"
)

// QdrantIndex implements SimilarityIndex against a Qdrant collection. Point
// IDs are the corpus index positions, so search hits line up with the
// metadata sequence exactly like the flat index. The collection is created
// with Euclidean distance; Qdrant reports plain Euclidean distance as the
// score, which is squared here to match the flat index's distance scale.
type QdrantIndex struct {
	client     *qdrant.Client
	collection string
	dim        int
	count      int
}

// NewQdrantIndex creates a Qdrant-backed similarity index client.
// urlStr should be in the format "http://host:port" (e.g., "http://localhost:6333").
// The gRPC port (typically 6334) will be derived from the HTTP port.
func NewQdrantIndex(urlStr, collection string, dim int) (*QdrantIndex, error) {
	parsedURL, err := url.Parse(urlStr)
	if err != nil {
		return nil, fmt.Errorf("invalid Qdrant URL: %w", err)
	}

	host := parsedURL.Hostname()
	if host == "" {
		host = "localhost"
	}

	// Extract port from URL, default gRPC port is 6334
	port := 6334
	if parsedURL.Port() != "" {
		httpPort, err := strconv.Atoi(parsedURL.Port())
		if err == nil {
			// gRPC port is typically HTTP port + 1
			port = httpPort + 1
		}
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host: host,
		Port: port,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Qdrant client: %w", err)
	}

	return &QdrantIndex{
		client:     client,
		collection: collection,
		dim:        dim,
	}, nil
}

// EnsureCollection creates the collection with Euclidean distance if it does
// not exist yet, and records the current point count.
func (q *QdrantIndex) EnsureCollection(ctx context.Context) error {
	logger := contextutil.LoggerFromContext(ctx)

	exists, err := q.client.CollectionExists(ctx, q.collection)
	if err != nil {
		return fmt.Errorf("failed to check collection: %w", err)
	}
	if !exists {
		err := q.client.CreateCollection(ctx, &qdrant.CreateCollection{
			CollectionName: q.collection,
			VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
				Size:     uint64(q.dim),
				Distance: qdrant.Distance_Euclid,
			}),
		})
		if err != nil {
			return fmt.Errorf("failed to create collection: %w", err)
		}
		logger.InfoContext(ctx, "created collection", "collection", q.collection, "dim", q.dim)
	}

	count, err := q.client.Count(ctx, &qdrant.CountPoints{CollectionName: q.collection})
	if err != nil {
		return fmt.Errorf("failed to count points: %w", err)
	}
	q.count = int(count)
	return nil
}

// UpsertAll replaces the collection contents with the given vectors, point
// ID i holding vector i.
func (q *QdrantIndex) UpsertAll(ctx context.Context, vectors [][]float32) error {
	logger := contextutil.LoggerFromContext(ctx)

	points := make([]*qdrant.PointStruct, 0, len(vectors))
	for pos, vec := range vectors {
		if len(vec) != q.dim {
			return fmt.Errorf("vector %d has dimension %d, expected %d", pos, len(vec), q.dim)
		}
		points = append(points, &qdrant.PointStruct{
			Id:      qdrant.NewIDNum(uint64(pos)),
			Vectors: qdrant.NewVectors(vec...),
		})
	}

	_, err := q.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: q.collection,
		Points:         points,
	})
	if err != nil {
		return fmt.Errorf("failed to upsert points: %w", err)
	}

	q.count = len(vectors)
	logger.InfoContext(ctx, "upserted points", "collection", q.collection, "count", len(points))
	return nil
}

// Search returns the k nearest points by ascending squared Euclidean
// distance.
func (q *QdrantIndex) Search(ctx context.Context, query []float32, k int) ([]Hit, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if k <= 0 {
		return nil, fmt.Errorf("k must be greater than 0")
	}
	if len(query) != q.dim {
		return nil, fmt.Errorf("query has dimension %d, expected %d", len(query), q.dim)
	}

	limit := uint64(k)
	scoredPoints, err := q.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: q.collection,
		Query:          qdrant.NewQuery(query...),
		Limit:          &limit,
	})
	if err != nil {
		logger.ErrorContext(ctx, "failed to search points", "collection", q.collection, "k", k, "error", err)
		return nil, fmt.Errorf("failed to search points: %w", err)
	}

	hits := make([]Hit, 0, len(scoredPoints))
	for _, point := range scoredPoints {
		if point.Id == nil {
			continue
		}
		hits = append(hits, Hit{
			Position: int(point.Id.GetNum()),
			Distance: point.Score * point.Score,
		})
	}

	logger.DebugContext(ctx, "search completed", "collection", q.collection, "k", k, "results", len(hits))
	return hits, nil
}

// Len returns the point count recorded at EnsureCollection or UpsertAll.
func (q *QdrantIndex) Len() int { return q.count }

// Dimension returns the vector dimensionality.
func (q *QdrantIndex) Dimension() int { return q.dim }
