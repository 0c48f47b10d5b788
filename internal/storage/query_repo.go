package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_query_store.go -package=mocks eduassist/internal/storage QueryStore

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// QueryRecord is one answered turn in the query log. The log exists for the
// usage dashboard; session history stays in memory and is never persisted.
type QueryRecord struct {
	ID           int64
	Question     string
	DetectedLang string
	BestScore    float64
	Answered     bool // a primary answer was shown
	FallbackUsed bool // a generated answer was produced
	CreatedAt    time.Time
}

// Stats are the aggregates served to the dashboard.
type Stats struct {
	TotalQueries  int            `json:"total_queries"`
	Answered      int            `json:"answered"`
	FallbackUsed  int            `json:"fallback_used"`
	QueriesByLang map[string]int `json:"queries_by_lang"`
}

// QueryStore defines the query log operations.
type QueryStore interface {
	// Insert records an answered turn.
	Insert(ctx context.Context, rec *QueryRecord) error
	// Aggregate computes dashboard stats over the whole log.
	Aggregate(ctx context.Context) (*Stats, error)
}

// QueryRepo implements QueryStore over SQLite.
type QueryRepo struct {
	db *sql.DB
}

// NewQueryRepo creates a new QueryRepo.
func NewQueryRepo(db *sql.DB) *QueryRepo {
	return &QueryRepo{db: db}
}

// Insert records an answered turn and fills in the generated ID.
func (r *QueryRepo) Insert(ctx context.Context, rec *QueryRecord) error {
	result, err := r.db.ExecContext(ctx,
		"INSERT INTO queries (question, detected_lang, best_score, answered, fallback_used) VALUES (?, ?, ?, ?, ?)",
		rec.Question, rec.DetectedLang, rec.BestScore, rec.Answered, rec.FallbackUsed,
	)
	if err != nil {
		return fmt.Errorf("failed to insert query record: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read inserted ID: %w", err)
	}
	rec.ID = id
	return nil
}

// Aggregate computes dashboard stats over the whole log.
func (r *QueryRepo) Aggregate(ctx context.Context) (*Stats, error) {
	stats := &Stats{QueriesByLang: make(map[string]int)}

	row := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*),
		        COALESCE(SUM(answered), 0),
		        COALESCE(SUM(fallback_used), 0)
		 FROM queries`,
	)
	if err := row.Scan(&stats.TotalQueries, &stats.Answered, &stats.FallbackUsed); err != nil {
		return nil, fmt.Errorf("failed to aggregate query log: %w", err)
	}

	rows, err := r.db.QueryContext(ctx,
		"SELECT detected_lang, COUNT(*) FROM queries GROUP BY detected_lang",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query per-language counts: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	for rows.Next() {
		var lang string
		var count int
		if err := rows.Scan(&lang, &count); err != nil {
			return nil, fmt.Errorf("failed to scan per-language count: %w", err)
		}
		stats.QueriesByLang[lang] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate per-language counts: %w", err)
	}

	return stats, nil
}
