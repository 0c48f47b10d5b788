package storage

import (
	"context"
	"path/filepath"
	"testing"
)

func openTestDB(t *testing.T) *QueryRepo {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	db, err := New(dbPath)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})

	if err := Migrate(db); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	return NewQueryRepo(db)
}

func TestQueryRepo_Insert(t *testing.T) {
	repo := openTestDB(t)

	rec := &QueryRecord{
		Question:     "combien font deux plus deux",
		DetectedLang: "fr",
		BestScore:    0.97,
		Answered:     true,
	}
	if err := repo.Insert(context.Background(), rec); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
	if rec.ID == 0 {
		t.Fatal("Insert() did not assign an ID")
	}
}

func TestQueryRepo_Aggregate(t *testing.T) {
	repo := openTestDB(t)
	ctx := context.Background()

	records := []QueryRecord{
		{Question: "q1", DetectedLang: "fr", BestScore: 0.9, Answered: true},
		{Question: "q2", DetectedLang: "fr", BestScore: 0.6, Answered: true, FallbackUsed: true},
		{Question: "q3", DetectedLang: "en", BestScore: 0.2, FallbackUsed: true},
	}
	for i := range records {
		if err := repo.Insert(ctx, &records[i]); err != nil {
			t.Fatalf("Insert() error = %v", err)
		}
	}

	stats, err := repo.Aggregate(ctx)
	if err != nil {
		t.Fatalf("Aggregate() error = %v", err)
	}
	if stats.TotalQueries != 3 {
		t.Errorf("TotalQueries = %d, want 3", stats.TotalQueries)
	}
	if stats.Answered != 2 {
		t.Errorf("Answered = %d, want 2", stats.Answered)
	}
	if stats.FallbackUsed != 2 {
		t.Errorf("FallbackUsed = %d, want 2", stats.FallbackUsed)
	}
	if stats.QueriesByLang["fr"] != 2 || stats.QueriesByLang["en"] != 1 {
		t.Errorf("QueriesByLang = %v", stats.QueriesByLang)
	}
}

func TestQueryRepo_AggregateEmpty(t *testing.T) {
	repo := openTestDB(t)

	stats, err := repo.Aggregate(context.Background())
	if err != nil {
		t.Fatalf("Aggregate() error = %v", err)
	}
	if stats.TotalQueries != 0 || stats.Answered != 0 || stats.FallbackUsed != 0 {
		t.Fatalf("expected zero stats, got %+v", stats)
	}
}
