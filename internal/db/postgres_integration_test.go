//go:build integration

package db

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
)

func getTestDB(t *testing.T) *Postgres {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	db, err := Connect(ctx, url)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	if err := db.Migrate(ctx); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	return db
}

func cleanupAnalysis(t *testing.T, db *Postgres, id uuid.UUID) {
	t.Helper()
	if _, err := db.pool.Exec(context.Background(), `DELETE FROM analyses WHERE id = $1`, id); err != nil {
		t.Errorf("Failed to clean up analysis %s: %v", id, err)
	}
}

func TestIntegration_Analysis_CRUD(t *testing.T) {
	db := getTestDB(t)
	defer func() { _ = db.Close() }()
	ctx := context.Background()

	a := sampleAnalysis(64.2)
	if err := db.SaveAnalysis(ctx, a); err != nil {
		t.Fatalf("SaveAnalysis failed: %v", err)
	}
	defer cleanupAnalysis(t, db, a.ID)

	t.Run("get", func(t *testing.T) {
		got, err := db.GetAnalysis(ctx, a.ID)
		if err != nil {
			t.Fatalf("GetAnalysis failed: %v", err)
		}
		if got == nil {
			t.Fatal("expected analysis, got nil")
		}
		if got.TotalScore != 64.2 {
			t.Errorf("TotalScore = %v, want 64.2", got.TotalScore)
		}
		if len(got.Result.MissingSkills) != 1 || got.Result.MissingSkills[0] != "kubernetes" {
			t.Errorf("unexpected MissingSkills %v", got.Result.MissingSkills)
		}
	})

	t.Run("get missing", func(t *testing.T) {
		got, err := db.GetAnalysis(ctx, uuid.New())
		if err != nil {
			t.Fatalf("GetAnalysis failed: %v", err)
		}
		if got != nil {
			t.Errorf("expected nil, got %+v", got)
		}
	})

	t.Run("list", func(t *testing.T) {
		list, err := db.ListAnalyses(ctx, MaxListLimit)
		if err != nil {
			t.Fatalf("ListAnalyses failed: %v", err)
		}
		found := false
		for _, item := range list {
			if item.ID == a.ID {
				found = true
			}
		}
		if !found {
			t.Errorf("saved analysis %s not listed", a.ID)
		}
	})
}
