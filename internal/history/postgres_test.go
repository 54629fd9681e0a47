package history_test

import (
	"context"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/p-n-ai/studybot/internal/history"
	"github.com/p-n-ai/studybot/internal/platform/config"
	"github.com/p-n-ai/studybot/internal/platform/database"
)

func TestNewPostgresStore_NilPool(t *testing.T) {
	if _, err := history.NewPostgresStore(nil); err == nil {
		t.Fatal("NewPostgresStore(nil) should return error")
	}
}

func TestPostgresStore(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping postgres integration test in short mode (requires Docker)")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	ctr, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("studybot"),
		postgres.WithUsername("studybot"),
		postgres.WithPassword("studybot"),
		postgres.BasicWaitStrategies(),
	)
	if err != nil {
		t.Fatalf("starting postgres container: %v", err)
	}
	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(ctr); err != nil {
			t.Logf("terminating postgres container: %v", err)
		}
	})

	url, err := ctr.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("ConnectionString() error = %v", err)
	}

	db, err := database.New(ctx, config.DatabaseConfig{URL: url, MaxConns: 4, MinConns: 1})
	if err != nil {
		t.Fatalf("database.New() error = %v", err)
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	// Migrations are idempotent.
	if err := db.Migrate(ctx); err != nil {
		t.Fatalf("second Migrate() error = %v", err)
	}

	store, err := history.NewPostgresStore(db.Pool)
	if err != nil {
		t.Fatalf("NewPostgresStore() error = %v", err)
	}
	exerciseStore(t, store)
}
