package history_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/p-n-ai/studybot/internal/history"
)

func TestFileStore(t *testing.T) {
	store, err := history.NewFileStore(filepath.Join(t.TempDir(), "user"))
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}
	exerciseStore(t, store)
}

func TestNewFileStore_CreatesFilesWithHeaders(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "user")
	if _, err := history.NewFileStore(dir); err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}

	tests := []struct {
		file       string
		wantPrefix string
	}{
		{"profile.txt", "username:guest\n"},
		{"quiz_progress.txt", "# Quiz progress file\n"},
		{"topics_history.txt", "# Topics history file\n"},
	}
	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			data, err := os.ReadFile(filepath.Join(dir, tt.file))
			if err != nil {
				t.Fatalf("reading %s: %v", tt.file, err)
			}
			if !strings.HasPrefix(string(data), tt.wantPrefix) {
				t.Errorf("%s starts with %q, want prefix %q", tt.file, string(data), tt.wantPrefix)
			}
		})
	}
}

func TestNewFileStore_KeepsExistingFiles(t *testing.T) {
	dir := t.TempDir()
	existing := "ana|stack:5/5:EASY\n"
	if err := os.WriteFile(filepath.Join(dir, "quiz_progress.txt"), []byte(existing), 0o644); err != nil {
		t.Fatal(err)
	}

	store, err := history.NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "quiz_progress.txt"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != existing {
		t.Errorf("quiz file rewritten: %q", string(data))
	}

	results, err := store.QuizResults(context.Background(), "ana")
	if err != nil {
		t.Fatalf("QuizResults() error = %v", err)
	}
	if len(results) != 1 || results[0].Score != 5 {
		t.Errorf("QuizResults() = %+v, want one 5/5 result", results)
	}
}

func TestNewFileStore_MigratesLegacyProgress(t *testing.T) {
	dir := t.TempDir()
	legacy := strings.Join([]string{
		"# old combined file",
		"ana|stack:3/5:EASY,queue:2/5:HARD",
		"ana|sessions:stack,queue",
		"not a record",
		"",
	}, "\n")
	if err := os.WriteFile(filepath.Join(dir, "progress.txt"), []byte(legacy), 0o644); err != nil {
		t.Fatal(err)
	}

	store, err := history.NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}
	ctx := context.Background()

	results, err := store.QuizResults(ctx, "ana")
	if err != nil {
		t.Fatalf("QuizResults() error = %v", err)
	}
	var got []string
	for _, r := range results {
		got = append(got, r.Line())
	}
	if diff := cmp.Diff([]string{"ana|stack:3/5:EASY", "ana|queue:2/5:HARD"}, got); diff != "" {
		t.Errorf("migrated quiz lines mismatch (-want +got):\n%s", diff)
	}

	topics, err := store.StudiedTopics(ctx, "ana")
	if err != nil {
		t.Fatalf("StudiedTopics() error = %v", err)
	}
	if diff := cmp.Diff([]string{"queue", "stack"}, topics); diff != "" {
		t.Errorf("migrated topics mismatch (-want +got):\n%s", diff)
	}

	if _, err := os.Stat(filepath.Join(dir, "progress.txt")); !os.IsNotExist(err) {
		t.Errorf("legacy file should be renamed, stat error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "progress.txt.migrated")); err != nil {
		t.Errorf("renamed legacy file missing: %v", err)
	}

	quiz, err := os.ReadFile(filepath.Join(dir, "quiz_progress.txt"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(quiz), "# Quiz progress file\n") {
		t.Errorf("quiz file should start with its header, got %q", string(quiz))
	}

	// A second open must not migrate again.
	if _, err := history.NewFileStore(dir); err != nil {
		t.Fatalf("second NewFileStore() error = %v", err)
	}
	again, _ := store.QuizResults(ctx, "ana")
	if len(again) != 2 {
		t.Errorf("QuizResults() after reopen len = %d, want 2", len(again))
	}
}

func TestFileStore_UsernamePrefixIsExact(t *testing.T) {
	store, err := history.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}
	ctx := context.Background()

	_ = store.AppendQuiz(ctx, history.QuizRecord{Username: "an", Topic: "stack", Score: 1, Total: 1})
	_ = store.AppendQuiz(ctx, history.QuizRecord{Username: "ana", Topic: "queue", Score: 1, Total: 1})

	results, err := store.QuizResults(ctx, "an")
	if err != nil {
		t.Fatalf("QuizResults() error = %v", err)
	}
	if len(results) != 1 || results[0].Topic != "stack" {
		t.Errorf("QuizResults(an) = %+v, want only the stack result", results)
	}
}

func TestFileStore_Dir(t *testing.T) {
	dir := t.TempDir()
	store, err := history.NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}
	if store.Dir() != dir {
		t.Errorf("Dir() = %q, want %q", store.Dir(), dir)
	}
}
