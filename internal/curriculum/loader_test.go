package curriculum_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/p-n-ai/studybot/internal/curriculum"
)

func TestLoader_LoadTopics(t *testing.T) {
	dir := setupTestCurriculum(t)

	loader, err := curriculum.NewLoader(dir)
	if err != nil {
		t.Fatalf("NewLoader() error = %v", err)
	}

	ids := loader.TopicIDs()
	if len(ids) != 2 {
		t.Fatalf("TopicIDs() = %v, want 2 topics (quiz banks are not topics)", ids)
	}
	if ids[0] != "queue" || ids[1] != "stack" {
		t.Errorf("TopicIDs() = %v, want [queue stack]", ids)
	}
}

func TestLoader_Content(t *testing.T) {
	dir := setupTestCurriculum(t)

	loader, err := curriculum.NewLoader(dir)
	if err != nil {
		t.Fatalf("NewLoader() error = %v", err)
	}

	content := loader.Content("stack")
	if content == curriculum.Placeholder || content == "" {
		t.Errorf("Content(stack) = %q, want topic text", content)
	}
}

func TestLoader_Content_NotFound(t *testing.T) {
	dir := setupTestCurriculum(t)

	loader, err := curriculum.NewLoader(dir)
	if err != nil {
		t.Fatalf("NewLoader() error = %v", err)
	}

	if got := loader.Content("trie"); got != curriculum.Placeholder {
		t.Errorf("Content(trie) = %q, want placeholder", got)
	}
	if got := loader.Section("trie", "definition"); got != "" {
		t.Errorf("Section(trie) = %q, want empty", got)
	}
}

func TestLoader_Section(t *testing.T) {
	dir := setupTestCurriculum(t)

	loader, err := curriculum.NewLoader(dir)
	if err != nil {
		t.Fatalf("NewLoader() error = %v", err)
	}

	got := loader.Section("stack", "Definition")
	want := "A stack is a linear collection.\nElements leave in LIFO order."
	if got != want {
		t.Errorf("Section(stack, Definition) = %q, want %q", got, want)
	}

	// queue has no Example heading; the Overview fallback applies.
	if got := loader.Section("queue", "example"); got != "Queues are FIFO." {
		t.Errorf("Section(queue, example) = %q, want overview fallback", got)
	}
}

func TestLoader_GetQuizBank(t *testing.T) {
	dir := setupTestCurriculum(t)

	loader, err := curriculum.NewLoader(dir)
	if err != nil {
		t.Fatalf("NewLoader() error = %v", err)
	}

	bank, found := loader.GetQuizBank("stack")
	if !found {
		t.Fatal("GetQuizBank(stack) not found")
	}
	if bank.Text == "" {
		t.Error("QuizBank.Text is empty")
	}

	if _, found := loader.GetQuizBank("queue"); found {
		t.Error("GetQuizBank(queue) should not be found")
	}
}

func TestLoader_EmptyDir(t *testing.T) {
	dir := t.TempDir()

	loader, err := curriculum.NewLoader(dir)
	if err != nil {
		t.Fatalf("NewLoader() error = %v", err)
	}

	if ids := loader.TopicIDs(); len(ids) != 0 {
		t.Errorf("TopicIDs() = %v, want none for empty dir", ids)
	}
}

func setupTestCurriculum(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	topicsDir := filepath.Join(dir, "topics")
	os.MkdirAll(topicsDir, 0o755)

	os.WriteFile(filepath.Join(topicsDir, "stack.txt"), []byte("Stack\r\n\r\nDefinition:\r\nA stack is a linear collection.\r\nElements leave in LIFO order.\r\n\r\nExample:\r\npush 1, push 2, pop -> 2\r\n"), 0o644)
	os.WriteFile(filepath.Join(topicsDir, "queue.txt"), []byte("Overview:\nQueues are FIFO.\n"), 0o644)
	os.WriteFile(filepath.Join(topicsDir, "stack_quiz.txt"), []byte("[EASY]\nQ: What order does a stack use?\nA: LIFO\n"), 0o644)

	return dir
}
