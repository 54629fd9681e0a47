package main

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func runCLI(t *testing.T, input string, args ...string) (string, error) {
	t.Helper()
	out, _, err := runCLIWithLogs(t, input, args...)
	return out, err
}

// runCLIWithLogs also returns what was written to the error stream.
func runCLIWithLogs(t *testing.T, input string, args ...string) (string, string, error) {
	t.Helper()
	for _, k := range []string{
		"STUDYBOT_HISTORY_BACKEND", "STUDYBOT_DATA_PATH", "STUDYBOT_LEXICON_PATH",
		"STUDYBOT_TEST_MODE", "STUDYBOT_LOG_LEVEL", "STUDYBOT_LOG_FORMAT",
	} {
		t.Setenv(k, "")
	}
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var out, errOut bytes.Buffer
	cmd := newRootCmd(strings.NewReader(input), &out, &errOut)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func writeTopic(t *testing.T, dir, id, content string) {
	t.Helper()
	topics := filepath.Join(dir, "topics")
	if err := os.MkdirAll(topics, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(topics, id+".txt"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestRun_TestModeTranscript(t *testing.T) {
	data := t.TempDir()
	writeTopic(t, data, "stack", "Definition:\nA stack is a LIFO collection.\n")

	out, err := runCLI(t, "teach me stack\nbye\nno\n",
		"--test-mode", "--no-color", "--history", "memory", "--data", data)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	want := strings.Join([]string{
		"Hi! I'm your DSA study assistant.",
		"What do you want to study today? (e.g., bst, queue, linked_list, graphs, binary_tree, sorting...)",
		"A stack is a LIFO collection.",
		"Do you want more detail, pseudocode, example, or a quiz?",
		"Bye! Keep practicing.",
		"",
	}, "\n")
	if out != want {
		t.Errorf("output = %q, want %q", out, want)
	}
}

func TestRun_SavesSessionToFiles(t *testing.T) {
	data := t.TempDir()

	_, err := runCLI(t, "queue\nexit\nyes\nana\n",
		"--test-mode", "--no-color", "--history", "file", "--data", data)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	b, err := os.ReadFile(filepath.Join(data, "user", "topics_history.txt"))
	if err != nil {
		t.Fatalf("reading history: %v", err)
	}
	if !strings.Contains(string(b), "ana|sessions:queue\n") {
		t.Errorf("topics history = %q", b)
	}
}

func TestRun_InvalidBackend(t *testing.T) {
	_, err := runCLI(t, "", "--history", "sqlite", "--data", t.TempDir())
	if err == nil {
		t.Fatal("Execute() should fail for an unknown backend")
	}
}

func TestRun_RejectsArgs(t *testing.T) {
	if _, err := runCLI(t, "", "stray"); err == nil {
		t.Fatal("Execute() should reject positional arguments")
	}
}

func TestRun_LogLevelAppliesToAllPackages(t *testing.T) {
	data := t.TempDir()
	writeTopic(t, data, "stack", "Definition:\nA stack is a LIFO collection.\n")
	writeTopic(t, data, "stack_quiz", "[EASY]\nQ: Which principle does a stack follow?\nA: LIFO\n")

	out, logs, err := runCLIWithLogs(t, "quiz me on stack\n1\nlifo\nno\nbye\nno\n",
		"--test-mode", "--no-color", "--history", "memory", "--data", data, "--log-level", "error")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.Contains(out, "Quiz Score: 1 / 1") {
		t.Fatalf("quiz did not run:\n%s", out)
	}
	if logs != "" {
		t.Errorf("error level should silence info records, got:\n%s", logs)
	}
}

func TestRun_InfoLevelWritesToErrorStream(t *testing.T) {
	data := t.TempDir()
	writeTopic(t, data, "stack", "Definition:\nA stack is a LIFO collection.\n")

	out, logs, err := runCLIWithLogs(t, "bye\n",
		"--test-mode", "--no-color", "--history", "memory", "--data", data, "--log-level", "info")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.Contains(logs, "curriculum loaded") {
		t.Errorf("curriculum record missing from error stream:\n%s", logs)
	}
	if strings.Contains(out, "curriculum loaded") {
		t.Error("logs must not reach the chat output")
	}
}
