package dialogue_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/p-n-ai/studybot/internal/dialogue"
	"github.com/p-n-ai/studybot/internal/nlp"
)

func TestSession_Empty(t *testing.T) {
	s := dialogue.NewSession()
	if s.Current() != nlp.Unknown {
		t.Errorf("Current() = %q, want unknown", s.Current())
	}
	if s.Depth() != 0 || len(s.Topics()) != 0 {
		t.Error("new session should be empty")
	}
	if s.ID() == "" || s.ID() == dialogue.NewSession().ID() {
		t.Error("sessions should get distinct ids")
	}
}

func TestSession_PushIfNew(t *testing.T) {
	s := dialogue.NewSession()
	for _, topic := range []string{"queue", "queue", "stack", "unknown", "", "queue", "queue", "bst"} {
		s.PushIfNew(topic)
	}

	if diff := cmp.Diff([]string{"queue", "stack", "queue", "bst"}, s.Stack()); diff != "" {
		t.Errorf("Stack() mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"queue", "stack", "bst"}, s.Topics()); diff != "" {
		t.Errorf("Topics() mismatch (-want +got):\n%s", diff)
	}
	if s.Current() != "bst" {
		t.Errorf("Current() = %q, want bst", s.Current())
	}
}

func TestSession_NoAdjacentDuplicates(t *testing.T) {
	topics := []string{"a", "b", "c"}
	s := dialogue.NewSession()
	// A deterministic pseudo-random walk over a small alphabet.
	x := uint32(7)
	for i := 0; i < 500; i++ {
		x = x*1664525 + 1013904223
		s.PushIfNew(topics[x>>16%3])
	}

	stack := s.Stack()
	for i := 1; i < len(stack); i++ {
		if stack[i] == stack[i-1] {
			t.Fatalf("adjacent duplicate %q at %d", stack[i], i)
		}
	}
}

func TestSession_Clear(t *testing.T) {
	s := dialogue.NewSession()
	s.PushIfNew("stack")
	s.Clear()

	if s.Depth() != 0 || len(s.Topics()) != 0 || s.Current() != nlp.Unknown {
		t.Error("Clear() should empty the stack and topic list")
	}
}

func TestSession_ReturnsCopies(t *testing.T) {
	s := dialogue.NewSession()
	s.PushIfNew("stack")

	s.Topics()[0] = "mutated"
	s.Stack()[0] = "mutated"

	if s.Current() != "stack" || s.Topics()[0] != "stack" {
		t.Error("callers must not be able to mutate session state")
	}
}
