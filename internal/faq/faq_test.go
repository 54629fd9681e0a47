package faq_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/p-n-ai/studybot/internal/faq"
)

const stackFAQ = `Q: What is a stack?
A: A stack is a LIFO collection.
Q: How do I push an element onto the stack?
A: Call push(x); it goes on top.
Q: Why is pop O(1)?
A: Only the top pointer moves.`

func TestLongestCommonSubstring(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"abcdef", "zcdez", 3},
		{"abc", "abc", 3},
		{"", "abc", 0},
		{"abc", "", 0},
		{"abc", "xyz", 0},
		{"héllo", "jéllo", 4},
		{"aaaa", "aa", 2},
	}
	for _, tt := range tests {
		if got := faq.LongestCommonSubstring(tt.a, tt.b); got != tt.want {
			t.Errorf("LongestCommonSubstring(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestParse_SkipsMalformed(t *testing.T) {
	block := "A: orphan answer\nQ: What is a queue?\nnoise line\nA: FIFO.\nQ:\nA: empty question\n"

	want := []faq.Entry{{Question: "What is a queue?", Answer: "FIFO."}}
	if diff := cmp.Diff(want, faq.Parse(block)); diff != "" {
		t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
	}
}

func TestMatch(t *testing.T) {
	tests := []struct {
		name      string
		block     string
		utterance string
		want      string
		wantOK    bool
	}{
		{
			name:      "exact question",
			block:     stackFAQ,
			utterance: "What is a stack?",
			want:      "A stack is a LIFO collection.",
			wantOK:    true,
		},
		{
			name:      "exact match beats half-length threshold",
			block:     "Q: Why is pop O(1)?\nA: Only the top pointer moves.",
			utterance: "why is pop o 1",
			want:      "Only the top pointer moves.",
			wantOK:    true,
		},
		{
			name:      "best of several partial matches",
			block:     stackFAQ,
			utterance: "how do I push onto a stack",
			want:      "Call push(x); it goes on top.",
			wantOK:    true,
		},
		{
			name:      "no shared substring",
			block:     "Q: What is a stack?\nA: LIFO.",
			utterance: "xyz",
			wantOK:    false,
		},
		{
			name:      "empty block",
			block:     "",
			utterance: "what is a stack",
			wantOK:    false,
		},
		{
			name:      "punctuation only utterance",
			block:     stackFAQ,
			utterance: "?!",
			wantOK:    false,
		},
		{
			name:      "first of equal scores wins",
			block:     "Q: what is a stack\nA: first\nQ: what is a stack\nA: second",
			utterance: "what is a stack",
			want:      "first",
			wantOK:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := faq.Match(tt.block, tt.utterance)
			if ok != tt.wantOK {
				t.Fatalf("Match() ok = %v, want %v (answer %q)", ok, tt.wantOK, got)
			}
			if got != tt.want {
				t.Errorf("Match() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestThreshold(t *testing.T) {
	tests := []struct {
		u, q string
		want int
	}{
		{"a", "abcdef", 1},
		{"abcdefgh", "abcd", 2},
		{"abcdefghij", "abcdefghijklmnop", 5},
	}
	for _, tt := range tests {
		if got := faq.Threshold(tt.u, tt.q); got != tt.want {
			t.Errorf("Threshold(%q, %q) = %d, want %d", tt.u, tt.q, got, tt.want)
		}
	}
}
