// Package quiz runs short question-and-answer quizzes on a topic, records
// results, and reports a user's progress.
package quiz

import (
	"strings"
	"unicode"
)

// Difficulty is a quiz level. Values match the bank section markers.
type Difficulty string

const (
	Easy   Difficulty = "EASY"
	Medium Difficulty = "MEDIUM"
	Hard   Difficulty = "HARD"
)

// MaxQuestions caps the number of questions asked per quiz.
const MaxQuestions = 5

// Question is one prompt with its expected answer.
type Question struct {
	Prompt string
	Answer string
}

var defaultQuestions = []Question{
	{"What is a data structure?", "a way to organize data"},
	{"Name a linear data structure.", "array"},
	{"What does LIFO stand for?", "last in first out"},
	{"What does FIFO stand for?", "first in first out"},
	{"Define algorithm", "step by step procedure"},
}

var exitWords = []string{"exit", "quit", "end", "finish", "end session", "stop"}

// DefaultQuestions returns the general questions used when a topic has no bank.
func DefaultQuestions() []Question {
	return append([]Question(nil), defaultQuestions...)
}

// ParseDifficulty maps a menu choice to a difficulty. ok is false for
// anything unrecognised, in which case Easy is returned.
func ParseDifficulty(choice string) (Difficulty, bool) {
	switch strings.ToLower(strings.TrimSpace(choice)) {
	case "1", "easy":
		return Easy, true
	case "2", "medium":
		return Medium, true
	case "3", "hard":
		return Hard, true
	}
	return Easy, false
}

// ParseBank returns the Q:/A: pairs in the [DIFFICULTY] section of a bank,
// capped at MaxQuestions. An A: line without a pending Q: is ignored.
func ParseBank(text string, d Difficulty) []Question {
	var (
		out     []Question
		inLevel bool
		pending string
	)
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSuffix(line, "\r")

		switch line {
		case "[EASY]", "[MEDIUM]", "[HARD]":
			inLevel = line == "["+string(d)+"]"
			pending = ""
			continue
		}
		if !inLevel || line == "" {
			continue
		}

		switch {
		case strings.HasPrefix(line, "Q:"):
			pending = strings.TrimSpace(line[2:])
		case strings.HasPrefix(line, "A:"):
			if pending != "" {
				out = append(out, Question{Prompt: pending, Answer: strings.TrimSpace(line[2:])})
				pending = ""
			}
		}
	}

	if len(out) > MaxQuestions {
		out = out[:MaxQuestions]
	}
	return out
}

// CheckAnswer compares answers with whitespace removed and case folded; either
// may contain the other. An empty answer is never correct.
func CheckAnswer(answer, correct string) bool {
	a, c := squash(answer), squash(correct)
	if a == "" || c == "" {
		return false
	}
	return strings.Contains(a, c) || strings.Contains(c, a)
}

// IsExitWord reports whether an answer asks to leave the quiz.
func IsExitWord(answer string) bool {
	low := strings.ToLower(strings.TrimSpace(answer))
	for _, w := range exitWords {
		if low == w {
			return true
		}
	}
	return false
}

func squash(s string) string {
	var b strings.Builder
	for _, r := range s {
		if !unicode.IsSpace(r) {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}
