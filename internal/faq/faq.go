// Package faq finds the best answer for an utterance in a topic's
// question/answer block using longest-common-substring similarity.
package faq

import (
	"strings"
	"unicode/utf8"

	"github.com/p-n-ai/studybot/internal/nlp"
)

const (
	questionPrefix = "Q:"
	answerPrefix   = "A:"
)

// Entry is one question/answer pair from an FAQ block.
type Entry struct {
	Question string
	Answer   string
}

// Parse reads alternating "Q:" / "A:" lines. An answer with no pending
// question is dropped, as is any line carrying neither prefix.
func Parse(block string) []Entry {
	var (
		entries []Entry
		pending string
		open    bool
	)
	for _, line := range strings.Split(block, "\n") {
		line = strings.TrimSpace(strings.TrimSuffix(line, "\r"))
		switch {
		case strings.HasPrefix(line, questionPrefix):
			pending = strings.TrimPrefix(line, questionPrefix)
			open = strings.TrimSpace(pending) != ""
		case strings.HasPrefix(line, answerPrefix):
			if open {
				entries = append(entries, Entry{
					Question: strings.TrimSpace(pending),
					Answer:   strings.TrimSpace(strings.TrimPrefix(line, answerPrefix)),
				})
			}
			pending, open = "", false
		}
	}
	return entries
}

// LongestCommonSubstring returns the length in runes of the longest
// contiguous run shared by a and b.
func LongestCommonSubstring(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 || len(rb) == 0 {
		return 0
	}

	// prev[j] holds the run length ending at ra[i-1], rb[j-1].
	prev := make([]int, len(rb)+1)
	cur := make([]int, len(rb)+1)
	best := 0
	for i := 1; i <= len(ra); i++ {
		for j := 1; j <= len(rb); j++ {
			if ra[i-1] == rb[j-1] {
				cur[j] = prev[j-1] + 1
				if cur[j] > best {
					best = cur[j]
				}
			} else {
				cur[j] = 0
			}
		}
		prev, cur = cur, prev
	}
	return best
}

// Score compares two already compacted strings. Containment either way
// counts as a full match of the longer string.
func Score(utterance, question string) int {
	if question != "" && (strings.Contains(question, utterance) || strings.Contains(utterance, question)) {
		return max(utf8.RuneCountInString(utterance), utf8.RuneCountInString(question))
	}
	return LongestCommonSubstring(utterance, question)
}

// Threshold is the minimum score a question needs: half the shorter of the
// two strings, and never less than one.
func Threshold(utterance, question string) int {
	return max(1, min(utf8.RuneCountInString(question)/2, utf8.RuneCountInString(utterance)/2))
}

// Match returns the answer of the best scoring question in block. A
// candidate must clear Threshold and strictly beat every earlier candidate.
func Match(block, utterance string) (string, bool) {
	u := nlp.Compact(utterance)
	if u == "" {
		return "", false
	}

	best := 0
	var answer string
	for _, e := range Parse(block) {
		q := nlp.Compact(e.Question)
		score := Score(u, q)
		if score >= Threshold(u, q) && score > best {
			best = score
			answer = e.Answer
		}
	}

	if best == 0 || answer == "" {
		return "", false
	}
	return answer, true
}
