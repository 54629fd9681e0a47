// Package history keeps append-only records of study sessions and quiz
// results.
package history

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidRecord is returned for a record line or value that cannot be stored.
var ErrInvalidRecord = errors.New("invalid history record")

const sessionsTag = "sessions:"

// SessionRecord lists the topics a user touched in one session.
type SessionRecord struct {
	Username  string
	Topics    []string
	CreatedAt time.Time
}

// QuizRecord is the outcome of one quiz.
type QuizRecord struct {
	Username   string
	Topic      string
	Score      int
	Total      int
	Difficulty string
	CreatedAt  time.Time
}

// Validate checks that the record can be written as a single line.
func (r SessionRecord) Validate() error {
	if err := checkField("username", r.Username); err != nil {
		return err
	}
	if len(r.Topics) == 0 {
		return fmt.Errorf("%w: no topics", ErrInvalidRecord)
	}
	for _, t := range r.Topics {
		if t == "" || strings.ContainsAny(t, ",\n") {
			return fmt.Errorf("%w: topic %q", ErrInvalidRecord, t)
		}
	}
	return nil
}

// Line renders the record as "username|sessions:topic1,topic2".
func (r SessionRecord) Line() string {
	return r.Username + "|" + sessionsTag + strings.Join(r.Topics, ",")
}

// Validate checks that the record can be written as a single line.
func (r QuizRecord) Validate() error {
	if err := checkField("username", r.Username); err != nil {
		return err
	}
	if r.Topic == "" || strings.ContainsAny(r.Topic, ":|\n") {
		return fmt.Errorf("%w: topic %q", ErrInvalidRecord, r.Topic)
	}
	if r.Score < 0 || r.Total < 0 || r.Score > r.Total {
		return fmt.Errorf("%w: score %d/%d", ErrInvalidRecord, r.Score, r.Total)
	}
	return nil
}

// Line renders the record as "username|topic:score/total:difficulty".
func (r QuizRecord) Line() string {
	return fmt.Sprintf("%s|%s:%d/%d:%s", r.Username, r.Topic, r.Score, r.Total, r.Difficulty)
}

// ScoreText renders the score as "score/total".
func (r QuizRecord) ScoreText() string {
	return fmt.Sprintf("%d/%d", r.Score, r.Total)
}

// ParseSessionLine parses a topics history line.
func ParseSessionLine(line string) (SessionRecord, error) {
	user, rest, ok := strings.Cut(line, "|")
	if !ok || user == "" || !strings.HasPrefix(rest, sessionsTag) {
		return SessionRecord{}, fmt.Errorf("%w: %q", ErrInvalidRecord, line)
	}

	rec := SessionRecord{Username: user}
	for _, t := range strings.Split(strings.TrimPrefix(rest, sessionsTag), ",") {
		if t = strings.TrimSpace(t); t != "" {
			rec.Topics = append(rec.Topics, t)
		}
	}
	return rec, nil
}

// ParseQuizLine parses a quiz progress line. Lines written by older versions
// may lack the difficulty or carry a non-numeric score; the score is then
// kept as zero of zero rather than rejecting the line.
func ParseQuizLine(line string) (QuizRecord, error) {
	user, rest, ok := strings.Cut(line, "|")
	if !ok || user == "" || strings.HasPrefix(rest, sessionsTag) {
		return QuizRecord{}, fmt.Errorf("%w: %q", ErrInvalidRecord, line)
	}

	parts := strings.SplitN(rest, ":", 3)
	rec := QuizRecord{Username: user, Topic: parts[0]}
	if rec.Topic == "" {
		return QuizRecord{}, fmt.Errorf("%w: %q", ErrInvalidRecord, line)
	}
	if len(parts) > 1 {
		if s, tot, ok := strings.Cut(parts[1], "/"); ok {
			rec.Score, _ = strconv.Atoi(s)
			rec.Total, _ = strconv.Atoi(tot)
		}
	}
	if len(parts) > 2 {
		rec.Difficulty = parts[2]
	}
	return rec, nil
}

func checkField(name, v string) error {
	if strings.TrimSpace(v) == "" {
		return fmt.Errorf("%w: %s is required", ErrInvalidRecord, name)
	}
	if strings.ContainsAny(v, "|\n") {
		return fmt.Errorf("%w: %s %q contains a reserved character", ErrInvalidRecord, name, v)
	}
	return nil
}
