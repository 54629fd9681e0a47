package history

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const defaultKeyPrefix = "studybot:history"

// RedisStore keeps each user's history as two Redis lists of record lines.
type RedisStore struct {
	client redis.Cmdable
	prefix string
}

// NewRedisStore creates a Redis-backed store. An empty prefix uses the default.
func NewRedisStore(client redis.Cmdable, prefix string) *RedisStore {
	if prefix == "" {
		prefix = defaultKeyPrefix
	}
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) AppendSession(ctx context.Context, rec SessionRecord) error {
	if err := rec.Validate(); err != nil {
		return err
	}
	if err := s.client.RPush(ctx, s.sessionsKey(rec.Username), rec.Line()).Err(); err != nil {
		return fmt.Errorf("append session: %w", err)
	}
	return nil
}

func (s *RedisStore) AppendQuiz(ctx context.Context, rec QuizRecord) error {
	if err := rec.Validate(); err != nil {
		return err
	}
	if err := s.client.RPush(ctx, s.quizKey(rec.Username), rec.Line()).Err(); err != nil {
		return fmt.Errorf("append quiz: %w", err)
	}
	return nil
}

func (s *RedisStore) QuizResults(ctx context.Context, username string) ([]QuizRecord, error) {
	lines, err := s.client.LRange(ctx, s.quizKey(username), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("read quiz results: %w", err)
	}

	out := make([]QuizRecord, 0, len(lines))
	for _, line := range lines {
		rec, err := ParseQuizLine(line)
		if err != nil {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

func (s *RedisStore) StudiedTopics(ctx context.Context, username string) ([]string, error) {
	lines, err := s.client.LRange(ctx, s.sessionsKey(username), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("read sessions: %w", err)
	}

	var topics []string
	for _, line := range lines {
		rec, err := ParseSessionLine(line)
		if err != nil {
			continue
		}
		topics = append(topics, rec.Topics...)
	}
	return uniqueSorted(topics), nil
}

func (s *RedisStore) sessionsKey(username string) string {
	return s.prefix + ":" + username + ":sessions"
}

func (s *RedisStore) quizKey(username string) string {
	return s.prefix + ":" + username + ":quiz"
}
