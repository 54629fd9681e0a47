package history

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

const dbTimeout = 5 * time.Second

// PostgresStore is a PostgreSQL-backed Store. It expects the tables created
// by database.Migrate.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a PostgreSQL-backed history store.
func NewPostgresStore(pool *pgxpool.Pool) (*PostgresStore, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool is nil")
	}
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) AppendSession(ctx context.Context, rec SessionRecord) error {
	if err := rec.Validate(); err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	if _, err := s.pool.Exec(ctx,
		`INSERT INTO session_history (username, topics, created_at) VALUES ($1, $2, $3)`,
		rec.Username, rec.Topics, createdAt,
	); err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

func (s *PostgresStore) AppendQuiz(ctx context.Context, rec QuizRecord) error {
	if err := rec.Validate(); err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	if _, err := s.pool.Exec(ctx,
		`INSERT INTO quiz_progress (username, topic, score, total, difficulty, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		rec.Username, rec.Topic, rec.Score, rec.Total, rec.Difficulty, createdAt,
	); err != nil {
		return fmt.Errorf("insert quiz result: %w", err)
	}
	return nil
}

func (s *PostgresStore) QuizResults(ctx context.Context, username string) ([]QuizRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	rows, err := s.pool.Query(ctx,
		`SELECT topic, score, total, difficulty, created_at
		 FROM quiz_progress
		 WHERE username = $1
		 ORDER BY created_at ASC, id ASC`,
		username,
	)
	if err != nil {
		return nil, fmt.Errorf("query quiz results: %w", err)
	}
	defer rows.Close()

	var out []QuizRecord
	for rows.Next() {
		rec := QuizRecord{Username: username}
		if err := rows.Scan(&rec.Topic, &rec.Score, &rec.Total, &rec.Difficulty, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan quiz result: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate quiz results: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) StudiedTopics(ctx context.Context, username string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	rows, err := s.pool.Query(ctx,
		`SELECT DISTINCT t
		 FROM session_history, unnest(topics) AS t
		 WHERE username = $1
		 ORDER BY t`,
		username,
	)
	if err != nil {
		return nil, fmt.Errorf("query studied topics: %w", err)
	}
	defer rows.Close()

	topics := []string{}
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, fmt.Errorf("scan topic: %w", err)
		}
		topics = append(topics, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate topics: %w", err)
	}
	return topics, nil
}
