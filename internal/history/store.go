package history

import (
	"context"
	"sort"
	"sync"
	"time"
)

// Store persists session and quiz history. Writes are append-only; there is
// no update or delete.
type Store interface {
	AppendSession(ctx context.Context, rec SessionRecord) error
	AppendQuiz(ctx context.Context, rec QuizRecord) error
	// QuizResults returns a user's quiz records, oldest first.
	QuizResults(ctx context.Context, username string) ([]QuizRecord, error)
	// StudiedTopics returns the distinct topics from a user's sessions, sorted.
	StudiedTopics(ctx context.Context, username string) ([]string, error)
}

// MemoryStore is an in-memory implementation of Store.
type MemoryStore struct {
	sessions []SessionRecord
	quizzes  []QuizRecord
	mu       sync.RWMutex
}

// NewMemoryStore creates a new in-memory history store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) AppendSession(_ context.Context, rec SessionRecord) error {
	if err := rec.Validate(); err != nil {
		return err
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	rec.Topics = append([]string(nil), rec.Topics...)

	s.mu.Lock()
	s.sessions = append(s.sessions, rec)
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) AppendQuiz(_ context.Context, rec QuizRecord) error {
	if err := rec.Validate(); err != nil {
		return err
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}

	s.mu.Lock()
	s.quizzes = append(s.quizzes, rec)
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) QuizResults(_ context.Context, username string) ([]QuizRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []QuizRecord
	for _, q := range s.quizzes {
		if q.Username == username {
			out = append(out, q)
		}
	}
	return out, nil
}

func (s *MemoryStore) StudiedTopics(_ context.Context, username string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var topics []string
	for _, rec := range s.sessions {
		if rec.Username == username {
			topics = append(topics, rec.Topics...)
		}
	}
	return uniqueSorted(topics), nil
}

// Sessions returns every stored session record.
func (s *MemoryStore) Sessions() []SessionRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]SessionRecord{}, s.sessions...)
}

func uniqueSorted(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, v := range in {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	sort.Strings(out)
	return out
}
