package history

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

const (
	profileFile      = "profile.txt"
	legacyFile       = "progress.txt"
	quizFile         = "quiz_progress.txt"
	topicsFile       = "topics_history.txt"
	migratedSuffix   = ".migrated"
	quizFileHeader   = "# Quiz progress file\n# Format: username|topic:score/total:difficulty\n"
	topicsFileHeader = "# Topics history file\n# Format: username|sessions:topic1,topic2,...\n"
	profileDefaults  = "username:guest\nquizzes_taken:0\n"
)

// FileStore keeps history as append-only text files in a user directory.
type FileStore struct {
	dir string
	mu  sync.Mutex
}

// NewFileStore prepares dir (creating it and its files if needed, and
// migrating a legacy progress.txt) and returns a store writing there.
func NewFileStore(dir string) (*FileStore, error) {
	s := &FileStore{dir: dir}
	if err := s.ensureFiles(); err != nil {
		return nil, fmt.Errorf("preparing history files: %w", err)
	}
	return s, nil
}

// Dir returns the directory the store writes to.
func (s *FileStore) Dir() string {
	return s.dir
}

func (s *FileStore) AppendSession(_ context.Context, rec SessionRecord) error {
	if err := rec.Validate(); err != nil {
		return err
	}
	return s.appendLines(topicsFile, rec.Line())
}

func (s *FileStore) AppendQuiz(_ context.Context, rec QuizRecord) error {
	if err := rec.Validate(); err != nil {
		return err
	}
	return s.appendLines(quizFile, rec.Line())
}

func (s *FileStore) QuizResults(_ context.Context, username string) ([]QuizRecord, error) {
	var out []QuizRecord
	err := s.scanUser(quizFile, username, func(line string) {
		rec, err := ParseQuizLine(line)
		if err != nil {
			return
		}
		out = append(out, rec)
	})
	return out, err
}

func (s *FileStore) StudiedTopics(_ context.Context, username string) ([]string, error) {
	var topics []string
	err := s.scanUser(topicsFile, username, func(line string) {
		rec, err := ParseSessionLine(line)
		if err != nil {
			return
		}
		topics = append(topics, rec.Topics...)
	})
	return uniqueSorted(topics), err
}

func (s *FileStore) appendLines(name string, lines ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.dir, name)
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	for _, line := range lines {
		if _, err := f.WriteString(line + "\n"); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
	}
	return nil
}

// scanUser calls fn for each line of the file that belongs to username.
// A missing file has no lines.
func (s *FileStore) scanUser(name, username string, fn func(line string)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.Open(filepath.Join(s.dir, name))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("opening %s: %w", name, err)
	}
	defer f.Close()

	prefix := username + "|"
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSuffix(sc.Text(), "\r")
		if strings.HasPrefix(line, prefix) {
			fn(line)
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("reading %s: %w", name, err)
	}
	return nil
}

func (s *FileStore) ensureFiles() error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return err
	}
	if err := writeIfMissing(filepath.Join(s.dir, profileFile), profileDefaults); err != nil {
		return err
	}
	if err := s.migrateLegacy(); err != nil {
		return err
	}
	if err := writeIfMissing(filepath.Join(s.dir, quizFile), quizFileHeader); err != nil {
		return err
	}
	return writeIfMissing(filepath.Join(s.dir, topicsFile), topicsFileHeader)
}

// migrateLegacy splits the old combined progress.txt into the quiz and
// topics files, then renames it so it is only migrated once.
func (s *FileStore) migrateLegacy() error {
	path := filepath.Join(s.dir, legacyFile)
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading legacy progress: %w", err)
	}

	var quizLines, topicLines []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSuffix(line, "\r")
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		user, rest, ok := strings.Cut(line, "|")
		if !ok {
			continue
		}
		if strings.HasPrefix(rest, sessionsTag) {
			topicLines = append(topicLines, line)
			continue
		}
		for _, quiz := range strings.Split(rest, ",") {
			if quiz != "" {
				quizLines = append(quizLines, user+"|"+quiz)
			}
		}
	}

	// Seed headers first so migrated lines follow them.
	if err := writeIfMissing(filepath.Join(s.dir, quizFile), quizFileHeader); err != nil {
		return err
	}
	if err := writeIfMissing(filepath.Join(s.dir, topicsFile), topicsFileHeader); err != nil {
		return err
	}
	if len(quizLines) > 0 {
		if err := s.appendLines(quizFile, quizLines...); err != nil {
			return err
		}
	}
	if len(topicLines) > 0 {
		if err := s.appendLines(topicsFile, topicLines...); err != nil {
			return err
		}
	}

	if err := os.Rename(path, path+migratedSuffix); err != nil {
		return fmt.Errorf("renaming legacy progress: %w", err)
	}
	slog.Info("legacy progress migrated",
		"quiz_lines", len(quizLines),
		"session_lines", len(topicLines),
	)
	return nil
}

func writeIfMissing(path, content string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if errors.Is(err, os.ErrExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()
	if _, err := f.WriteString(content); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
