// Package curriculum serves study content from the data directory: whole
// topic files, labelled sections within them, and quiz banks.
package curriculum

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// Loader loads and caches topic content from the filesystem.
type Loader struct {
	rootDir string
	topics  map[string]Topic
	banks   map[string]QuizBank
	mu      sync.RWMutex
}

// NewLoader creates a loader rooted at the data directory and loads every
// topic and quiz bank under <rootDir>/topics.
func NewLoader(rootDir string) (*Loader, error) {
	l := &Loader{
		rootDir: rootDir,
		topics:  make(map[string]Topic),
		banks:   make(map[string]QuizBank),
	}

	if err := l.loadAll(); err != nil {
		return nil, fmt.Errorf("loading curriculum: %w", err)
	}

	slog.Info("curriculum loaded", "topics", len(l.topics), "quiz_banks", len(l.banks))
	return l, nil
}

// RootDir returns the data directory the loader reads from.
func (l *Loader) RootDir() string {
	return l.rootDir
}

// GetTopic returns a topic by ID.
func (l *Loader) GetTopic(id string) (Topic, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	t, ok := l.topics[id]
	return t, ok
}

// Content returns the full text of a topic, or Placeholder when there is none.
func (l *Loader) Content(id string) string {
	t, ok := l.GetTopic(id)
	if !ok {
		return Placeholder
	}
	return t.Content
}

// Section returns the body under the heading label in a topic, falling back
// to the usual introductory headings. Empty when nothing matches.
func (l *Loader) Section(id, label string) string {
	t, ok := l.GetTopic(id)
	if !ok {
		return ""
	}
	return ExtractSection(t.Content, label)
}

// GetQuizBank returns the quiz bank for a topic.
func (l *Loader) GetQuizBank(id string) (QuizBank, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	b, ok := l.banks[id]
	return b, ok
}

// TopicIDs returns all loaded topic ids, sorted.
func (l *Loader) TopicIDs() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	ids := make([]string, 0, len(l.topics))
	for id := range l.topics {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (l *Loader) loadAll() error {
	return filepath.Walk(filepath.Join(l.rootDir, topicsDir), func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return nil
		}

		name := info.Name()
		switch {
		case strings.HasSuffix(name, quizBankSuffix):
			return l.loadQuizBank(path, strings.TrimSuffix(name, quizBankSuffix))
		case strings.HasSuffix(name, topicExt):
			return l.loadTopic(path, strings.TrimSuffix(name, topicExt))
		}
		return nil
	})
}

func (l *Loader) loadTopic(path, id string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	l.mu.Lock()
	l.topics[id] = Topic{ID: id, Path: path, Content: string(data)}
	l.mu.Unlock()

	return nil
}

func (l *Loader) loadQuizBank(path, id string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	l.mu.Lock()
	l.banks[id] = QuizBank{TopicID: id, Path: path, Text: string(data)}
	l.mu.Unlock()

	return nil
}
