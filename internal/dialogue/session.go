// Package dialogue runs the turn-by-turn conversation: it classifies each
// line, keeps the topic context of a session, and routes the turn to the
// content, quiz, comparison or FAQ handling.
package dialogue

import (
	"github.com/google/uuid"

	"github.com/p-n-ai/studybot/internal/nlp"
)

// Session is the topic context of one conversation. It is owned by a single
// dispatcher loop and is not safe for concurrent use.
type Session struct {
	id     string
	stack  []string
	topics []string
}

// NewSession creates an empty session with a random id.
func NewSession() *Session {
	return &Session{id: uuid.NewString()}
}

// ID identifies the session in logs.
func (s *Session) ID() string {
	return s.id
}

// Current returns the most recently discussed topic, or nlp.Unknown.
func (s *Session) Current() string {
	if len(s.stack) == 0 {
		return nlp.Unknown
	}
	return s.stack[len(s.stack)-1]
}

// PushIfNew pushes topic unless it is already on top, and records it in the
// session topic list the first time it is seen. The unknown topic is ignored.
func (s *Session) PushIfNew(topic string) {
	if topic == "" || topic == nlp.Unknown {
		return
	}
	if s.Current() == topic {
		return
	}
	s.stack = append(s.stack, topic)
	for _, t := range s.topics {
		if t == topic {
			return
		}
	}
	s.topics = append(s.topics, topic)
}

// Clear empties the context stack and the session topic list.
func (s *Session) Clear() {
	s.stack = nil
	s.topics = nil
}

// Topics returns every topic touched this session, in first-seen order.
func (s *Session) Topics() []string {
	return append([]string(nil), s.topics...)
}

// Stack returns the context stack, bottom first.
func (s *Session) Stack() []string {
	return append([]string(nil), s.stack...)
}

// Depth is the number of entries on the context stack.
func (s *Session) Depth() int {
	return len(s.stack)
}
