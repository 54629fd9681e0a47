package chat

import (
	"context"
	"io"
	"strings"
	"sync"
)

// ScriptedInput is a test double for Input that replays fixed lines.
type ScriptedInput struct {
	lines []string
	next  int
	mu    sync.Mutex
}

// NewScriptedInput creates an input that yields lines in order, then io.EOF.
func NewScriptedInput(lines ...string) *ScriptedInput {
	return &ScriptedInput{lines: lines}
}

func (s *ScriptedInput) ReadLine(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.next >= len(s.lines) {
		return "", io.EOF
	}
	line := s.lines[s.next]
	s.next++
	return line, nil
}

// Remaining returns the number of unread lines.
func (s *ScriptedInput) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.lines) - s.next
}

// Recorder is a test double for Presenter that keeps everything written.
type Recorder struct {
	messages []string
	prompts  []string
	mu       sync.Mutex
}

func (r *Recorder) Say(_ context.Context, text string) error {
	r.mu.Lock()
	r.messages = append(r.messages, text)
	r.mu.Unlock()
	return nil
}

func (r *Recorder) Print(ctx context.Context, text string) error {
	return r.Say(ctx, text)
}

func (r *Recorder) Prompt(_ context.Context, text string) error {
	r.mu.Lock()
	r.prompts = append(r.prompts, text)
	r.mu.Unlock()
	return nil
}

// Messages returns every Say and Print call, in order.
func (r *Recorder) Messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.messages...)
}

// Lines returns the recorded messages split into individual lines.
func (r *Recorder) Lines() []string {
	var out []string
	for _, m := range r.Messages() {
		out = append(out, strings.Split(m, "\n")...)
	}
	return out
}

// Prompts returns every prompt shown.
func (r *Recorder) Prompts() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.prompts...)
}

// Text returns all messages joined by newlines.
func (r *Recorder) Text() string {
	return strings.Join(r.Messages(), "\n")
}

// Contains reports whether any message contains substr.
func (r *Recorder) Contains(substr string) bool {
	return strings.Contains(r.Text(), substr)
}

// Reset discards everything recorded.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.messages, r.prompts = nil, nil
	r.mu.Unlock()
}
