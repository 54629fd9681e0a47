// Package chat provides the input sources and presenters a study session
// talks through: a terminal, a websocket, or scripted test doubles.
package chat

import (
	"bufio"
	"context"
	"io"
	"strings"
	"sync"
)

// Input yields one user line at a time. ReadLine returns io.EOF once the
// source is exhausted.
type Input interface {
	ReadLine(ctx context.Context) (string, error)
}

// Presenter renders bot output.
type Presenter interface {
	// Say writes a bot message, paced where the presenter supports it.
	Say(ctx context.Context, text string) error
	// Print writes a message immediately.
	Print(ctx context.Context, text string) error
	// Prompt asks for input without a trailing newline.
	Prompt(ctx context.Context, text string) error
}

// LineReader reads newline-terminated lines from an io.Reader. Reads happen
// on a background goroutine so ReadLine can honour context cancellation; a
// line read while nobody waits is kept for the next ReadLine. Close stops
// the goroutine.
type LineReader struct {
	r         io.Reader
	once      sync.Once
	closeOnce sync.Once
	lines     chan lineResult
	done      chan struct{}
}

type lineResult struct {
	line string
	err  error
}

// NewLineReader creates a line reader over r.
func NewLineReader(r io.Reader) *LineReader {
	return &LineReader{r: r, lines: make(chan lineResult), done: make(chan struct{})}
}

// ReadLine returns io.EOF once the reader is exhausted or closed.
func (l *LineReader) ReadLine(ctx context.Context) (string, error) {
	select {
	case <-l.done:
		return "", io.EOF
	default:
	}
	l.once.Do(func() { go l.scan() })

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case <-l.done:
		return "", io.EOF
	case res, ok := <-l.lines:
		if !ok {
			return "", io.EOF
		}
		return res.line, res.err
	}
}

// Close releases the background goroutine once its pending read returns.
// The underlying reader is not closed.
func (l *LineReader) Close() error {
	l.closeOnce.Do(func() { close(l.done) })
	return nil
}

func (l *LineReader) scan() {
	defer close(l.lines)

	sc := bufio.NewScanner(l.r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		if !l.send(lineResult{line: strings.TrimSuffix(sc.Text(), "\r")}) {
			return
		}
	}
	if err := sc.Err(); err != nil {
		l.send(lineResult{err: err})
	}
}

func (l *LineReader) send(res lineResult) bool {
	select {
	case l.lines <- res:
		return true
	case <-l.done:
		return false
	}
}

var affirmatives = []string{"yes", "y", "sure", "yep"}

// Ask shows a prompt and reads the reply, trimmed.
func Ask(ctx context.Context, in Input, out Presenter, prompt string) (string, error) {
	if err := out.Prompt(ctx, prompt); err != nil {
		return "", err
	}
	line, err := in.ReadLine(ctx)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// Affirmative reports whether a reply means yes.
func Affirmative(reply string) bool {
	reply = strings.ToLower(strings.TrimSpace(reply))
	for _, a := range affirmatives {
		if reply == a {
			return true
		}
	}
	return false
}
