package chat

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
)

// Terminal pacing defaults.
const (
	DefaultTypingDelay = 4 * time.Millisecond
	DefaultPacingLimit = 1500
)

// TerminalOptions configures a Terminal presenter.
type TerminalOptions struct {
	// TypingDelay is the pause after each character of a paced message.
	TypingDelay time.Duration
	// PacingLimit is the longest message, in characters, that is paced.
	PacingLimit int
	Color       bool
	// Quiet disables pacing and suppresses prompts. Used in test mode.
	Quiet bool
}

// Terminal writes bot output to a terminal, typing messages out one
// character at a time.
type Terminal struct {
	w      io.Writer
	opts   TerminalOptions
	bot    *lipgloss.Style
	prompt *lipgloss.Style
	sleep  func(time.Duration)
	mu     sync.Mutex
}

// NewTerminal creates a terminal presenter writing to w.
func NewTerminal(w io.Writer, opts TerminalOptions) *Terminal {
	if opts.PacingLimit <= 0 {
		opts.PacingLimit = DefaultPacingLimit
	}
	t := &Terminal{w: w, opts: opts, sleep: time.Sleep}
	if opts.Color {
		r := lipgloss.NewRenderer(w)
		bot := r.NewStyle().Foreground(lipgloss.Color("14")).TabWidth(lipgloss.NoTabConversion)
		prompt := r.NewStyle().Foreground(lipgloss.Color("11")).Bold(true).TabWidth(lipgloss.NoTabConversion)
		t.bot, t.prompt = &bot, &prompt
	}
	return t
}

// SetSleep replaces the pause function used between characters.
func (t *Terminal) SetSleep(fn func(time.Duration)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sleep = fn
}

func (t *Terminal) Say(ctx context.Context, text string) error {
	if !t.paced(text) {
		return t.Print(ctx, text)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	for i, r := range text {
		if ctx.Err() != nil {
			// Cancelled mid-message: flush the rest at once.
			return t.writeLines(text[i:], t.bot, true)
		}
		if err := t.write(string(r), t.bot); err != nil {
			return err
		}
		t.sleep(t.opts.TypingDelay)
	}
	_, err := io.WriteString(t.w, "\n")
	return err
}

func (t *Terminal) Print(_ context.Context, text string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.writeLines(text, t.bot, true)
}

func (t *Terminal) Prompt(_ context.Context, text string) error {
	if t.opts.Quiet {
		return nil
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.writeLines(text, t.prompt, false)
}

func (t *Terminal) paced(text string) bool {
	return !t.opts.Quiet &&
		t.opts.TypingDelay > 0 &&
		utf8.RuneCountInString(text) <= t.opts.PacingLimit
}

// writeLines styles each line on its own so multi-line text is not padded
// to a common width.
func (t *Terminal) writeLines(text string, style *lipgloss.Style, newline bool) error {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if err := t.write(line, style); err != nil {
			return err
		}
		if i < len(lines)-1 || newline {
			if _, err := io.WriteString(t.w, "\n"); err != nil {
				return err
			}
		}
	}
	return nil
}

func (t *Terminal) write(s string, style *lipgloss.Style) error {
	if style != nil && s != "" && s != "\n" {
		s = style.Render(s)
	}
	if _, err := io.WriteString(t.w, s); err != nil {
		return fmt.Errorf("writing to terminal: %w", err)
	}
	return nil
}
