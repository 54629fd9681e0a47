// Command studybot is the interactive terminal study assistant.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/p-n-ai/studybot/internal/app"
	"github.com/p-n-ai/studybot/internal/chat"
	"github.com/p-n-ai/studybot/internal/dialogue"
	"github.com/p-n-ai/studybot/internal/platform/config"
	"github.com/p-n-ai/studybot/internal/platform/logging"
)

// flags override the matching STUDYBOT_ environment variables when set.
type flags struct {
	testMode bool
	noColor  bool
	data     string
	lexicon  string
	backend  string
	logLevel string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	if err := newRootCmd(os.Stdin, os.Stdout, os.Stderr).ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(in io.Reader, out, errOut io.Writer) *cobra.Command {
	var f flags

	cmd := &cobra.Command{
		Use:   "studybot",
		Short: "Chat-based study assistant for data structures and algorithms",
		Long: `studybot answers questions about data structures and algorithms topics:
definitions, details, examples, pseudocode, short comparisons and quizzes.

Type 'exit' or 'bye' to leave; you will be offered to save the topics you studied.`,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			f.apply(cmd, cfg)
			return run(cmd.Context(), cfg, in, out, errOut)
		},
	}
	cmd.SetOut(out)
	cmd.SetErr(errOut)

	fl := cmd.Flags()
	fl.BoolVar(&f.testMode, "test-mode", false, "no typing effect, no prompts, silent difficulty selection")
	fl.BoolVar(&f.noColor, "no-color", false, "disable colored output")
	fl.StringVar(&f.data, "data", "", "data directory holding topics/ and user/")
	fl.StringVar(&f.lexicon, "lexicon", "", "YAML file replacing the built-in keyword tables")
	fl.StringVar(&f.backend, "history", "", "history backend: file, memory, redis or postgres")
	fl.StringVar(&f.logLevel, "log-level", "", "log level: debug, info, warn or error")
	return cmd
}

func (f flags) apply(cmd *cobra.Command, cfg *config.Config) {
	fl := cmd.Flags()
	if fl.Changed("test-mode") {
		cfg.TestMode = f.testMode
	}
	if f.noColor {
		cfg.Presenter.Color = false
	}
	if fl.Changed("data") {
		cfg.DataPath = f.data
	}
	if fl.Changed("lexicon") {
		cfg.LexiconPath = f.lexicon
	}
	if fl.Changed("history") {
		cfg.History.Backend = f.backend
	}
	if fl.Changed("log-level") {
		cfg.Log.Level = f.logLevel
	}
}

func run(ctx context.Context, cfg *config.Config, in io.Reader, out, errOut io.Writer) error {
	logger := logging.New(cfg.Log, errOut)
	// Packages that log through slog's top-level functions follow the
	// configured level and writer too.
	slog.SetDefault(logger)

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("startup failed", "error", err)
		return err
	}
	defer a.Close()

	term := chat.NewTerminal(out, chat.TerminalOptions{
		TypingDelay: cfg.Presenter.TypingDelay,
		PacingLimit: cfg.Presenter.PacingLimit,
		Color:       cfg.Presenter.Color,
		Quiet:       cfg.TestMode,
	})

	reader := chat.NewLineReader(in)
	defer reader.Close()

	conv := dialogue.Conversation{
		Session: dialogue.NewSession(),
		In:      reader,
		Out:     term,
	}
	if err := a.Dispatcher.Run(ctx, conv); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		logger.Error("conversation failed", "error", err)
		return err
	}
	return nil
}
