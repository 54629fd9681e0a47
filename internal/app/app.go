// Package app assembles the study assistant from configuration: the
// lexicon, the curriculum, the history backend, the quiz engine and the
// dialogue dispatcher.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/p-n-ai/studybot/internal/curriculum"
	"github.com/p-n-ai/studybot/internal/dialogue"
	"github.com/p-n-ai/studybot/internal/history"
	"github.com/p-n-ai/studybot/internal/nlp"
	"github.com/p-n-ai/studybot/internal/platform/cache"
	"github.com/p-n-ai/studybot/internal/platform/config"
	"github.com/p-n-ai/studybot/internal/platform/database"
	"github.com/p-n-ai/studybot/internal/quiz"
)

// App holds the wired components. DB and Cache are nil unless the selected
// history backend needs them.
type App struct {
	Config     *config.Config
	Logger     *slog.Logger
	Curriculum *curriculum.Loader
	History    history.Store
	Quiz       *quiz.Engine
	Events     dialogue.EventLogger
	Dispatcher *dialogue.Dispatcher
	DB         *database.DB
	Cache      *cache.Cache
}

// New validates cfg and builds every component. Call Close when done.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	a := &App{Config: cfg, Logger: logger}

	lex := nlp.Default()
	if cfg.LexiconPath != "" {
		var err error
		if lex, err = nlp.LoadFile(cfg.LexiconPath); err != nil {
			return nil, fmt.Errorf("loading lexicon: %w", err)
		}
		logger.Info("lexicon loaded", "path", cfg.LexiconPath)
	}

	loader, err := curriculum.NewLoader(cfg.DataPath)
	if err != nil {
		return nil, err
	}
	a.Curriculum = loader

	if err := a.openHistory(ctx); err != nil {
		a.Close()
		return nil, err
	}

	a.Quiz = quiz.NewEngine(loader, a.History, cfg.TestMode)

	a.Events = dialogue.NopEventLogger{}
	if a.DB != nil {
		a.Events = dialogue.NewPostgresEventLogger(a.DB.Pool)
	}

	a.Dispatcher, err = dialogue.New(dialogue.Config{
		Lexicon: lex,
		Content: loader,
		Quiz:    a.Quiz,
		History: a.History,
		Events:  a.Events,
		Logger:  logger,
	})
	if err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

func (a *App) openHistory(ctx context.Context) error {
	cfg := a.Config
	switch cfg.History.Backend {
	case config.BackendMemory:
		a.History = history.NewMemoryStore()

	case config.BackendRedis:
		c, err := cache.New(ctx, cfg.Cache)
		if err != nil {
			return fmt.Errorf("connecting to cache: %w", err)
		}
		a.Cache = c
		a.History = history.NewRedisStore(c.Client, c.Key("history"))

	case config.BackendPostgres:
		db, err := database.New(ctx, cfg.Database)
		if err != nil {
			return fmt.Errorf("connecting to database: %w", err)
		}
		a.DB = db
		if err := db.Migrate(ctx); err != nil {
			return err
		}
		store, err := history.NewPostgresStore(db.Pool)
		if err != nil {
			return err
		}
		a.History = store

	default:
		store, err := history.NewFileStore(cfg.UserDir())
		if err != nil {
			return fmt.Errorf("opening history: %w", err)
		}
		a.History = store
	}

	a.Logger.Info("history backend ready", "backend", cfg.History.Backend)
	return nil
}

// HealthCheck pings the external stores in use.
func (a *App) HealthCheck(ctx context.Context) error {
	if a.DB != nil {
		if err := a.DB.HealthCheck(ctx); err != nil {
			return fmt.Errorf("database: %w", err)
		}
	}
	if a.Cache != nil {
		if err := a.Cache.HealthCheck(ctx); err != nil {
			return fmt.Errorf("cache: %w", err)
		}
	}
	return nil
}

// Close releases the external connections.
func (a *App) Close() {
	if a.DB != nil {
		a.DB.Close()
	}
	if a.Cache != nil {
		if err := a.Cache.Close(); err != nil {
			a.Logger.Warn("closing cache", "error", err)
		}
	}
}
