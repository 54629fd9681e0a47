package quiz

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/p-n-ai/studybot/internal/chat"
	"github.com/p-n-ai/studybot/internal/curriculum"
	"github.com/p-n-ai/studybot/internal/history"
)

const separator = "==================================="

// BankSource looks up the raw quiz bank of a topic.
type BankSource interface {
	GetQuizBank(id string) (curriculum.QuizBank, bool)
}

// Result is the outcome of one quiz.
type Result struct {
	Topic      string
	Difficulty Difficulty
	Score      int
	Total      int
	// Exited is set when the user left before the last question.
	Exited bool
}

// Engine runs quizzes and reports progress.
type Engine struct {
	banks    BankSource
	history  history.Store
	testMode bool
}

// NewEngine creates a quiz engine. In test mode the difficulty menu is not
// shown and an invalid choice silently means Easy.
func NewEngine(banks BankSource, store history.Store, testMode bool) *Engine {
	return &Engine{banks: banks, history: store, testMode: testMode}
}

// RunQuiz asks for a difficulty, runs the quiz and offers to save the result.
// Only input and context errors are returned.
func (e *Engine) RunQuiz(ctx context.Context, topic string, in chat.Input, out chat.Presenter) error {
	d, err := e.SelectDifficulty(ctx, in, out)
	if err != nil {
		return err
	}

	res, err := e.Play(ctx, topic, d, in, out)
	if err != nil {
		return err
	}

	reply, err := chat.Ask(ctx, in, out, "Would you like to save your progress? ")
	if err != nil {
		return err
	}
	if !chat.Affirmative(reply) {
		return nil
	}

	username, err := chat.Ask(ctx, in, out, "Enter your username: ")
	if err != nil {
		return err
	}
	if err := e.Save(ctx, username, res); err != nil {
		slog.Warn("saving quiz result failed", "topic", topic, "error", err)
		return out.Say(ctx, "Unable to save progress: "+err.Error())
	}
	return out.Say(ctx, "Progress saved successfully!")
}

// SelectDifficulty shows the difficulty menu and reads a choice.
func (e *Engine) SelectDifficulty(ctx context.Context, in chat.Input, out chat.Presenter) (Difficulty, error) {
	if e.testMode {
		line, err := in.ReadLine(ctx)
		if err != nil {
			return "", err
		}
		d, _ := ParseDifficulty(line)
		return d, nil
	}

	menu := "Select difficulty level:\n" +
		"1. EASY (basic questions)\n" +
		"2. MEDIUM (Intermediate complexity)\n" +
		"3. HARD (Advanced questions)"
	if err := out.Say(ctx, menu); err != nil {
		return "", err
	}

	choice, err := chat.Ask(ctx, in, out, "Enter choice (1-3): ")
	if err != nil {
		return "", err
	}
	d, ok := ParseDifficulty(choice)
	if !ok {
		if err := out.Say(ctx, "Invalid choice. Defaulting to EASY."); err != nil {
			return "", err
		}
	}
	return d, nil
}

// Play asks the questions for topic at difficulty d and prints the score.
func (e *Engine) Play(ctx context.Context, topic string, d Difficulty, in chat.Input, out chat.Presenter) (Result, error) {
	questions := e.Questions(topic, d)
	if len(questions) == 0 {
		if err := out.Say(ctx, "No quiz found. Loading default questions..."); err != nil {
			return Result{}, err
		}
		questions = DefaultQuestions()
	}

	res := Result{Topic: topic, Difficulty: d, Total: len(questions)}
	if err := out.Say(ctx, fmt.Sprintf("========== %s Quiz on %s ==========", d, topic)); err != nil {
		return res, err
	}

	for i, q := range questions {
		if err := out.Say(ctx, "Q"+strconv.Itoa(i+1)+": "+q.Prompt); err != nil {
			return res, err
		}
		answer, err := chat.Ask(ctx, in, out, "> ")
		if err != nil {
			return res, err
		}

		if IsExitWord(answer) {
			res.Exited = true
			if err := out.Say(ctx, "Exiting quiz early..."); err != nil {
				return res, err
			}
			break
		}

		if CheckAnswer(answer, q.Answer) {
			res.Score++
			err = out.Say(ctx, "Correct!")
		} else {
			err = out.Say(ctx, "Wrong! Correct answer: "+q.Answer)
		}
		if err != nil {
			return res, err
		}
	}

	slog.Info("quiz finished",
		"topic", topic,
		"difficulty", string(d),
		"score", res.Score,
		"total", res.Total,
		"exited", res.Exited,
	)
	err := out.Say(ctx, fmt.Sprintf("%s\nQuiz Score: %d / %d", separator, res.Score, res.Total))
	return res, err
}

// Questions returns the bank questions for topic at difficulty d. Empty when
// the topic has no bank or no questions at that level.
func (e *Engine) Questions(topic string, d Difficulty) []Question {
	if e.banks == nil {
		return nil
	}
	bank, ok := e.banks.GetQuizBank(topic)
	if !ok {
		return nil
	}
	return ParseBank(bank.Text, d)
}

// Save appends a quiz result to the user's history.
func (e *Engine) Save(ctx context.Context, username string, res Result) error {
	return e.history.AppendQuiz(ctx, history.QuizRecord{
		Username:   username,
		Topic:      res.Topic,
		Score:      res.Score,
		Total:      res.Total,
		Difficulty: string(res.Difficulty),
	})
}

// DisplayProgress prints a user's quiz results and the topics they studied.
func (e *Engine) DisplayProgress(ctx context.Context, username string, out chat.Presenter) error {
	results, err := e.history.QuizResults(ctx, username)
	if err != nil {
		slog.Warn("reading quiz results failed", "error", err)
		return out.Say(ctx, "Unable to read progress: "+err.Error())
	}
	topics, err := e.history.StudiedTopics(ctx, username)
	if err != nil {
		slog.Warn("reading studied topics failed", "error", err)
		return out.Say(ctx, "Unable to read progress: "+err.Error())
	}

	return out.Say(ctx, FormatProgress(username, results, topics))
}

// FormatProgress renders the progress report shown in chat.
func FormatProgress(username string, results []history.QuizRecord, topics []string) string {
	text := "========== Progress for " + username + " =========="
	if len(results) == 0 {
		text += "\nNo progress found for user: " + username
	} else {
		for i, r := range results {
			text += fmt.Sprintf("\nEntry %d: %s (%s) - Score: %s", i+1, r.Topic, r.Difficulty, r.ScoreText())
		}
		text += "\n" + separator
	}

	if len(topics) > 0 {
		text += "\n\nTopics studied by " + username + ":"
		for _, t := range topics {
			text += "\n - " + t
		}
	}
	return text
}
