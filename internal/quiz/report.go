package quiz

import (
	"context"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/p-n-ai/studybot/internal/history"
)

// Report sheet names.
const (
	ProgressSheet = "Progress"
	TopicsSheet   = "Topics"
)

// WriteReport writes a user's progress to w as an XLSX workbook with a
// Progress sheet of quiz results and a Topics sheet of studied topics.
func WriteReport(w io.Writer, username string, results []history.QuizRecord, topics []string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", ProgressSheet); err != nil {
		return fmt.Errorf("naming progress sheet: %w", err)
	}
	if err := f.SetSheetRow(ProgressSheet, "A1", &[]any{"Entry", "Topic", "Difficulty", "Score", "Total"}); err != nil {
		return fmt.Errorf("writing progress header: %w", err)
	}
	for i, r := range results {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []any{i + 1, r.Topic, r.Difficulty, r.Score, r.Total}
		if err := f.SetSheetRow(ProgressSheet, cell, &row); err != nil {
			return fmt.Errorf("writing progress row %d: %w", i+1, err)
		}
	}

	if _, err := f.NewSheet(TopicsSheet); err != nil {
		return fmt.Errorf("creating topics sheet: %w", err)
	}
	if err := f.SetCellValue(TopicsSheet, "A1", "Topics studied by "+username); err != nil {
		return fmt.Errorf("writing topics header: %w", err)
	}
	for i, t := range topics {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(TopicsSheet, cell, t); err != nil {
			return fmt.Errorf("writing topic %q: %w", t, err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

// Report writes the XLSX progress report for username from the engine's
// history store.
func (e *Engine) Report(ctx context.Context, username string, w io.Writer) error {
	results, err := e.history.QuizResults(ctx, username)
	if err != nil {
		return fmt.Errorf("reading quiz results: %w", err)
	}
	topics, err := e.history.StudiedTopics(ctx, username)
	if err != nil {
		return fmt.Errorf("reading studied topics: %w", err)
	}
	return WriteReport(w, username, results, topics)
}
