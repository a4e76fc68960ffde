package main

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"github.com/vytor/phishdefense/internal/db"
	"github.com/vytor/phishdefense/internal/leaderboard"
	"github.com/vytor/phishdefense/internal/logger"
	"github.com/vytor/phishdefense/internal/models"
	"github.com/vytor/phishdefense/internal/repository/sqlite"
)

var scoresLimit int

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Print the leaderboard",
	RunE:  runScores,
}

func runScores(cmd *cobra.Command, args []string) error {
	log := setupLogger(os.Stderr, true)

	database, err := db.Open(logger.NewContext(cmd.Context(), log), cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()

	book := leaderboard.NewBook(cmd.Context(), sqlite.NewHistoryRepository(database.DB, cfg.HistoryKey), cfg.HistoryLimit)

	limit := scoresLimit
	if limit <= 0 {
		limit = cfg.LeaderboardDisplay
	}
	top := leaderboard.Top(book.Records(), limit)
	log.Debug("printing %d of %d scores", len(top), len(book.Records()))

	return printScores(cmd.OutOrStdout(), top)
}

func printScores(w io.Writer, records []models.ScoreRecord) error {
	if len(records) == 0 {
		_, err := fmt.Fprintln(w, "No rounds played yet.")
		return err
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("#", "SCORE", "MODE", "WHEN")
	for i, r := range records {
		t.Row(
			strconv.Itoa(i+1),
			fmt.Sprintf("%d/%d", r.Score, r.Total),
			r.ModeLabel(),
			r.When.Local().Format("2006-01-02 15:04"),
		)
	}
	_, err := fmt.Fprintln(w, t.Render())
	return err
}
