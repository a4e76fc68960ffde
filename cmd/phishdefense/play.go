package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/vytor/phishdefense/internal/capability"
	"github.com/vytor/phishdefense/internal/db"
	"github.com/vytor/phishdefense/internal/leaderboard"
	"github.com/vytor/phishdefense/internal/logger"
	"github.com/vytor/phishdefense/internal/models"
	"github.com/vytor/phishdefense/internal/quiz"
	"github.com/vytor/phishdefense/internal/repository"
	"github.com/vytor/phishdefense/internal/repository/memory"
	"github.com/vytor/phishdefense/internal/repository/sqlite"
	"github.com/vytor/phishdefense/internal/tui"
	"github.com/vytor/phishdefense/internal/worker"
)

var (
	playHard      bool
	playEphemeral bool
	playLogFile   string
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play a round in the terminal",
	RunE:  runPlay,
}

func runPlay(cmd *cobra.Command, args []string) error {
	// The TUI owns the terminal, so logs go to a file or nowhere.
	var out io.Writer = io.Discard
	if playLogFile != "" {
		f, err := os.OpenFile(playLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		defer f.Close()
		out = f
	}
	log := setupLogger(out, false)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGTERM)
	defer stop()

	cat, err := loadCatalog()
	if err != nil {
		return err
	}

	repo, closeRepo := openHistory(ctx, log)
	defer closeRepo()
	book := leaderboard.NewBook(ctx, repo, cfg.HistoryLimit)

	pool := worker.NewPool(cfg.CapabilityWorkerCount, cfg.CapabilityQueueSize)
	pool.Start(ctx)
	defer pool.Stop()

	caps := capability.NewDispatcher(pool, capability.Set{
		Sharer:    capability.Unavailable{},
		Clipboard: capability.SystemClipboard{},
		Installer: capability.Unavailable{},
		Haptics:   &capability.Bell{Out: os.Stderr},
	})

	ctrl := quiz.NewController(cat, quiz.Options{
		History:      book,
		Haptics:      caps,
		RoundSize:    cfg.RoundSize,
		RoundSeconds: cfg.RoundSeconds,
		Logger:       log,
	})
	defer ctrl.Close()
	ctrl.OnFinish(func(r models.ScoreRecord) {
		log.Info("round recorded: score=%d/%d hard=%t", r.Score, r.Total, r.Hard)
	})

	model := tui.New(ctx, tui.Config{
		Controller:      ctrl,
		Capabilities:    caps,
		ShareURL:        cfg.ShareURL,
		LeaderboardSize: cfg.LeaderboardDisplay,
		Hard:            playHard,
	})

	if _, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("terminal ui: %w", err)
	}

	if best := leaderboard.Top(ctrl.History(), 1); len(best) == 1 {
		fmt.Printf("Best score: %d/%d (%s)\n", best[0].Score, best[0].Total, best[0].ModeLabel())
	}
	return nil
}

// openHistory opens the sqlite history, falling back to memory when the
// database is unavailable or --ephemeral is set.
func openHistory(ctx context.Context, log *logger.Logger) (repository.HistoryRepository, func()) {
	if playEphemeral {
		return memory.NewHistoryRepository(), func() {}
	}
	database, err := db.Open(logger.NewContext(ctx, log), cfg.DBPath)
	if err != nil {
		log.Warn("database unavailable, scores will not be kept: %v", err)
		return memory.NewHistoryRepository(), func() {}
	}
	return sqlite.NewHistoryRepository(database.DB, cfg.HistoryKey), func() { database.Close() }
}
