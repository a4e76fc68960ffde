package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/vytor/phishdefense/internal/api"
	"github.com/vytor/phishdefense/internal/db"
	"github.com/vytor/phishdefense/internal/leaderboard"
	"github.com/vytor/phishdefense/internal/logger"
	"github.com/vytor/phishdefense/internal/repository/sqlite"
	"github.com/vytor/phishdefense/internal/services"
	"golang.org/x/sync/errgroup"
)

var serveAddr string

const sweepInterval = time.Minute

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the web quiz",
	Long: `Serves the quiz over HTTP. Every browser gets its own round, keyed by a
session cookie; finished rounds go to the shared leaderboard in the database.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	if serveAddr != "" {
		cfg.Addr = serveAddr
	}
	log := setupLogger(os.Stderr, true)

	log.Info("===========================================")
	log.Info("Phishing Defense Server Starting")
	log.Info("===========================================")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("round_seconds=%d round_size=%d", cfg.RoundSeconds, cfg.RoundSize)
	log.Debug("history_limit=%d history_key=%s", cfg.HistoryLimit, cfg.HistoryKey)
	log.Debug("session_ttl=%s", cfg.SessionTTL())

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	database, err := db.Open(logger.NewContext(ctx, log), cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		log.Debug("closing database connection")
		database.Close()
	}()

	cat, err := loadCatalog()
	if err != nil {
		return err
	}
	log.Info("catalog loaded: base=%d advanced=%d", len(cat.Base), len(cat.Advanced))

	tmpl, err := api.LoadTemplates()
	if err != nil {
		return fmt.Errorf("failed to load templates: %w", err)
	}

	book := leaderboard.NewBook(ctx, sqlite.NewHistoryRepository(database.DB, cfg.HistoryKey), cfg.HistoryLimit)
	sessions := services.NewSessionService(services.SessionConfig{
		Catalog:      cat,
		History:      book,
		RoundSize:    cfg.RoundSize,
		RoundSeconds: cfg.RoundSeconds,
		TTL:          cfg.SessionTTL(),
	})
	defer sessions.Close()

	srv := &api.Server{
		DB:                 database,
		Sessions:           sessions,
		Leaderboard:        services.NewLeaderboardService(book),
		Templates:          tmpl,
		LeaderboardDisplay: cfg.LeaderboardDisplay,
		RoundSize:          cfg.RoundSize,
		RoundSeconds:       cfg.RoundSeconds,
		ShareURL:           cfg.ShareURL,
		SessionTTL:         cfg.SessionTTL(),
	}

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("initiating graceful shutdown")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		log.Debug("shutting down HTTP server")
		return httpServer.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		ticker := time.NewTicker(sweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case now := <-ticker.C:
				if n := sessions.Sweep(now); n > 0 {
					log.Debug("evicted %d idle sessions, %d active", n, sessions.Len())
				}
			}
		}
	})

	err = g.Wait()

	log.Info("===========================================")
	log.Info("Phishing Defense Server Stopped")
	log.Info("===========================================")
	return err
}
