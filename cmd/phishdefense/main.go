package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/vytor/phishdefense/internal/catalog"
	"github.com/vytor/phishdefense/internal/config"
	"github.com/vytor/phishdefense/internal/logger"
)

var (
	// Global flags
	dbPath   string
	logLevel string

	cfg config.Config
)

var rootCmd = &cobra.Command{
	Use:   "phishdefense",
	Short: "Phishing Defense - a timed phishing awareness quiz",
	Long: `Phishing Defense shows short messages, links and notices and asks whether
each one is a phishing attempt or legitimate. A round has a fixed time budget
and the best scores are kept on a local leaderboard.

Run "phishdefense serve" for the web version or "phishdefense play" to play
in the terminal.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg = config.Load()
		if cmd.Flags().Changed("db") {
			cfg.DBPath = dbPath
		}
		if cmd.Flags().Changed("log-level") {
			cfg.LogLevel = logLevel
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "SQLite database path (overrides DB_PATH)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: DEBUG, INFO, WARN, ERROR (overrides LOG_LEVEL)")

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (overrides ADDR)")

	playCmd.Flags().BoolVar(&playHard, "hard", false, "Start with hard mode enabled")
	playCmd.Flags().BoolVar(&playEphemeral, "ephemeral", false, "Keep scores in memory only")
	playCmd.Flags().StringVar(&playLogFile, "log-file", "", "Write logs to this file instead of discarding them")

	scoresCmd.Flags().IntVar(&scoresLimit, "limit", 0, "Number of scores to show (default LEADERBOARD_DISPLAY)")

	catalogCmd.Flags().BoolVar(&catalogHard, "hard", false, "Include the advanced scenarios")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(catalogCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setupLogger installs the process-wide logger writing to out.
func setupLogger(out io.Writer, colors bool) *logger.Logger {
	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(colors),
		logger.WithOutput(out),
	)
	logger.SetDefault(log)
	return log
}

func loadCatalog() (*catalog.Catalog, error) {
	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	return cat, nil
}
