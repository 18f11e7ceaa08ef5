package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/nhle/mailgroom/internal/groom"
	"github.com/nhle/mailgroom/internal/model"
	"github.com/nhle/mailgroom/internal/store"
)

var (
	// Global flags.
	configPath string
	verbose    bool

	// Loaded on startup.
	cfg    *model.AppConfig
	logger *log.Logger
)

// rootCmd represents the base command.
var rootCmd = &cobra.Command{
	Use:   "mailgroom",
	Short: "Clean the recipient lists of outgoing email",
	Long: `mailgroom normalizes and cleans the To/Cc/Bcc lists of an outgoing
message by running a configurable, ordered sequence of steps:
sort, dedupe, validate, prioritizeInternal, removeExternal, flagExt.

Lists come from flags, a JSON payload on stdin, or a draft in the
configured IMAP account. Every run leaves a per-step audit trail.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: false,
		})
		if verbose {
			logger.SetLevel(log.DebugLevel)
		} else {
			logger.SetLevel(log.WarnLevel)
		}

		if configPath == "" {
			configPath = model.DefaultConfigPath()
		}

		var err error
		cfg, err = model.LoadConfig(configPath)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&configPath, "config", "", "config file (default ~/.config/mailgroom/config.yaml)",
	)
	rootCmd.PersistentFlags().BoolVarP(
		&verbose, "verbose", "v", false, "enable debug logging",
	)

	rootCmd.AddCommand(cleanCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(draftsCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(accountCmd)
}

// newService builds the groom service, opening the history store when
// enabled. The returned closer is a no-op when history is off.
func newService() (*groom.Service, func(), error) {
	var history store.Store
	closer := func() {}

	if cfg.History.Enabled {
		s, err := store.NewSQLiteStore(cfg.History.DBPath)
		if err != nil {
			// History is best-effort; a broken database must not block
			// a clean.
			logger.Warn("opening history store failed", "err", err)
		} else {
			history = s
			closer = func() { _ = s.Close() }
		}
	}

	return groom.NewService(cfg, history, logger), closer, nil
}

// openHistory opens the history store for the read-side commands, which
// do require it.
func openHistory() (store.Store, error) {
	if !cfg.History.Enabled {
		return nil, fmt.Errorf("run history is disabled in config")
	}
	s, err := store.NewSQLiteStore(cfg.History.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening history store: %w", err)
	}
	return s, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
