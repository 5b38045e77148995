package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matheuskafuri/newsletter/internal/output"
	"github.com/matheuskafuri/newsletter/internal/update"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	flagConfig string
	flagLang   string
	flagSecret string
)

var rootCmd = &cobra.Command{
	Use:   "newsletter",
	Short: "Terminal client for the bilingual newsletter",
	Long: `newsletter reads and manages the articles and subscribers of the es/en
newsletter site through its HTTP API.

Running it without a command opens the terminal browser.

Example usage:
  newsletter articles list --q go     # Search published articles
  newsletter --lang en browse         # Browse the English edition
  newsletter subscribe ana@example.com
  newsletter --secret ... subscribers count`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup(cmd)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd, false)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&flagLang, "lang", "", "content language (es or en), overrides the config")
	rootCmd.PersistentFlags().StringVar(&flagSecret, "secret", "", "admin secret (default $NEWSLETTER_ADMIN_SECRET)")

	versionCmd.Flags().BoolVar(&flagVersionCheck, "check", false, "check GitHub for a newer release")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(browseCmd)
	rootCmd.AddCommand(themeCmd)
}

var flagVersionCheck bool

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	RunE: func(cmd *cobra.Command, args []string) error {
		p := env.printer
		p.Print("newsletter %s (commit: %s, built: %s)", version, commit, date)
		if !flagVersionCheck {
			return nil
		}
		if res := update.NewChecker().Check(cmd.Context(), version); res != nil {
			p.Info("Update available: v%s", res.LatestVersion)
		} else {
			p.Print("%s", p.Dim("No newer release found."))
		}
		return nil
	},
}

// Execute runs the CLI and exits non-zero on failure.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		output.NewPrinter(os.Stdout, os.Stderr, output.ColorsEnabled()).FormatError(err)
		stop()
		os.Exit(1)
	}
}

func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
}

func parseLogLevel(raw string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "warn", "warning":
		return slog.LevelWarn, nil
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unsupported level %q", raw)
	}
}
