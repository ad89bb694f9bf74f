package main

import (
	"fmt"
	"io"
	"os"
	_ "time/tzdata"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/printdesk/versions/internal/config"
	"github.com/printdesk/versions/internal/metrics"
	"github.com/printdesk/versions/internal/versioning"
)

// Build-time variables set via ldflags.
var (
	commit    = ""
	buildDate = ""
)

var (
	svc          *versioning.Service
	flagFmt      string
	flagConfig   string
	flagProfile  string
	flagLogLevel string
	flagMetrics  bool
)

func versionString() string {
	if commit != "" && buildDate != "" {
		return fmt.Sprintf("versionctl version %s (commit: %s, built: %s)", config.Version, commit, buildDate)
	}
	return fmt.Sprintf("versionctl version %s", config.Version)
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "versionctl",
		Short:   "versionctl: version history and diffs for orders, customers and artwork",
		Version: versionString(),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setup(cmd.ErrOrStderr())
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if !flagMetrics {
				return nil
			}
			return metrics.WriteText(cmd.ErrOrStderr(), prometheus.DefaultGatherer)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.SetVersionTemplate("{{.Version}}\n")

	rootCmd.PersistentFlags().StringVar(&flagFmt, "format", "json", "Output format: json|table|quiet")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file (default ~/.versionctl/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&flagProfile, "profile", "", "Config file profile (env: VERSIONCTL_PROFILE)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level (env: LOG_LEVEL)")
	rootCmd.PersistentFlags().BoolVar(&flagMetrics, "metrics", false, "Print versioning metrics to stderr after the command")

	rootCmd.AddCommand(newCreateCmd())
	rootCmd.AddCommand(newDiffCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newFormatTimestampCmd())

	return rootCmd
}

// setup resolves configuration and builds the shared service.
// Flag takes precedence, then env, then config file.
func setup(logOut io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if err := applyConfigFile(cfg, configPath()); err != nil {
		return err
	}

	if flagLogLevel != "" {
		cfg.LogLevel = flagLogLevel
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}

	switch flagFmt {
	case formatJSONName, formatTableName, formatQuietName:
	default:
		return fmt.Errorf("--format must be json, table or quiet, got %q", flagFmt)
	}

	svc = versioning.NewService(cfg, newLogger(cfg.LogLevel, logOut), nil)

	return nil
}

func newLogger(level string, out io.Writer) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(out)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	log.SetLevel(lvl)

	return log
}
