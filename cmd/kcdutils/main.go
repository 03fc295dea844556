package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"

	"github.com/jchantrell/kcdutils/internal/config"
)

var (
	cfg     *config.Config
	cfgFile string

	logLevel   string
	logFormat  string
	noProgress bool
	noJournal  bool
)

var rootCmd = &cobra.Command{
	Use:   "kcdutils",
	Short: "Rename, relink and clone KCD recording sets",
	Long: `kcdutils manages the multi-file recordings written by the acquisition device:
a KCD data file, its HDR index of video clips and an optional RAF session file.

Each file embeds the path of another, so renaming one by hand breaks the set.
kcdutils rewrites the embedded references byte for byte and moves the clips
so the device's reader still opens the result.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		if cmd.Flags().Changed("log-level") {
			cfg.LogLevel = logLevel
		}
		if cmd.Flags().Changed("log-format") {
			cfg.LogFormat = logFormat
		}
		if cmd.Flags().Changed("no-progress") {
			cfg.NoProgress = noProgress
		}
		if cmd.Flags().Changed("no-journal") {
			cfg.Journal = !noJournal
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid flags: %w", err)
		}

		var level slog.Level
		switch cfg.LogLevel {
		case "debug":
			level = slog.LevelDebug
		case "info":
			level = slog.LevelInfo
		case "warn":
			level = slog.LevelWarn
		case "error":
			level = slog.LevelError
		default:
			level = slog.LevelInfo
		}

		var handler slog.Handler
		if cfg.LogFormat == "json" {
			handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
				Level: level,
			})
		} else {
			handler = tint.NewHandler(os.Stderr, &tint.Options{
				Level: level,
			})
		}

		slog.SetDefault(slog.New(handler))

		slog.Debug("Configuration",
			"mode", cfg.Mode,
			"rename_policy", cfg.RenamePolicy,
			"default_extension", cfg.DefaultExtension,
			"buffer_size", cfg.BufferSize,
			"workers", cfg.Workers,
			"journal", cfg.Journal,
			"journal_path", cfg.JournalPath,
			"log_level", cfg.LogLevel,
			"log_format", cfg.LogFormat)

		return nil
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is kcdutils.yaml in $HOME or pwd)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format (text, json)")
	rootCmd.PersistentFlags().BoolVar(&noProgress, "no-progress", false, "disable progress bar")
	rootCmd.PersistentFlags().BoolVar(&noJournal, "no-journal", false, "do not record the operation in the history journal")
}
