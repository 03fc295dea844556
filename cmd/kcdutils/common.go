package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/jchantrell/kcdutils/internal/format"
	"github.com/jchantrell/kcdutils/internal/hdr"
	"github.com/jchantrell/kcdutils/internal/journal"
	"github.com/jchantrell/kcdutils/internal/recording"
	"github.com/jchantrell/kcdutils/internal/utils"
)

// resolveMode returns the --mode flag when set, otherwise the configured mode
func resolveMode(cmd *cobra.Command) (format.Mode, error) {
	if cmd.Flags().Changed("mode") {
		value, err := cmd.Flags().GetString("mode")
		if err != nil {
			return 0, err
		}
		return format.ParseMode(value)
	}
	return cfg.ModeValue(), nil
}

// resolvePolicy returns the --policy flag when set, otherwise the configured policy
func resolvePolicy(cmd *cobra.Command) (hdr.RenamePolicy, error) {
	if cmd.Flags().Changed("policy") {
		value, err := cmd.Flags().GetString("policy")
		if err != nil {
			return 0, err
		}
		return hdr.ParseRenamePolicy(value)
	}
	return cfg.PolicyValue(), nil
}

func progressEnabled() bool {
	return !(cfg.NoProgress || cfg.LogFormat == "json" || cfg.LogLevel == "debug")
}

func recordingOptions(mode format.Mode, policy hdr.RenamePolicy) recording.Options {
	return recording.Options{
		Mode:             mode,
		Policy:           policy,
		DefaultExtension: cfg.DefaultExtension,
		BufferSize:       cfg.BufferSize,
		Workers:          cfg.Workers,
		NewTracker: func(total int, description string) recording.Tracker {
			return utils.NewProgress(total, progressEnabled(), description)
		},
	}
}

// recordOperation appends entry to the journal. Journal failures are logged
// and never returned.
func recordOperation(entry journal.Entry, opErr error) {
	if !cfg.Journal {
		return
	}

	if opErr != nil {
		entry.Status = journal.StatusFailed
		entry.Error = opErr.Error()
	}
	if entry.FinishedAt.IsZero() {
		entry.FinishedAt = time.Now()
	}

	j, err := journal.Open(journal.DefaultOptions(cfg.JournalPath))
	if err != nil {
		slog.Warn("Failed to open journal", "path", cfg.JournalPath, "error", err)
		return
	}
	defer j.Close()

	if _, err := j.Record(context.Background(), entry); err != nil {
		slog.Warn("Failed to record operation", "command", entry.Command, "error", err)
	}
}

func addModeFlag(cmd *cobra.Command, usage string) {
	cmd.Flags().StringP("mode", "m", "copy", usage+" (copy, move)")
}

func addPolicyFlag(cmd *cobra.Command) {
	cmd.Flags().String("policy", "segment", "rename policy (segment: replace the folder name, sequential: regenerate <label>\\<label><n>.<ext>)")
}
