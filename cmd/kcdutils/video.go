package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/jchantrell/kcdutils/internal/journal"
	"github.com/jchantrell/kcdutils/internal/recording"
	"github.com/jchantrell/kcdutils/internal/relocate"
	"github.com/jchantrell/kcdutils/internal/utils"
)

var videoCmd = &cobra.Command{
	Use:   "video",
	Short: "Move or copy videos based on source and target HDR files",
	Long: `Video pairs the clips of the source HDR with those of the target HDR by position
and copies or moves each clip from the source HDR's folder to the target HDR's
folder under its new name. The first failure stops the batch.

In move mode a clip whose destination already exists is skipped, so a batch can
be rerun safely.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		started := time.Now()

		src, _ := cmd.Flags().GetString("src")
		dst, _ := cmd.Flags().GetString("dst")

		mode, err := resolveMode(cmd)
		if err != nil {
			return err
		}

		res, err := recording.MoveVideos(context.Background(), src, dst, relocate.Strict, recordingOptions(mode, cfg.PolicyValue()))
		entry := journal.Entry{
			StartedAt: started,
			Command:   "video",
			Input:     src,
			Target:    dst,
			Output:    filepath.Dir(dst),
			Mode:      mode.String(),
		}
		if res != nil {
			entry.Items = res.Attempted
		}
		recordOperation(entry, err)
		if err != nil {
			return err
		}

		printRelocation(res, time.Since(started))
		fmt.Printf("Videos were renamed and %sd in: %s\n", strings.ToLower(mode.String()), filepath.Dir(dst))
		return nil
	},
}

func printRelocation(res *relocate.Result, elapsed time.Duration) {
	if res == nil {
		return
	}
	fmt.Printf("Videos attempted: %s\n", utils.Number(res.Attempted))
	if res.Copied > 0 {
		fmt.Printf("Copied: %s\n", utils.Number(res.Copied))
	}
	if res.Moved > 0 {
		fmt.Printf("Moved: %s\n", utils.Number(res.Moved))
	}
	if res.Skipped > 0 {
		fmt.Printf("Skipped (destination exists): %s\n", utils.Number(res.Skipped))
	}
	if len(res.Failures) > 0 {
		fmt.Printf("Failed: %d\n", len(res.Failures))
	}
	fmt.Printf("Duration: %s\n", utils.Duration(elapsed))
}

func init() {
	rootCmd.AddCommand(videoCmd)
	videoCmd.Flags().StringP("src", "s", "", "source HDR file, placed in the video folder")
	videoCmd.Flags().StringP("dst", "d", "", "target HDR file, placed in the destination folder")
	addModeFlag(videoCmd, "copy or move the videos")
	videoCmd.MarkFlagRequired("src")
	videoCmd.MarkFlagRequired("dst")
}
