package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jchantrell/kcdutils/internal/journal"
	"github.com/jchantrell/kcdutils/internal/recording"
)

var cloneCmd = &cobra.Command{
	Use:   "clone",
	Short: "Clone a KCD file and its videos under a new label",
	Long: `Clone takes <dir>/<tag>.kcd with its videos in <dir>/<tag>/ and produces
<dir>/<label>.kcd, <dir>/<label>/<label>.hdr and the videos in <dir>/<label>/.

The KCD is always copied. Videos are copied or moved according to --mode; a
failing video does not stop the others and every failure is reported.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		started := time.Now()

		input, _ := cmd.Flags().GetString("input")
		label, _ := cmd.Flags().GetString("label")

		mode, err := resolveMode(cmd)
		if err != nil {
			return err
		}
		policy, err := resolvePolicy(cmd)
		if err != nil {
			return err
		}

		res, err := recording.Clone(context.Background(), input, label, recordingOptions(mode, policy))
		entry := journal.Entry{
			StartedAt: started,
			Command:   "clone",
			Input:     input,
			Target:    label,
			Mode:      mode.String(),
		}
		if res != nil {
			entry.Output = res.KCD
			if res.Relocation != nil {
				entry.Items = res.Relocation.Attempted
			}
		}
		recordOperation(entry, err)

		if res != nil {
			printRelocation(res.Relocation, time.Since(started))
		}
		if err != nil {
			return err
		}

		fmt.Printf("New KCD file was saved as: %s\n", res.KCD)
		fmt.Printf("New HDR file was saved as: %s\n", res.HDR)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cloneCmd)
	cloneCmd.Flags().StringP("input", "i", "", "input KCD file")
	cloneCmd.Flags().StringP("label", "l", "", "label for the cloned KCD, HDR and video files")
	addModeFlag(cloneCmd, "copy or move the videos")
	addPolicyFlag(cloneCmd)
	cloneCmd.MarkFlagRequired("input")
	cloneCmd.MarkFlagRequired("label")
}
