package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jchantrell/kcdutils/internal/journal"
	"github.com/jchantrell/kcdutils/internal/recording"
)

var hdrCmd = &cobra.Command{
	Use:   "hdr",
	Short: "Relabel an HDR file as <label>.hdr in the same folder",
	Long: `Hdr rewrites every clip path in the input HDR with the label and saves the
result as <label>.hdr next to the input. The segment policy replaces the folder
part of each path; the sequential policy renames clips <label>1.<ext>, <label>2.<ext>, ...`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		started := time.Now()

		input, _ := cmd.Flags().GetString("input")
		label, _ := cmd.Flags().GetString("label")

		policy, err := resolvePolicy(cmd)
		if err != nil {
			return err
		}

		out, err := recording.RelabelHeader(input, label, recordingOptions(cfg.ModeValue(), policy))
		recordOperation(journal.Entry{
			StartedAt: started,
			Command:   "hdr",
			Input:     input,
			Target:    label,
			Output:    out,
			Mode:      policy.String(),
		}, err)
		if err != nil {
			return err
		}

		fmt.Printf("New HDR file was saved as: %s\n", out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(hdrCmd)
	hdrCmd.Flags().StringP("input", "i", "", "input HDR file")
	hdrCmd.Flags().StringP("label", "l", "", "label for the new HDR file (at most 120 characters)")
	addPolicyFlag(hdrCmd)
	hdrCmd.MarkFlagRequired("input")
	hdrCmd.MarkFlagRequired("label")
}
