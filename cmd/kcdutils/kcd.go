package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jchantrell/kcdutils/internal/journal"
	"github.com/jchantrell/kcdutils/internal/recording"
)

var kcdCmd = &cobra.Command{
	Use:   "kcd",
	Short: "Link a KCD file to an HDR file",
	Long: `Kcd writes a copy of the input KCD whose embedded HDR reference points at the
given HDR file. Only the 256-byte reference field changes; the output has the
same length as the input. In move mode the input is removed afterwards.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		started := time.Now()

		input, _ := cmd.Flags().GetString("input")
		source, _ := cmd.Flags().GetString("source")
		output, _ := cmd.Flags().GetString("output")

		mode, err := resolveMode(cmd)
		if err != nil {
			return err
		}

		out, err := recording.LinkKCD(input, source, output, recordingOptions(mode, cfg.PolicyValue()))
		recordOperation(journal.Entry{
			StartedAt: started,
			Command:   "kcd",
			Input:     input,
			Target:    source,
			Output:    out,
			Mode:      mode.String(),
		}, err)
		if err != nil {
			return err
		}

		fmt.Printf("New KCD file was saved as: %s\n", out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(kcdCmd)
	kcdCmd.Flags().StringP("input", "i", "", "input KCD file")
	kcdCmd.Flags().StringP("source", "s", "", "HDR file the new KCD should reference")
	kcdCmd.Flags().StringP("output", "o", "", "output path (default <input>.kcd.modify)")
	addModeFlag(kcdCmd, "keep or remove the input KCD")
	kcdCmd.MarkFlagRequired("input")
	kcdCmd.MarkFlagRequired("source")
}
