package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jchantrell/kcdutils/internal/journal"
	"github.com/jchantrell/kcdutils/internal/recording"
)

var rafCmd = &cobra.Command{
	Use:   "raf",
	Short: "Link a RAF session file to a KCD file",
	Long: `Raf writes <input>.raf.modify: the input's 574-byte header, the absolute path of
the KCD file in a 256-byte field, then the rest of the input.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		started := time.Now()

		input, _ := cmd.Flags().GetString("input")
		kcdPath, _ := cmd.Flags().GetString("kcd")

		out, err := recording.LinkRAF(input, kcdPath)
		recordOperation(journal.Entry{
			StartedAt: started,
			Command:   "raf",
			Input:     input,
			Target:    kcdPath,
			Output:    out,
		}, err)
		if err != nil {
			return err
		}

		fmt.Printf("New RAF file was saved as: %s\n", out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(rafCmd)
	rafCmd.Flags().StringP("input", "i", "", "input RAF file")
	rafCmd.Flags().StringP("kcd", "k", "", "KCD file to associate")
	rafCmd.MarkFlagRequired("input")
	rafCmd.MarkFlagRequired("kcd")
}
