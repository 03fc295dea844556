package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jchantrell/kcdutils/internal/recording"
	"github.com/jchantrell/kcdutils/internal/utils"
)

var scanCmd = &cobra.Command{
	Use:   "scan [DIR]",
	Short: "List KCD recordings under a directory",
	Long: `Scan walks DIR (default the current directory) and lists every KCD file with
its size, whether its companion <stem>/<stem>.hdr exists and how many video
records that HDR holds.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root := "."
		if len(args) == 1 {
			root = args[0]
		}

		recs, err := recording.Discover(root)
		if err != nil {
			return err
		}

		if len(recs) == 0 {
			fmt.Println("No KCD files found")
			return nil
		}

		for _, rec := range recs {
			switch {
			case !rec.HasHDR:
				fmt.Printf("%-60s %10s  no HDR\n", rec.KCD, utils.Bytes(rec.Size))
			case rec.Err != nil:
				fmt.Printf("%-60s %10s  HDR unreadable: %v\n", rec.KCD, utils.Bytes(rec.Size), rec.Err)
			case rec.Dropped > 0:
				fmt.Printf("%-60s %10s  %d videos (%d dropped)\n", rec.KCD, utils.Bytes(rec.Size), rec.Records, rec.Dropped)
			default:
				fmt.Printf("%-60s %10s  %d videos\n", rec.KCD, utils.Bytes(rec.Size), rec.Records)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(scanCmd)
}
