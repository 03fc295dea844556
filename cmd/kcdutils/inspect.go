package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jchantrell/kcdutils/internal/kcd"
	"github.com/jchantrell/kcdutils/internal/raf"
	"github.com/jchantrell/kcdutils/internal/recording"
	"github.com/jchantrell/kcdutils/internal/utils"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect FILE...",
	Short: "Show the decoded content of HDR, KCD or RAF files",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, path := range args {
			var err error
			switch strings.ToLower(filepath.Ext(path)) {
			case ".hdr":
				err = inspectHeader(path)
			case ".kcd":
				err = inspectKCD(path)
			case ".raf":
				err = inspectRAF(path)
			default:
				err = fmt.Errorf("unsupported file type: %s", path)
			}
			if err != nil {
				return err
			}
		}
		return nil
	},
}

func inspectHeader(path string) error {
	report, err := recording.InspectHeader(path)
	if err != nil {
		return err
	}

	idx := report.Index
	fmt.Printf("%s\n", path)
	fmt.Printf("  magic:    % x\n", idx.Magic)
	fmt.Printf("  declared: %d records\n", idx.Count)
	fmt.Printf("  decoded:  %d records\n", len(idx.Records))
	if report.Dropped > 0 {
		fmt.Printf("  dropped:  %d records\n", report.Dropped)
	}
	for i, rec := range idx.Records {
		fmt.Printf("  %4d  %s\n", i+1, rec.Path)
	}
	return nil
}

func inspectKCD(path string) error {
	ref, err := kcd.NewScanner(cfg.BufferSize).ReadReference(path)
	if err != nil {
		return err
	}

	fmt.Printf("%s\n", path)
	fmt.Printf("  marker offset:    %d\n", ref.MarkerOffset)
	fmt.Printf("  reference offset: %d\n", ref.FieldOffset)
	fmt.Printf("  HDR reference:    %s\n", ref.Path)
	return nil
}

func inspectRAF(path string) error {
	info, err := raf.Inspect(path)
	if err != nil {
		return err
	}

	fmt.Printf("%s\n", path)
	fmt.Printf("  size:     %s\n", utils.Bytes(info.Size))
	fmt.Printf("  KCD path: %s\n", info.KCDPath)
	return nil
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}
