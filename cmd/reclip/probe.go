package main

import (
	"context"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/kmcq/reclip/internal/engine"
)

var probeCmd = &cobra.Command{
	Use:   "probe <file>",
	Short: "Print probed source asset info",
	Args:  cobra.ExactArgs(1),
	Run:   runProbe,
}

func init() {
	rootCmd.AddCommand(probeCmd)
}

func runProbe(cmd *cobra.Command, args []string) {
	cfg, err := loadConfig()
	if err != nil {
		exitConfig(err)
	}
	log := newLogger(effectiveLogLevel(cfg))
	eng, err := engine.New(log)
	if err != nil {
		exitConfig(err)
	}

	asset, err := engine.ProbeAsset(context.Background(), eng, args[0])
	if err != nil {
		exitConfig(err)
	}

	if jsonOutput {
		printJSON(asset)
		return
	}

	audio := "no"
	if asset.HasAudio {
		audio = "yes"
	}
	fmt.Printf("Path:       %s\n", asset.Path)
	fmt.Printf("Duration:   %s\n", asset.Duration.Round(0))
	fmt.Printf("Resolution: %dx%d\n", asset.Width, asset.Height)
	fmt.Printf("FPS:        %.2f\n", asset.FPS)
	fmt.Printf("Audio:      %s\n", audio)
	fmt.Printf("Size:       %s\n", humanize.Bytes(uint64(asset.Size)))
}
