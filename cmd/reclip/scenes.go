package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kmcq/reclip/internal/engine"
	"github.com/kmcq/reclip/internal/scene"
)

var scenesCmd = &cobra.Command{
	Use:   "scenes <file>",
	Short: "Print detected scene boundaries",
	Args:  cobra.ExactArgs(1),
	Run:   runScenes,
}

func init() {
	scenesCmd.Flags().Float64("threshold", 0, "Scene score threshold (0, 1]")
	rootCmd.AddCommand(scenesCmd)
}

func runScenes(cmd *cobra.Command, args []string) {
	cfg, err := loadConfig()
	if err != nil {
		exitConfig(err)
	}
	if v, _ := cmd.Flags().GetFloat64("threshold"); cmd.Flags().Changed("threshold") {
		cfg.Planner.SceneThreshold = v
	}

	log := newLogger(effectiveLogLevel(cfg))
	eng, err := engine.New(log)
	if err != nil {
		exitConfig(err)
	}

	ctx := context.Background()
	asset, err := engine.ProbeAsset(ctx, eng, args[0])
	if err != nil {
		exitConfig(err)
	}

	var cache *scene.Cache
	if !cfg.Cache.Disabled {
		if c, err := scene.OpenCache(cfg.Cache.Path); err == nil {
			cache = c
			defer func() { _ = cache.Close() }()
		}
	}

	detector := scene.NewDetector(eng, cache, cfg.Planner.SceneThreshold, log)
	boundaries, err := detector.Boundaries(ctx, asset)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}

	if jsonOutput {
		secs := make([]float64, len(boundaries))
		for i, b := range boundaries {
			secs[i] = b.Seconds()
		}
		printJSON(secs)
		return
	}

	if len(boundaries) == 0 {
		fmt.Println("No scene changes detected")
		return
	}
	fmt.Printf("%d scene boundaries (threshold %g):\n", len(boundaries), cfg.Planner.SceneThreshold)
	for _, b := range boundaries {
		fmt.Printf("  %s\n", b.Round(0))
	}
}
