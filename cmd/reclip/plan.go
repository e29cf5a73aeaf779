package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/kmcq/reclip/internal/config"
	"github.com/kmcq/reclip/internal/engine"
	"github.com/kmcq/reclip/internal/planner"
	"github.com/kmcq/reclip/internal/scene"
)

var planCmd = &cobra.Command{
	Use:   "plan <file>",
	Short: "Print the clip plan for a source file without running it",
	Args:  cobra.ExactArgs(1),
	Run:   runPlan,
}

func init() {
	f := planCmd.Flags()
	f.Float64("length", 0, "Clip length in seconds")
	f.Float64("overlap", -1, "Overlap fraction [0, 1)")
	f.Bool("scenes", false, "Snap clip starts to detected scene boundaries")
	f.Float64("threshold", 0, "Scene score threshold (0, 1]")
	f.String("out", "", "Output directory")

	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, args []string) {
	cfg, err := loadConfig()
	if err != nil {
		exitConfig(err)
	}
	f := cmd.Flags()
	if v, _ := f.GetFloat64("length"); f.Changed("length") {
		cfg.Planner.ClipLengthSec = v
	}
	if v, _ := f.GetFloat64("overlap"); f.Changed("overlap") {
		cfg.Planner.Overlap = v
	}
	if v, _ := f.GetBool("scenes"); f.Changed("scenes") {
		cfg.Planner.SceneDetection = v
	}
	if v, _ := f.GetFloat64("threshold"); f.Changed("threshold") {
		cfg.Planner.SceneThreshold = v
	}
	if v, _ := f.GetString("out"); f.Changed("out") {
		cfg.Output.Dir = v
	}
	if errs := cfg.Validate(); len(errs) > 0 {
		exitConfig(&config.ConfigError{Path: configPath, Errors: errs})
	}
	transforms, err := cfg.TransformSet()
	if err != nil {
		exitConfig(err)
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

	detector := scene.NewDetector(eng, nil, cfg.Planner.SceneThreshold, log)
	descs, err := planner.Plan(ctx, asset, detector, planner.Config{
		ClipLength:        cfg.ClipLength(),
		OverlapFraction:   cfg.Planner.Overlap,
		UseSceneDetection: cfg.Planner.SceneDetection,
		SnapTolerance:     cfg.SnapTolerance(),
		OutputDir:         cfg.Output.Dir,
		Transforms:        transforms,
	})
	if err != nil {
		exitConfig(err)
	}

	if jsonOutput {
		printJSON(descs)
		return
	}

	fmt.Printf("Plan for %s (%s):\n\n", asset.Path, asset.Duration.Round(0))
	fmt.Printf("  # │ %-12s │ %-12s │ %-7s │ %s\n", "START", "END", "SNAPPED", "OUTPUT")
	fmt.Println("────┼──────────────┼──────────────┼─────────┼─────────")
	for i, d := range descs {
		snapped := ""
		if d.Snapped {
			snapped = "yes"
		}
		fmt.Printf(" %2d │ %-12s │ %-12s │ %-7s │ %s\n",
			i+1, d.Start.Round(0), d.End.Round(0), snapped, filepath.Base(d.Output))
	}
	fmt.Printf("\n%d clips planned\n", len(descs))
}
