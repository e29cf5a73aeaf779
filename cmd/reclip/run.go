package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/kmcq/reclip/internal/clip"
	"github.com/kmcq/reclip/internal/config"
	"github.com/kmcq/reclip/internal/dispatch"
	"github.com/kmcq/reclip/internal/engine"
	"github.com/kmcq/reclip/internal/executor"
	"github.com/kmcq/reclip/internal/planner"
	"github.com/kmcq/reclip/internal/scan"
	"github.com/kmcq/reclip/internal/scene"
	"github.com/kmcq/reclip/pkg/naming"
)

var runCmd = &cobra.Command{
	Use:   "run <file-or-folder>",
	Short: "Batch-clip a source file or every video in a folder",
	Args:  cobra.ExactArgs(1),
	Run:   runRun,
}

func init() {
	f := runCmd.Flags()
	f.String("out", "", "Output directory")
	f.Float64("length", 0, "Clip length in seconds")
	f.Float64("overlap", -1, "Overlap fraction [0, 1)")
	f.Bool("scenes", false, "Snap clip starts to detected scene boundaries")
	f.Float64("threshold", 0, "Scene score threshold (0, 1]")
	f.Int("workers", 0, "Worker pool size (0 = number of CPUs)")
	f.Int("retries", -1, "Retries per failed job")
	f.Bool("vertical", false, "Crop to 9:16 instead of scale-and-pad")
	f.Bool("mirror", false, "Mirror horizontally")
	f.Float64("speed", 0, "Constant speed multiplier")
	f.Bool("audio-only", false, "Extract audio instead of video clips")
	f.String("enhance", "", "Enhancement preset (mild, standard, aggressive)")
	f.String("preset", "", "Formatting preset (see 'reclip presets')")
	f.Bool("no-cache", false, "Disable the scene detection cache")

	rootCmd.AddCommand(runCmd)
}

// applyRunFlags layers explicit flags over the loaded config.
func applyRunFlags(cmd *cobra.Command, cfg *config.Config) {
	f := cmd.Flags()
	if v, _ := f.GetString("out"); f.Changed("out") {
		cfg.Output.Dir = v
	}
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
	if v, _ := f.GetInt("workers"); f.Changed("workers") {
		cfg.Dispatch.Workers = v
	}
	if v, _ := f.GetInt("retries"); f.Changed("retries") {
		cfg.Dispatch.Retries = v
	}
	if v, _ := f.GetBool("vertical"); f.Changed("vertical") {
		cfg.Transform.Vertical = v
	}
	if v, _ := f.GetBool("mirror"); f.Changed("mirror") {
		cfg.Transform.Mirror = v
	}
	if v, _ := f.GetFloat64("speed"); f.Changed("speed") {
		cfg.Transform.Speed = v
	}
	if v, _ := f.GetBool("audio-only"); f.Changed("audio-only") {
		cfg.Transform.AudioOnly = v
	}
	if v, _ := f.GetString("enhance"); f.Changed("enhance") {
		cfg.Transform.Enhance = v
	}
	if v, _ := f.GetString("preset"); f.Changed("preset") {
		cfg.Transform.Preset = v
	}
	if v, _ := f.GetBool("no-cache"); f.Changed("no-cache") {
		cfg.Cache.Disabled = v
	}
}

func runRun(cmd *cobra.Command, args []string) {
	cfg, err := loadConfig()
	if err != nil {
		exitConfig(err)
	}
	applyRunFlags(cmd, cfg)
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

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var cache *scene.Cache
	if !cfg.Cache.Disabled && cfg.Planner.SceneDetection {
		cache, err = scene.OpenCache(cfg.Cache.Path)
		if err != nil {
			log.Warn("scene cache unavailable, detection will not be reused", "error", err)
		} else {
			defer func() { _ = cache.Close() }()
		}
	}
	detector := scene.NewDetector(eng, cache, cfg.Planner.SceneThreshold, log)

	videos, err := scan.Videos(args[0])
	if err != nil {
		exitConfig(err)
	}
	if len(videos) == 0 {
		fmt.Println("No video files found")
		return
	}

	// Probe and plan every source up front; a source that cannot be
	// probed or planned fails on its own without blocking the others.
	var descriptors []clip.Descriptor
	var sourceErrors int
	usedStems := map[string]int{}
	for _, path := range videos {
		asset, err := engine.ProbeAsset(ctx, eng, path)
		if err != nil {
			sourceErrors++
			fmt.Printf("fail  %s: %v\n", path, err)
			continue
		}

		descs, err := planner.Plan(ctx, asset, detector, planner.Config{
			ClipLength:        cfg.ClipLength(),
			OverlapFraction:   cfg.Planner.Overlap,
			UseSceneDetection: cfg.Planner.SceneDetection,
			SnapTolerance:     cfg.SnapTolerance(),
			OutputDir:         cfg.Output.Dir,
			Stem:              uniqueStem(asset.Base(), usedStems),
			FirstIndex:        len(descriptors),
			Transforms:        transforms,
		})
		if err != nil {
			if errors.Is(err, clip.ErrConfiguration) {
				exitConfig(err)
			}
			sourceErrors++
			fmt.Printf("fail  %s: %v\n", path, err)
			continue
		}
		descriptors = append(descriptors, descs...)
	}

	fmt.Printf("Dispatching %d clips from %d sources (%d workers)\n\n",
		len(descriptors), len(videos)-sourceErrors, cfg.Dispatch.Workers)

	d := dispatch.New(executor.New(eng, log), log)
	report := d.Run(ctx, descriptors, dispatch.Options{
		Workers:    cfg.Dispatch.Workers,
		MaxRetries: cfg.Dispatch.Retries,
		Observer:   printJobLine,
	})

	printSummary(report)
	if jsonOutput {
		printJSON(reportJSON(report))
	}

	if !report.OK() || sourceErrors > 0 {
		os.Exit(1)
	}
}

// printJobLine renders one per-job status line as results complete.
func printJobLine(res clip.JobResult) {
	name := filepath.Base(res.Descriptor.Output)
	switch res.Status {
	case clip.StatusSucceeded:
		fmt.Printf("  ok    %-40s %8s  %s\n", name, humanize.Bytes(uint64(res.Size)), res.Elapsed.Round(10*time.Millisecond))
	case clip.StatusSkipped:
		fmt.Printf("  skip  %s\n", name)
	default:
		fmt.Printf("  fail  %-40s after %d attempt(s): %v\n", name, res.Attempts, res.Err)
	}
}

func printSummary(report *clip.BatchReport) {
	var total uint64
	for _, res := range report.Results {
		total += uint64(res.Size)
	}
	fmt.Printf("\nBatch %s: %d succeeded, %d failed, %d skipped (%s written, %s)\n",
		report.ID, report.Succeeded, report.Failed, report.Skipped,
		humanize.Bytes(total), report.FinishedAt.Sub(report.StartedAt).Round(10*time.Millisecond))
}

// uniqueStem disambiguates output stems when two sources share a name.
// Generated candidates are registered too, so a source literally named
// like a prior suffix still gets a distinct stem.
func uniqueStem(base string, used map[string]int) string {
	stem := naming.Sanitize(base)
	candidate := stem
	for n := 2; used[candidate] > 0; n++ {
		candidate = fmt.Sprintf("%s_%d", stem, n)
	}
	used[candidate]++
	return candidate
}

type jobJSON struct {
	Index    int     `json:"index"`
	Source   string  `json:"source"`
	StartSec float64 `json:"start_sec"`
	EndSec   float64 `json:"end_sec"`
	Status   string  `json:"status"`
	Output   string  `json:"output,omitempty"`
	Size     int64   `json:"size,omitempty"`
	Attempts int     `json:"attempts"`
	Error    string  `json:"error,omitempty"`
}

type reportJSONDoc struct {
	ID        string    `json:"id"`
	Succeeded int       `json:"succeeded"`
	Failed    int       `json:"failed"`
	Skipped   int       `json:"skipped"`
	Jobs      []jobJSON `json:"jobs"`
}

func reportJSON(report *clip.BatchReport) reportJSONDoc {
	doc := reportJSONDoc{
		ID:        report.ID,
		Succeeded: report.Succeeded,
		Failed:    report.Failed,
		Skipped:   report.Skipped,
	}
	for _, res := range report.Results {
		j := jobJSON{
			Index:    res.Descriptor.Index,
			Source:   res.Descriptor.Asset.Path,
			StartSec: res.Descriptor.Start.Seconds(),
			EndSec:   res.Descriptor.End.Seconds(),
			Status:   string(res.Status),
			Output:   res.Output,
			Size:     res.Size,
			Attempts: res.Attempts,
		}
		if res.Err != nil {
			j.Error = res.Err.Error()
		}
		doc.Jobs = append(doc.Jobs, j)
	}
	return doc
}
