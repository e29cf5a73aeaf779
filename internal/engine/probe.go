package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/kmcq/reclip/internal/clip"
)

// probeResult matches the ffprobe JSON output structure.
type probeResult struct {
	Format struct {
		Duration string `json:"duration"`
		Size     string `json:"size"`
	} `json:"format"`
	Streams []struct {
		CodecType    string `json:"codec_type"`
		Width        int    `json:"width"`
		Height       int    `json:"height"`
		Duration     string `json:"duration"`
		AvgFrameRate string `json:"avg_frame_rate"`
	} `json:"streams"`
}

// ProbeAsset probes a source file once and returns its immutable asset
// description.
func ProbeAsset(ctx context.Context, r Runner, path string) (*clip.SourceAsset, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", clip.ErrIO, err)
	}

	out, err := r.Probe(ctx, []string{
		"-v", "error",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		path,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: probe %s: %v", clip.ErrIO, path, err)
	}

	asset, err := parseProbe(out)
	if err != nil {
		return nil, fmt.Errorf("%w: probe %s: %v", clip.ErrIO, path, err)
	}
	asset.Path = path
	asset.ModTime = info.ModTime()
	return asset, nil
}

func parseProbe(out []byte) (*clip.SourceAsset, error) {
	var probe probeResult
	if err := json.Unmarshal(out, &probe); err != nil {
		return nil, fmt.Errorf("parse ffprobe output: %w", err)
	}

	asset := &clip.SourceAsset{}
	if size, err := strconv.ParseInt(probe.Format.Size, 10, 64); err == nil {
		asset.Size = size
	}

	duration := parseSeconds(probe.Format.Duration)
	for _, s := range probe.Streams {
		switch s.CodecType {
		case "video":
			asset.Width = s.Width
			asset.Height = s.Height
			asset.FPS = parseFrameRate(s.AvgFrameRate)
			// Container duration wins; stream duration is the fallback
			// for formats that omit it.
			if duration <= 0 {
				duration = parseSeconds(s.Duration)
			}
		case "audio":
			asset.HasAudio = true
		}
	}
	if duration <= 0 {
		return nil, fmt.Errorf("no valid duration in probe output")
	}
	asset.Duration = duration
	return asset, nil
}

func parseSeconds(s string) time.Duration {
	sec, err := strconv.ParseFloat(s, 64)
	if err != nil || sec <= 0 {
		return 0
	}
	return time.Duration(sec * float64(time.Second))
}

// parseFrameRate parses ffprobe's "num/den" rational frame rate.
func parseFrameRate(s string) float64 {
	num, den, ok := strings.Cut(s, "/")
	if !ok {
		return 0
	}
	n, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0
	}
	d, err := strconv.ParseFloat(den, 64)
	if err != nil || d == 0 {
		return 0
	}
	return n / d
}
