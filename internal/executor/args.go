package executor

import (
	"fmt"
	"strings"
	"time"

	"github.com/kmcq/reclip/internal/clip"
)

// Encoding defaults, matching the upstream clip pipeline.
const (
	videoCodec = "libx264"
	crf        = "23"
	encPreset  = "fast"
	audioCodec = "aac"
	audioRate  = "128k"
)

// Target frame for vertical output.
const (
	outWidth  = 1080
	outHeight = 1920
)

func seconds(d time.Duration) string {
	return fmt.Sprintf("%.3f", d.Seconds())
}

// BuildArgs assembles the engine argument list for one descriptor.
// Pure: no filesystem access, fully determined by the descriptor.
func BuildArgs(d clip.Descriptor) []string {
	args := []string{
		"-ss", seconds(d.Start),
		"-to", seconds(d.End),
		"-i", d.Asset.Path,
	}

	t := d.Transforms
	if t.AudioOnly {
		args = append(args, "-vn", "-acodec", "libmp3lame", "-q:a", "2")
		if t.Speed > 0 && t.Speed != 1 {
			args = append(args, "-filter:a", atempoChain(t.Speed))
		}
		return append(args, d.Output)
	}

	if len(t.Ramp) > 0 {
		args = append(args, rampArgs(d)...)
	} else {
		if vf := videoFilters(t); len(vf) > 0 {
			args = append(args, "-vf", strings.Join(vf, ","))
		}
		if d.Asset.HasAudio && t.Speed > 0 && t.Speed != 1 {
			args = append(args, "-filter:a", atempoChain(t.Speed))
		}
	}

	args = append(args,
		"-c:v", videoCodec,
		"-preset", encPreset,
		"-crf", crf,
		"-movflags", "+faststart",
	)
	if d.Asset.HasAudio {
		args = append(args, "-c:a", audioCodec, "-b:a", audioRate, "-ac", "2")
	} else {
		args = append(args, "-an")
	}
	return append(args, d.Output)
}

// videoFilters builds the -vf chain: frame shaping first, then mirror,
// enhancement, and constant speed.
func videoFilters(t clip.TransformSet) []string {
	var filters []string

	if t.Vertical {
		// Crop to 9:16 instead of scale-and-pad.
		filters = append(filters,
			"crop='min(iw,ih*9/16)':'min(ih,iw*16/9)'",
			fmt.Sprintf("scale=%d:%d", outWidth, outHeight),
			"setsar=1",
		)
	} else {
		filters = append(filters,
			fmt.Sprintf("scale=%d:%d:force_original_aspect_ratio=decrease", outWidth, outHeight),
			fmt.Sprintf("pad=%d:%d:(ow-iw)/2:(oh-ih)/2:black", outWidth, outHeight),
			"setsar=1",
		)
	}

	if t.Mirror {
		filters = append(filters, "hflip")
	}
	if t.Enhance.Enabled() {
		filters = append(filters,
			"hqdn3d=1.5",
			fmt.Sprintf("eq=contrast=%g:brightness=%g", t.Enhance.Contrast, t.Enhance.Brightness),
			fmt.Sprintf("unsharp=5:5:%g", t.Enhance.Sharpness),
		)
	}
	if t.Speed > 0 && t.Speed != 1 {
		filters = append(filters, fmt.Sprintf("setpts=PTS/%g", t.Speed))
	}
	return filters
}

// atempoChain expresses an arbitrary positive multiplier as a chain of
// atempo filters, each within the supported 0.5..2.0 range.
func atempoChain(speed float64) string {
	var parts []string
	for speed > 2.0 {
		parts = append(parts, "atempo=2.0")
		speed /= 2.0
	}
	for speed < 0.5 {
		parts = append(parts, "atempo=0.5")
		speed /= 0.5
	}
	parts = append(parts, fmt.Sprintf("atempo=%g", speed))
	return strings.Join(parts, ",")
}

// rampSegments normalizes a piecewise ramp to contiguous coverage of the
// clip window, filling unspecified ranges with identity speed.
func rampSegments(window time.Duration, ramp []clip.RampSegment) []clip.RampSegment {
	var out []clip.RampSegment
	cursor := time.Duration(0)
	for _, seg := range ramp {
		if seg.Start >= window {
			break
		}
		if seg.Start > cursor {
			out = append(out, clip.RampSegment{Start: cursor, End: seg.Start, Speed: 1})
		}
		end := seg.End
		if end > window {
			end = window
		}
		out = append(out, clip.RampSegment{Start: seg.Start, End: end, Speed: seg.Speed})
		cursor = end
	}
	if cursor < window {
		out = append(out, clip.RampSegment{Start: cursor, End: window, Speed: 1})
	}
	return out
}

// rampArgs builds the filter_complex graph for a piecewise speed ramp:
// per-segment trim/setpts (and atrim/atempo when the source has audio)
// concatenated back into one stream, with the regular video chain applied
// after the concat.
func rampArgs(d clip.Descriptor) []string {
	t := d.Transforms
	segs := rampSegments(d.Window(), t.Ramp)
	withAudio := d.Asset.HasAudio

	var b strings.Builder
	var labels []string
	for i, seg := range segs {
		fmt.Fprintf(&b, "[0:v]trim=start=%s:end=%s,setpts=(PTS-STARTPTS)/%g[v%d];",
			seconds(seg.Start), seconds(seg.End), seg.Speed, i)
		labels = append(labels, fmt.Sprintf("[v%d]", i))
		if withAudio {
			fmt.Fprintf(&b, "[0:a]atrim=start=%s:end=%s,asetpts=PTS-STARTPTS,%s[a%d];",
				seconds(seg.Start), seconds(seg.End), atempoChain(seg.Speed), i)
			labels[len(labels)-1] += fmt.Sprintf("[a%d]", i)
		}
	}

	b.WriteString(strings.Join(labels, ""))
	if withAudio {
		fmt.Fprintf(&b, "concat=n=%d:v=1:a=1[vc][ac]", len(segs))
	} else {
		fmt.Fprintf(&b, "concat=n=%d:v=1:a=0[vc]", len(segs))
	}

	// Frame shaping and enhancement apply to the concatenated stream.
	post := videoFilters(clip.TransformSet{
		Vertical: t.Vertical,
		Mirror:   t.Mirror,
		Enhance:  t.Enhance,
	})
	fmt.Fprintf(&b, ";[vc]%s[vout]", strings.Join(post, ","))

	args := []string{"-filter_complex", b.String(), "-map", "[vout]"}
	if withAudio {
		args = append(args, "-map", "[ac]")
	}
	return args
}
