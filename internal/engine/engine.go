// Package engine wraps the external ffmpeg and ffprobe binaries behind a
// small Runner interface so the rest of the pipeline never shells out
// directly.
package engine

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
)

//go:generate mockgen -source=engine.go -destination=mocks/mock_runner.go -package=mocks

// Runner abstracts media-engine invocation. Run executes ffmpeg with the
// given arguments and returns its stderr output; Probe executes ffprobe
// and returns its stdout. Success is exit code zero, nothing else: no
// scraping of tool output for error strings.
type Runner interface {
	Run(ctx context.Context, args []string) (string, error)
	Probe(ctx context.Context, args []string) ([]byte, error)
}

// Engine is the real Runner backed by ffmpeg/ffprobe on PATH.
type Engine struct {
	ffmpegPath  string
	ffprobePath string
	log         *slog.Logger
}

// New resolves ffmpeg and ffprobe on PATH. Missing binaries fail fast
// here rather than mid-batch.
func New(log *slog.Logger) (*Engine, error) {
	if log == nil {
		log = slog.Default()
	}
	ffmpegPath, err := exec.LookPath("ffmpeg")
	if err != nil {
		return nil, fmt.Errorf("ffmpeg not found in PATH: %w", err)
	}
	ffprobePath, err := exec.LookPath("ffprobe")
	if err != nil {
		return nil, fmt.Errorf("ffprobe not found in PATH: %w", err)
	}
	return &Engine{
		ffmpegPath:  ffmpegPath,
		ffprobePath: ffprobePath,
		log:         log.With("component", "engine"),
	}, nil
}

// Run executes ffmpeg. The returned string is the full stderr stream,
// which callers parse for showinfo output where needed.
func (e *Engine) Run(ctx context.Context, args []string) (string, error) {
	full := append([]string{"-y", "-hide_banner", "-nostdin"}, args...)
	e.log.Debug("running ffmpeg", "args", strings.Join(full, " "))

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, e.ffmpegPath, full...)
	cmd.Stderr = &stderr

	err := cmd.Run()
	out := stderr.String()
	if err != nil {
		if ctx.Err() != nil {
			return out, ctx.Err()
		}
		return out, fmt.Errorf("ffmpeg: %w: %s", err, stderrSummary(out))
	}
	return out, nil
}

// Probe executes ffprobe and returns stdout.
func (e *Engine) Probe(ctx context.Context, args []string) ([]byte, error) {
	e.log.Debug("running ffprobe", "args", strings.Join(args, " "))

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, e.ffprobePath, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("ffprobe: %w: %s", err, stderrSummary(stderr.String()))
	}
	return stdout.Bytes(), nil
}

// stderrSummary condenses tool stderr to its first few lines for error
// messages; the full stream stays available to callers of Run.
func stderrSummary(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	if len(lines) > 3 {
		lines = lines[len(lines)-3:]
	}
	return strings.Join(lines, " | ")
}
