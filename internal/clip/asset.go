// Package clip defines the domain types shared by the planner, dispatcher
// and executor: probed source assets, clip descriptors, job results and
// batch reports.
package clip

import (
	"path/filepath"
	"strings"
	"time"
)

// SourceAsset is a probed input video. It is populated once by the prober
// and read-only afterwards.
type SourceAsset struct {
	Path     string
	Duration time.Duration
	Width    int
	Height   int
	FPS      float64
	HasAudio bool
	Size     int64
	ModTime  time.Time
}

// Base returns the asset filename without directory or extension,
// used as the stem for output naming.
func (a *SourceAsset) Base() string {
	name := filepath.Base(a.Path)
	return strings.TrimSuffix(name, filepath.Ext(name))
}
