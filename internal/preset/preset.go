// Package preset holds the named enhancement and formatting presets and
// fuzzy lookup over their names.
package preset

import (
	"fmt"
	"sort"

	"github.com/hbollon/go-edlib"

	"github.com/kmcq/reclip/internal/clip"
)

// Enhancements maps preset names to enhancement filter parameters.
var Enhancements = map[string]clip.Enhancement{
	"mild":       {Contrast: 1.1, Brightness: 0.02, Sharpness: 0.5},
	"standard":   {Contrast: 1.2, Brightness: 0.03, Sharpness: 0.8},
	"aggressive": {Contrast: 1.4, Brightness: 0.05, Sharpness: 1.0},
}

// Format bundles the transform choices a formatting preset applies.
type Format struct {
	Vertical bool
	Mirror   bool
	Speed    float64
}

// Formats maps preset names to transform bundles.
var Formats = map[string]Format{
	"vertical_tiktok": {Speed: 1.25},
	"instagram_reels": {Vertical: true},
	"quick_edit":      {Mirror: true, Speed: 1.5},
}

// minSuggestSimilarity is the Jaro-Winkler cutoff below which no
// suggestion is offered.
const minSuggestSimilarity = 0.72

// LookupEnhancement resolves an enhancement preset by name.
func LookupEnhancement(name string) (clip.Enhancement, error) {
	if e, ok := Enhancements[name]; ok {
		return e, nil
	}
	return clip.Enhancement{}, unknown("enhancement preset", name, names(Enhancements))
}

// LookupFormat resolves a formatting preset by name.
func LookupFormat(name string) (Format, error) {
	if f, ok := Formats[name]; ok {
		return f, nil
	}
	return Format{}, unknown("formatting preset", name, names(Formats))
}

// Suggest returns the candidate most similar to name, or "" when nothing
// clears the similarity cutoff. Jaro-Winkler favors shared prefixes,
// which suits typo'd preset names.
func Suggest(name string, candidates []string) string {
	best := ""
	bestScore := float32(minSuggestSimilarity)
	for _, c := range candidates {
		if score := edlib.JaroWinklerSimilarity(name, c); score >= bestScore {
			best = c
			bestScore = score
		}
	}
	return best
}

func unknown(kind, name string, candidates []string) error {
	if hint := Suggest(name, candidates); hint != "" {
		return fmt.Errorf("%w: unknown %s %q (did you mean %q?)", clip.ErrConfiguration, kind, name, hint)
	}
	return fmt.Errorf("%w: unknown %s %q", clip.ErrConfiguration, kind, name)
}

func names[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// EnhancementNames lists the known enhancement presets, sorted.
func EnhancementNames() []string { return names(Enhancements) }

// FormatNames lists the known formatting presets, sorted.
func FormatNames() []string { return names(Formats) }
