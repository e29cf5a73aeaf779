// Package naming builds collision-free output filenames for planned clips.
package naming

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// unsafeChars matches anything outside the portable filename set.
var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// stripAccents decomposes to NFD, drops combining marks, recomposes.
var stripAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Sanitize normalizes a name stem for use in an output filename:
// accents removed, unsafe characters collapsed to single underscores,
// leading/trailing separators trimmed.
func Sanitize(stem string) string {
	if out, _, err := transform.String(stripAccents, stem); err == nil {
		stem = out
	}
	stem = unsafeChars.ReplaceAllString(stem, "_")
	stem = strings.Trim(stem, "._-")
	if stem == "" {
		stem = "clip"
	}
	return stem
}

// ClipFile returns the output filename for clip index within a batch.
// Index keeps names unique; the 9x16 marker follows the upstream
// convention for vertically cropped output.
func ClipFile(stem string, index int, vertical, audioOnly bool) string {
	name := fmt.Sprintf("%s_clip_%03d", Sanitize(stem), index+1)
	if audioOnly {
		return name + ".mp3"
	}
	if vertical {
		name += "_9x16"
	}
	return name + ".mp4"
}
