// Package scan discovers video source files for bulk runs.
package scan

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// videoExtensions are the container formats accepted as clip sources.
var videoExtensions = map[string]bool{
	".mp4":  true,
	".mkv":  true,
	".avi":  true,
	".mov":  true,
	".webm": true,
	".m4v":  true,
	".ts":   true,
	".wmv":  true,
	".flv":  true,
}

// IsVideoFile reports whether path has a recognized video extension.
func IsVideoFile(path string) bool {
	return videoExtensions[strings.ToLower(filepath.Ext(path))]
}

// Videos resolves path to the ordered list of source files: the path
// itself when it is a file, or every video file under it (recursive,
// sorted for deterministic batch ordering) when it is a directory.
// Hidden files and directories are skipped.
func Videos(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	if !info.IsDir() {
		if !IsVideoFile(path) {
			return nil, fmt.Errorf("%s is not a recognized video file", path)
		}
		return []string{path}, nil
	}

	var videos []string
	err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if strings.HasPrefix(d.Name(), ".") && p != path {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !IsVideoFile(p) {
			return nil
		}
		videos = append(videos, p)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk directory: %w", err)
	}

	sort.Strings(videos)
	return videos, nil
}
