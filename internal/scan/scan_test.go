package scan

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
}

func TestIsVideoFile(t *testing.T) {
	assert.True(t, IsVideoFile("a.mp4"))
	assert.True(t, IsVideoFile("A.MKV"))
	assert.True(t, IsVideoFile("/path/to/clip.webm"))
	assert.False(t, IsVideoFile("notes.txt"))
	assert.False(t, IsVideoFile("song.mp3"))
	assert.False(t, IsVideoFile("noext"))
}

func TestVideos_SingleFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "one.mp4")
	touch(t, path)

	got, err := Videos(path)
	require.NoError(t, err)
	assert.Equal(t, []string{path}, got)
}

func TestVideos_RejectsNonVideoFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "readme.txt")
	touch(t, path)

	_, err := Videos(path)
	assert.ErrorContains(t, err, "not a recognized video file")
}

func TestVideos_DirectoryRecursiveSorted(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "b.mp4"))
	touch(t, filepath.Join(dir, "a.mkv"))
	touch(t, filepath.Join(dir, "sub", "c.mov"))
	touch(t, filepath.Join(dir, "notes.txt"))

	got, err := Videos(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.mkv"),
		filepath.Join(dir, "b.mp4"),
		filepath.Join(dir, "sub", "c.mov"),
	}, got)
}

func TestVideos_SkipsHidden(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "visible.mp4"))
	touch(t, filepath.Join(dir, ".hidden.mp4"))
	touch(t, filepath.Join(dir, ".cache", "nested.mp4"))

	got, err := Videos(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "visible.mp4")}, got)
}

func TestVideos_MissingPath(t *testing.T) {
	_, err := Videos(filepath.Join(t.TempDir(), "absent"))
	assert.Error(t, err)
}
