package utils

import (
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArchivePreviousDisabled(t *testing.T) {
	fm := NewFileManager(t.TempDir(), "")

	path, err := fm.ArchivePrevious("reports.json")
	require.NoError(t, err)
	assert.Empty(t, path)
}

func TestArchivePreviousNothingToArchive(t *testing.T) {
	root := t.TempDir()
	fm := NewFileManager(filepath.Join(root, "out"), filepath.Join(root, "archive"))

	path, err := fm.ArchivePrevious("reports.json")
	require.NoError(t, err)
	assert.Empty(t, path)
}

func TestArchivePreviousCopiesReport(t *testing.T) {
	root := t.TempDir()
	fm := NewFileManager(filepath.Join(root, "out"), filepath.Join(root, "archive"))
	fm.UseTimestampSubdirs = true
	fm.now = func() time.Time { return time.Date(2024, 1, 15, 14, 30, 22, 0, time.UTC) }

	require.NoError(t, fm.EnsureDirectories())
	require.NoError(t, os.WriteFile(fm.ReportPath("reports.json"), []byte(`[]`), 0644))

	path, err := fm.ArchivePrevious("reports.json")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(root, "archive", "2024", "01", "15"), filepath.Dir(path))
	assert.Regexp(t, regexp.MustCompile(`^reports_20240115_143022_[0-9a-f]{8}\.json$`), filepath.Base(path))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(raw))
	assert.True(t, FileExists(fm.ReportPath("reports.json")))
}

func TestFileExists(t *testing.T) {
	dir := t.TempDir()
	assert.True(t, FileExists(dir))
	assert.False(t, FileExists(filepath.Join(dir, "absent")))
}
