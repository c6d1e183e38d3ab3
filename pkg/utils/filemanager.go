// =============================================================================
// Finance Reports - File Manager Utility
// =============================================================================
//
// This module manages the report files written by the flows:
//   - Resolving report names inside the output directory
//   - Directory management
//   - Archiving the previous report before it is overwritten
//
// ARCHIVAL STRATEGY:
//   - Archiving is off unless an archive directory is configured
//   - The previous report is copied, never moved, so a failed flow still
//     leaves the last good report in place
//   - Archive names carry a timestamp and a short random id:
//     reports_20240115_143022_a1b2c3d4.json
//
// =============================================================================

package utils

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// FILE MANAGER
// =============================================================================

// FileManager resolves and archives report files.
type FileManager struct {
	// OutputDir is the directory where report files are placed.
	OutputDir string

	// ArchiveDir receives copies of overwritten reports. Empty disables
	// archiving.
	ArchiveDir string

	// UseTimestampSubdirs creates date-based subdirectories in the archive.
	// Example: archive/2024/01/15/reports_....json
	UseTimestampSubdirs bool

	now func() time.Time
}

// NewFileManager creates a new FileManager.
func NewFileManager(outputDir, archiveDir string) *FileManager {
	return &FileManager{
		OutputDir:  outputDir,
		ArchiveDir: archiveDir,
		now:        time.Now,
	}
}

// =============================================================================
// DIRECTORY MANAGEMENT
// =============================================================================

// EnsureDirectories creates the output and archive directories.
//
// RETURNS:
//   - An error if any directory cannot be created.
func (fm *FileManager) EnsureDirectories() error {
	for _, dir := range []string{fm.OutputDir, fm.ArchiveDir} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// ReportPath returns the location of a report file inside OutputDir.
func (fm *FileManager) ReportPath(name string) string {
	return filepath.Join(fm.OutputDir, name)
}

// =============================================================================
// ARCHIVAL
// =============================================================================

// ArchivePrevious copies the existing report called name into ArchiveDir.
//
// PARAMETERS:
//   - name: report file name inside OutputDir
//
// RETURNS:
//   - The path of the archived copy, or "" when nothing was archived.
//   - An error if the copy fails.
func (fm *FileManager) ArchivePrevious(name string) (string, error) {
	if fm.ArchiveDir == "" {
		return "", nil
	}

	src := fm.ReportPath(name)
	if !FileExists(src) {
		return "", nil
	}

	archivePath := fm.archivePath(name)
	if err := os.MkdirAll(filepath.Dir(archivePath), 0755); err != nil {
		return "", fmt.Errorf("failed to create archive directory: %w", err)
	}
	if err := copyFile(src, archivePath); err != nil {
		return "", fmt.Errorf("failed to copy report to archive: %w", err)
	}
	return archivePath, nil
}

// archivePath constructs the archive path for a report.
func (fm *FileManager) archivePath(name string) string {
	now := fm.clock()
	dir := fm.ArchiveDir

	if fm.UseTimestampSubdirs {
		dir = filepath.Join(
			dir,
			fmt.Sprintf("%d", now.Year()),
			fmt.Sprintf("%02d", now.Month()),
			fmt.Sprintf("%02d", now.Day()),
		)
	}

	return filepath.Join(dir, ArchiveFileName(name, now))
}

func (fm *FileManager) clock() time.Time {
	if fm.now == nil {
		return time.Now()
	}
	return fm.now()
}

// ArchiveFileName builds "<stem>_<YYYYMMDD_HHMMSS>_<id><ext>" for name.
func ArchiveFileName(name string, at time.Time) string {
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(filepath.Base(name), ext)
	id := strings.SplitN(uuid.New().String(), "-", 2)[0]

	return fmt.Sprintf("%s_%s_%s%s", stem, at.Format("20060102_150405"), id, ext)
}

// =============================================================================
// UTILITY FUNCTIONS
// =============================================================================

// copyFile copies a file from src to dst.
func copyFile(src, dst string) error {
	sourceFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer sourceFile.Close()

	destFile, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer destFile.Close()

	if _, err := io.Copy(destFile, sourceFile); err != nil {
		return err
	}

	return destFile.Sync()
}

// FileExists checks if a file exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !errors.Is(err, fs.ErrNotExist)
}
