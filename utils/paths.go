// Package utils provides small filesystem helpers shared across colcast.
package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DeriveOutputPath computes the output file path for a source file: the
// source base name with the target extension, placed in destDir when set or
// next to the source otherwise.
func DeriveOutputPath(sourcePath, destDir, extension string) string {
	base := filepath.Base(sourcePath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if destDir == "" {
		destDir = filepath.Dir(sourcePath)
	}
	return filepath.Join(destDir, stem+extension)
}

// EnsureDir creates the directory and any missing parents.
func EnsureDir(dir string) error {
	if dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}

// FileSizeMB returns the size of a file in megabytes, or 0 when the file
// cannot be examined.
func FileSizeMB(path string) float64 {
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return float64(info.Size()) / (1024 * 1024)
}
