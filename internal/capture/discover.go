package capture

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

var (
	// ErrDataDirMissing is returned when the data directory does not exist
	ErrDataDirMissing = errors.New("data directory not found")
	// ErrNoCaptureFiles is returned when discovery finds nothing to process
	ErrNoCaptureFiles = errors.New("no capture files found")
)

// compressedSuffixes are the compressed variants accepted next to plain captures
var compressedSuffixes = []string{"", ".gz", ".zst"}

// Discover returns the capture files to process.
// Explicit files are returned unchanged; otherwise dataDir is scanned for
// files ending in ext (plain, .gz or .zst) and the result is sorted by name.
func Discover(dataDir, ext string, explicit []string) ([]string, error) {
	if len(explicit) > 0 {
		return explicit, nil
	}

	info, err := os.Stat(dataDir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrDataDirMissing, dataDir)
	}

	var files []string
	for _, suffix := range compressedSuffixes {
		matches, err := filepath.Glob(filepath.Join(dataDir, "*"+ext+suffix))
		if err != nil {
			return nil, fmt.Errorf("failed to list capture files: %w", err)
		}
		files = append(files, matches...)
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("%w in %s (extension %s)", ErrNoCaptureFiles, dataDir, ext)
	}

	sort.Strings(files)
	return files, nil
}
