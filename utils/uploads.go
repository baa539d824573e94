package utils

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TempPhotoPrefix marks files written by the intake handler. Only these are ever swept.
const TempPhotoPrefix = "volunteer-"

// TempPhotoName returns a per-request file name such as volunteer-1718000000000-1a2b3c4d.jpg.
func TempPhotoName(now time.Time, ext string) string {
	return fmt.Sprintf("%s%d-%s%s", TempPhotoPrefix, now.UnixMilli(), uuid.NewString()[:8], ext)
}

// SweepStaleUploads removes intake photos in dir last modified before now-olderThan. Photos
// are normally deleted by the request that wrote them; anything left behind comes from a
// crash or a killed process. A missing dir is not an error.
func SweepStaleUploads(dir string, olderThan time.Duration, now time.Time) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	cutoff := now.Add(-olderThan)
	var (
		removed []string
		errs    []error
	)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), TempPhotoPrefix) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if !info.ModTime().Before(cutoff) {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			errs = append(errs, err)
			continue
		}
		removed = append(removed, path)
	}
	return removed, errors.Join(errs...)
}
