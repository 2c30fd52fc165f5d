package catalog

import (
	"fmt"
	"io/fs"
	"path/filepath"

	"photo-culler/internal/filesystem"
	"photo-culler/internal/logging"
	"photo-culler/internal/mediatypes"
)

// Discover walks root and returns the image paths in catalog order together
// with the number of files it skipped. Hidden directories are pruned without
// being counted.
func Discover(root string) ([]string, int, error) {
	root, err := absRoot(root)
	if err != nil {
		return nil, 0, err
	}
	retry := filesystem.DefaultRetryConfig()

	info, err := filesystem.StatWithRetry(root, retry)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open photo directory: %w", err)
	}
	if !info.IsDir() {
		return nil, 0, fmt.Errorf("%s is not a directory", root)
	}

	d := &discoverer{retry: retry}
	if err := d.walk(root); err != nil {
		return nil, 0, err
	}

	logging.Info("Loaded %d images (skipped %d) from %s", len(d.paths), d.skipped, root)
	return d.paths, d.skipped, nil
}

func absRoot(root string) (string, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", root, err)
	}
	return abs, nil
}

type discoverer struct {
	retry   filesystem.RetryConfig
	paths   []string
	skipped int
}

func (d *discoverer) walk(dir string) error {
	entries, err := filesystem.ReadDirWithRetry(dir, d.retry)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", dir, err)
	}

	var subdirs []string
	for _, entry := range entries {
		name := entry.Name()
		full := filepath.Join(dir, name)

		if entry.IsDir() {
			if !mediatypes.IsHidden(name) {
				subdirs = append(subdirs, full)
			}
			continue
		}

		if d.skip(name, full, entry) {
			d.skipped++
			continue
		}
		d.paths = append(d.paths, full)
	}

	for _, sub := range subdirs {
		if err := d.walk(sub); err != nil {
			logging.Warn("Skipping unreadable directory %s: %v", sub, err)
		}
	}
	return nil
}

func (d *discoverer) skip(name, full string, entry fs.DirEntry) bool {
	if mediatypes.IsHidden(name) {
		return true
	}

	switch category := mediatypes.Classify(name); category {
	case mediatypes.CategoryRaster, mediatypes.CategoryRaw:
	default:
		logging.Debug("Skipping %s (%s)", full, category)
		return true
	}

	if entry.Type().IsRegular() {
		return false
	}
	if entry.Type()&fs.ModeSymlink != 0 {
		info, err := filesystem.StatWithRetry(full, d.retry)
		return err != nil || !info.Mode().IsRegular()
	}
	return true
}
