// Package scanner discovers candidate media files beneath a root directory.
package scanner

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// supportedExtensions lists the media formats the pipeline ingests.
// Matching is case-insensitive.
var supportedExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".webp": {},
}

// Result captures a scan outcome.
type Result struct {
	// Paths holds the absolute paths of every supported file found.
	Paths []string
	// MissingRoot is set when the root directory does not exist. The scan
	// yields no paths but is not treated as an error; the caller decides
	// how loudly to report it.
	MissingRoot bool
}

// Scan walks root recursively and collects absolute paths of supported media
// files. Hidden files and directories (leading dot) are skipped. Results are
// stable for an unchanged tree.
func Scan(root string) (Result, error) {
	var res Result

	info, err := os.Stat(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			res.MissingRoot = true
			return res, nil
		}
		return res, err
	}
	if !info.IsDir() {
		res.MissingRoot = true
		return res, nil
	}

	err = filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		name := entry.Name()
		if entry.IsDir() {
			if path != root && strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(name, ".") {
			return nil
		}
		if !Supported(name) {
			return nil
		}
		abs, absErr := filepath.Abs(path)
		if absErr != nil {
			return absErr
		}
		res.Paths = append(res.Paths, abs)
		return nil
	})
	if err != nil {
		return Result{}, err
	}
	return res, nil
}

// Supported reports whether a filename carries a supported media extension.
func Supported(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	_, ok := supportedExtensions[ext]
	return ok
}
