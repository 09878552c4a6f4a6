package ingest

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// expandArchives extracts every zip archive under root into a sibling
// directory named after the archive, so a later scan picks up the contents.
// An archive whose directory already exists is skipped; a corrupt archive is
// logged and counted, and the remaining archives continue. Returns the
// number of archives that failed to expand.
func expandArchives(ctx context.Context, root string, logger *slog.Logger) int {
	var archives []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		name := d.Name()
		if d.IsDir() {
			if path != root && strings.HasPrefix(name, ".") {
				return fs.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(name, ".") {
			return nil
		}
		if strings.EqualFold(filepath.Ext(name), ".zip") {
			archives = append(archives, path)
		}
		return nil
	})
	if err != nil {
		// A missing root means nothing to expand; the scan pass reports it.
		if errors.Is(err, fs.ErrNotExist) {
			return 0
		}
		logger.Warn("archive scan failed", "root", root, "error", err)
		return 1
	}

	failures := 0
	for _, archive := range archives {
		if ctx.Err() != nil {
			return failures
		}
		dest := strings.TrimSuffix(archive, filepath.Ext(archive))
		if _, statErr := os.Stat(dest); statErr == nil {
			logger.Debug("archive already expanded", "archive", archive)
			continue
		}
		if expandErr := extractZip(archive, dest); expandErr != nil {
			logger.Warn("archive expansion failed", "archive", archive, "error", expandErr)
			failures++
			continue
		}
		logger.Info("archive expanded", "archive", archive, "dest", dest)
	}
	return failures
}

func extractZip(src, dest string) error {
	reader, err := zip.OpenReader(src)
	if err != nil {
		return fmt.Errorf("open archive: %w", err)
	}
	defer reader.Close()

	cleanDest := filepath.Clean(dest)
	if err := os.MkdirAll(cleanDest, 0o755); err != nil {
		return fmt.Errorf("create destination: %w", err)
	}

	for _, entry := range reader.File {
		target := filepath.Join(cleanDest, filepath.FromSlash(entry.Name))
		// Reject entries that would escape the destination directory.
		if target != cleanDest && !strings.HasPrefix(target, cleanDest+string(os.PathSeparator)) {
			return fmt.Errorf("entry %q escapes archive root", entry.Name)
		}
		if entry.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return fmt.Errorf("create directory %s: %w", target, err)
			}
			continue
		}
		if err := extractEntry(entry, target); err != nil {
			return err
		}
	}
	return nil
}

func extractEntry(entry *zip.File, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("create parent for %s: %w", target, err)
	}
	in, err := entry.Open()
	if err != nil {
		return fmt.Errorf("open entry %s: %w", entry.Name, err)
	}
	defer in.Close()

	out, err := os.Create(target)
	if err != nil {
		return fmt.Errorf("create %s: %w", target, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("extract %s: %w", entry.Name, err)
	}
	return nil
}
