package scanner_test

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"pictor/internal/scanner"
)

func writeFile(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestScanFindsSupportedFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.jpg"))
	writeFile(t, filepath.Join(root, "nested", "b.PNG"))
	writeFile(t, filepath.Join(root, "nested", "c.webp"))
	writeFile(t, filepath.Join(root, "notes.txt"))
	writeFile(t, filepath.Join(root, "raw.cr2"))

	res, err := scanner.Scan(root)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if res.MissingRoot {
		t.Fatal("unexpected MissingRoot for existing directory")
	}
	if len(res.Paths) != 3 {
		t.Fatalf("expected 3 paths, got %d: %v", len(res.Paths), res.Paths)
	}
	for _, p := range res.Paths {
		if !filepath.IsAbs(p) {
			t.Fatalf("expected absolute path, got %s", p)
		}
	}
}

func TestScanSkipsHiddenEntries(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "visible.jpg"))
	writeFile(t, filepath.Join(root, ".hidden.jpg"))
	writeFile(t, filepath.Join(root, ".cache", "thumb.jpg"))

	res, err := scanner.Scan(root)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if len(res.Paths) != 1 || filepath.Base(res.Paths[0]) != "visible.jpg" {
		t.Fatalf("unexpected paths: %v", res.Paths)
	}
}

func TestScanMissingRoot(t *testing.T) {
	res, err := scanner.Scan(filepath.Join(t.TempDir(), "nope"))
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if !res.MissingRoot {
		t.Fatal("expected MissingRoot")
	}
	if len(res.Paths) != 0 {
		t.Fatalf("expected no paths, got %v", res.Paths)
	}
}

func TestScanStableAcrossRuns(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "one.jpg"))
	writeFile(t, filepath.Join(root, "two.jpeg"))

	first, err := scanner.Scan(root)
	if err != nil {
		t.Fatalf("first scan: %v", err)
	}
	second, err := scanner.Scan(root)
	if err != nil {
		t.Fatalf("second scan: %v", err)
	}
	sort.Strings(first.Paths)
	sort.Strings(second.Paths)
	if len(first.Paths) != len(second.Paths) {
		t.Fatalf("path counts differ: %d vs %d", len(first.Paths), len(second.Paths))
	}
	for i := range first.Paths {
		if first.Paths[i] != second.Paths[i] {
			t.Fatalf("paths differ at %d: %s vs %s", i, first.Paths[i], second.Paths[i])
		}
	}
}
