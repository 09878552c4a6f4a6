package thumbnail_test

import (
	"image"
	"os"
	"path/filepath"
	"testing"

	_ "image/jpeg"

	"pictor/internal/testsupport"
	"pictor/internal/thumbnail"
)

func decodeSize(t *testing.T, path string) (int, int) {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer f.Close()
	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		t.Fatalf("decode %s: %v", path, err)
	}
	return cfg.Width, cfg.Height
}

func TestGenerateFitsBoundingBox(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.png")
	testsupport.WritePNG(t, src, 800, 600)
	dst := thumbnail.TargetPath(dir, "abc123")

	if err := thumbnail.Generate(src, dst, 200); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	w, h := decodeSize(t, dst)
	if w > 200 || h > 200 {
		t.Fatalf("thumbnail %dx%d exceeds bounding box", w, h)
	}
	// 800x600 into a 200 box should land on 200x150 give or take rounding.
	if w != 200 || h != 150 {
		t.Fatalf("expected 200x150, got %dx%d", w, h)
	}
}

func TestGeneratePreservesPortraitAspect(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "tall.png")
	testsupport.WritePNG(t, src, 300, 900)
	dst := thumbnail.TargetPath(dir, "tall")

	if err := thumbnail.Generate(src, dst, 300); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	w, h := decodeSize(t, dst)
	if h != 300 || w != 100 {
		t.Fatalf("expected 100x300, got %dx%d", w, h)
	}
}

func TestGenerateIdempotent(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.png")
	testsupport.WritePNG(t, src, 100, 100)
	dst := thumbnail.TargetPath(dir, "existing")

	sentinel := []byte("do not touch")
	if err := os.WriteFile(dst, sentinel, 0o644); err != nil {
		t.Fatalf("write sentinel: %v", err)
	}

	if err := thumbnail.Generate(src, dst, 200); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatalf("read dst: %v", err)
	}
	if string(got) != string(sentinel) {
		t.Fatal("existing derivative was overwritten")
	}
}

func TestGenerateUnreadableSource(t *testing.T) {
	dir := t.TempDir()
	dst := thumbnail.TargetPath(dir, "missing")
	if err := thumbnail.Generate(filepath.Join(dir, "absent.png"), dst, 200); err == nil {
		t.Fatal("expected error for unreadable source")
	}
	if _, err := os.Stat(dst); !os.IsNotExist(err) {
		t.Fatal("no derivative should exist after failure")
	}
}

func TestTargetPath(t *testing.T) {
	got := thumbnail.TargetPath("/data/thumbs", "deadbeef")
	if got != filepath.Join("/data/thumbs", "deadbeef.jpg") {
		t.Fatalf("unexpected target path %s", got)
	}
}
