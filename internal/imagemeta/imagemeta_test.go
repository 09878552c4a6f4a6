package imagemeta_test

import (
	"os"
	"path/filepath"
	"testing"

	"pictor/internal/imagemeta"
	"pictor/internal/testsupport"
)

func TestExtractDimensionsAndSize(t *testing.T) {
	path := filepath.Join(t.TempDir(), "photo.png")
	testsupport.WritePNG(t, path, 64, 48)

	meta, err := imagemeta.Extract(path)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if meta.Width != 64 || meta.Height != 48 {
		t.Fatalf("unexpected dimensions %dx%d", meta.Width, meta.Height)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat fixture: %v", err)
	}
	if meta.FileSize != info.Size() {
		t.Fatalf("size mismatch: got %d want %d", meta.FileSize, info.Size())
	}
	if meta.CapturedAt != nil {
		t.Fatalf("expected nil capture time without EXIF, got %v", meta.CapturedAt)
	}
	if meta.CameraModel != "" {
		t.Fatalf("expected empty camera model, got %q", meta.CameraModel)
	}
}

func TestExtractDegradesOnUndecodableContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.jpg")
	if err := os.WriteFile(path, []byte("not an image"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	meta, err := imagemeta.Extract(path)
	if err != nil {
		t.Fatalf("Extract should not fail on bad pixel data: %v", err)
	}
	if meta.Width != 0 || meta.Height != 0 {
		t.Fatalf("expected zero dimensions, got %dx%d", meta.Width, meta.Height)
	}
	if meta.FileSize == 0 {
		t.Fatal("expected file size to be recorded")
	}
}

func TestExtractMissingFile(t *testing.T) {
	if _, err := imagemeta.Extract(filepath.Join(t.TempDir(), "gone.jpg")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestParseTimestamp(t *testing.T) {
	cases := []struct {
		input string
		ok    bool
	}{
		{"2025:06:14 09:30:00", true},
		{" 2025:06:14 09:30:00 ", true},
		{"2025-06-14 09:30:00", false},
		{"2025:06:14", false},
		{"", false},
	}
	for _, tc := range cases {
		if _, ok := imagemeta.ParseTimestamp(tc.input); ok != tc.ok {
			t.Fatalf("ParseTimestamp(%q) ok = %v, want %v", tc.input, ok, tc.ok)
		}
	}

	ts, ok := imagemeta.ParseTimestamp("2025:06:14 09:30:00")
	if !ok {
		t.Fatal("expected parse to succeed")
	}
	if ts.Year() != 2025 || ts.Month() != 6 || ts.Day() != 14 || ts.Hour() != 9 {
		t.Fatalf("unexpected parsed time %v", ts)
	}
}
