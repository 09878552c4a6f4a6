package fingerprint_test

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"

	"pictor/internal/fingerprint"
)

func TestFileMatchesDirectHash(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "photo.jpg")
	payload := bytes.Repeat([]byte("pictor"), 40*1024)
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	got, err := fingerprint.File(path)
	if err != nil {
		t.Fatalf("File failed: %v", err)
	}
	sum := sha256.Sum256(payload)
	if want := hex.EncodeToString(sum[:]); got != want {
		t.Fatalf("fingerprint mismatch: got %s want %s", got, want)
	}
}

func TestIdenticalContentIdenticalFingerprint(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "a.jpg")
	second := filepath.Join(dir, "b.jpg")
	for _, path := range []string{first, second} {
		if err := os.WriteFile(path, []byte("same bytes"), 0o644); err != nil {
			t.Fatalf("write fixture: %v", err)
		}
	}

	fpA, err := fingerprint.File(first)
	if err != nil {
		t.Fatalf("File(a): %v", err)
	}
	fpB, err := fingerprint.File(second)
	if err != nil {
		t.Fatalf("File(b): %v", err)
	}
	if fpA != fpB {
		t.Fatalf("expected identical fingerprints, got %s and %s", fpA, fpB)
	}
}

func TestFileMissing(t *testing.T) {
	if _, err := fingerprint.File(filepath.Join(t.TempDir(), "absent.jpg")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
