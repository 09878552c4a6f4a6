package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultValidates(t *testing.T) {
	cfg := Default()
	if err := cfg.normalize(); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if cfg.Tagging.BatchSize != defaultTaggingBatchSize {
		t.Fatalf("unexpected batch size %d", cfg.Tagging.BatchSize)
	}
	if cfg.Review.LowerBound != 0.30 || cfg.Review.UpperBound != 0.90 {
		t.Fatalf("unexpected review window %v..%v", cfg.Review.LowerBound, cfg.Review.UpperBound)
	}
}

func TestLoadParsesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[paths]
data_dir = "` + filepath.Join(dir, "data") + `"

[classifier]
labels = ["Car", "car", "  Person  "]
confidence_threshold = 0.4

[tagging]
batch_size = 16
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !exists || resolved == "" {
		t.Fatalf("expected config to resolve, got exists=%v path=%q", exists, resolved)
	}
	if cfg.Tagging.BatchSize != 16 {
		t.Fatalf("batch size = %d, want 16", cfg.Tagging.BatchSize)
	}
	if len(cfg.Classifier.Labels) != 2 {
		t.Fatalf("labels should be deduplicated and trimmed: %v", cfg.Classifier.Labels)
	}
	if cfg.Classifier.Labels[0] != "car" || cfg.Classifier.Labels[1] != "person" {
		t.Fatalf("unexpected labels %v", cfg.Classifier.Labels)
	}
	if cfg.Classifier.ConfidenceThreshold != 0.4 {
		t.Fatalf("threshold = %v", cfg.Classifier.ConfidenceThreshold)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, _, exists, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if exists {
		t.Fatal("expected exists=false for missing file")
	}
	if cfg.Tagging.BatchSize != defaultTaggingBatchSize {
		t.Fatalf("expected default batch size, got %d", cfg.Tagging.BatchSize)
	}
}

func TestValidateRejectsBadReviewWindow(t *testing.T) {
	cfg := Default()
	cfg.Review.LowerBound = 0.9
	cfg.Review.UpperBound = 0.3
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for inverted review window")
	}
}

func TestValidateRejectsBadThreshold(t *testing.T) {
	cfg := Default()
	cfg.Classifier.ConfidenceThreshold = 1.5
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for out-of-range threshold")
	}
}

func TestExpandPathTilde(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home dir: %v", err)
	}
	got, err := ExpandPath("~/pictures")
	if err != nil {
		t.Fatalf("ExpandPath: %v", err)
	}
	if got != filepath.Join(home, "pictures") {
		t.Fatalf("unexpected expansion %q", got)
	}
}
