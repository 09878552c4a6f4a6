// Package testsupport provides shared helpers for pictor tests: temp-backed
// configs, catalog stores, and generated image fixtures.
package testsupport

import (
	"path/filepath"
	"testing"

	"pictor/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.LibraryDir = filepath.Join(base, "library")
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.ThumbnailDir = filepath.Join(base, "thumbnails")
	cfg.Paths.ImportDir = filepath.Join(base, "imports")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.APIBind = "127.0.0.1:0"
	cfg.Tagging.PollInterval = 0

	for _, opt := range opts {
		opt(&cfg)
	}

	return &cfg
}

// WithBatchSize overrides the tagging batch size on the test config.
func WithBatchSize(size int) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Tagging.BatchSize = size
	}
}

// WithLabels overrides the classifier vocabulary on the test config.
func WithLabels(labels ...string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Classifier.Labels = labels
	}
}
