package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory and bind address configuration.
type Paths struct {
	// LibraryDir is the default root offered to ingestion when none is given.
	LibraryDir string `toml:"library_dir"`
	// DataDir holds the catalog database.
	DataDir string `toml:"data_dir"`
	// ThumbnailDir receives one derivative per content fingerprint.
	ThumbnailDir string `toml:"thumbnail_dir"`
	// ImportDir receives uploaded files and archives before ingestion.
	ImportDir string `toml:"import_dir"`
	LogDir    string `toml:"log_dir"`
	APIBind   string `toml:"api_bind"`
}

// Classifier configures the semantic label matcher.
type Classifier struct {
	// Endpoint is the base URL of the vision inference service.
	Endpoint string `toml:"endpoint"`
	// Labels is the vocabulary scored against every image.
	Labels []string `toml:"labels"`
	// ConfidenceThreshold drops labels scoring at or below it.
	ConfidenceThreshold float64 `toml:"confidence_threshold"`
	TimeoutSeconds      int     `toml:"timeout_seconds"`
}

// Recognizer configures the text recognizer.
type Recognizer struct {
	Enabled   bool     `toml:"enabled"`
	Languages []string `toml:"languages"`
	// Workers bounds recognizer concurrency. Recognition is CPU-heavy per
	// call; oversubscription degrades throughput.
	Workers int `toml:"workers"`
}

// Tagging configures the batch worker.
type Tagging struct {
	// BatchSize is a throughput knob, not a correctness parameter.
	BatchSize int `toml:"batch_size"`
	// PollInterval is the daemon sweep interval in seconds. Zero disables
	// periodic runs; triggers still work.
	PollInterval int `toml:"poll_interval"`
}

// Thumbnails configures derivative generation.
type Thumbnails struct {
	// MaxEdge is the bounding box edge in pixels.
	MaxEdge int `toml:"max_edge"`
}

// Review configures the confidence window surfaced for human review.
type Review struct {
	LowerBound float64 `toml:"lower_bound"`
	UpperBound float64 `toml:"upper_bound"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for pictor.
//
// Configuration sections by subsystem:
//   - Paths: data, thumbnail, import, and log directories plus API bind
//   - Classifier: vision endpoint, label vocabulary, acceptance threshold
//   - Recognizer: text recognition toggle, languages, worker pool size
//   - Tagging: worker batch size and daemon poll interval
//   - Thumbnails: derivative bounding box
//   - Review: confidence window for the human review queue
//   - Logging: log format and level
type Config struct {
	Paths      Paths      `toml:"paths"`
	Classifier Classifier `toml:"classifier"`
	Recognizer Recognizer `toml:"recognizer"`
	Tagging    Tagging    `toml:"tagging"`
	Thumbnails Thumbnails `toml:"thumbnails"`
	Review     Review     `toml:"review"`
	Logging    Logging    `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/pictor/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("pictor.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories the daemon and CLI need.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.DataDir, c.Paths.ThumbnailDir, c.Paths.ImportDir, c.Paths.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	if strings.TrimSpace(c.Paths.LibraryDir) != "" {
		// Best-effort: external photo storage may be temporarily offline.
		_ = os.MkdirAll(c.Paths.LibraryDir, 0o755)
	}
	return nil
}

// DatabasePath returns the catalog database location.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.Paths.DataDir, "catalog.db")
}

// SampleConfig returns the embedded annotated sample configuration.
func SampleConfig() string {
	return sampleConfig
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}
