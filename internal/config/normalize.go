package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeClassifier()
	c.normalizeRecognizer()
	c.normalizeTagging()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.LibraryDir, err = expandPath(c.Paths.LibraryDir); err != nil {
		return fmt.Errorf("paths.library_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.ThumbnailDir) == "" {
		c.Paths.ThumbnailDir = defaultThumbnailDir
	}
	if c.Paths.ThumbnailDir, err = expandPath(c.Paths.ThumbnailDir); err != nil {
		return fmt.Errorf("paths.thumbnail_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.ImportDir) == "" {
		c.Paths.ImportDir = defaultImportDir
	}
	if c.Paths.ImportDir, err = expandPath(c.Paths.ImportDir); err != nil {
		return fmt.Errorf("paths.import_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	c.Paths.APIBind = strings.TrimSpace(c.Paths.APIBind)
	if c.Paths.APIBind == "" {
		c.Paths.APIBind = defaultAPIBind
	}
	return nil
}

func (c *Config) normalizeClassifier() {
	c.Classifier.Endpoint = strings.TrimRight(strings.TrimSpace(c.Classifier.Endpoint), "/")
	if c.Classifier.Endpoint == "" {
		c.Classifier.Endpoint = defaultClassifierEndpoint
	}
	labels := make([]string, 0, len(c.Classifier.Labels))
	seen := make(map[string]struct{}, len(c.Classifier.Labels))
	for _, label := range c.Classifier.Labels {
		normalized := strings.ToLower(strings.TrimSpace(label))
		if normalized == "" {
			continue
		}
		if _, exists := seen[normalized]; exists {
			continue
		}
		seen[normalized] = struct{}{}
		labels = append(labels, normalized)
	}
	if len(labels) == 0 {
		labels = defaultClassifierLabels()
	}
	c.Classifier.Labels = labels
	if c.Classifier.TimeoutSeconds <= 0 {
		c.Classifier.TimeoutSeconds = defaultClassifierTimeout
	}
}

func (c *Config) normalizeRecognizer() {
	if len(c.Recognizer.Languages) == 0 {
		c.Recognizer.Languages = defaultRecognizerLanguages()
	} else {
		langs := make([]string, 0, len(c.Recognizer.Languages))
		seen := make(map[string]struct{}, len(c.Recognizer.Languages))
		for _, lang := range c.Recognizer.Languages {
			normalized := strings.ToLower(strings.TrimSpace(lang))
			if normalized == "" {
				continue
			}
			if _, exists := seen[normalized]; exists {
				continue
			}
			seen[normalized] = struct{}{}
			langs = append(langs, normalized)
		}
		if len(langs) == 0 {
			langs = defaultRecognizerLanguages()
		}
		c.Recognizer.Languages = langs
	}
	if c.Recognizer.Workers <= 0 {
		c.Recognizer.Workers = defaultRecognizerWorkers
	}
}

func (c *Config) normalizeTagging() {
	if c.Tagging.BatchSize <= 0 {
		c.Tagging.BatchSize = defaultTaggingBatchSize
	}
	if c.Tagging.PollInterval < 0 {
		c.Tagging.PollInterval = 0
	}
	if c.Thumbnails.MaxEdge <= 0 {
		c.Thumbnails.MaxEdge = defaultThumbnailMaxEdge
	}
	if c.Review.LowerBound == 0 && c.Review.UpperBound == 0 {
		c.Review.LowerBound = defaultReviewLowerBound
		c.Review.UpperBound = defaultReviewUpperBound
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
