package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateClassifier(); err != nil {
		return err
	}
	if err := c.validateRecognizer(); err != nil {
		return err
	}
	if err := c.validateTagging(); err != nil {
		return err
	}
	if err := c.validateReview(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateClassifier() error {
	if c.Classifier.ConfidenceThreshold < 0 || c.Classifier.ConfidenceThreshold >= 1 {
		return errors.New("classifier.confidence_threshold must be in [0, 1)")
	}
	if len(c.Classifier.Labels) == 0 {
		return errors.New("classifier.labels must list at least one label")
	}
	return nil
}

func (c *Config) validateRecognizer() error {
	if c.Recognizer.Enabled && len(c.Recognizer.Languages) == 0 {
		return errors.New("recognizer.languages must list at least one language when enabled")
	}
	if c.Recognizer.Workers < 1 {
		return errors.New("recognizer.workers must be at least 1")
	}
	return nil
}

func (c *Config) validateTagging() error {
	if c.Tagging.BatchSize < 1 {
		return errors.New("tagging.batch_size must be at least 1")
	}
	return nil
}

func (c *Config) validateReview() error {
	lo, hi := c.Review.LowerBound, c.Review.UpperBound
	if lo < 0 || hi > 1 {
		return errors.New("review bounds must lie within [0, 1]")
	}
	if lo >= hi {
		return fmt.Errorf("review.lower_bound (%v) must be below review.upper_bound (%v)", lo, hi)
	}
	return nil
}
