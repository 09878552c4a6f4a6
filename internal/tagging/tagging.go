// Package tagging runs the automatic analysis worker. It drains unprocessed
// images from the catalog in fixed-size batches, collects tag candidates from
// a semantic classifier and a text recognizer, and persists the merged result
// as unverified tag links.
package tagging

import (
	"context"
	"errors"

	"pictor/internal/catalog"
)

// Candidate is one proposed tag for an image before persistence.
type Candidate struct {
	Name       string
	Category   string
	Confidence float64
	Source     catalog.Source
}

// Classifier scores a batch of images against a label vocabulary. The
// returned slice has one candidate list per input path, in input order, with
// confidences normalized to a probability distribution per image.
type Classifier interface {
	ClassifyBatch(ctx context.Context, paths []string) ([][]Candidate, error)
}

// Recognizer extracts text fragments from a single image.
type Recognizer interface {
	RecognizeText(ctx context.Context, path string) ([]string, error)
}

// ErrRunActive reports that a worker run is already in progress.
var ErrRunActive = errors.New("tagging run already active")
