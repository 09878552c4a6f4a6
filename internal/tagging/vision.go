package tagging

import (
	"context"

	"pictor/internal/catalog"
	"pictor/internal/services/vision"
)

// VisionClassifier adapts the vision backend's batch scoring to the
// Classifier contract using a fixed label vocabulary.
type VisionClassifier struct {
	client *vision.Client
	labels []string
}

// NewVisionClassifier builds a classifier over the given backend and labels.
func NewVisionClassifier(client *vision.Client, labels []string) *VisionClassifier {
	return &VisionClassifier{client: client, labels: labels}
}

// ClassifyBatch scores the batch against the configured vocabulary.
func (v *VisionClassifier) ClassifyBatch(ctx context.Context, paths []string) ([][]Candidate, error) {
	scores, err := v.client.ClassifyBatch(ctx, paths, v.labels)
	if err != nil {
		return nil, err
	}
	candidates := make([][]Candidate, len(scores))
	for i, imageScores := range scores {
		list := make([]Candidate, 0, len(imageScores))
		for _, score := range imageScores {
			list = append(list, Candidate{
				Name:       score.Label,
				Category:   catalog.CategoryClassified,
				Confidence: score.Value,
				Source:     catalog.SourceClassifier,
			})
		}
		candidates[i] = list
	}
	return candidates, nil
}

// Warmup preloads the classification model.
func (v *VisionClassifier) Warmup(ctx context.Context) error {
	return v.client.Warmup(ctx)
}

// VisionRecognizer adapts the vision backend's OCR endpoint to the
// Recognizer contract.
type VisionRecognizer struct {
	client    *vision.Client
	languages []string
}

// NewVisionRecognizer builds a recognizer over the given backend, restricted
// to the given language set.
func NewVisionRecognizer(client *vision.Client, languages []string) *VisionRecognizer {
	return &VisionRecognizer{client: client, languages: languages}
}

// RecognizeText extracts text fragments from one image.
func (v *VisionRecognizer) RecognizeText(ctx context.Context, path string) ([]string, error) {
	return v.client.ReadText(ctx, path, v.languages)
}
