package tagging

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"

	"pictor/internal/catalog"
	"pictor/internal/config"
)

// Summary reports what one worker run accomplished.
type Summary struct {
	Images        int
	LinksCreated  int
	FailedBatches int
}

// Engine holds the analyzers and runs the tagging worker. Construct it once
// and reuse it; model resources live behind the analyzers, so repeated runs
// never reinitialize them.
type Engine struct {
	cfg        *config.Config
	store      *catalog.Store
	classifier Classifier
	recognizer Recognizer
	logger     *slog.Logger

	warmOnce sync.Once
	warmErr  error
	running  atomic.Bool
}

// NewEngine wires a tagging engine. The recognizer may be nil to disable
// text extraction entirely.
func NewEngine(cfg *config.Config, store *catalog.Store, classifier Classifier, recognizer Recognizer, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		cfg:        cfg,
		store:      store,
		classifier: classifier,
		recognizer: recognizer,
		logger:     logger,
	}
}

type warmer interface {
	Warmup(ctx context.Context) error
}

// Run drains every unprocessed image in fixed-size batches. Only one run may
// be active at a time; overlapping calls get ErrRunActive. A failed batch is
// logged and skipped, leaving its images unprocessed so the next run retries
// them.
func (e *Engine) Run(ctx context.Context) (Summary, error) {
	if !e.running.CompareAndSwap(false, true) {
		return Summary{}, ErrRunActive
	}
	defer e.running.Store(false)

	var summary Summary

	if err := e.warmup(ctx); err != nil {
		return summary, fmt.Errorf("warm analyzers: %w", err)
	}

	// Detached snapshot: no transaction stays open while models run.
	pending, err := e.store.ListPending(ctx)
	if err != nil {
		return summary, fmt.Errorf("list pending: %w", err)
	}
	if len(pending) == 0 {
		e.logger.Debug("no unprocessed images")
		return summary, nil
	}

	batchSize := e.cfg.Tagging.BatchSize
	if batchSize <= 0 {
		batchSize = 8
	}

	e.logger.Info("tagging run started", "pending", len(pending), "batch_size", batchSize)
	for start := 0; start < len(pending); start += batchSize {
		if ctx.Err() != nil {
			return summary, ctx.Err()
		}
		end := start + batchSize
		if end > len(pending) {
			end = len(pending)
		}
		batch := pending[start:end]
		created, err := e.processBatch(ctx, batch)
		if err != nil {
			summary.FailedBatches++
			e.logger.Warn("batch failed", "size", len(batch), "error", err)
			continue
		}
		summary.Images += len(batch)
		summary.LinksCreated += created
	}

	e.logger.Info("tagging run finished",
		"images", summary.Images,
		"links", summary.LinksCreated,
		"failed_batches", summary.FailedBatches)
	return summary, nil
}

// Running reports whether a worker run is currently active.
func (e *Engine) Running() bool {
	return e.running.Load()
}

func (e *Engine) warmup(ctx context.Context) error {
	e.warmOnce.Do(func() {
		for _, analyzer := range []any{e.classifier, e.recognizer} {
			if w, ok := analyzer.(warmer); ok {
				if err := w.Warmup(ctx); err != nil {
					e.warmErr = err
					return
				}
			}
		}
	})
	return e.warmErr
}

// processBatch analyzes one batch and persists the merged candidates. The
// classifier covers the whole batch in one call; the recognizer fans out over
// a bounded worker pool. Every image in a successful batch is marked
// processed, candidates or not.
func (e *Engine) processBatch(ctx context.Context, batch []catalog.PendingImage) (int, error) {
	paths := make([]string, len(batch))
	for i, img := range batch {
		paths[i] = img.Path
	}

	classified, err := e.classifier.ClassifyBatch(ctx, paths)
	if err != nil {
		return 0, fmt.Errorf("classify batch: %w", err)
	}
	if len(classified) != len(batch) {
		return 0, fmt.Errorf("classify batch: got %d results for %d images", len(classified), len(batch))
	}

	recognized := e.recognizeBatch(ctx, paths)

	created := 0
	for i, img := range batch {
		candidates := e.filterClassified(classified[i])
		candidates = append(candidates, fragmentCandidates(recognized[i])...)

		n, persistErr := e.persist(ctx, img.ID, candidates)
		created += n
		if persistErr != nil {
			e.logger.Warn("tag persistence incomplete", "image_id", img.ID, "error", persistErr)
		}
		// Processed is set even when nothing qualified so the worker never
		// revisits the image on its own.
		if err := e.store.MarkProcessed(ctx, img.ID); err != nil {
			return created, fmt.Errorf("mark processed %d: %w", img.ID, err)
		}
	}
	return created, nil
}

// recognizeBatch runs the recognizer over the batch with bounded
// parallelism. Recognition is best-effort: a failed image yields no
// fragments and the batch continues.
func (e *Engine) recognizeBatch(ctx context.Context, paths []string) [][]string {
	fragments := make([][]string, len(paths))
	if e.recognizer == nil || !e.cfg.Recognizer.Enabled {
		return fragments
	}

	workers := e.cfg.Recognizer.Workers
	if workers <= 0 {
		workers = 2
	}

	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup
	for i, path := range paths {
		wg.Add(1)
		go func(i int, path string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			found, err := e.recognizer.RecognizeText(ctx, path)
			if err != nil {
				e.logger.Debug("text recognition failed", "path", path, "error", err)
				return
			}
			fragments[i] = found
		}(i, path)
	}
	wg.Wait()
	return fragments
}

// filterClassified keeps classifier candidates above the confidence
// threshold, ordered strongest first.
func (e *Engine) filterClassified(candidates []Candidate) []Candidate {
	threshold := e.cfg.Classifier.ConfidenceThreshold
	kept := make([]Candidate, 0, len(candidates))
	for _, c := range candidates {
		if c.Confidence > threshold {
			kept = append(kept, c)
		}
	}
	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].Confidence > kept[j].Confidence
	})
	return kept
}

func fragmentCandidates(fragments []string) []Candidate {
	var candidates []Candidate
	for _, fragment := range fragments {
		if candidate, ok := ClassifyFragment(fragment); ok {
			candidates = append(candidates, candidate)
		}
	}
	return candidates
}

// persist creates tags and links for one image's candidates. Existing links
// are left untouched, so re-running the worker over an already-tagged image
// changes nothing. Returns how many links were newly created.
func (e *Engine) persist(ctx context.Context, imageID int64, candidates []Candidate) (int, error) {
	created := 0
	for _, candidate := range candidates {
		tag, err := e.store.FindOrCreateTag(ctx, candidate.Name, candidate.Category)
		if err != nil {
			return created, fmt.Errorf("tag %q: %w", candidate.Name, err)
		}
		added, err := e.store.CreateLinkIfAbsent(ctx, &catalog.TagLink{
			ImageID:    imageID,
			TagID:      tag.ID,
			Confidence: candidate.Confidence,
			Source:     candidate.Source,
		})
		if err != nil {
			return created, fmt.Errorf("link %q: %w", candidate.Name, err)
		}
		if added {
			created++
		}
	}
	return created, nil
}
