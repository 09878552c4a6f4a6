package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/google/uuid"

	"pictor/internal/catalog"
	"pictor/internal/config"
	"pictor/internal/fingerprint"
	"pictor/internal/imagemeta"
	"pictor/internal/scanner"
	"pictor/internal/textutil"
	"pictor/internal/thumbnail"
)

// Stats summarizes one ingestion run.
type Stats struct {
	Added   int
	Skipped int
	Errors  int
}

// Pipeline ingests an import tree into the catalog.
type Pipeline struct {
	cfg    *config.Config
	store  *catalog.Store
	logger *slog.Logger
}

// NewPipeline wires an ingestion pipeline against the given store.
func NewPipeline(cfg *config.Config, store *catalog.Store, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{cfg: cfg, store: store, logger: logger}
}

// Run ingests every supported image under root. Archives are expanded first
// so their contents join the same scan. Each file either adds a new catalog
// row, is skipped as a duplicate, or counts as an error; no single file can
// abort the run. A missing root yields empty stats and no error.
func (p *Pipeline) Run(ctx context.Context, root, ownerID string) (Stats, error) {
	runID := uuid.NewString()
	logger := p.logger.With("run_id", runID)

	var stats Stats
	stats.Errors += expandArchives(ctx, root, logger)

	result, err := scanner.Scan(root)
	if err != nil {
		return stats, fmt.Errorf("scan %s: %w", root, err)
	}
	if result.MissingRoot {
		logger.Warn("import root does not exist", "root", root)
		return stats, nil
	}

	logger.Info("ingestion started", "root", root, "files", len(result.Paths))
	for _, path := range result.Paths {
		if ctx.Err() != nil {
			return stats, ctx.Err()
		}
		switch added, fileErr := p.ingestFile(ctx, root, path, ownerID); {
		case fileErr != nil:
			stats.Errors++
			logger.Warn("file ingestion failed", "path", path, "error", fileErr)
		case added:
			stats.Added++
		default:
			stats.Skipped++
		}
	}

	logger.Info("ingestion finished",
		"added", stats.Added, "skipped", stats.Skipped, "errors", stats.Errors)
	return stats, nil
}

// ingestFile registers one file. Reports whether a new image was added;
// false with a nil error means the content was already cataloged.
func (p *Pipeline) ingestFile(ctx context.Context, root, path, ownerID string) (bool, error) {
	fprint, err := fingerprint.File(path)
	if err != nil {
		return false, fmt.Errorf("fingerprint: %w", err)
	}

	existing, err := p.store.FindImageByFingerprint(ctx, fprint)
	if err != nil {
		return false, err
	}
	if existing != nil {
		return false, nil
	}

	meta, err := imagemeta.Extract(path)
	if err != nil {
		return false, fmt.Errorf("metadata: %w", err)
	}

	// Thumbnails are best-effort; the image is cataloged either way.
	thumbPath := thumbnail.TargetPath(p.cfg.Paths.ThumbnailDir, fprint)
	if thumbErr := thumbnail.Generate(path, thumbPath, p.cfg.Thumbnails.MaxEdge); thumbErr != nil {
		p.logger.Warn("thumbnail generation failed", "path", path, "error", thumbErr)
	}

	album, err := p.resolveAlbum(ctx, root, path, ownerID)
	if err != nil {
		return false, err
	}

	// Archive entries can carry characters the catalog's consumers choke on;
	// the recorded display name is sanitized, the path stays as found.
	filename := textutil.SanitizeFileName(filepath.Base(path))
	if filename == "" {
		filename = fprint
	}

	_, err = p.store.InsertImage(ctx, &catalog.Image{
		AlbumID:     album.ID,
		OwnerID:     ownerID,
		Filename:    filename,
		Path:        path,
		FileHash:    fprint,
		CapturedAt:  meta.CapturedAt,
		Width:       meta.Width,
		Height:      meta.Height,
		FileSize:    meta.FileSize,
		CameraModel: meta.CameraModel,
	})
	if err != nil {
		return false, fmt.Errorf("insert image: %w", err)
	}
	return true, nil
}

// resolveAlbum maps a file to the album of its parent directory. Files
// sitting directly in the root share an album named after the root itself.
func (p *Pipeline) resolveAlbum(ctx context.Context, root, path, ownerID string) (*catalog.Album, error) {
	dir := filepath.Dir(path)
	name := filepath.Base(dir)
	if name == "." || name == string(filepath.Separator) {
		name = filepath.Base(root)
	}
	slug := textutil.Slugify(name)
	album, err := p.store.FindOrCreateAlbum(ctx, name, slug, dir, ownerID)
	if err != nil {
		return nil, fmt.Errorf("resolve album %q: %w", name, err)
	}
	return album, nil
}
