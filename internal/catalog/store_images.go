package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// InsertImage persists a new image record. The caller must have verified no
// image with the same fingerprint exists; the UNIQUE index on file_hash is
// the final backstop and surfaces as an error here.
func (s *Store) InsertImage(ctx context.Context, img *Image) (*Image, error) {
	if img == nil {
		return nil, errors.New("image is nil")
	}
	if img.FileHash == "" {
		return nil, errors.New("image fingerprint required")
	}
	now := time.Now().UTC()

	res, err := s.execWithRetry(
		ctx,
		`INSERT INTO images (
            album_id, owner_id, filename, path, file_hash, captured_at,
            width, height, file_size, camera_model, processed, deleted, created_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		img.AlbumID,
		nullableString(img.OwnerID),
		img.Filename,
		img.Path,
		img.FileHash,
		nullableTime(img.CapturedAt),
		img.Width,
		img.Height,
		img.FileSize,
		nullableString(img.CameraModel),
		boolToInt(img.Processed),
		boolToInt(img.Deleted),
		now.Format(time.RFC3339Nano),
	)
	if err != nil {
		return nil, fmt.Errorf("insert image: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetImageByID(ctx, id)
}

// GetImageByID fetches an image by identifier, including soft-deleted rows.
func (s *Store) GetImageByID(ctx context.Context, id int64) (*Image, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+imageColumns+` FROM images WHERE id = ?`, id)
	img, err := scanImage(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get image: %w", err)
	}
	return img, nil
}

// FindImageByFingerprint returns the image with the given content hash.
// Soft-deleted rows are included on purpose: a deleted image still blocks
// re-ingestion of the same bytes.
func (s *Store) FindImageByFingerprint(ctx context.Context, fprint string) (*Image, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT `+imageColumns+` FROM images WHERE file_hash = ? LIMIT 1`,
		fprint,
	)
	img, err := scanImage(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find by fingerprint: %w", err)
	}
	return img, nil
}

// ListPending returns the (id, path) projection of every live image the
// tagging worker still has to visit. The result is a detached snapshot; no
// transaction stays open while the worker computes.
func (s *Store) ListPending(ctx context.Context) ([]PendingImage, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, path FROM images WHERE processed = 0 AND deleted = 0 ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list pending: %w", err)
	}
	defer rows.Close()

	var pending []PendingImage
	for rows.Next() {
		var p PendingImage
		if err := rows.Scan(&p.ID, &p.Path); err != nil {
			return nil, fmt.Errorf("scan pending: %w", err)
		}
		pending = append(pending, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pending: %w", err)
	}
	return pending, nil
}

// MarkProcessed flips the processed flag for one image.
func (s *Store) MarkProcessed(ctx context.Context, imageID int64) error {
	if err := s.execWithoutResultRetry(ctx,
		`UPDATE images SET processed = 1 WHERE id = ?`, imageID); err != nil {
		return fmt.Errorf("mark processed: %w", err)
	}
	return nil
}

// ResetProcessed clears the processed flag so the next worker run revisits
// the image. Used to request reanalysis; any tag rejected in review may be
// regenerated and re-surfaced by that run.
func (s *Store) ResetProcessed(ctx context.Context, imageID int64) error {
	if err := s.execWithoutResultRetry(ctx,
		`UPDATE images SET processed = 0 WHERE id = ?`, imageID); err != nil {
		return fmt.Errorf("reset processed: %w", err)
	}
	return nil
}

// SoftDeleteImage hides an image from listings and future tagging while
// keeping the row so its fingerprint continues to block duplicates.
func (s *Store) SoftDeleteImage(ctx context.Context, imageID int64) error {
	if err := s.execWithoutResultRetry(ctx,
		`UPDATE images SET deleted = 1 WHERE id = ?`, imageID); err != nil {
		return fmt.Errorf("soft delete image: %w", err)
	}
	return nil
}

// ListAlbumImages returns the live images of one album ordered by capture
// time when known, falling back to insertion order.
func (s *Store) ListAlbumImages(ctx context.Context, albumID int64) ([]*Image, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+imageColumns+` FROM images
         WHERE album_id = ? AND deleted = 0
         ORDER BY captured_at IS NULL, captured_at, id`, albumID)
	if err != nil {
		return nil, fmt.Errorf("list album images: %w", err)
	}
	defer rows.Close()

	var images []*Image
	for rows.Next() {
		img, err := scanImage(rows)
		if err != nil {
			return nil, fmt.Errorf("scan image: %w", err)
		}
		images = append(images, img)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate images: %w", err)
	}
	return images, nil
}
