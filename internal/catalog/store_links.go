package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// GetLink returns the link for one (image, tag) pair, or nil.
func (s *Store) GetLink(ctx context.Context, imageID, tagID int64) (*TagLink, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+linkColumns+` FROM image_tags WHERE image_id = ? AND tag_id = ? LIMIT 1`,
		imageID, tagID)
	link, err := scanLink(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get link: %w", err)
	}
	return link, nil
}

// CreateLinkIfAbsent inserts a link unless one already exists for the pair.
// Existing links are left untouched so a worker re-run never alters an
// earlier review decision. Reports whether a row was created.
func (s *Store) CreateLinkIfAbsent(ctx context.Context, link *TagLink) (bool, error) {
	if link == nil {
		return false, errors.New("link is nil")
	}

	existing, err := s.GetLink(ctx, link.ImageID, link.TagID)
	if err != nil {
		return false, err
	}
	if existing != nil {
		return false, nil
	}

	now := time.Now().UTC()
	_, err = s.execWithRetry(ctx,
		`INSERT INTO image_tags (image_id, tag_id, confidence, source, verified, created_at)
         VALUES (?, ?, ?, ?, ?, ?)`,
		link.ImageID,
		link.TagID,
		link.Confidence,
		string(link.Source),
		boolToInt(link.Verified),
		now.Format(time.RFC3339Nano),
	)
	if err != nil {
		// Lost a concurrent creation race; the pair now has a link either way.
		if isUniqueViolation(err) {
			return false, nil
		}
		return false, fmt.Errorf("insert link: %w", err)
	}
	return true, nil
}

// ListReviewQueue returns unverified links whose confidence lies strictly
// between the bounds, excluding soft-deleted images. At or below the lower
// bound is noise and never surfaced; at or above the upper bound is trusted
// without review.
func (s *Store) ListReviewQueue(ctx context.Context, lowerBound, upperBound float64, limit int) ([]ReviewItem, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT it.image_id, it.tag_id, i.file_hash, i.filename, t.name, t.category, it.confidence, it.source
         FROM image_tags it
         JOIN images i ON i.id = it.image_id
         JOIN tags t ON t.id = it.tag_id
         WHERE it.verified = 0
           AND it.confidence > ?
           AND it.confidence < ?
           AND i.deleted = 0
         ORDER BY it.confidence DESC, it.image_id
         LIMIT ?`,
		lowerBound, upperBound, limit)
	if err != nil {
		return nil, fmt.Errorf("list review queue: %w", err)
	}
	defer rows.Close()
	return collectReviewItems(rows)
}

// ApproveLink marks a link verified with full confidence.
func (s *Store) ApproveLink(ctx context.Context, imageID, tagID int64) error {
	if err := s.execWithoutResultRetry(ctx,
		`UPDATE image_tags SET verified = 1, confidence = 1.0 WHERE image_id = ? AND tag_id = ?`,
		imageID, tagID); err != nil {
		return fmt.Errorf("approve link: %w", err)
	}
	return nil
}

// DeleteLink removes a link entirely. Rejection has no persisted state: the
// association simply ceases to exist.
func (s *Store) DeleteLink(ctx context.Context, imageID, tagID int64) error {
	if err := s.execWithoutResultRetry(ctx,
		`DELETE FROM image_tags WHERE image_id = ? AND tag_id = ?`,
		imageID, tagID); err != nil {
		return fmt.Errorf("delete link: %w", err)
	}
	return nil
}

// CountImageLinks returns the number of links attached to an image.
func (s *Store) CountImageLinks(ctx context.Context, imageID int64) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM image_tags WHERE image_id = ?`, imageID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count image links: %w", err)
	}
	return count, nil
}
