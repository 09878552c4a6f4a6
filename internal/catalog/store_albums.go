package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// GetAlbumBySlug returns the album with the given slug, or nil.
func (s *Store) GetAlbumBySlug(ctx context.Context, slug string) (*Album, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+albumColumns+` FROM albums WHERE slug = ? LIMIT 1`, slug)
	album, err := scanAlbum(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get album by slug: %w", err)
	}
	return album, nil
}

// FindOrCreateAlbum resolves an album by slug, creating and committing it on
// first use. When two callers race to create the same slug, the loser's
// insert fails the UNIQUE constraint and resolution falls back to the row
// the winner committed.
func (s *Store) FindOrCreateAlbum(ctx context.Context, name, slug, rootPath, ownerID string) (*Album, error) {
	if slug == "" {
		return nil, errors.New("album slug required")
	}

	if album, err := s.GetAlbumBySlug(ctx, slug); err != nil {
		return nil, err
	} else if album != nil {
		return album, nil
	}

	now := time.Now().UTC()
	res, err := s.execWithRetry(ctx,
		`INSERT INTO albums (name, slug, root_path, owner_id, deleted, created_at)
         VALUES (?, ?, ?, ?, 0, ?)`,
		name,
		slug,
		rootPath,
		nullableString(ownerID),
		now.Format(time.RFC3339Nano),
	)
	if err != nil {
		if isUniqueViolation(err) {
			album, lookupErr := s.GetAlbumBySlug(ctx, slug)
			if lookupErr != nil {
				return nil, lookupErr
			}
			if album != nil {
				return album, nil
			}
		}
		return nil, fmt.Errorf("insert album: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetAlbumByID(ctx, id)
}

// GetAlbumByID fetches an album by identifier.
func (s *Store) GetAlbumByID(ctx context.Context, id int64) (*Album, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+albumColumns+` FROM albums WHERE id = ?`, id)
	album, err := scanAlbum(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get album: %w", err)
	}
	return album, nil
}

// ListAlbums returns all live albums ordered by name.
func (s *Store) ListAlbums(ctx context.Context) ([]*Album, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+albumColumns+` FROM albums WHERE deleted = 0 ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list albums: %w", err)
	}
	defer rows.Close()

	var albums []*Album
	for rows.Next() {
		album, err := scanAlbum(rows)
		if err != nil {
			return nil, fmt.Errorf("scan album: %w", err)
		}
		albums = append(albums, album)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate albums: %w", err)
	}
	return albums, nil
}

// SoftDeleteAlbum hides an album. With cascade set, its images are
// soft-deleted too; their fingerprints keep blocking re-ingestion either way.
func (s *Store) SoftDeleteAlbum(ctx context.Context, albumID int64, cascade bool) error {
	if err := s.execWithoutResultRetry(ctx,
		`UPDATE albums SET deleted = 1 WHERE id = ?`, albumID); err != nil {
		return fmt.Errorf("soft delete album: %w", err)
	}
	if cascade {
		if err := s.execWithoutResultRetry(ctx,
			`UPDATE images SET deleted = 1 WHERE album_id = ?`, albumID); err != nil {
			return fmt.Errorf("soft delete album images: %w", err)
		}
	}
	return nil
}
