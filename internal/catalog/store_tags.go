package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// GetTagByName returns the tag with the given name, or nil.
func (s *Store) GetTagByName(ctx context.Context, name string) (*Tag, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, category FROM tags WHERE name = ? LIMIT 1`, name)
	var tag Tag
	err := row.Scan(&tag.ID, &tag.Name, &tag.Category)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get tag by name: %w", err)
	}
	return &tag, nil
}

// FindOrCreateTag resolves a tag by name, creating and committing it on
// first use so later candidates in the same worker batch find the row
// instead of racing to create it. On a lost creation race the existing row
// wins; its category is not rewritten.
func (s *Store) FindOrCreateTag(ctx context.Context, name, category string) (*Tag, error) {
	if name == "" {
		return nil, errors.New("tag name required")
	}
	if category == "" {
		category = CategoryGeneral
	}

	if tag, err := s.GetTagByName(ctx, name); err != nil {
		return nil, err
	} else if tag != nil {
		return tag, nil
	}

	res, err := s.execWithRetry(ctx,
		`INSERT INTO tags (name, category) VALUES (?, ?)`, name, category)
	if err != nil {
		if isUniqueViolation(err) {
			tag, lookupErr := s.GetTagByName(ctx, name)
			if lookupErr != nil {
				return nil, lookupErr
			}
			if tag != nil {
				return tag, nil
			}
		}
		return nil, fmt.Errorf("insert tag: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return &Tag{ID: id, Name: name, Category: category}, nil
}

// ListImageTags returns the tags linked to one image together with each
// link's confidence and verification state.
func (s *Store) ListImageTags(ctx context.Context, imageID int64) ([]ReviewItem, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT it.image_id, it.tag_id, i.file_hash, i.filename, t.name, t.category, it.confidence, it.source
         FROM image_tags it
         JOIN images i ON i.id = it.image_id
         JOIN tags t ON t.id = it.tag_id
         WHERE it.image_id = ?
         ORDER BY it.confidence DESC`, imageID)
	if err != nil {
		return nil, fmt.Errorf("list image tags: %w", err)
	}
	defer rows.Close()
	return collectReviewItems(rows)
}

func collectReviewItems(rows *sql.Rows) ([]ReviewItem, error) {
	var items []ReviewItem
	for rows.Next() {
		var (
			item   ReviewItem
			source string
		)
		if err := rows.Scan(&item.ImageID, &item.TagID, &item.ImageHash, &item.Filename,
			&item.TagName, &item.Category, &item.Confidence, &source); err != nil {
			return nil, fmt.Errorf("scan review item: %w", err)
		}
		item.Source = Source(source)
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate review items: %w", err)
	}
	return items, nil
}
