package catalog

import (
	"database/sql"
	"errors"
	"time"
)

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func nullableTime(value *time.Time) any {
	if value == nil {
		return nil
	}
	return value.UTC().Format(time.RFC3339Nano)
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}

type rowScanner interface{ Scan(dest ...any) error }

const imageColumns = "id, album_id, owner_id, filename, path, file_hash, captured_at, width, height, file_size, camera_model, processed, deleted, created_at"

func scanImage(scanner rowScanner) (*Image, error) {
	var (
		id          int64
		albumID     int64
		ownerID     sql.NullString
		filename    string
		path        string
		fileHash    string
		capturedRaw sql.NullString
		width       int
		height      int
		fileSize    int64
		cameraModel sql.NullString
		processed   int
		deleted     int
		createdRaw  sql.NullString
	)

	if err := scanner.Scan(
		&id,
		&albumID,
		&ownerID,
		&filename,
		&path,
		&fileHash,
		&capturedRaw,
		&width,
		&height,
		&fileSize,
		&cameraModel,
		&processed,
		&deleted,
		&createdRaw,
	); err != nil {
		return nil, err
	}

	img := &Image{
		ID:          id,
		AlbumID:     albumID,
		OwnerID:     ownerID.String,
		Filename:    filename,
		Path:        path,
		FileHash:    fileHash,
		Width:       width,
		Height:      height,
		FileSize:    fileSize,
		CameraModel: cameraModel.String,
		Processed:   processed != 0,
		Deleted:     deleted != 0,
	}
	if capturedRaw.Valid {
		if captured, err := parseTimeString(capturedRaw.String); err == nil {
			img.CapturedAt = &captured
		}
	}
	if created, err := parseTimeString(createdRaw.String); err == nil {
		img.CreatedAt = created
	}
	return img, nil
}

const albumColumns = "id, name, slug, root_path, owner_id, deleted, created_at"

func scanAlbum(scanner rowScanner) (*Album, error) {
	var (
		id         int64
		name       string
		slug       string
		rootPath   string
		ownerID    sql.NullString
		deleted    int
		createdRaw sql.NullString
	)
	if err := scanner.Scan(&id, &name, &slug, &rootPath, &ownerID, &deleted, &createdRaw); err != nil {
		return nil, err
	}
	album := &Album{
		ID:       id,
		Name:     name,
		Slug:     slug,
		RootPath: rootPath,
		OwnerID:  ownerID.String,
		Deleted:  deleted != 0,
	}
	if created, err := parseTimeString(createdRaw.String); err == nil {
		album.CreatedAt = created
	}
	return album, nil
}

const linkColumns = "image_id, tag_id, confidence, source, verified, created_at"

func scanLink(scanner rowScanner) (*TagLink, error) {
	var (
		imageID    int64
		tagID      int64
		confidence float64
		source     string
		verified   int
		createdRaw sql.NullString
	)
	if err := scanner.Scan(&imageID, &tagID, &confidence, &source, &verified, &createdRaw); err != nil {
		return nil, err
	}
	link := &TagLink{
		ImageID:    imageID,
		TagID:      tagID,
		Confidence: confidence,
		Source:     Source(source),
		Verified:   verified != 0,
	}
	if created, err := parseTimeString(createdRaw.String); err == nil {
		link.CreatedAt = created
	}
	return link, nil
}
