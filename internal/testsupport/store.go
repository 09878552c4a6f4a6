package testsupport

import (
	"context"
	"testing"

	"pictor/internal/catalog"
	"pictor/internal/config"
)

// MustOpenStore opens a catalog.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *catalog.Store {
	t.Helper()

	store, err := catalog.Open(cfg)
	if err != nil {
		t.Fatalf("catalog.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// NewAlbum creates an album for tests using the provided store.
func NewAlbum(t testing.TB, store *catalog.Store, name, slug string) *catalog.Album {
	t.Helper()

	album, err := store.FindOrCreateAlbum(context.Background(), name, slug, "/photos/"+slug, "")
	if err != nil {
		t.Fatalf("store.FindOrCreateAlbum: %v", err)
	}
	return album
}

// NewImage inserts an unprocessed image for tests.
func NewImage(t testing.TB, store *catalog.Store, albumID int64, filename, fprint string) *catalog.Image {
	t.Helper()

	img, err := store.InsertImage(context.Background(), &catalog.Image{
		AlbumID:  albumID,
		Filename: filename,
		Path:     "/photos/" + filename,
		FileHash: fprint,
		Width:    640,
		Height:   480,
		FileSize: 1024,
	})
	if err != nil {
		t.Fatalf("store.InsertImage: %v", err)
	}
	return img
}

// LinkTag attaches a tag with the given confidence to an image and returns
// the tag. The link is created unverified with a classifier source.
func LinkTag(t testing.TB, store *catalog.Store, imageID int64, name string, confidence float64) *catalog.Tag {
	t.Helper()

	ctx := context.Background()
	tag, err := store.FindOrCreateTag(ctx, name, catalog.CategoryClassified)
	if err != nil {
		t.Fatalf("store.FindOrCreateTag: %v", err)
	}
	if _, err := store.CreateLinkIfAbsent(ctx, &catalog.TagLink{
		ImageID:    imageID,
		TagID:      tag.ID,
		Confidence: confidence,
		Source:     catalog.SourceClassifier,
	}); err != nil {
		t.Fatalf("store.CreateLinkIfAbsent: %v", err)
	}
	return tag
}
