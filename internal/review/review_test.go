package review_test

import (
	"context"
	"errors"
	"testing"

	"pictor/internal/review"
	"pictor/internal/testsupport"
)

func TestListHonorsWindow(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	album := testsupport.NewAlbum(t, store, "Holiday", "holiday")
	img := testsupport.NewImage(t, store, album.ID, "one.jpg", "hash-1")

	testsupport.LinkTag(t, store, img.ID, "too-low", 0.29)
	mid := testsupport.LinkTag(t, store, img.ID, "reviewable", 0.50)
	testsupport.LinkTag(t, store, img.ID, "trusted", 0.90)

	queue := review.NewQueue(cfg, store, nil)
	items, err := queue.List(ctx, 10)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 1 || items[0].TagID != mid.ID {
		t.Fatalf("expected only the mid-confidence link, got %+v", items)
	}
}

func TestApplyApprove(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	album := testsupport.NewAlbum(t, store, "Holiday", "holiday")
	img := testsupport.NewImage(t, store, album.ID, "one.jpg", "hash-1")
	tag := testsupport.LinkTag(t, store, img.ID, "car", 0.50)

	queue := review.NewQueue(cfg, store, nil)
	if err := queue.Apply(ctx, img.ID, tag.ID, review.ActionApprove); err != nil {
		t.Fatalf("Apply approve: %v", err)
	}

	link, err := store.GetLink(ctx, img.ID, tag.ID)
	if err != nil {
		t.Fatalf("GetLink: %v", err)
	}
	if link == nil || !link.Verified || link.Confidence != 1.0 {
		t.Fatalf("approval must verify at full confidence: %+v", link)
	}

	// An approved link leaves the queue.
	items, err := queue.List(ctx, 10)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("queue must be empty after approval, got %+v", items)
	}
}

func TestApplyReject(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	album := testsupport.NewAlbum(t, store, "Holiday", "holiday")
	img := testsupport.NewImage(t, store, album.ID, "one.jpg", "hash-1")
	tag := testsupport.LinkTag(t, store, img.ID, "car", 0.50)

	queue := review.NewQueue(cfg, store, nil)
	if err := queue.Apply(ctx, img.ID, tag.ID, review.ActionReject); err != nil {
		t.Fatalf("Apply reject: %v", err)
	}

	link, err := store.GetLink(ctx, img.ID, tag.ID)
	if err != nil {
		t.Fatalf("GetLink: %v", err)
	}
	if link != nil {
		t.Fatalf("rejected link must be deleted: %+v", link)
	}
}

func TestApplyInvalidAction(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	album := testsupport.NewAlbum(t, store, "Holiday", "holiday")
	img := testsupport.NewImage(t, store, album.ID, "one.jpg", "hash-1")
	tag := testsupport.LinkTag(t, store, img.ID, "car", 0.50)

	queue := review.NewQueue(cfg, store, nil)
	err := queue.Apply(ctx, img.ID, tag.ID, "defer")
	if !errors.Is(err, review.ErrInvalidAction) {
		t.Fatalf("got %v, want ErrInvalidAction", err)
	}

	// The link is untouched.
	link, err := store.GetLink(ctx, img.ID, tag.ID)
	if err != nil {
		t.Fatalf("GetLink: %v", err)
	}
	if link == nil || link.Verified || link.Confidence != 0.50 {
		t.Fatalf("invalid action must not mutate the link: %+v", link)
	}
}

func TestApplyMissingLink(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	queue := review.NewQueue(cfg, store, nil)
	err := queue.Apply(context.Background(), 77, 88, review.ActionApprove)
	if !errors.Is(err, review.ErrLinkNotFound) {
		t.Fatalf("got %v, want ErrLinkNotFound", err)
	}
}
