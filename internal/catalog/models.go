package catalog

import "time"

// Source identifies what produced a tag link.
type Source string

const (
	// SourceManual marks a human-created link (full confidence, verified).
	SourceManual Source = "manual"
	// SourceClassifier marks a link produced by the semantic label matcher.
	SourceClassifier Source = "clip"
	// SourceRecognizer marks a link produced by the text recognizer.
	SourceRecognizer Source = "ocr"
)

// Tag categories used by the analyzers and manual tagging.
const (
	CategoryGeneral    = "general"
	CategoryClassified = "auto_classified"
	CategoryNumber     = "number"
	CategoryText       = "text"
)

// Album is a named grouping of images, one per distinct source directory.
type Album struct {
	ID        int64
	Name      string
	Slug      string
	RootPath  string
	OwnerID   string
	Deleted   bool
	CreatedAt time.Time
}

// Image is one ingested photograph, unique per content fingerprint.
// Records are never physically removed; Deleted hides an image from listings
// while its fingerprint keeps blocking re-ingestion of the same bytes.
type Image struct {
	ID          int64
	AlbumID     int64
	OwnerID     string
	Filename    string
	Path        string
	FileHash    string
	CapturedAt  *time.Time
	Width       int
	Height      int
	FileSize    int64
	CameraModel string
	Processed   bool
	Deleted     bool
	CreatedAt   time.Time
}

// Tag is a globally unique named label.
type Tag struct {
	ID       int64
	Name     string
	Category string
}

// TagLink associates one image with one tag. At most one link exists per
// (image, tag) pair; rejection deletes the row rather than flagging it.
type TagLink struct {
	ImageID    int64
	TagID      int64
	Confidence float64
	Source     Source
	Verified   bool
	CreatedAt  time.Time
}

// PendingImage is the detached (id, path) projection the tagging worker
// fetches before its compute phase so no transaction stays open during
// inference.
type PendingImage struct {
	ID   int64
	Path string
}

// ReviewItem is one review-queue entry joined with image and tag details.
type ReviewItem struct {
	ImageID    int64
	TagID      int64
	ImageHash  string
	Filename   string
	TagName    string
	Category   string
	Confidence float64
	Source     Source
}

// Stats aggregates catalog counts for dashboards and the CLI.
type Stats struct {
	Albums        int
	Images        int
	Unprocessed   int
	Tags          int
	Links         int
	PendingReview int
}
