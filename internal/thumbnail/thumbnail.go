// Package thumbnail derives bounded-size JPEG previews from source images.
//
// Derivatives are named by the source's content fingerprint, so generation is
// idempotent: an existing target file is never rewritten. A failed thumbnail
// is a degraded record, not a failed ingestion, and the caller is expected to
// log and continue.
package thumbnail

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"
)

const (
	// DefaultBox is the default maximum bounding box edge in pixels.
	DefaultBox  = 400
	jpegQuality = 85
)

// Generate writes a JPEG derivative of src to dst that fits within a
// box-by-box bounding square while preserving aspect ratio. Transparent or
// indexed sources are flattened onto an opaque white background before
// encoding. If dst already exists the call is a no-op.
func Generate(src, dst string, box int) error {
	if box <= 0 {
		box = DefaultBox
	}
	if _, err := os.Stat(dst); err == nil {
		return nil
	}

	img, err := imaging.Open(src, imaging.AutoOrientation(true))
	if err != nil {
		return fmt.Errorf("decode %s: %w", src, err)
	}

	fitted := imaging.Fit(img, box, box, imaging.Lanczos)

	// JPEG has no alpha channel; composite onto white instead of letting the
	// encoder pick an arbitrary fill.
	bounds := fitted.Bounds()
	flattened := imaging.New(bounds.Dx(), bounds.Dy(), color.White)
	flattened = imaging.Overlay(flattened, fitted, bounds.Min, 1.0)

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("ensure thumbnail dir: %w", err)
	}
	if err := imaging.Save(flattened, dst, imaging.JPEGQuality(jpegQuality)); err != nil {
		return fmt.Errorf("encode %s: %w", dst, err)
	}
	return nil
}

// TargetPath returns the deterministic derivative path for a content
// fingerprint inside dir.
func TargetPath(dir, fprint string) string {
	return filepath.Join(dir, fprint+".jpg")
}
