// Package imagemeta reads intrinsic image properties and embedded capture
// metadata.
//
// Dimensions and byte size always come from the file itself. The capture
// timestamp and camera model are best-effort EXIF reads: absent or malformed
// EXIF degrades to zero values and never fails the extraction.
package imagemeta

import (
	"fmt"
	"image"
	"os"
	"strings"
	"time"

	_ "image/jpeg"
	_ "image/png"

	"github.com/rwcarlsen/goexif/exif"
	_ "golang.org/x/image/webp"
)

// exifTimeLayout is the canonical embedded timestamp format. Anything else
// yields a nil capture time rather than an error.
const exifTimeLayout = "2006:01:02 15:04:05"

// Metadata describes one image file.
type Metadata struct {
	Width       int
	Height      int
	FileSize    int64
	CapturedAt  *time.Time
	CameraModel string
}

// Extract reads Metadata for the file at path. Only filesystem access errors
// are returned; undecodable pixel data or EXIF leaves the corresponding
// fields at their zero values.
func Extract(path string) (Metadata, error) {
	var meta Metadata

	info, err := os.Stat(path)
	if err != nil {
		return meta, fmt.Errorf("stat %s: %w", path, err)
	}
	meta.FileSize = info.Size()

	f, err := os.Open(path)
	if err != nil {
		return meta, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	if cfg, _, decodeErr := image.DecodeConfig(f); decodeErr == nil {
		meta.Width = cfg.Width
		meta.Height = cfg.Height
	}

	if _, err := f.Seek(0, 0); err != nil {
		return meta, nil
	}
	applyExif(f, &meta)
	return meta, nil
}

func applyExif(f *os.File, meta *Metadata) {
	x, err := exif.Decode(f)
	if err != nil {
		return
	}

	if tag, tagErr := x.Get(exif.Model); tagErr == nil {
		if model, strErr := tag.StringVal(); strErr == nil {
			meta.CameraModel = strings.TrimSpace(model)
		}
	}

	meta.CapturedAt = captureTime(x)
}

// captureTime prefers DateTimeOriginal and falls back to DateTime, matching
// the priority cameras use when rewriting files.
func captureTime(x *exif.Exif) *time.Time {
	for _, field := range []exif.FieldName{exif.DateTimeOriginal, exif.DateTime} {
		tag, err := x.Get(field)
		if err != nil {
			continue
		}
		raw, err := tag.StringVal()
		if err != nil {
			continue
		}
		if ts, ok := ParseTimestamp(raw); ok {
			return &ts
		}
	}
	return nil
}

// ParseTimestamp parses the canonical "YYYY:MM:DD HH:MM:SS" embedded
// timestamp. Any other format reports false.
func ParseTimestamp(value string) (time.Time, bool) {
	ts, err := time.ParseInLocation(exifTimeLayout, strings.TrimSpace(value), time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return ts, true
}
