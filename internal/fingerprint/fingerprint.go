// Package fingerprint computes deterministic content fingerprints for files.
//
// The fingerprint is a SHA-256 hash over the full byte stream, read in fixed
// chunks so memory use stays bounded regardless of file size. Identical bytes
// always produce identical fingerprints, which makes the value usable both
// for duplicate detection and as a deterministic derivative filename.
package fingerprint

import (
	"bufio"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
)

const chunkSize = 32 * 1024

// File returns the hex-encoded SHA-256 fingerprint of the file at path.
func File(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	sum, err := Reader(f)
	if err != nil {
		return "", fmt.Errorf("fingerprint %s: %w", path, err)
	}
	return sum, nil
}

// Reader returns the hex-encoded SHA-256 fingerprint of everything readable
// from r.
func Reader(r io.Reader) (string, error) {
	hasher := sha256.New()
	buf := bufio.NewReaderSize(r, chunkSize)
	if _, err := io.Copy(hasher, buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(hasher.Sum(nil)), nil
}
