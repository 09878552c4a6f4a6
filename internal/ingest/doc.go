// Package ingest walks an import tree and registers its photos in the
// catalog. A run expands zip archives in place, scans for supported images,
// fingerprints each file, and inserts anything the catalog has not seen.
// Duplicate content is skipped by fingerprint; per-file failures are counted
// and never abort the run.
package ingest
