// Package catalog persists the photo catalog in SQLite: albums, images,
// tags, and the links between images and tags.
//
// The Store manages the database connection, schema initialization, and all
// queries. Uniqueness constraints on image fingerprints, album slugs, and
// (image, tag) pairs double as the concurrency backstop: find-or-create
// operations commit immediately and fall back to the existing row when an
// insert loses a race.
//
// Images and albums are soft-deleted only. A deleted image keeps its
// fingerprint row so re-ingesting the same bytes stays a skip, never a
// duplicate. Tag links are the exception: rejecting one deletes the row.
//
// Treat this package as the single source of truth for catalog semantics;
// schema changes bump schemaVersion in schema.go.
package catalog
