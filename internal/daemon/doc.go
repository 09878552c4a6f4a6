// Package daemon runs the long-lived pictord process: it owns the catalog
// store, enforces single-instance execution through a lock file, serves the
// trigger API, and sweeps unprocessed images through the tagging engine on a
// poll interval.
package daemon
