// Package textutil provides text normalization helpers for slugs and
// filesystem-safe names.
//
// Slugs identify albums: the parent directory of an ingested file is reduced
// to a lowercase ASCII token so that different spellings of the same
// directory ("Track Day", "track_day") converge on one album. Diacritics are
// stripped through Unicode decomposition before unsupported runes collapse
// to hyphens.
package textutil
