// Package storage provides the on-disk cache of raw Course Explorer documents.
//
// Two backends are available: a directory of gzip-compressed files (one per document
// key) and a single SQLite database. Both report their total size so callers can
// flush the cache once it grows past a limit. The default location is
// ~/.cache/coursecal/.
package storage
