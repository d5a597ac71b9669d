package db

import (
	"github.com/dgraph-io/badger/v3"
)

// OpenInMemory opens a BadgerDB instance that keeps all data in memory.
// Nothing is written to disk and everything is discarded on Close.
func OpenInMemory() (*badger.DB, error) {
	opts := badger.DefaultOptions("").
		WithInMemory(true).
		WithLogger(nil) // Disable Badger's default logger

	return badger.Open(opts)
}
