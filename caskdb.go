// Package caskdb is a minimal persistent key-value store backed by a
// single append-only log file.
//
// Every write appends an immutable record to the log; an in-memory
// index (the KeyDir) maps each key to the byte offset of its latest
// record. Opening a store rebuilds the index by scanning the log, so
// startup time grows with the file. Writes are a single append, reads
// are a single seek.
//
// A DB is not safe for concurrent use. Callers sharing one instance
// across goroutines must serialize access, and two DB instances must
// never share a file path.
//
// Example usage:
//
//	db, err := caskdb.Open("books.db", nil)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer db.Close()
//
//	if err := db.Set("othello", "shakespeare"); err != nil {
//		log.Printf("Set failed: %v", err)
//	}
//
//	value, found, err := db.Get("othello")
//	if err != nil {
//		log.Printf("Get failed: %v", err)
//	} else if found {
//		fmt.Printf("Value: %s\n", value)
//	}
package caskdb

import (
	"caskdb/internal/config"
	"caskdb/internal/format"
	"caskdb/internal/store"
)

// Config is an alias for config.Config, re-exported for user convenience.
type Config = config.Config

// DefaultConfig returns a Config struct populated with default values. Re-exported for user convenience.
var DefaultConfig = config.DefaultConfig

// Error sentinels re-exported from the internal packages. Match them
// with errors.Is; any other error from a DB operation is a wrapped
// I/O failure.
var (
	// ErrCorruptRecord reports a log whose bytes run out mid-record,
	// detected either by the open-time scan or by a point read.
	ErrCorruptRecord = format.ErrCorruptRecord
	// ErrEncoding reports a key or value that is not valid UTF-8 text
	// or whose length exceeds the on-disk u32 size fields.
	ErrEncoding = format.ErrEncoding
	// ErrStoreClosed reports an operation on a closed DB.
	ErrStoreClosed = store.ErrStoreClosed
)

// DB represents a caskdb instance. All methods delegate directly to
// the underlying disk store with identical semantics.
type DB struct {
	store *store.DiskStore
}

// Open opens or creates a caskdb store at the specified path.
//
// The log file is created if it doesn't exist. If the store exists,
// its index is rebuilt by scanning the log; a log that ends mid-record
// makes Open fail with ErrCorruptRecord.
//
// A nil cfg uses defaults.
func Open(path string, cfg *Config) (*DB, error) {
	s, err := store.Open(path, cfg)
	if err != nil {
		return nil, err
	}
	return &DB{store: s}, nil
}

// Set writes a key-value pair to the store, overwriting any previous
// value for the key. The old record stays on disk but becomes
// unreachable.
func (db *DB) Set(key, value string) error {
	return db.store.Set(key, value)
}

// Get retrieves the value for a given key. It returns the value and
// true if found, or "" and false if the key doesn't exist — a missing
// key is not an error.
func (db *DB) Get(key string) (string, bool, error) {
	return db.store.Get(key)
}

// Has reports whether key exists without reading the log.
func (db *DB) Has(key string) (bool, error) {
	return db.store.Has(key)
}

// Keys returns all live keys, in no particular order.
func (db *DB) Keys() ([]string, error) {
	return db.store.Keys()
}

// Len returns the number of live keys.
func (db *DB) Len() (int, error) {
	return db.store.Len()
}

// Sync forces buffered appends to stable storage. Set alone does not
// guarantee durability unless Config.SyncOnSet is enabled.
func (db *DB) Sync() error {
	return db.store.Sync()
}

// Close syncs the log and releases the file handle. The DB must not be
// used afterwards: every later call, including Close, returns
// ErrStoreClosed.
func (db *DB) Close() error {
	return db.store.Close()
}
