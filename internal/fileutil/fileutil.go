// Package fileutil wraps the file operations the store needs: random
// access reads, appends at a known offset, syncing and stat.
package fileutil

import "os"

// Handle abstracts the single log file behind the store.
type Handle interface {
	// ReadAt reads len(b) bytes from the file starting at byte offset off.
	ReadAt(b []byte, off int64) (int, error)
	// WriteAt writes len(b) bytes to the file starting at byte offset off.
	WriteAt(b []byte, off int64) (int, error)
	// Sync commits the current contents of the file to stable storage.
	Sync() error
	// Stat returns the file stat.
	Stat() (os.FileInfo, error)
	// Close closes the handle, rendering it unusable for I/O.
	Close() error
}

// Open opens the file at path for combined read/write access, creating
// it if it does not exist.
func Open(path string, perm os.FileMode) (Handle, error) {
	return os.OpenFile(path, os.O_RDWR|os.O_CREATE, perm)
}
