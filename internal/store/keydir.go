package store

// KeyDir is the in-memory index mapping each key to the byte offset of
// its most recently appended record in the log file.
//
// It is not persisted: Open rebuilds it by scanning the log from the
// start. Older records for a key may still exist on disk after an
// overwrite, but they are unreachable through the KeyDir.
type KeyDir map[string]int64
