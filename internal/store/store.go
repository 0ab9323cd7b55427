// Package store implements the disk-backed key-value store: a single
// append-only log file fronted by an in-memory KeyDir.
//
// The design follows the log-structured hash table from the Bitcask
// paper. Every write appends a new immutable record to the log and
// points the KeyDir at its offset; every read does a single seek to
// the indexed offset. Overwrites win purely through the index — stale
// records stay on disk unreclaimed, there is no compaction.
//
// Read the paper for more details: https://riak.com/assets/bitcask-intro.pdf
package store

import (
	"io"
	"time"

	"caskdb/internal/config"
	"caskdb/internal/fileutil"
	"caskdb/internal/format"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

// ErrStoreClosed is returned by every operation invoked after Close.
var ErrStoreClosed = errors.New("store is closed")

// DiskStore owns one open log file and the KeyDir built from it.
//
// The handle and the index are a single unit of mutable state with no
// internal locking: a DiskStore is not safe for concurrent use.
// Callers sharing one instance across goroutines must serialize access
// themselves, since the offset computation in Set and the append it
// precedes are not atomic together.
type DiskStore struct {
	logger  log.Logger
	metrics *storeMetrics

	file        fileutil.Handle
	keyDir      KeyDir
	writeOffset int64
	syncOnSet   bool
	closed      bool
}

// Open opens the log file at path, creating it if it does not exist,
// and rebuilds the KeyDir by scanning the log from offset 0. A file
// shorter than one record header is treated as an empty store. If the
// scan runs out of bytes mid-record, Open fails with ErrCorruptRecord
// and no store is returned.
func Open(path string, cfg *config.Config) (*DiskStore, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	} else {
		cfg.FillDefaults()
	}

	file, err := fileutil.Open(path, cfg.FileMode)
	if err != nil {
		return nil, errors.Wrapf(err, "open log file %s", path)
	}

	s := &DiskStore{
		logger:    cfg.Logger,
		metrics:   newStoreMetrics(prometheus.WrapRegistererWithPrefix("caskdb_store_", cfg.Registerer)),
		file:      file,
		keyDir:    make(KeyDir),
		syncOnSet: cfg.SyncOnSet,
	}

	size, err := s.loadKeyDir()
	if err != nil {
		_ = file.Close()
		level.Error(s.logger).Log("msg", "index rebuild failed", "path", path, "err", err)
		return nil, err
	}
	s.writeOffset = size
	s.metrics.keys.Set(float64(len(s.keyDir)))

	level.Info(s.logger).Log("msg", "store opened", "path", path, "size", size, "keys", len(s.keyDir))

	return s, nil
}

// loadKeyDir scans the log sequentially, entering each record's offset
// into the KeyDir so that later records for a key overwrite earlier
// ones. It returns the log file size.
func (s *DiskStore) loadKeyDir() (int64, error) {
	stat, err := s.file.Stat()
	if err != nil {
		return 0, errors.Wrap(err, "stat log file")
	}

	size := stat.Size()
	if size < format.HeaderSize {
		return size, nil
	}

	var offset int64
	for offset < size {
		header := make([]byte, format.HeaderSize)
		if _, err := s.file.ReadAt(header, offset); err != nil {
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				return 0, errors.Wrapf(format.ErrCorruptRecord, "truncated header at offset %d", offset)
			}
			return 0, errors.Wrapf(err, "read header at offset %d", offset)
		}

		_, keySize, valueSize, err := format.DecodeHeader(header)
		if err != nil {
			return 0, err
		}

		body := make([]byte, int64(keySize)+int64(valueSize))
		if _, err := s.file.ReadAt(body, offset+format.HeaderSize); err != nil {
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				return 0, errors.Wrapf(format.ErrCorruptRecord, "truncated record at offset %d", offset)
			}
			return 0, errors.Wrapf(err, "read record at offset %d", offset)
		}

		_, key, _, err := format.DecodeRecord(append(header, body...))
		if err != nil {
			return 0, err
		}

		s.keyDir[key] = offset
		offset += format.HeaderSize + int64(len(body))
	}

	return size, nil
}

// Set appends a record holding key and value to the end of the log in
// a single write and points the KeyDir at its offset. The data may sit
// in OS buffers afterwards unless SyncOnSet is configured; callers
// needing durability use Sync.
func (s *DiskStore) Set(key, value string) error {
	if s.closed {
		return ErrStoreClosed
	}

	total, buf, err := format.EncodeRecord(uint32(time.Now().Unix()), key, value)
	if err != nil {
		return err
	}

	offset := s.writeOffset
	if _, err := s.file.WriteAt(buf, offset); err != nil {
		return errors.Wrapf(err, "append record at offset %d", offset)
	}
	if s.syncOnSet {
		if err := s.file.Sync(); err != nil {
			return errors.Wrap(err, "sync after append")
		}
	}

	if _, exists := s.keyDir[key]; !exists {
		s.metrics.keys.Inc()
	}
	s.keyDir[key] = offset
	s.writeOffset = offset + int64(total)

	s.metrics.sets.Inc()
	s.metrics.appendedBytes.Add(float64(total))

	return nil
}

// Get returns the current value for key. A key absent from the KeyDir
// is not an error: Get reports ("", false, nil). A read failure at the
// indexed offset — for example a log file that shrank behind the
// store — is returned as an error.
func (s *DiskStore) Get(key string) (string, bool, error) {
	if s.closed {
		return "", false, ErrStoreClosed
	}

	offset, exists := s.keyDir[key]
	if !exists {
		s.metrics.getMisses.Inc()
		return "", false, nil
	}
	s.metrics.gets.Inc()

	header := make([]byte, format.HeaderSize)
	if _, err := s.file.ReadAt(header, offset); err != nil {
		return "", false, errors.Wrapf(err, "read header at offset %d", offset)
	}

	_, keySize, valueSize, err := format.DecodeHeader(header)
	if err != nil {
		return "", false, err
	}

	body := make([]byte, int64(keySize)+int64(valueSize))
	if _, err := s.file.ReadAt(body, offset+format.HeaderSize); err != nil {
		return "", false, errors.Wrapf(err, "read record at offset %d", offset)
	}

	_, _, value, err := format.DecodeRecord(append(header, body...))
	if err != nil {
		return "", false, err
	}

	return value, true, nil
}

// Has reports whether key is present in the KeyDir without touching disk.
func (s *DiskStore) Has(key string) (bool, error) {
	if s.closed {
		return false, ErrStoreClosed
	}
	_, exists := s.keyDir[key]
	return exists, nil
}

// Keys returns every live key in the KeyDir, in no particular order.
func (s *DiskStore) Keys() ([]string, error) {
	if s.closed {
		return nil, ErrStoreClosed
	}
	keys := make([]string, 0, len(s.keyDir))
	for k := range s.keyDir {
		keys = append(keys, k)
	}
	return keys, nil
}

// Len returns the number of live keys in the KeyDir.
func (s *DiskStore) Len() (int, error) {
	if s.closed {
		return 0, ErrStoreClosed
	}
	return len(s.keyDir), nil
}

// Sync commits any buffered appends to stable storage.
func (s *DiskStore) Sync() error {
	if s.closed {
		return ErrStoreClosed
	}
	return s.file.Sync()
}

// Close syncs the log and releases the file handle. Every subsequent
// operation, including another Close, fails with ErrStoreClosed.
func (s *DiskStore) Close() error {
	if s.closed {
		return ErrStoreClosed
	}
	s.closed = true

	if err := s.file.Sync(); err != nil {
		_ = s.file.Close()
		return errors.Wrap(err, "sync log file")
	}
	if err := s.file.Close(); err != nil {
		return errors.Wrap(err, "close log file")
	}

	level.Info(s.logger).Log("msg", "store closed")

	return nil
}
