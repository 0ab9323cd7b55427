// Package format implements the on-disk record codec.
//
// A record is a fixed 12-byte header followed by the key and value
// bytes: [4 bytes Timestamp][4 bytes KeySize][4 bytes ValueSize][Key][Value].
// All integers are packed little-endian so files written on one host
// decode on any other. The explicit size fields let a reader determine
// exactly how many bytes the variable body occupies without delimiters
// or scanning, which is what both point lookups and the bootstrap scan
// rely on.
//
// The codec is pure: no I/O, no state.
package format

import (
	"encoding/binary"
	"math"
	"unicode/utf8"

	"github.com/pkg/errors"
)

// HeaderSize is the total size of the fixed record header
// (timestamp + key size + value size).
const HeaderSize = 12

// MaxFieldSize is the largest key or value length representable in the
// header's u32 size fields.
const MaxFieldSize = math.MaxUint32

var (
	// ErrCorruptRecord is returned when a buffer is shorter than the
	// header, or shorter than the body the header declares.
	ErrCorruptRecord = errors.New("corrupt record")

	// ErrEncoding is returned when a key or value cannot be
	// represented: its length exceeds the u32 field width, or its
	// bytes are not valid UTF-8 text.
	ErrEncoding = errors.New("invalid encoding")
)

var byteOrder = binary.LittleEndian

// EncodeHeader packs a timestamp and the key/value byte lengths into
// the fixed 12-byte header.
func EncodeHeader(timestamp uint32, keySize, valueSize int) ([]byte, error) {
	if keySize < 0 || int64(keySize) > MaxFieldSize {
		return nil, errors.Wrapf(ErrEncoding, "key size %d outside u32 range", keySize)
	}
	if valueSize < 0 || int64(valueSize) > MaxFieldSize {
		return nil, errors.Wrapf(ErrEncoding, "value size %d outside u32 range", valueSize)
	}

	buf := make([]byte, HeaderSize)
	byteOrder.PutUint32(buf[0:4], timestamp)
	byteOrder.PutUint32(buf[4:8], uint32(keySize))
	byteOrder.PutUint32(buf[8:12], uint32(valueSize))
	return buf, nil
}

// EncodeRecord serializes a (timestamp, key, value) triple into its
// on-disk form. It returns the total record length (header + key +
// value) alongside the encoded bytes.
func EncodeRecord(timestamp uint32, key, value string) (int, []byte, error) {
	if !utf8.ValidString(key) {
		return 0, nil, errors.Wrap(ErrEncoding, "key is not valid UTF-8")
	}
	if !utf8.ValidString(value) {
		return 0, nil, errors.Wrap(ErrEncoding, "value is not valid UTF-8")
	}

	header, err := EncodeHeader(timestamp, len(key), len(value))
	if err != nil {
		return 0, nil, err
	}

	total := HeaderSize + len(key) + len(value)
	buf := make([]byte, total)
	copy(buf, header)
	copy(buf[HeaderSize:], key)
	copy(buf[HeaderSize+len(key):], value)
	return total, buf, nil
}

// DecodeHeader unpacks the fixed header fields from the first 12 bytes
// of buf.
func DecodeHeader(buf []byte) (timestamp, keySize, valueSize uint32, err error) {
	if len(buf) < HeaderSize {
		return 0, 0, 0, errors.Wrapf(ErrCorruptRecord, "header needs %d bytes, have %d", HeaderSize, len(buf))
	}

	timestamp = byteOrder.Uint32(buf[0:4])
	keySize = byteOrder.Uint32(buf[4:8])
	valueSize = byteOrder.Uint32(buf[8:12])
	return timestamp, keySize, valueSize, nil
}

// DecodeRecord parses a full record from buf. The buffer must contain
// the header plus exactly the key and value bytes it declares.
func DecodeRecord(buf []byte) (timestamp uint32, key, value string, err error) {
	timestamp, keySize, valueSize, err := DecodeHeader(buf)
	if err != nil {
		return 0, "", "", err
	}

	body := int64(keySize) + int64(valueSize)
	if int64(len(buf))-HeaderSize < body {
		return 0, "", "", errors.Wrapf(ErrCorruptRecord, "record body needs %d bytes, have %d", body, len(buf)-HeaderSize)
	}

	keyEnd := int64(HeaderSize) + int64(keySize)
	keyBytes := buf[HeaderSize:keyEnd]
	valueBytes := buf[keyEnd : keyEnd+int64(valueSize)]

	if !utf8.Valid(keyBytes) {
		return 0, "", "", errors.Wrap(ErrEncoding, "key bytes are not valid UTF-8")
	}
	if !utf8.Valid(valueBytes) {
		return 0, "", "", errors.Wrap(ErrEncoding, "value bytes are not valid UTF-8")
	}

	return timestamp, string(keyBytes), string(valueBytes), nil
}
