package badger

import "encoding/binary"

// Key prefixes for different data types
const (
	vectorRecordPrefix = "vecrec"
	vectorFilePrefix   = "vecfil"
)

// makeRecordKey generates the primary key for an indexed vector.
func makeRecordKey(id string) []byte {
	return []byte(vectorRecordPrefix + ":" + id)
}

// makeFileKey generates a composite key for the per-file index.
// Format: prefix:fileID\x00seq, with the sequence in BigEndian so
// lexicographic iteration yields chunks in sequence order.
func makeFileKey(fileID string, seq int) []byte {
	prefix := makeFilePrefix(fileID)
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(seq))
	return buf
}

// makeFilePrefix generates the iteration prefix for one file's chunks.
// The NUL separator keeps file IDs that are prefixes of each other apart.
func makeFilePrefix(fileID string) []byte {
	return append([]byte(vectorFilePrefix+":"+fileID), 0x00)
}
