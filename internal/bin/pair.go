// Package bin handles the paired index/data layout the game stores its
// archives in: an index file of N+1 little-endian 4-byte offsets into a
// companion data file, entry i spanning [offset[i], offset[i+1]). Entries
// are 16-byte aligned in the data file; the alignment fill belongs to the
// entry's span.
package bin

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

// EntryAlign is the alignment of entry starts in the data file.
const EntryAlign = 16

// Split slices the data file into per-entry spans according to the index
// file. The returned slices alias dataBytes.
func Split(indexBytes, dataBytes []byte) ([][]byte, error) {
	if len(indexBytes) < 4 || len(indexBytes)%4 != 0 {
		return nil, errors.Errorf("index file length %d is not a multiple of 4 offsets", len(indexBytes))
	}
	count := len(indexBytes)/4 - 1
	offsets := make([]int32, count+1)
	for i := range offsets {
		offsets[i] = int32(binary.LittleEndian.Uint32(indexBytes[i*4:]))
	}

	entries := make([][]byte, count)
	for i := 0; i < count; i++ {
		start, end := offsets[i], offsets[i+1]
		if start < 0 || end < start || int(end) > len(dataBytes) {
			return nil, errors.Errorf("entry %d spans [%d, %d) outside data file of %d bytes", i, start, end, len(dataBytes))
		}
		entries[i] = dataBytes[start:end]
	}
	return entries, nil
}

// Join concatenates entries into a data file, aligning each entry start,
// and produces the matching index file. The terminating offset equals the
// total data length.
func Join(entries [][]byte) (dataBytes, indexBytes []byte) {
	indexBytes = make([]byte, 0, (len(entries)+1)*4)
	for _, entry := range entries {
		indexBytes = appendOffset(indexBytes, len(dataBytes))
		dataBytes = append(dataBytes, entry...)
		for len(dataBytes)%EntryAlign != 0 {
			dataBytes = append(dataBytes, 0x00)
		}
	}
	indexBytes = appendOffset(indexBytes, len(dataBytes))
	return dataBytes, indexBytes
}

func appendOffset(index []byte, off int) []byte {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], uint32(off))
	return append(index, tmp[:]...)
}
