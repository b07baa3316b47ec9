package tables

import "encoding/binary"

// Trap-weight table geometry. The table is a fixed 99-record array, one
// record per floor slot, each holding 33 8-byte (index, weight, reserved)
// triples. The 33rd triple is a terminator with weight -1 and never
// reaches the domain view.
const (
	TrapFloorCount       = 99
	TrapDomainEntries    = 32
	trapEntriesPerRecord = 33
	trapEntrySize        = 8

	TrapRecordSize = trapEntriesPerRecord * trapEntrySize
	TrapTableSize  = TrapFloorCount * TrapRecordSize
)

const trapTerminatorWeight = -1

// TrapWeights is the domain view of one floor's record. Keys preserves
// the wire encounter order so re-encoding the same data yields the same
// bytes; a plain map would randomize the triple order.
type TrapWeights struct {
	Keys     []int16
	Weights  map[int16]int16
	Reserved map[int16]int32
}

// NewTrapWeights returns an empty record.
func NewTrapWeights() *TrapWeights {
	return &TrapWeights{
		Weights:  make(map[int16]int16),
		Reserved: make(map[int16]int32),
	}
}

// Set stores a weight, appending the key on first sight.
func (t *TrapWeights) Set(trapIndex, weight int16) {
	if _, ok := t.Weights[trapIndex]; !ok {
		t.Keys = append(t.Keys, trapIndex)
	}
	t.Weights[trapIndex] = weight
}

// DecodeTrapRecord reads one floor record. buf must hold TrapRecordSize
// bytes. The terminator triple is dropped; on valid data this exposes
// exactly TrapDomainEntries entries.
func DecodeTrapRecord(buf []byte) *TrapWeights {
	t := NewTrapWeights()
	for i := 0; i < trapEntriesPerRecord; i++ {
		off := i * trapEntrySize
		index := int16(binary.LittleEndian.Uint16(buf[off:]))
		weight := int16(binary.LittleEndian.Uint16(buf[off+2:]))
		reserved := int32(binary.LittleEndian.Uint32(buf[off+4:]))
		if weight == trapTerminatorWeight {
			break
		}
		if _, ok := t.Weights[index]; ok {
			continue
		}
		t.Keys = append(t.Keys, index)
		t.Weights[index] = weight
		t.Reserved[index] = reserved
	}
	return t
}

// EncodeTrapRecord writes one floor record, padding unused slots with zero
// triples and re-appending the terminator.
func EncodeTrapRecord(t *TrapWeights) []byte {
	buf := make([]byte, TrapRecordSize)
	slot := 0
	for _, key := range t.Keys {
		if slot == TrapDomainEntries {
			break
		}
		off := slot * trapEntrySize
		binary.LittleEndian.PutUint16(buf[off:], uint16(key))
		binary.LittleEndian.PutUint16(buf[off+2:], uint16(t.Weights[key]))
		binary.LittleEndian.PutUint32(buf[off+4:], uint32(t.Reserved[key]))
		slot++
	}
	term := TrapDomainEntries * trapEntrySize
	terminator := int16(trapTerminatorWeight)
	binary.LittleEndian.PutUint16(buf[term+2:], uint16(terminator))
	return buf
}
