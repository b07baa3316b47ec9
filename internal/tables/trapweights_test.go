package tables

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fullTrapRecord() *TrapWeights {
	t := NewTrapWeights()
	for i := 0; i < TrapDomainEntries; i++ {
		key := int16(i + 1)
		t.Keys = append(t.Keys, key)
		t.Weights[key] = int16(i * 10)
		t.Reserved[key] = int32(i)
	}
	return t
}

func TestTrapRecordTerminator(t *testing.T) {
	buf := EncodeTrapRecord(fullTrapRecord())
	require.Len(t, buf, TrapRecordSize)

	// 33rd triple carries weight -1 and nothing else
	term := TrapDomainEntries * trapEntrySize
	assert.Equal(t, uint16(0), binary.LittleEndian.Uint16(buf[term:]))
	assert.Equal(t, int16(-1), int16(binary.LittleEndian.Uint16(buf[term+2:])))

	got := DecodeTrapRecord(buf)
	assert.Len(t, got.Keys, TrapDomainEntries)
	_, hasTerminator := got.Weights[0]
	assert.False(t, hasTerminator, "terminator must not reach the domain view")
}

func TestTrapRecordRoundTrip(t *testing.T) {
	want := fullTrapRecord()

	got := DecodeTrapRecord(EncodeTrapRecord(want))

	assert.Equal(t, want.Keys, got.Keys)
	assert.Equal(t, want.Weights, got.Weights)
	assert.Equal(t, want.Reserved, got.Reserved)
}

func TestTrapRecordEncodeIsOrderStable(t *testing.T) {
	rec := fullTrapRecord()
	first := EncodeTrapRecord(rec)
	second := EncodeTrapRecord(rec)
	assert.Equal(t, first, second)
}

func TestTrapWeightsSet(t *testing.T) {
	rec := NewTrapWeights()
	rec.Set(7, 100)
	rec.Set(7, 50)
	rec.Set(9, 25)

	assert.Equal(t, []int16{7, 9}, rec.Keys)
	assert.Equal(t, int16(50), rec.Weights[7])
}
