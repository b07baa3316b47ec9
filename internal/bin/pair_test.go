package bin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJoinSplitRoundTrip(t *testing.T) {
	entries := [][]byte{
		[]byte("first entry"),
		{},
		[]byte("third entry, longer than sixteen bytes"),
	}

	data, index := Join(entries)
	require.Equal(t, 0, len(data)%EntryAlign)
	require.Len(t, index, (len(entries)+1)*4)

	got, err := Split(index, data)
	require.NoError(t, err)
	require.Len(t, got, len(entries))
	for i, want := range entries {
		assert.Equal(t, want, got[i][:len(want)], "entry %d payload", i)
		assert.Equal(t, 0, len(got[i])%EntryAlign, "entry %d span keeps its padding", i)
	}
}

func TestJoinOfSplitIsByteIdentical(t *testing.T) {
	data, index := Join([][]byte{[]byte("aaa"), []byte("bbbbbbbbbbbbbbbbbbbb")})

	entries, err := Split(index, data)
	require.NoError(t, err)

	data2, index2 := Join(entries)
	assert.Equal(t, data, data2)
	assert.Equal(t, index, index2)
}

func TestSplitRejectsMalformedIndex(t *testing.T) {
	_, err := Split([]byte{1, 2, 3}, nil)
	assert.Error(t, err)

	// offset past the end of the data file
	_, index := Join([][]byte{[]byte("x")})
	_, err = Split(index, []byte{0x00})
	assert.Error(t, err)
}
