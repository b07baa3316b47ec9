package balance

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DeltaJordan/DreamNexus/internal/bin"
	"github.com/DeltaJordan/DreamNexus/internal/compression"
	"github.com/DeltaJordan/DreamNexus/internal/tables"
)

func buildTestArchive(t *testing.T, codec compression.Codec, entries ...*Entry) *Archive {
	t.Helper()
	packed := make([][]byte, len(entries))
	for i, entry := range entries {
		buf, err := EncodeEntry(entry)
		require.NoError(t, err)
		packed[i], err = codec.Compress(buf)
		require.NoError(t, err)
	}
	data, index := bin.Join(packed)
	archive, err := NewArchive(index, data, codec)
	require.NoError(t, err)
	return archive
}

func TestGetEntryCachesMutableInstance(t *testing.T) {
	archive := buildTestArchive(t, compression.Raw{}, sampleEntry())

	first, err := archive.GetEntry(0, false)
	require.NoError(t, err)

	first.Floors[0].TurnLimit = 99

	second, err := archive.GetEntry(0, false)
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, int16(99), second.Floors[0].TurnLimit)
}

func TestGetEntryTemporaryBypassesCache(t *testing.T) {
	archive := buildTestArchive(t, compression.Raw{}, sampleEntry())

	cached, err := archive.GetEntry(0, false)
	require.NoError(t, err)
	cached.Floors[0].TurnLimit = 99

	// temporary reads decode the committed bytes, not the cached edit
	preview, err := archive.GetEntry(0, true)
	require.NoError(t, err)
	assert.NotSame(t, cached, preview)
	assert.Equal(t, int16(600), preview.Floors[0].TurnLimit)

	// and a temporary read on a cold index leaves no cache behind
	fresh := buildTestArchive(t, compression.Raw{}, sampleEntry())
	_, err = fresh.GetEntry(0, true)
	require.NoError(t, err)
	assert.Nil(t, fresh.slots[0].decoded)
}

func TestGetEntryIndexOutOfRange(t *testing.T) {
	archive := buildTestArchive(t, compression.Raw{}, sampleEntry())

	var outOfRange *IndexOutOfRangeError
	_, err := archive.GetEntry(5, false)
	require.ErrorAs(t, err, &outOfRange)
	assert.Equal(t, 5, outOfRange.Index)
	assert.Equal(t, 1, outOfRange.Count)

	_, err = archive.GetEntry(-1, false)
	assert.ErrorAs(t, err, &outOfRange)
}

func TestBuildPassesUntouchedEntriesThrough(t *testing.T) {
	codec, err := compression.NewZstd()
	require.NoError(t, err)

	archive := buildTestArchive(t, codec, sampleEntry(), sampleEntry())

	wantData, wantIndex := bin.Join([][]byte{archive.slots[0].raw, archive.slots[1].raw})

	data, index, err := archive.Build(context.Background())
	require.NoError(t, err)
	assert.Equal(t, wantData, data, "untouched entries must be reproduced byte for byte")
	assert.Equal(t, wantIndex, index)

	// a temporary read must not break passthrough either
	_, err = archive.GetEntry(1, true)
	require.NoError(t, err)
	data2, _, err := archive.Build(context.Background())
	require.NoError(t, err)
	assert.Equal(t, wantData, data2)
}

func TestBuildIsDeterministic(t *testing.T) {
	codec, err := compression.NewZstd()
	require.NoError(t, err)

	archive := buildTestArchive(t, codec, sampleEntry(), sampleEntry(), sampleEntry())

	entry, err := archive.GetEntry(1, false)
	require.NoError(t, err)
	entry.Floors[2].TurnLimit = 123

	data1, index1, err := archive.Build(context.Background())
	require.NoError(t, err)
	data2, index2, err := archive.Build(context.Background())
	require.NoError(t, err)

	assert.Equal(t, data1, data2)
	assert.Equal(t, index1, index2)
}

func TestBuildRoundTripsEdits(t *testing.T) {
	codec, err := compression.NewZstd()
	require.NoError(t, err)

	archive := buildTestArchive(t, codec, sampleEntry())
	entry, err := archive.GetEntry(0, false)
	require.NoError(t, err)
	entry.Floors[0].Event = "edited"

	data, index, err := archive.Build(context.Background())
	require.NoError(t, err)

	reopened, err := NewArchive(index, data, codec)
	require.NoError(t, err)
	got, err := reopened.GetEntry(0, false)
	require.NoError(t, err)
	assert.Equal(t, "edited", got.Floors[0].Event)
}

func TestBuildFailsFast(t *testing.T) {
	archive := buildTestArchive(t, compression.Raw{}, sampleEntry(), sampleEntry())

	entry, err := archive.GetEntry(0, false)
	require.NoError(t, err)
	entry.Floors[0].Event = strings.Repeat("x", 64)

	data, index, err := archive.Build(context.Background())

	var tooLong *tables.FieldTooLongError
	require.ErrorAs(t, err, &tooLong)
	assert.Nil(t, data, "partial output must be discarded")
	assert.Nil(t, index)
}
