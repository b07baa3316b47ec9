package dungeon

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DeltaJordan/DreamNexus/internal/balance"
	"github.com/DeltaJordan/DreamNexus/internal/bin"
	"github.com/DeltaJordan/DreamNexus/internal/compression"
	"github.com/DeltaJordan/DreamNexus/internal/tables"
)

func testBalanceEntry(turnLimit int16) *balance.Entry {
	trap := tables.NewTrapWeights()
	trap.Set(5, 100)
	trap.Set(9, 40)
	return &balance.Entry{
		Floors: []tables.FloorInfo{
			{Index: 1, TurnLimit: turnLimit},
			{Index: 2, TurnLimit: turnLimit, Weather: 1},
		},
		WildSpawn: &balance.WildSpawn{
			Stats: []tables.CreatureStats{
				{Level: 5, HitPoints: 30},
				{Level: 8, HitPoints: 50, StrongFoe: true},
			},
			Floors: [][]tables.SpawnEntry{
				{{SpawnWeight: 100}, {SpawnWeight: 50}},
				{{SpawnWeight: 70}, {SpawnWeight: 90}},
			},
		},
		TrapWeights: []*tables.TrapWeights{trap},
	}
}

func testArchives(t *testing.T) *Archives {
	t.Helper()
	codec := compression.Raw{}

	var packed [][]byte
	for i := 0; i < 3; i++ {
		buf, err := balance.EncodeEntry(testBalanceEntry(int16(600 + i)))
		require.NoError(t, err)
		blob, err := codec.Compress(buf)
		require.NoError(t, err)
		packed = append(packed, blob)
	}
	data, index := bin.Join(packed)
	bal, err := balance.NewArchive(index, data, codec)
	require.NoError(t, err)

	var arrangePacked [][]byte
	for i := 0; i < 3; i++ {
		blob, err := codec.Compress(encodeItemArrange(&ItemArrangeEntry{
			Sets: [][]int16{{10, 20}, {30}},
		}))
		require.NoError(t, err)
		arrangePacked = append(arrangePacked, blob)
	}
	arrangeData, arrangeIndex := bin.Join(arrangePacked)
	arrange, err := NewItemArrangeArchive(arrangeIndex, arrangeData, codec)
	require.NoError(t, err)

	return &Archives{
		Balance: bal,
		Data: &DataTable{Records: []tables.DungeonDataInfo{
			{SortKey: 2, BalanceIndex: 0, Category: tables.CategoryNormal, NameID: 100},
			{SortKey: 1, BalanceIndex: 1, Category: tables.CategoryDojo, NameID: 101},
			{SortKey: 0, BalanceIndex: 2, Category: tables.CategoryStory, NameID: 102},
		}},
		Extra: &ExtraTable{Records: []tables.DungeonExtra{
			{FloorCount: 10}, {FloorCount: 5},
		}},
		ItemArrange: arrange,
		Request: &RequestTable{Records: []tables.RequestLevel{
			{Level: 12}, {Level: 30}, {Level: 55},
		}},
	}
}

func TestLoadAllIsLightweightAndSorted(t *testing.T) {
	c := NewCollection(testArchives(t))

	all, err := c.LoadAll(false)
	require.NoError(t, err)
	require.Len(t, all, 3)

	assert.Equal(t, []int{2, 1, 0}, []int{all[0].Index, all[1].Index, all[2].Index}, "sorted by sort key")
	for _, d := range all {
		assert.False(t, d.FullyLoaded, "listing load skips balance sub-tables")
		assert.Nil(t, d.Floors)
		assert.False(t, c.IsDirty(d.Index))
	}

	assert.True(t, all[1].HasExtra)
	assert.Equal(t, int16(5), all[1].FloorCount)
	assert.False(t, all[0].HasExtra, "extra table has no row for index 2")
	assert.True(t, all[0].HasRequestLevel)
	assert.Equal(t, int16(55), all[0].RequestLevel)
}

func TestDirtyAccessUpgradesPartialLoadOnce(t *testing.T) {
	c := NewCollection(testArchives(t))

	partial, err := c.GetByIndex(0, false, false)
	require.NoError(t, err)
	require.False(t, partial.FullyLoaded)
	require.False(t, c.IsDirty(0))

	full, err := c.GetByIndex(0, true, false)
	require.NoError(t, err)
	assert.NotSame(t, partial, full, "clean partial aggregate is discarded and reloaded")
	assert.True(t, full.FullyLoaded)
	assert.NotNil(t, full.Floors)
	assert.True(t, c.IsDirty(0))

	again, err := c.GetByIndex(0, true, false)
	require.NoError(t, err)
	assert.Same(t, full, again, "already-dirty aggregate is not reloaded")
}

func TestFirstDirtyAccessLoadsFull(t *testing.T) {
	c := NewCollection(testArchives(t))

	d, err := c.GetByIndex(0, true, false)
	require.NoError(t, err)
	assert.True(t, d.FullyLoaded)
	assert.Len(t, d.Stats, 2)
	assert.Len(t, d.ItemSets, 2)
	assert.True(t, c.IsDirty(0))
}

func TestTemporaryFullLoadPollutesNothing(t *testing.T) {
	c := NewCollection(testArchives(t))

	preview, err := c.GetByIndex(0, true, true)
	require.NoError(t, err)
	assert.True(t, preview.FullyLoaded)
	assert.False(t, c.IsDirty(0))

	// the preview was not cached: a later lookup builds a new aggregate
	d, err := c.GetByIndex(0, false, false)
	require.NoError(t, err)
	assert.NotSame(t, preview, d)

	// and a dirty edit on the preview never reaches a flush
	preview.SortKey = 99
	require.NoError(t, c.Flush(c.archives))
	assert.Equal(t, int16(2), c.archives.Data.Records[0].SortKey)
}

func TestAggregateEditsDoNotAutoPropagate(t *testing.T) {
	archives := testArchives(t)
	c := NewCollection(archives)

	d, err := c.GetByIndex(0, true, false)
	require.NoError(t, err)
	d.SortKey = 77
	d.Floors[0].TurnLimit = 1

	assert.Equal(t, int16(2), archives.Data.Records[0].SortKey, "scalar edits wait for flush")
	entry, err := archives.Balance.GetEntry(0, false)
	require.NoError(t, err)
	assert.Equal(t, int16(600), entry.Floors[0].TurnLimit, "sub-table edits wait for flush")
}

func TestGetByIndexOutOfRange(t *testing.T) {
	c := NewCollection(testArchives(t))

	var outOfRange *balance.IndexOutOfRangeError
	_, err := c.GetByIndex(7, false, false)
	assert.ErrorAs(t, err, &outOfRange)
}

func TestFlushWritesBackEdits(t *testing.T) {
	archives := testArchives(t)
	c := NewCollection(archives)

	d, err := c.GetByIndex(0, true, false)
	require.NoError(t, err)

	d.SortKey = 50
	d.FloorCount = 42
	d.RequestLevel = 13
	d.Floors[1].TurnLimit = 333
	delete(d.Stats, 1)                                 // row must be zeroed on flush
	d.Spawns[0][0] = tables.SpawnEntry{SpawnWeight: 9} // overwrite
	delete(d.Spawns[1], 1)                             // row must be zeroed on flush
	d.TrapWeights[0].Set(5, 77)                        // key present: overwritten
	d.TrapWeights[0].Keys = d.TrapWeights[0].Keys[:1]  // key 9 absent: left untouched
	d.ItemSets = [][]int16{{1, 2, 3}}

	require.NoError(t, c.Flush(archives))

	assert.Equal(t, int16(50), archives.Data.Records[0].SortKey)
	assert.Equal(t, int16(42), archives.Extra.Records[0].FloorCount)
	assert.Equal(t, int16(13), archives.Request.Records[0].Level)

	entry, err := archives.Balance.GetEntry(0, false)
	require.NoError(t, err)
	assert.Equal(t, int16(333), entry.Floors[1].TurnLimit)
	assert.Equal(t, tables.CreatureStats{}, entry.WildSpawn.Stats[1], "missing stat row zeroed")
	assert.Equal(t, int16(5), entry.WildSpawn.Stats[0].Level)
	assert.Equal(t, tables.SpawnEntry{SpawnWeight: 9}, entry.WildSpawn.Floors[0][0])
	assert.Equal(t, tables.SpawnEntry{}, entry.WildSpawn.Floors[1][1], "missing spawn row zeroed")
	assert.Equal(t, int16(77), entry.TrapWeights[0].Weights[5])
	assert.Equal(t, int16(40), entry.TrapWeights[0].Weights[9], "absent trap key left untouched")

	arrange, err := archives.ItemArrange.GetEntry(0, false)
	require.NoError(t, err)
	assert.Equal(t, [][]int16{{1, 2, 3}}, arrange.Sets)
}

func TestFlushSkipsDojoEntirely(t *testing.T) {
	archives := testArchives(t)
	c := NewCollection(archives)

	wantData, wantIndex, err := archives.Balance.Build(context.Background())
	require.NoError(t, err)

	dojo, err := c.GetByIndex(1, true, false)
	require.NoError(t, err)
	require.True(t, dojo.IsDojo())
	require.True(t, dojo.FullyLoaded, "dojo stays visible in the loaded view")

	dojo.SortKey = 99
	dojo.Floors[0].TurnLimit = 1
	require.NoError(t, c.Flush(archives))

	assert.Equal(t, int16(1), archives.Data.Records[1].SortKey, "dojo metadata untouched")

	data, index, err := archives.Balance.Build(context.Background())
	require.NoError(t, err)
	assert.Equal(t, wantData, data, "dojo balance bytes reproduced exactly")
	assert.Equal(t, wantIndex, index)
}

func TestPeerTableCodecRoundTrip(t *testing.T) {
	archives := testArchives(t)

	dataTable, err := NewDataTable(archives.Data.Encode())
	require.NoError(t, err)
	assert.Equal(t, archives.Data.Records, dataTable.Records)

	extra, err := NewExtraTable(archives.Extra.Encode())
	require.NoError(t, err)
	assert.Equal(t, archives.Extra.Records, extra.Records)

	request, err := NewRequestTable(archives.Request.Encode())
	require.NoError(t, err)
	assert.Equal(t, archives.Request.Records, request.Records)

	_, err = NewDataTable(make([]byte, 7))
	assert.Error(t, err)
}
