// Package balance decodes and rebuilds the dungeon balance archive: one
// container entry per dungeon index, each composed of up to four optional
// sub-tables (floor info, wild spawns, trap weights, auxiliary data).
package balance

import (
	"github.com/DeltaJordan/DreamNexus/internal/sir0"
	"github.com/DeltaJordan/DreamNexus/internal/tables"
)

// The entry subheader holds five 8-byte fields in fixed order: the four
// sub-table pointers followed by the end of the data region. A sub-table
// is present iff the extent to the next field is greater than zero.
const (
	slotFloors = iota
	slotWildSpawn
	slotTrapWeights
	slotAux
	slotDataEnd

	subheaderFields
)

const regionAlign = 16

// WildSpawn is the nested wild-spawn structure: one stats record per
// creature plus one spawn table per floor, each floor table holding one
// entry per creature.
type WildSpawn struct {
	Stats  []tables.CreatureStats
	Floors [][]tables.SpawnEntry
}

// Entry is one dungeon's balance record. A nil sub-table is absent on the
// wire and is not synthesized on encode.
type Entry struct {
	Floors      []tables.FloorInfo
	WildSpawn   *WildSpawn
	TrapWeights []*tables.TrapWeights
	Aux         []byte
}

// DecodeEntry parses one decompressed container blob.
func DecodeEntry(buf []byte) (*Entry, error) {
	c, err := sir0.Parse(buf)
	if err != nil {
		return nil, err
	}
	ptrs, err := c.Pointers(subheaderFields)
	if err != nil {
		return nil, err
	}

	entry := &Entry{}

	if extent := ptrs[slotWildSpawn] - ptrs[slotFloors]; extent > 0 {
		region, err := c.Region(ptrs[slotFloors], ptrs[slotWildSpawn])
		if err != nil {
			return nil, err
		}
		count := int(extent) / tables.FloorInfoSize
		entry.Floors = make([]tables.FloorInfo, count)
		for i := range entry.Floors {
			entry.Floors[i] = tables.DecodeFloorInfo(region[i*tables.FloorInfoSize:])
		}
	}

	if ptrs[slotTrapWeights]-ptrs[slotWildSpawn] > 0 {
		ws, err := decodeWildSpawn(c, ptrs[slotWildSpawn])
		if err != nil {
			return nil, err
		}
		entry.WildSpawn = ws
	}

	if extent := ptrs[slotAux] - ptrs[slotTrapWeights]; extent > 0 {
		region, err := c.Region(ptrs[slotTrapWeights], ptrs[slotAux])
		if err != nil {
			return nil, err
		}
		count := int(extent) / tables.TrapRecordSize
		entry.TrapWeights = make([]*tables.TrapWeights, count)
		for i := range entry.TrapWeights {
			entry.TrapWeights[i] = tables.DecodeTrapRecord(region[i*tables.TrapRecordSize:])
		}
	}

	if ptrs[slotDataEnd]-ptrs[slotAux] > 0 {
		region, err := c.Region(ptrs[slotAux], ptrs[slotDataEnd])
		if err != nil {
			return nil, err
		}
		entry.Aux = append([]byte(nil), region...)
	}

	return entry, nil
}

// The wild-spawn region is its own nested container: a header of two
// int32 counts followed by a pointer table (stats pointer, then one
// pointer per floor), then the stats and per-floor tables the pointers
// reference. The pointer table is derived at encode time, never carried
// through from a decode.
func decodeWildSpawn(c *sir0.Container, start int64) (*WildSpawn, error) {
	floorCount, err := c.Int32At(start)
	if err != nil {
		return nil, err
	}
	creatureCount, err := c.Int32At(start + 4)
	if err != nil {
		return nil, err
	}
	statsPtr, err := c.Int64At(start + 8)
	if err != nil {
		return nil, err
	}
	if floorCount < 0 || creatureCount < 0 {
		return nil, &sir0.MalformedContainerError{Offset: start, Length: len(c.Bytes()), Reason: "negative wild-spawn count"}
	}

	ws := &WildSpawn{
		Stats:  make([]tables.CreatureStats, creatureCount),
		Floors: make([][]tables.SpawnEntry, floorCount),
	}

	statsRegion, err := c.Region(statsPtr, statsPtr+int64(creatureCount)*tables.CreatureStatsSize)
	if err != nil {
		return nil, err
	}
	for i := range ws.Stats {
		ws.Stats[i] = tables.DecodeCreatureStats(statsRegion[i*tables.CreatureStatsSize:])
	}

	for f := range ws.Floors {
		floorPtr, err := c.Int64At(start + 16 + int64(f)*sir0.PointerSize)
		if err != nil {
			return nil, err
		}
		region, err := c.Region(floorPtr, floorPtr+int64(creatureCount)*tables.SpawnEntrySize)
		if err != nil {
			return nil, err
		}
		ws.Floors[f] = make([]tables.SpawnEntry, creatureCount)
		for i := range ws.Floors[f] {
			ws.Floors[f][i] = tables.DecodeSpawnEntry(region[i*tables.SpawnEntrySize:])
		}
	}

	return ws, nil
}

// EncodeEntry rebuilds the container blob for an entry. Regions are
// written in subheader order, each aligned to a 16-byte boundary, with
// absent sub-tables collapsing to zero extent.
func EncodeEntry(entry *Entry) ([]byte, error) {
	b := sir0.NewBuilder()
	var ptrs [subheaderFields]int64

	ptrs[slotFloors] = b.Offset()
	for _, floor := range entry.Floors {
		buf, err := tables.EncodeFloorInfo(floor)
		if err != nil {
			return nil, err
		}
		b.Write(buf)
	}
	b.Align(regionAlign)

	ptrs[slotWildSpawn] = b.Offset()
	if entry.WildSpawn != nil {
		encodeWildSpawn(b, entry.WildSpawn)
	}
	b.Align(regionAlign)

	ptrs[slotTrapWeights] = b.Offset()
	for _, record := range entry.TrapWeights {
		b.Write(tables.EncodeTrapRecord(record))
	}
	b.Align(regionAlign)

	ptrs[slotAux] = b.Offset()
	b.Write(entry.Aux)
	b.Align(regionAlign)

	ptrs[slotDataEnd] = b.Offset()

	subheader := b.Offset()
	for _, ptr := range ptrs {
		b.WritePointer(ptr)
	}
	return b.Finish(subheader), nil
}

func encodeWildSpawn(b *sir0.Builder, ws *WildSpawn) {
	// The header references tables written after it, so every offset is
	// computed up front from the fixed record sizes.
	start := b.Offset()
	headerSize := 16 + int64(len(ws.Floors))*sir0.PointerSize
	statsStart := alignUp(start+headerSize, regionAlign)

	floorStarts := make([]int64, len(ws.Floors))
	next := alignUp(statsStart+int64(len(ws.Stats))*tables.CreatureStatsSize, regionAlign)
	for f := range ws.Floors {
		floorStarts[f] = next
		next = alignUp(next+int64(len(ws.Floors[f]))*tables.SpawnEntrySize, regionAlign)
	}

	b.WriteInt32(int32(len(ws.Floors)))
	b.WriteInt32(int32(len(ws.Stats)))
	b.WritePointer(statsStart)
	for _, off := range floorStarts {
		b.WritePointer(off)
	}
	b.Align(regionAlign)

	for _, stats := range ws.Stats {
		b.Write(tables.EncodeCreatureStats(stats))
	}
	b.Align(regionAlign)

	for _, floor := range ws.Floors {
		for _, entry := range floor {
			b.Write(tables.EncodeSpawnEntry(entry))
		}
		b.AlignFill(regionAlign, tables.SpawnPadByte)
	}
}

func alignUp(v, n int64) int64 {
	return (v + n - 1) / n * n
}
