package dungeon

import (
	"github.com/DeltaJordan/DreamNexus/internal/balance"
	"github.com/DeltaJordan/DreamNexus/internal/tables"
)

// Dungeon is the flattened editable aggregate for one dungeon index. All
// scalar fields are copies taken at load time; editing a Dungeon changes
// nothing in the source archives until the collection flushes it back.
//
// The balance sub-tables are only populated by a full load. A lightweight
// listing load leaves them nil.
type Dungeon struct {
	Index int

	// metadata record
	SortKey      int16
	BalanceIndex int16
	Category     uint8
	Features     uint8
	MaxItems     uint8
	MaxTeammates uint8
	NameID       int32

	// floor-count record, when the extra table has a row for this index
	HasExtra   bool
	FloorCount int16

	// request-level record, when present
	HasRequestLevel bool
	RequestLevel    int16
	AcceptedCount   int16

	// balance sub-tables, full load only
	FullyLoaded bool
	Floors      []tables.FloorInfo
	Stats       map[int]tables.CreatureStats
	Spawns      []map[int]tables.SpawnEntry
	TrapWeights []*tables.TrapWeights
	ItemSets    [][]int16
}

// IsDojo reports whether this dungeon belongs to the category whose
// source data is known to be corrupt. Dojo aggregates stay visible and
// editable in memory, but the flush path never writes them back; the
// underlying bytes are preserved as-is rather than "repaired".
func (d *Dungeon) IsDojo() bool { return d.Category == tables.CategoryDojo }

func (d *Dungeon) loadBalance(entry *balance.Entry, itemSets *ItemArrangeEntry) {
	d.FullyLoaded = true
	d.Floors = append([]tables.FloorInfo(nil), entry.Floors...)

	if entry.WildSpawn != nil {
		d.Stats = make(map[int]tables.CreatureStats, len(entry.WildSpawn.Stats))
		for i, stats := range entry.WildSpawn.Stats {
			d.Stats[i] = stats
		}
		d.Spawns = make([]map[int]tables.SpawnEntry, len(entry.WildSpawn.Floors))
		for f, floor := range entry.WildSpawn.Floors {
			d.Spawns[f] = make(map[int]tables.SpawnEntry, len(floor))
			for i, spawn := range floor {
				d.Spawns[f][i] = spawn
			}
		}
	}

	if entry.TrapWeights != nil {
		d.TrapWeights = make([]*tables.TrapWeights, len(entry.TrapWeights))
		for f, rec := range entry.TrapWeights {
			cp := tables.NewTrapWeights()
			cp.Keys = append(cp.Keys, rec.Keys...)
			for k, v := range rec.Weights {
				cp.Weights[k] = v
			}
			for k, v := range rec.Reserved {
				cp.Reserved[k] = v
			}
			d.TrapWeights[f] = cp
		}
	}

	if itemSets != nil {
		d.ItemSets = make([][]int16, len(itemSets.Sets))
		for s, set := range itemSets.Sets {
			d.ItemSets[s] = append([]int16(nil), set...)
		}
	}
}
