package dungeon

import (
	"sort"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/DeltaJordan/DreamNexus/internal/balance"
	"github.com/DeltaJordan/DreamNexus/internal/tables"
)

// Archives is the set of source archives a collection composes dungeons
// from and flushes them back into. Balance and Data are required; the
// others are optional.
type Archives struct {
	Balance     *balance.Archive
	Data        *DataTable
	Extra       *ExtraTable
	ItemArrange *ItemArrangeArchive
	Request     *RequestTable
}

// Collection owns the merged per-dungeon aggregates. Aggregates are
// created on first lookup, upgraded from a lightweight listing load to a
// full load on the first dirty access, and read back into their source
// archives only on Flush.
type Collection struct {
	archives *Archives
	cache    map[int]*Dungeon
	dirty    map[int]bool
}

// NewCollection wraps an archive set.
func NewCollection(archives *Archives) *Collection {
	return &Collection{
		archives: archives,
		cache:    make(map[int]*Dungeon),
		dirty:    make(map[int]bool),
	}
}

// Count returns the number of dungeon indices.
func (c *Collection) Count() int { return len(c.archives.Data.Records) }

// IsDirty reports whether the aggregate at index carries pending edits.
func (c *Collection) IsDirty(index int) bool { return c.dirty[index] }

// SetDungeon replaces the cached aggregate wholesale. A replacement is a
// pending edit, so the index is marked dirty.
func (c *Collection) SetDungeon(index int, d *Dungeon) {
	c.cache[index] = d
	c.dirty[index] = true
}

// GetByIndex returns the aggregate for one dungeon.
//
// With markDirty, the returned aggregate is fully loaded and flagged for
// flush; a cached clean partial load is discarded and reloaded in full
// first, while an already-dirty aggregate is returned as-is without a
// reload. With forceTemporaryFullLoad, any cached state is ignored: the
// aggregate is rebuilt in full through the archives' temporary mode and
// neither cached nor marked dirty, so a full-detail preview can never
// pollute the dirty set.
func (c *Collection) GetByIndex(index int, markDirty, forceTemporaryFullLoad bool) (*Dungeon, error) {
	if forceTemporaryFullLoad {
		return c.load(index, true, true)
	}

	if cached, ok := c.cache[index]; ok {
		if !markDirty {
			return cached, nil
		}
		if c.dirty[index] {
			return cached, nil
		}
		reloaded, err := c.load(index, true, false)
		if err != nil {
			return nil, err
		}
		c.cache[index] = reloaded
		c.dirty[index] = true
		return reloaded, nil
	}

	d, err := c.load(index, markDirty, false)
	if err != nil {
		return nil, err
	}
	c.cache[index] = d
	if markDirty {
		c.dirty[index] = true
	}
	return d, nil
}

// LoadAll returns every dungeon, sorted by the stable sort key. Without
// markDirty this is the lightweight listing load.
func (c *Collection) LoadAll(markDirty bool) ([]*Dungeon, error) {
	all := make([]*Dungeon, 0, c.Count())
	for i := 0; i < c.Count(); i++ {
		d, err := c.GetByIndex(i, markDirty, false)
		if err != nil {
			return nil, err
		}
		all = append(all, d)
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].SortKey < all[j].SortKey })
	return all, nil
}

func (c *Collection) load(index int, full, temporary bool) (*Dungeon, error) {
	records := c.archives.Data.Records
	if index < 0 || index >= len(records) {
		return nil, &balance.IndexOutOfRangeError{Index: index, Count: len(records)}
	}
	meta := records[index]

	d := &Dungeon{
		Index:        index,
		SortKey:      meta.SortKey,
		BalanceIndex: meta.BalanceIndex,
		Category:     meta.Category,
		Features:     meta.Features,
		MaxItems:     meta.MaxItems,
		MaxTeammates: meta.MaxTeammates,
		NameID:       meta.NameID,
	}

	if c.archives.Extra != nil && index < len(c.archives.Extra.Records) {
		d.HasExtra = true
		d.FloorCount = c.archives.Extra.Records[index].FloorCount
	}
	if c.archives.Request != nil && index < len(c.archives.Request.Records) {
		d.HasRequestLevel = true
		d.RequestLevel = c.archives.Request.Records[index].Level
		d.AcceptedCount = c.archives.Request.Records[index].AcceptedCount
	}

	if !full {
		return d, nil
	}

	// dojo balance data is corrupt at the source; keep it off the mutable
	// path so a rebuild reproduces its bytes exactly even after a full load
	if d.IsDojo() {
		temporary = true
	}

	entry, err := c.archives.Balance.GetEntry(int(meta.BalanceIndex), temporary)
	if err != nil {
		return nil, errors.Wrapf(err, "load balance entry for dungeon %d", index)
	}
	var itemSets *ItemArrangeEntry
	if c.archives.ItemArrange != nil && index < c.archives.ItemArrange.EntryCount() {
		itemSets, err = c.archives.ItemArrange.GetEntry(index, temporary)
		if err != nil {
			return nil, errors.Wrapf(err, "load item sets for dungeon %d", index)
		}
	}
	d.loadBalance(entry, itemSets)
	return d, nil
}

// Flush writes every cached aggregate back into the archive set. Dojo
// dungeons are skipped entirely: their source data is corrupt and is
// preserved as-is. Sub-tables present on an aggregate fully overwrite the
// archive's version, with rows missing from the aggregate reset to their
// empty sentinel values; trap weights are the exception and only the keys
// present are overwritten.
func (c *Collection) Flush(archives *Archives) error {
	indices := make([]int, 0, len(c.cache))
	for index := range c.cache {
		indices = append(indices, index)
	}
	sort.Ints(indices)

	for _, index := range indices {
		d := c.cache[index]
		if d.IsDojo() {
			logrus.WithField("dungeon", index).Debug("skipping dojo dungeon flush")
			continue
		}
		if err := c.flushOne(archives, index, d); err != nil {
			return err
		}
	}
	return nil
}

func (c *Collection) flushOne(archives *Archives, index int, d *Dungeon) error {
	rec := &archives.Data.Records[index]
	rec.SortKey = d.SortKey
	rec.BalanceIndex = d.BalanceIndex
	rec.Category = d.Category
	rec.Features = d.Features
	rec.MaxItems = d.MaxItems
	rec.MaxTeammates = d.MaxTeammates
	rec.NameID = d.NameID

	if d.HasExtra && archives.Extra != nil && index < len(archives.Extra.Records) {
		archives.Extra.Records[index].FloorCount = d.FloorCount
	}
	if d.HasRequestLevel && archives.Request != nil && index < len(archives.Request.Records) {
		archives.Request.Records[index].Level = d.RequestLevel
		archives.Request.Records[index].AcceptedCount = d.AcceptedCount
	}

	if !d.FullyLoaded {
		return nil
	}

	entry, err := archives.Balance.GetEntry(int(d.BalanceIndex), false)
	if err != nil {
		return errors.Wrapf(err, "flush dungeon %d", index)
	}

	entry.Floors = append([]tables.FloorInfo(nil), d.Floors...)

	if entry.WildSpawn != nil && d.Stats != nil {
		for i := range entry.WildSpawn.Stats {
			if stats, ok := d.Stats[i]; ok {
				entry.WildSpawn.Stats[i] = stats
			} else {
				entry.WildSpawn.Stats[i] = tables.CreatureStats{}
			}
		}
	}
	if entry.WildSpawn != nil && d.Spawns != nil {
		for f := range entry.WildSpawn.Floors {
			if f >= len(d.Spawns) {
				break
			}
			for i := range entry.WildSpawn.Floors[f] {
				if spawn, ok := d.Spawns[f][i]; ok {
					entry.WildSpawn.Floors[f][i] = spawn
				} else {
					entry.WildSpawn.Floors[f][i] = tables.SpawnEntry{}
				}
			}
		}
	}

	for f, tw := range d.TrapWeights {
		if f >= len(entry.TrapWeights) {
			break
		}
		for _, key := range tw.Keys {
			entry.TrapWeights[f].Set(key, tw.Weights[key])
		}
	}

	if d.ItemSets != nil && archives.ItemArrange != nil && index < archives.ItemArrange.EntryCount() {
		arrange, err := archives.ItemArrange.GetEntry(index, false)
		if err != nil {
			return errors.Wrapf(err, "flush item sets for dungeon %d", index)
		}
		arrange.Sets = make([][]int16, len(d.ItemSets))
		for s, set := range d.ItemSets {
			arrange.Sets[s] = append([]int16(nil), set...)
		}
	}

	return nil
}
