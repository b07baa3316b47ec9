package dungeon

import (
	"github.com/pkg/errors"

	"github.com/DeltaJordan/DreamNexus/internal/balance"
	"github.com/DeltaJordan/DreamNexus/internal/bin"
	"github.com/DeltaJordan/DreamNexus/internal/compression"
	"github.com/DeltaJordan/DreamNexus/internal/sir0"
)

// ItemArrangeEntry holds one dungeon's item-set lists: ordered lists of
// item IDs the floor generator draws arrangements from.
type ItemArrangeEntry struct {
	Sets [][]int16
}

// The item-arrange container carries a single sub-table: the subheader is
// [headerPtr, dataEnd], where headerPtr points at an int32 set count
// followed by one pointer per set. Each set is an int32 count followed by
// that many int16 item IDs. Like the wild-spawn table, the pointer table
// is rebuilt from scratch on encode.
const itemArrangeSubheaderFields = 2

type itemSlot struct {
	raw     []byte
	decoded *ItemArrangeEntry
}

// ItemArrangeArchive is the item-arrangement file pair. Same lazy decode
// and passthrough rules as the balance archive; the rebuild is sequential
// since entries are tiny.
type ItemArrangeArchive struct {
	codec compression.Codec
	slots []itemSlot
}

// NewItemArrangeArchive opens an archive from its file pair contents.
func NewItemArrangeArchive(indexBytes, dataBytes []byte, codec compression.Codec) (*ItemArrangeArchive, error) {
	entries, err := bin.Split(indexBytes, dataBytes)
	if err != nil {
		return nil, errors.Wrap(err, "split item-arrange archive")
	}
	slots := make([]itemSlot, len(entries))
	for i := range entries {
		slots[i].raw = entries[i]
	}
	return &ItemArrangeArchive{codec: codec, slots: slots}, nil
}

// EntryCount returns the number of entries in the archive.
func (a *ItemArrangeArchive) EntryCount() int { return len(a.slots) }

// GetEntry mirrors the balance archive contract: temporary decodes fresh
// from committed bytes with no cache traffic, otherwise decode once and
// hand out the cached mutable instance.
func (a *ItemArrangeArchive) GetEntry(index int, temporary bool) (*ItemArrangeEntry, error) {
	if index < 0 || index >= len(a.slots) {
		return nil, &balance.IndexOutOfRangeError{Index: index, Count: len(a.slots)}
	}
	if temporary {
		return a.decode(index)
	}
	if a.slots[index].decoded == nil {
		entry, err := a.decode(index)
		if err != nil {
			return nil, err
		}
		a.slots[index].decoded = entry
	}
	return a.slots[index].decoded, nil
}

func (a *ItemArrangeArchive) decode(index int) (*ItemArrangeEntry, error) {
	if len(a.slots[index].raw) == 0 {
		return &ItemArrangeEntry{}, nil
	}
	raw, err := a.codec.Decompress(a.slots[index].raw)
	if err != nil {
		return nil, errors.Wrapf(err, "decompress item-arrange entry %d", index)
	}
	entry, err := decodeItemArrange(raw)
	if err != nil {
		return nil, errors.Wrapf(err, "decode item-arrange entry %d", index)
	}
	return entry, nil
}

// Build reassembles the file pair, passing untouched entries through.
func (a *ItemArrangeArchive) Build() (dataBytes, indexBytes []byte, err error) {
	results := make([][]byte, len(a.slots))
	for i := range a.slots {
		if a.slots[i].decoded == nil {
			results[i] = a.slots[i].raw
			continue
		}
		buf := encodeItemArrange(a.slots[i].decoded)
		packed, err := a.codec.Compress(buf)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "compress item-arrange entry %d", i)
		}
		results[i] = packed
	}
	dataBytes, indexBytes = bin.Join(results)
	return dataBytes, indexBytes, nil
}

func decodeItemArrange(buf []byte) (*ItemArrangeEntry, error) {
	c, err := sir0.Parse(buf)
	if err != nil {
		return nil, err
	}
	ptrs, err := c.Pointers(itemArrangeSubheaderFields)
	if err != nil {
		return nil, err
	}
	entry := &ItemArrangeEntry{}
	if ptrs[1]-ptrs[0] <= 0 {
		return entry, nil
	}

	header := ptrs[0]
	setCount, err := c.Int32At(header)
	if err != nil {
		return nil, err
	}
	if setCount < 0 {
		return nil, &sir0.MalformedContainerError{Offset: header, Length: len(buf), Reason: "negative item-set count"}
	}
	entry.Sets = make([][]int16, setCount)
	for s := range entry.Sets {
		setPtr, err := c.Int64At(header + 8 + int64(s)*sir0.PointerSize)
		if err != nil {
			return nil, err
		}
		itemCount, err := c.Int32At(setPtr)
		if err != nil {
			return nil, err
		}
		if itemCount < 0 {
			return nil, &sir0.MalformedContainerError{Offset: setPtr, Length: len(buf), Reason: "negative item count"}
		}
		region, err := c.Region(setPtr+4, setPtr+4+int64(itemCount)*2)
		if err != nil {
			return nil, err
		}
		entry.Sets[s] = make([]int16, itemCount)
		for i := range entry.Sets[s] {
			entry.Sets[s][i] = int16(uint16(region[i*2]) | uint16(region[i*2+1])<<8)
		}
	}
	return entry, nil
}

func encodeItemArrange(entry *ItemArrangeEntry) []byte {
	b := sir0.NewBuilder()

	// sets first, header last; the subheader points at the header
	setPtrs := make([]int64, len(entry.Sets))
	for s, set := range entry.Sets {
		setPtrs[s] = b.Offset()
		b.WriteInt32(int32(len(set)))
		for _, item := range set {
			b.WriteInt16(item)
		}
		b.Align(8)
	}

	header := b.Offset()
	if len(entry.Sets) > 0 {
		b.WriteInt32(int32(len(entry.Sets)))
		b.WriteInt32(0)
		for _, ptr := range setPtrs {
			b.WritePointer(ptr)
		}
	}
	end := b.Offset()

	subheader := b.Offset()
	b.WritePointer(header)
	b.WritePointer(end)
	return b.Finish(subheader)
}
