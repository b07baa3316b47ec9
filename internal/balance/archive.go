package balance

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/DeltaJordan/DreamNexus/internal/bin"
	"github.com/DeltaJordan/DreamNexus/internal/compression"
)

// IndexOutOfRangeError reports a request for an entry the archive does
// not have.
type IndexOutOfRangeError struct {
	Index int
	Count int
}

func (e *IndexOutOfRangeError) Error() string {
	return fmt.Sprintf("entry index %d out of range, archive holds %d entries", e.Index, e.Count)
}

type entrySlot struct {
	raw     []byte // compressed source bytes, always kept
	decoded *Entry // set once the entry is pulled through the mutable path
}

// Archive is one opened index/data file pair. Entries stay as raw
// compressed slices until first accessed; decoded entries are cached and
// handed out mutable, so edits made through GetEntry survive into Build.
//
// Build must not run concurrently with a mutating GetEntry; the caller
// sequences loads and rebuilds.
type Archive struct {
	codec compression.Codec
	slots []entrySlot
}

// NewArchive opens an archive from its file pair contents.
func NewArchive(indexBytes, dataBytes []byte, codec compression.Codec) (*Archive, error) {
	entries, err := bin.Split(indexBytes, dataBytes)
	if err != nil {
		return nil, errors.Wrap(err, "split balance archive")
	}
	slots := make([]entrySlot, len(entries))
	for i := range entries {
		slots[i].raw = entries[i]
	}
	return &Archive{codec: codec, slots: slots}, nil
}

// EntryCount returns the number of entries in the archive.
func (a *Archive) EntryCount() int { return len(a.slots) }

// GetEntry returns the entry at index. With temporary set, the entry is
// decoded fresh from the stored compressed bytes and neither read from nor
// written to the cache; the committed state stays untouched. Otherwise the
// first call decodes and caches, and later calls return the same mutable
// instance.
func (a *Archive) GetEntry(index int, temporary bool) (*Entry, error) {
	if index < 0 || index >= len(a.slots) {
		return nil, &IndexOutOfRangeError{Index: index, Count: len(a.slots)}
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

func (a *Archive) decode(index int) (*Entry, error) {
	// some source archives hold zero-length entries for dungeons that
	// simply have no balance data
	if len(a.slots[index].raw) == 0 {
		return &Entry{}, nil
	}
	// the compressed bytes are static input: a failure here is final
	raw, err := a.codec.Decompress(a.slots[index].raw)
	if err != nil {
		return nil, errors.Wrapf(err, "decompress entry %d", index)
	}
	entry, err := DecodeEntry(raw)
	if err != nil {
		return nil, errors.Wrapf(err, "decode entry %d", index)
	}
	return entry, nil
}

// Build re-encodes every decoded entry and reassembles the file pair.
// Entries never pulled through the mutable path pass through byte for
// byte. Re-encoding fans out one task per decoded index; results are
// gathered in index order so the output layout is stable across runs, and
// any single failure aborts the whole build with no partial output.
func (a *Archive) Build(ctx context.Context) (dataBytes, indexBytes []byte, err error) {
	results := make([][]byte, len(a.slots))

	g, ctx := errgroup.WithContext(ctx)
	rebuilt := 0
	for i := range a.slots {
		if a.slots[i].decoded == nil {
			results[i] = a.slots[i].raw
			continue
		}
		rebuilt++
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			buf, err := EncodeEntry(a.slots[i].decoded)
			if err != nil {
				return errors.Wrapf(err, "encode entry %d", i)
			}
			packed, err := a.codec.Compress(buf)
			if err != nil {
				return errors.Wrapf(err, "compress entry %d", i)
			}
			results[i] = packed
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	logrus.WithFields(logrus.Fields{
		"entries": len(a.slots),
		"rebuilt": rebuilt,
	}).Debug("rebuilt balance archive")

	dataBytes, indexBytes = bin.Join(results)
	return dataBytes, indexBytes, nil
}
