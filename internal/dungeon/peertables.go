// Package dungeon merges the per-archive records for one dungeon index
// into a single editable aggregate, tracks which aggregates carry edits,
// and writes only those back on flush.
package dungeon

import (
	"github.com/pkg/errors"

	"github.com/DeltaJordan/DreamNexus/internal/tables"
)

// The peer tables are flat uncompressed record arrays indexed by dungeon.
// The extra and request tables may be shorter than the metadata table;
// indices past their end simply have no record.

// DataTable holds the always-present per-dungeon metadata records.
type DataTable struct {
	Records []tables.DungeonDataInfo
}

// NewDataTable decodes a metadata table file.
func NewDataTable(buf []byte) (*DataTable, error) {
	if len(buf)%tables.DungeonDataInfoSize != 0 {
		return nil, errors.Errorf("metadata table of %d bytes is not a whole number of records", len(buf))
	}
	t := &DataTable{Records: make([]tables.DungeonDataInfo, len(buf)/tables.DungeonDataInfoSize)}
	for i := range t.Records {
		t.Records[i] = tables.DecodeDungeonDataInfo(buf[i*tables.DungeonDataInfoSize:])
	}
	return t, nil
}

// Encode rebuilds the table file.
func (t *DataTable) Encode() []byte {
	buf := make([]byte, 0, len(t.Records)*tables.DungeonDataInfoSize)
	for _, rec := range t.Records {
		buf = append(buf, tables.EncodeDungeonDataInfo(rec)...)
	}
	return buf
}

// ExtraTable holds the optional floor-count records.
type ExtraTable struct {
	Records []tables.DungeonExtra
}

func NewExtraTable(buf []byte) (*ExtraTable, error) {
	if len(buf)%tables.DungeonExtraSize != 0 {
		return nil, errors.Errorf("extra table of %d bytes is not a whole number of records", len(buf))
	}
	t := &ExtraTable{Records: make([]tables.DungeonExtra, len(buf)/tables.DungeonExtraSize)}
	for i := range t.Records {
		t.Records[i] = tables.DecodeDungeonExtra(buf[i*tables.DungeonExtraSize:])
	}
	return t, nil
}

func (t *ExtraTable) Encode() []byte {
	buf := make([]byte, 0, len(t.Records)*tables.DungeonExtraSize)
	for _, rec := range t.Records {
		buf = append(buf, tables.EncodeDungeonExtra(rec)...)
	}
	return buf
}

// RequestTable holds the optional request-level records.
type RequestTable struct {
	Records []tables.RequestLevel
}

func NewRequestTable(buf []byte) (*RequestTable, error) {
	if len(buf)%tables.RequestLevelSize != 0 {
		return nil, errors.Errorf("request-level table of %d bytes is not a whole number of records", len(buf))
	}
	t := &RequestTable{Records: make([]tables.RequestLevel, len(buf)/tables.RequestLevelSize)}
	for i := range t.Records {
		t.Records[i] = tables.DecodeRequestLevel(buf[i*tables.RequestLevelSize:])
	}
	return t, nil
}

func (t *RequestTable) Encode() []byte {
	buf := make([]byte, 0, len(t.Records)*tables.RequestLevelSize)
	for _, rec := range t.Records {
		buf = append(buf, tables.EncodeRequestLevel(rec)...)
	}
	return buf
}
