package tables

import "encoding/binary"

// Peer records live in flat, uncompressed tables keyed by the same dungeon
// index as the balance archive. The collection layer merges them with the
// balance entry into one editable aggregate.

// Dungeon categories as stored in the metadata record. Dojo dungeons are
// the known-buggy source category: their balance data is corrupt at the
// source, so the flush path skips them wholesale rather than rewriting
// (and further corrupting) them.
const (
	CategoryNormal   = 0
	CategoryStory    = 1
	CategoryPostgame = 2
	CategoryDojo     = 3
	CategoryDownfall = 4
)

// DungeonDataInfoSize is the wire size of one metadata record.
const DungeonDataInfoSize = 32

// DungeonDataInfo is the always-present per-dungeon metadata record.
type DungeonDataInfo struct {
	SortKey      int16
	BalanceIndex int16
	Category     uint8
	Features     uint8
	MaxItems     uint8
	MaxTeammates uint8
	NameID       int32
	Unk0C        [20]byte
}

func DecodeDungeonDataInfo(buf []byte) DungeonDataInfo {
	di := DungeonDataInfo{
		SortKey:      int16(binary.LittleEndian.Uint16(buf[0x00:])),
		BalanceIndex: int16(binary.LittleEndian.Uint16(buf[0x02:])),
		Category:     buf[0x04],
		Features:     buf[0x05],
		MaxItems:     buf[0x06],
		MaxTeammates: buf[0x07],
		NameID:       int32(binary.LittleEndian.Uint32(buf[0x08:])),
	}
	copy(di.Unk0C[:], buf[0x0C:DungeonDataInfoSize])
	return di
}

func EncodeDungeonDataInfo(di DungeonDataInfo) []byte {
	buf := make([]byte, DungeonDataInfoSize)
	binary.LittleEndian.PutUint16(buf[0x00:], uint16(di.SortKey))
	binary.LittleEndian.PutUint16(buf[0x02:], uint16(di.BalanceIndex))
	buf[0x04] = di.Category
	buf[0x05] = di.Features
	buf[0x06] = di.MaxItems
	buf[0x07] = di.MaxTeammates
	binary.LittleEndian.PutUint32(buf[0x08:], uint32(di.NameID))
	copy(buf[0x0C:], di.Unk0C[:])
	return buf
}

// DungeonExtraSize is the wire size of one floor-count record.
const DungeonExtraSize = 16

// DungeonExtra is the optional auxiliary floor-count record.
type DungeonExtra struct {
	FloorCount int16
	Unk02      [14]byte
}

func DecodeDungeonExtra(buf []byte) DungeonExtra {
	de := DungeonExtra{
		FloorCount: int16(binary.LittleEndian.Uint16(buf[0x00:])),
	}
	copy(de.Unk02[:], buf[0x02:DungeonExtraSize])
	return de
}

func EncodeDungeonExtra(de DungeonExtra) []byte {
	buf := make([]byte, DungeonExtraSize)
	binary.LittleEndian.PutUint16(buf[0x00:], uint16(de.FloorCount))
	copy(buf[0x02:], de.Unk02[:])
	return buf
}

// RequestLevelSize is the wire size of one request-level record.
const RequestLevelSize = 8

// RequestLevel is the optional per-dungeon request-level record.
type RequestLevel struct {
	Level         int16
	AcceptedCount int16
	Unk04         [4]byte
}

func DecodeRequestLevel(buf []byte) RequestLevel {
	rl := RequestLevel{
		Level:         int16(binary.LittleEndian.Uint16(buf[0x00:])),
		AcceptedCount: int16(binary.LittleEndian.Uint16(buf[0x02:])),
	}
	copy(rl.Unk04[:], buf[0x04:RequestLevelSize])
	return rl
}

func EncodeRequestLevel(rl RequestLevel) []byte {
	buf := make([]byte, RequestLevelSize)
	binary.LittleEndian.PutUint16(buf[0x00:], uint16(rl.Level))
	binary.LittleEndian.PutUint16(buf[0x02:], uint16(rl.AcceptedCount))
	copy(buf[0x04:], rl.Unk04[:])
	return buf
}
