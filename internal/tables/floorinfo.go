// Package tables holds the fixed-offset record codecs for the dungeon
// balance data. Every field sits at a literal byte offset with a literal
// width, little-endian. Decoders never range-check semantic values: out of
// range values are game data too and must round-trip unmodified.
package tables

import (
	"bytes"
	"encoding/binary"
)

// FloorInfoSize is the wire size of one per-floor record.
const FloorInfoSize = 98

const eventBudget = 32

// FloorInfo is the per-floor balance record. Unk3A has not been reverse
// engineered and passes through bit-exact.
type FloorInfo struct {
	Index              int16
	Short02            int16
	Event              string
	TurnLimit          int16
	ItemDensity        int16
	TrapDensity        int16
	EnemyDensity       int16
	BuriedItemDensity  int16
	MoneyDensity       int16
	MaxItemSpawns      uint8
	MaxTrapSpawns      uint8
	MonsterHouseChance int16
	StickyItemChance   int16
	KecleonShopChance  int16
	Weather            uint8
	DarknessLevel      uint8
	Unk3A              [40]byte
}

// DecodeFloorInfo reads one record. buf must hold FloorInfoSize bytes.
func DecodeFloorInfo(buf []byte) FloorInfo {
	fi := FloorInfo{
		Index:              int16(binary.LittleEndian.Uint16(buf[0x00:])),
		Short02:            int16(binary.LittleEndian.Uint16(buf[0x02:])),
		Event:              string(bytes.TrimRight(buf[0x04:0x24], "\x00")),
		TurnLimit:          int16(binary.LittleEndian.Uint16(buf[0x24:])),
		ItemDensity:        int16(binary.LittleEndian.Uint16(buf[0x26:])),
		TrapDensity:        int16(binary.LittleEndian.Uint16(buf[0x28:])),
		EnemyDensity:       int16(binary.LittleEndian.Uint16(buf[0x2A:])),
		BuriedItemDensity:  int16(binary.LittleEndian.Uint16(buf[0x2C:])),
		MoneyDensity:       int16(binary.LittleEndian.Uint16(buf[0x2E:])),
		MaxItemSpawns:      buf[0x30],
		MaxTrapSpawns:      buf[0x31],
		MonsterHouseChance: int16(binary.LittleEndian.Uint16(buf[0x32:])),
		StickyItemChance:   int16(binary.LittleEndian.Uint16(buf[0x34:])),
		KecleonShopChance:  int16(binary.LittleEndian.Uint16(buf[0x36:])),
		Weather:            buf[0x38],
		DarknessLevel:      buf[0x39],
	}
	copy(fi.Unk3A[:], buf[0x3A:FloorInfoSize])
	return fi
}

// EncodeFloorInfo writes one record into a fresh FloorInfoSize buffer.
func EncodeFloorInfo(fi FloorInfo) ([]byte, error) {
	if len(fi.Event) > eventBudget {
		return nil, &FieldTooLongError{Field: "Event", Length: len(fi.Event), Budget: eventBudget}
	}
	buf := make([]byte, FloorInfoSize)
	binary.LittleEndian.PutUint16(buf[0x00:], uint16(fi.Index))
	binary.LittleEndian.PutUint16(buf[0x02:], uint16(fi.Short02))
	copy(buf[0x04:0x24], fi.Event)
	binary.LittleEndian.PutUint16(buf[0x24:], uint16(fi.TurnLimit))
	binary.LittleEndian.PutUint16(buf[0x26:], uint16(fi.ItemDensity))
	binary.LittleEndian.PutUint16(buf[0x28:], uint16(fi.TrapDensity))
	binary.LittleEndian.PutUint16(buf[0x2A:], uint16(fi.EnemyDensity))
	binary.LittleEndian.PutUint16(buf[0x2C:], uint16(fi.BuriedItemDensity))
	binary.LittleEndian.PutUint16(buf[0x2E:], uint16(fi.MoneyDensity))
	buf[0x30] = fi.MaxItemSpawns
	buf[0x31] = fi.MaxTrapSpawns
	binary.LittleEndian.PutUint16(buf[0x32:], uint16(fi.MonsterHouseChance))
	binary.LittleEndian.PutUint16(buf[0x34:], uint16(fi.StickyItemChance))
	binary.LittleEndian.PutUint16(buf[0x36:], uint16(fi.KecleonShopChance))
	buf[0x38] = fi.Weather
	buf[0x39] = fi.DarknessLevel
	copy(buf[0x3A:], fi.Unk3A[:])
	return buf, nil
}
