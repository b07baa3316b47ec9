package tables

import "encoding/binary"

// Wire sizes of the wild-spawn sub-records.
const (
	CreatureStatsSize = 16
	SpawnEntrySize    = 16
)

// SpawnPadByte fills the alignment gap after each per-floor spawn table.
const SpawnPadByte = 0xFF

// CreatureStats is the per-creature stats record of a dungeon's wild-spawn
// table. The table is dense: the creature index is the record's position.
type CreatureStats struct {
	Level          int16
	HitPoints      int16
	Attack         uint8
	Defense        uint8
	SpecialAttack  uint8
	SpecialDefense uint8
	Speed          uint8
	StrongFoe      bool
	Unk0A          [6]byte
}

func DecodeCreatureStats(buf []byte) CreatureStats {
	cs := CreatureStats{
		Level:          int16(binary.LittleEndian.Uint16(buf[0x00:])),
		HitPoints:      int16(binary.LittleEndian.Uint16(buf[0x02:])),
		Attack:         buf[0x04],
		Defense:        buf[0x05],
		SpecialAttack:  buf[0x06],
		SpecialDefense: buf[0x07],
		Speed:          buf[0x08],
		StrongFoe:      buf[0x09] != 0,
	}
	copy(cs.Unk0A[:], buf[0x0A:CreatureStatsSize])
	return cs
}

func EncodeCreatureStats(cs CreatureStats) []byte {
	buf := make([]byte, CreatureStatsSize)
	binary.LittleEndian.PutUint16(buf[0x00:], uint16(cs.Level))
	binary.LittleEndian.PutUint16(buf[0x02:], uint16(cs.HitPoints))
	buf[0x04] = cs.Attack
	buf[0x05] = cs.Defense
	buf[0x06] = cs.SpecialAttack
	buf[0x07] = cs.SpecialDefense
	buf[0x08] = cs.Speed
	if cs.StrongFoe {
		buf[0x09] = 1
	}
	copy(buf[0x0A:], cs.Unk0A[:])
	return buf
}

// SpawnEntry is one creature's spawn slot on one floor.
type SpawnEntry struct {
	SpawnWeight        int16
	MonsterHouseWeight int16
	RecruitmentLevel   uint8
	IsSpecial          bool
	Unk06              [10]byte
}

func DecodeSpawnEntry(buf []byte) SpawnEntry {
	se := SpawnEntry{
		SpawnWeight:        int16(binary.LittleEndian.Uint16(buf[0x00:])),
		MonsterHouseWeight: int16(binary.LittleEndian.Uint16(buf[0x02:])),
		RecruitmentLevel:   buf[0x04],
		IsSpecial:          buf[0x05] != 0,
	}
	copy(se.Unk06[:], buf[0x06:SpawnEntrySize])
	return se
}

func EncodeSpawnEntry(se SpawnEntry) []byte {
	buf := make([]byte, SpawnEntrySize)
	binary.LittleEndian.PutUint16(buf[0x00:], uint16(se.SpawnWeight))
	binary.LittleEndian.PutUint16(buf[0x02:], uint16(se.MonsterHouseWeight))
	buf[0x04] = se.RecruitmentLevel
	if se.IsSpecial {
		buf[0x05] = 1
	}
	copy(buf[0x06:], se.Unk06[:])
	return buf
}
