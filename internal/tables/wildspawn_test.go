package tables

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatureStatsRoundTrip(t *testing.T) {
	cs := CreatureStats{
		Level:          45,
		HitPoints:      120,
		Attack:         80,
		Defense:        65,
		SpecialAttack:  90,
		SpecialDefense: 70,
		Speed:          110,
		StrongFoe:      true,
		Unk0A:          [6]byte{1, 2, 3, 4, 5, 6},
	}

	buf := EncodeCreatureStats(cs)
	require.Len(t, buf, CreatureStatsSize)
	assert.Equal(t, cs, DecodeCreatureStats(buf))
}

func TestSpawnEntryRoundTrip(t *testing.T) {
	se := SpawnEntry{
		SpawnWeight:        300,
		MonsterHouseWeight: 150,
		RecruitmentLevel:   22,
		IsSpecial:          true,
		Unk06:              [10]byte{9, 8, 7, 6, 5, 4, 3, 2, 1, 0},
	}

	buf := EncodeSpawnEntry(se)
	require.Len(t, buf, SpawnEntrySize)
	assert.Equal(t, se, DecodeSpawnEntry(buf))
}

func TestPeerRecordRoundTrips(t *testing.T) {
	di := DungeonDataInfo{
		SortKey:      14,
		BalanceIndex: 3,
		Category:     CategoryDojo,
		Features:     0x0F,
		MaxItems:     48,
		MaxTeammates: 8,
		NameID:       1234,
	}
	copy(di.Unk0C[:], []byte{0xDE, 0xAD})
	assert.Equal(t, di, DecodeDungeonDataInfo(EncodeDungeonDataInfo(di)))

	de := DungeonExtra{FloorCount: 99}
	de.Unk02[0] = 0x11
	assert.Equal(t, de, DecodeDungeonExtra(EncodeDungeonExtra(de)))

	rl := RequestLevel{Level: 35, AcceptedCount: 2}
	rl.Unk04[3] = 0x22
	assert.Equal(t, rl, DecodeRequestLevel(EncodeRequestLevel(rl)))
}
