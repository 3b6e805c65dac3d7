package block

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsSolid(t *testing.T) {
	assert.False(t, IsSolid(AirBlockID), "воздух не должен быть твёрдым")
	assert.True(t, IsSolid(StoneBlockID))
	// незарегистрированный ненулевой ID тоже твёрдый
	assert.True(t, IsSolid(BlockID(4242)))
}

func TestPaletteRegistered(t *testing.T) {
	ids := IDs()
	assert.Equal(t, AirBlockID, ids[0])
	assert.True(t, IsValidBlockID(SnowBlockID))
	assert.Equal(t, "lava", Name(LavaBlockID))
	assert.Equal(t, "unknown", Name(BlockID(4242)))

	info, ok := Get(DarkStoneBlockID)
	assert.True(t, ok)
	assert.Equal(t, uint32(0x222222), info.Color)
}
