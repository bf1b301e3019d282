package icon

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	imgs := Generate()
	require.Len(t, imgs, 2)
	assert.Equal(t, 64, imgs[0].Bounds().Dx())
	assert.Equal(t, 32, imgs[1].Bounds().Dx())

	// Centre of the glyph is accent blue, a corner stays transparent.
	_, _, b, a := imgs[0].At(32, 27).RGBA()
	assert.Equal(t, uint32(0xFFFF), a)
	assert.Greater(t, b, uint32(0xC000))
	_, _, _, a = imgs[0].At(0, 0).RGBA()
	assert.Less(t, a, uint32(0x8000))
}
