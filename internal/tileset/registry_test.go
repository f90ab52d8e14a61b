package tileset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRegistry(t *testing.T) {
	r := DefaultRegistry()

	for _, key := range []string{"Ground_Tileset", "Fence_Wood", "Well"} {
		assert.True(t, r.Has(key), key)
	}
	assert.False(t, r.Has("Lava"))
	assert.Equal(t, []string{"Decorations", "Fence_Wood", "Ground_Tileset", "Water_Tileset", "Well"}, r.Keys())
}

func TestTileset_FrameAt(t *testing.T) {
	ground, ok := DefaultRegistry().Lookup("Ground_Tileset")
	require.True(t, ok)

	frame, err := ground.FrameAt(0, 288)
	require.NoError(t, err)
	assert.Equal(t, 576, frame)

	frame, err = ground.FrameAt(64, 48)
	require.NoError(t, err)
	assert.Equal(t, 100, frame)

	_, err = ground.FrameAt(3, 0)
	assert.ErrorIs(t, err, ErrBadOffset)

	_, err = ground.FrameAt(512, 0)
	assert.ErrorIs(t, err, ErrBadOffset)

	_, err = ground.FrameAt(0, 512)
	assert.ErrorIs(t, err, ErrBadFrame)
}

func TestTileset_OffsetInvertsFrameAt(t *testing.T) {
	fence, ok := DefaultRegistry().Lookup("Fence_Wood")
	require.True(t, ok)

	for frame := 0; frame < fence.Frames; frame++ {
		x, y, err := fence.Offset(frame)
		require.NoError(t, err)
		got, err := fence.FrameAt(x, y)
		require.NoError(t, err)
		assert.Equal(t, frame, got)
	}

	_, _, err := fence.Offset(16)
	assert.ErrorIs(t, err, ErrBadFrame)
}

func TestRegistry_Resolve(t *testing.T) {
	r := DefaultRegistry()

	sprite, err := r.Resolve("Ground_Tileset", 576)
	require.NoError(t, err)
	assert.Equal(t, Sprite{
		Tileset: "Ground_Tileset",
		Image:   "tilesets/ground.png",
		Frame:   576,
		X:       0,
		Y:       288,
		Width:   16,
		Height:  16,
	}, sprite)

	_, err = r.Resolve("Nope", 0)
	assert.ErrorIs(t, err, ErrUnknownTileset)
}

func TestLoadRegistry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tilesets.yaml")
	content := `tilesets:
  - key: Rocks
    image: rocks.png
    tileWidth: 32
    tileHeight: 32
    columns: 2
    frames: 4
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	r, err := LoadRegistry(path)
	require.NoError(t, err)
	frame, ok := r.FrameAt("Rocks", 32, 32)
	assert.True(t, ok)
	assert.Equal(t, 3, frame)
}

func TestLoadRegistry_Invalid(t *testing.T) {
	_, err := ParseRegistry([]byte("tilesets:\n  - key: Bad\n    tileWidth: 0\n    tileHeight: 16\n    columns: 1\n"))
	assert.Error(t, err)

	_, err = ParseRegistry([]byte("tilesets:\n  - key: A\n    tileWidth: 8\n    tileHeight: 8\n    columns: 1\n  - key: A\n    tileWidth: 8\n    tileHeight: 8\n    columns: 1\n"))
	assert.Error(t, err)

	_, err = LoadRegistry(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
