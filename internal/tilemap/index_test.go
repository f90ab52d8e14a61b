package tilemap_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thesrcielos/TileMapServer/internal/tilemap"
)

func ids(tiles []tilemap.TileEntry) []string {
	out := []string{}
	for _, tile := range tiles {
		out = append(out, tile.ID)
	}
	return out
}

func TestTilesAt_Origin(t *testing.T) {
	m := tilemap.NewTileMap(loadFarm(t), tilemap.KeepLast)

	tiles := m.TilesAt(0, 0)
	require.Len(t, tiles, 1)
	assert.Equal(t, "ground_0_0_1", tiles[0].ID)
	assert.Equal(t, 576, tiles[0].Frame)
	assert.Equal(t, "Ground_Tileset", tiles[0].TilesetKey)
	assert.Equal(t, tilemap.LayerGround, tiles[0].Layer)
	assert.False(t, m.IsWall(0, 0))
}

func TestTilesAt_Well(t *testing.T) {
	m := tilemap.NewTileMap(loadFarm(t), tilemap.KeepLast)

	tiles := m.TilesAt(8, 6)
	assert.Equal(t, []string{"ground_8_6_1", "well_1"}, ids(tiles))
	assert.Equal(t, tilemap.LayerGround, tiles[0].Layer)
	assert.Equal(t, "Well", tiles[1].TilesetKey)
	assert.Equal(t, tilemap.LayerDecoration, tiles[1].Layer)
	assert.True(t, m.IsWall(8, 6))
}

func TestTilesAt_OverlayDrawnLast(t *testing.T) {
	m := tilemap.NewTileMap(loadFarm(t), tilemap.KeepLast)

	tiles := m.TilesAt(16, 14)
	assert.Equal(t, []string{"ground_16_14_1", "ground_16_14_2", "fence_16_14_2000"}, ids(tiles))
	assert.Equal(t, []tilemap.Layer{tilemap.LayerGround, tilemap.LayerDecoration, tilemap.LayerOverlay},
		[]tilemap.Layer{tiles[0].Layer, tiles[1].Layer, tiles[2].Layer})
	assert.Equal(t, "Fence_Wood", tiles[2].TilesetKey)
}

func TestTilesAt_DetailAboveGround(t *testing.T) {
	m := tilemap.NewTileMap(loadFarm(t), tilemap.KeepLast)
	assert.Equal(t, []string{"ground_5_3_1", "ground_5_3_3"}, ids(m.TilesAt(5, 3)))
}

func TestTilesAt_EmptyAndOutside(t *testing.T) {
	m := tilemap.NewTileMap(loadFarm(t), tilemap.KeepLast)

	assert.Empty(t, m.TilesAt(20, 20))
	assert.Empty(t, m.TilesAt(-1, 0))
	assert.Empty(t, m.TilesAt(100, 100))
	assert.False(t, m.IsWall(-1, -1))
}

func TestDuplicatePolicy(t *testing.T) {
	doc := loadFarm(t)

	last := tilemap.NewTileMap(doc, tilemap.KeepLast)
	tiles := last.TilesAt(31, 12)
	require.Len(t, tiles, 1)
	assert.Equal(t, 612, tiles[0].Frame)

	tile, ok := last.Tile("ground_31_12_1")
	require.True(t, ok)
	assert.Equal(t, 612, tile.Frame)

	all := tilemap.NewTileMap(doc, tilemap.KeepAll)
	tiles = all.TilesAt(31, 12)
	require.Len(t, tiles, 2)
	assert.Equal(t, 580, tiles[0].Frame)
	assert.Equal(t, 612, tiles[1].Frame)
}

func TestParseDuplicatePolicy(t *testing.T) {
	p, err := tilemap.ParseDuplicatePolicy("")
	require.NoError(t, err)
	assert.Equal(t, tilemap.KeepLast, p)

	p, err = tilemap.ParseDuplicatePolicy("ALL")
	require.NoError(t, err)
	assert.Equal(t, tilemap.KeepAll, p)

	_, err = tilemap.ParseDuplicatePolicy("first")
	assert.Error(t, err)
}

func TestLayerIteration(t *testing.T) {
	m := tilemap.NewTileMap(loadFarm(t), tilemap.KeepLast)

	assert.Equal(t, []tilemap.Layer{tilemap.LayerGround, tilemap.LayerDecoration, tilemap.LayerDetail, tilemap.LayerOverlay}, m.Layers())
	assert.Equal(t, []string{"well_1", "ground_16_14_2"}, ids(m.Layer(tilemap.LayerDecoration)))
	assert.Equal(t, []string{"fence_16_14_2000"}, ids(m.Layer(tilemap.LayerOverlay)))
	assert.Empty(t, m.Layer(tilemap.Layer(4)))
}

func TestCollisionMatrix(t *testing.T) {
	m := tilemap.NewTileMap(loadFarm(t), tilemap.KeepLast)

	matrix := m.CollisionMatrix()
	require.Len(t, matrix, 24)
	require.Len(t, matrix[0], 32)

	walls := 0
	for y, row := range matrix {
		for x, blocked := range row {
			assert.Equal(t, m.IsWall(x, y), blocked)
			if blocked {
				walls++
			}
		}
	}
	assert.Equal(t, 4, walls)
	assert.True(t, matrix[6][8])
	assert.True(t, matrix[5][0])
}

func TestStats(t *testing.T) {
	m := tilemap.NewTileMap(loadFarm(t), tilemap.KeepLast)

	stats := m.Stats()
	assert.Equal(t, 11, stats.Entries)
	assert.Equal(t, 10, stats.Tiles)
	assert.Equal(t, 1, stats.DroppedIDs)
	assert.Equal(t, 4, stats.Walls)
	assert.Equal(t, 6, stats.OccupiedCells)
	assert.Equal(t, map[tilemap.Layer]int{
		tilemap.LayerGround:     6,
		tilemap.LayerDecoration: 2,
		tilemap.LayerDetail:     1,
		tilemap.LayerOverlay:    1,
	}, stats.PerLayer)
	assert.Empty(t, stats.Conflicting)
}

func TestLayerString(t *testing.T) {
	assert.Equal(t, "overlay", tilemap.LayerOverlay.String())
	assert.Equal(t, "layer(7)", tilemap.Layer(7).String())
	assert.True(t, tilemap.LayerDetail.Known())
	assert.False(t, tilemap.Layer(4).Known())
}
