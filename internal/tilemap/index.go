package tilemap

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
)

// DuplicatePolicy decides what happens when an id occurs more than once.
type DuplicatePolicy int

const (
	// KeepLast keeps only the last occurrence of an id.
	KeepLast DuplicatePolicy = iota
	// KeepAll renders every occurrence.
	KeepAll
)

func ParseDuplicatePolicy(s string) (DuplicatePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "last", "keep_last":
		return KeepLast, nil
	case "all", "keep_all":
		return KeepAll, nil
	}
	return KeepLast, fmt.Errorf("unknown duplicate policy %q", s)
}

func (p DuplicatePolicy) String() string {
	if p == KeepAll {
		return "keep_all"
	}
	return "keep_last"
}

// TileMap is a read-only index over a MapDocument.
type TileMap struct {
	doc    *MapDocument
	tiles  []TileEntry
	cells  map[GridCoord][]int
	layers map[Layer][]int
	byID   map[string]int
	walls  map[GridCoord]struct{}
}

type Stats struct {
	Tiles         int           `json:"tiles"`
	Entries       int           `json:"entries"`
	Walls         int           `json:"walls"`
	OccupiedCells int           `json:"occupiedCells"`
	PerLayer      map[Layer]int `json:"perLayer"`
	DroppedIDs    int           `json:"droppedDuplicates"`
	Conflicting   []string      `json:"conflictingIds"`
}

func NewTileMap(doc *MapDocument, policy DuplicatePolicy) *TileMap {
	m := &TileMap{
		doc:    doc,
		cells:  make(map[GridCoord][]int),
		layers: make(map[Layer][]int),
		byID:   make(map[string]int),
		walls:  make(map[GridCoord]struct{}, len(doc.WallGrids)),
	}

	last := make(map[string]int, len(doc.GroundTiles))
	if policy == KeepLast {
		for i, tile := range doc.GroundTiles {
			if tile.ID != "" {
				last[tile.ID] = i
			}
		}
	}

	m.tiles = make([]TileEntry, 0, len(doc.GroundTiles))
	for i, tile := range doc.GroundTiles {
		if policy == KeepLast && tile.ID != "" && last[tile.ID] != i {
			continue
		}
		idx := len(m.tiles)
		m.tiles = append(m.tiles, tile)
		m.cells[tile.Position] = append(m.cells[tile.Position], idx)
		m.layers[tile.Layer] = append(m.layers[tile.Layer], idx)
		if tile.ID != "" {
			m.byID[tile.ID] = idx
		}
	}

	for _, stack := range m.cells {
		slices.SortStableFunc(stack, func(a, b int) int {
			return int(m.tiles[a].Layer) - int(m.tiles[b].Layer)
		})
	}

	for _, wall := range doc.WallGrids {
		m.walls[wall] = struct{}{}
	}

	return m
}

func (m *TileMap) Document() *MapDocument {
	return m.doc
}

func (m *TileMap) GridSize() GridSize {
	return m.doc.GridSize
}

// TilesAt returns the entries at (x,y) in draw order: ascending layer, with
// equal layers in document order.
func (m *TileMap) TilesAt(x, y int) []TileEntry {
	stack := m.cells[GridCoord{X: x, Y: y}]
	out := make([]TileEntry, 0, len(stack))
	for _, idx := range stack {
		out = append(out, m.tiles[idx])
	}
	return out
}

func (m *TileMap) IsWall(x, y int) bool {
	_, ok := m.walls[GridCoord{X: x, Y: y}]
	return ok
}

// Layer returns every entry on layer l in document order.
func (m *TileMap) Layer(l Layer) []TileEntry {
	idxs := m.layers[l]
	out := make([]TileEntry, 0, len(idxs))
	for _, idx := range idxs {
		out = append(out, m.tiles[idx])
	}
	return out
}

// Layers returns the layers present in the map, lowest first.
func (m *TileMap) Layers() []Layer {
	out := make([]Layer, 0, len(m.layers))
	for l := range m.layers {
		out = append(out, l)
	}
	slices.Sort(out)
	return out
}

func (m *TileMap) Tile(id string) (TileEntry, bool) {
	idx, ok := m.byID[id]
	if !ok {
		return TileEntry{}, false
	}
	return m.tiles[idx], true
}

// Walls returns the distinct wall coordinates in document order.
func (m *TileMap) Walls() []GridCoord {
	out := make([]GridCoord, 0, len(m.walls))
	seen := make(map[GridCoord]bool, len(m.walls))
	for _, wall := range m.doc.WallGrids {
		if seen[wall] {
			continue
		}
		seen[wall] = true
		out = append(out, wall)
	}
	return out
}

// CollisionMatrix returns a [height][width] grid with true on wall cells.
// Walls outside the grid are ignored.
func (m *TileMap) CollisionMatrix() [][]bool {
	size := m.doc.GridSize
	if size.Width <= 0 || size.Height <= 0 {
		return [][]bool{}
	}
	matrix := make([][]bool, size.Height)
	for i := range matrix {
		matrix[i] = make([]bool, size.Width)
	}
	for wall := range m.walls {
		if size.Contains(wall) {
			matrix[wall.Y][wall.X] = true
		}
	}
	return matrix
}

func (m *TileMap) Stats() Stats {
	perLayer := make(map[Layer]int, len(m.layers))
	for l, idxs := range m.layers {
		perLayer[l] = len(idxs)
	}
	return Stats{
		Tiles:         len(m.tiles),
		Entries:       len(m.doc.GroundTiles),
		Walls:         len(m.walls),
		OccupiedCells: len(m.cells),
		PerLayer:      perLayer,
		DroppedIDs:    len(m.doc.GroundTiles) - len(m.tiles),
		Conflicting:   ConflictingIDs(m.doc),
	}
}

// Equivalent reports whether a and b describe the same map: equal metadata,
// equal multisets of tiles and walls and equal reserved arrays. Key order and
// formatting are irrelevant.
func Equivalent(a, b *MapDocument) bool {
	if a.Version != b.Version || a.GridSize != b.GridSize || a.Timestamp != b.Timestamp {
		return false
	}
	if !sameMultiset(a.GroundTiles, b.GroundTiles) || !sameMultiset(a.WallGrids, b.WallGrids) {
		return false
	}
	return sameRaw(a.FarmlandGrids, b.FarmlandGrids) && sameRaw(a.GameGrids, b.GameGrids)
}

func sameMultiset[T comparable](a, b []T) bool {
	if len(a) != len(b) {
		return false
	}
	counts := make(map[T]int, len(a))
	for _, v := range a {
		counts[v]++
	}
	for _, v := range b {
		counts[v]--
		if counts[v] < 0 {
			return false
		}
	}
	return true
}

func sameRaw(a, b []json.RawMessage) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		var ca, cb bytes.Buffer
		if err := json.Compact(&ca, a[i]); err != nil {
			return false
		}
		if err := json.Compact(&cb, b[i]); err != nil {
			return false
		}
		if !bytes.Equal(ca.Bytes(), cb.Bytes()) {
			return false
		}
	}
	return true
}
