package tilemap

import (
	"encoding/json"
	"fmt"
)

// Layer is the stacking order of a tile. Overlay is an out-of-band value that
// always renders above every numbered layer.
type Layer int

const (
	LayerGround     Layer = 1
	LayerDecoration Layer = 2
	LayerDetail     Layer = 3
	LayerOverlay    Layer = 2000
)

var layerNames = map[Layer]string{
	LayerGround:     "ground",
	LayerDecoration: "decoration",
	LayerDetail:     "detail",
	LayerOverlay:    "overlay",
}

func (l Layer) Known() bool {
	_, ok := layerNames[l]
	return ok
}

func (l Layer) String() string {
	if name, ok := layerNames[l]; ok {
		return name
	}
	return fmt.Sprintf("layer(%d)", int(l))
}

type GridSize struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Contains reports whether c lies inside [0,Width) x [0,Height).
func (g GridSize) Contains(c GridCoord) bool {
	return c.X >= 0 && c.Y >= 0 && c.X < g.Width && c.Y < g.Height
}

type GridCoord struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (c GridCoord) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// TileEntry is one sprite placement. ID is an opaque key.
type TileEntry struct {
	ID         string    `json:"id"`
	Position   GridCoord `json:"position"`
	TilesetX   int       `json:"tilesetX"`
	TilesetY   int       `json:"tilesetY"`
	Frame      int       `json:"frame"`
	TilesetKey string    `json:"tilesetKey"`
	Layer      Layer     `json:"layer"`
}

// MapDocument mirrors the editor export. FarmlandGrids and GameGrids are
// reserved by the editor and kept as raw JSON.
type MapDocument struct {
	Version       string            `json:"version"`
	GridSize      GridSize          `json:"gridSize"`
	GroundTiles   []TileEntry       `json:"groundTiles"`
	FarmlandGrids []json.RawMessage `json:"farmlandGrids"`
	WallGrids     []GridCoord       `json:"wallGrids"`
	GameGrids     []json.RawMessage `json:"gameGrids"`
	Timestamp     string            `json:"timestamp"`
}
