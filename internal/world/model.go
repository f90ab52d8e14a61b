package world

import (
	"encoding/json"
	"time"

	"github.com/thesrcielos/TileMapServer/internal/tilemap"
	"github.com/thesrcielos/TileMapServer/internal/tileset"
)

const (
	EventMapPublished = "MAP_PUBLISHED"
	EventMapDeleted   = "MAP_DELETED"
)

// MapRecord is a published map as stored in postgres. Document holds the
// editor export verbatim.
type MapRecord struct {
	ID        string    `gorm:"primaryKey;size:8" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	OwnerID   uint      `gorm:"index;not null" json:"ownerId"`
	Version   string    `json:"version"`
	Width     int       `json:"width"`
	Height    int       `json:"height"`
	Tiles     int       `json:"tiles"`
	Walls     int       `json:"walls"`
	Timestamp string    `json:"timestamp"`
	Document  string    `gorm:"type:text;not null" json:"-"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`
}

type MapSummary struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	OwnerID   uint             `json:"ownerId"`
	Version   string           `json:"version"`
	GridSize  tilemap.GridSize `json:"gridSize"`
	Tiles     int              `json:"tiles"`
	Walls     int              `json:"walls"`
	Timestamp string           `json:"timestamp"`
	CreatedAt time.Time        `json:"createdAt"`
}

func (r *MapRecord) Summary() MapSummary {
	return MapSummary{
		ID:        r.ID,
		Name:      r.Name,
		OwnerID:   r.OwnerID,
		Version:   r.Version,
		GridSize:  tilemap.GridSize{Width: r.Width, Height: r.Height},
		Tiles:     r.Tiles,
		Walls:     r.Walls,
		Timestamp: r.Timestamp,
		CreatedAt: r.CreatedAt,
	}
}

type PublishRequest struct {
	Name     string          `json:"name"`
	OwnerID  uint            `json:"-"`
	Document json.RawMessage `json:"document"`
}

type PublishResponse struct {
	Map    *MapSummary     `json:"map,omitempty"`
	Report *tilemap.Report `json:"report"`
}

type MapPageRequest struct {
	Page     int `json:"page"`
	PageSize int `json:"pageSize"`
}

// CellTile is a tile entry with its atlas rectangle. Sprite is nil when the
// tileset or frame cannot be resolved.
type CellTile struct {
	tilemap.TileEntry
	Sprite *tileset.Sprite `json:"sprite,omitempty"`
}

type CellResponse struct {
	MapID string     `json:"mapId"`
	X     int        `json:"x"`
	Y     int        `json:"y"`
	Tiles []CellTile `json:"tiles,omitempty"`
	Wall  bool       `json:"wall"`
}

type ValidationResponse struct {
	Report *tilemap.Report `json:"report"`
	Stats  *tilemap.Stats  `json:"stats,omitempty"`
}

// MapEvent is broadcast on the redis channel to every instance.
type MapEvent struct {
	Type  string      `json:"type"`
	MapID string      `json:"mapId"`
	Map   *MapSummary `json:"map,omitempty"`
}
