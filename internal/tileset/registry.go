package tileset

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed tilesets.yaml
var defaultTilesets []byte

var (
	ErrUnknownTileset = errors.New("unknown tileset")
	ErrBadOffset      = errors.New("offset is not on the tile grid")
	ErrBadFrame       = errors.New("frame out of range")
)

// Tileset describes one atlas image cut into equally sized tiles, numbered
// row-major from the top-left corner.
type Tileset struct {
	Key        string `yaml:"key" json:"key"`
	Image      string `yaml:"image" json:"image"`
	TileWidth  int    `yaml:"tileWidth" json:"tileWidth"`
	TileHeight int    `yaml:"tileHeight" json:"tileHeight"`
	Columns    int    `yaml:"columns" json:"columns"`
	Frames     int    `yaml:"frames" json:"frames"`
}

type Sprite struct {
	Tileset string `json:"tileset"`
	Image   string `json:"image"`
	Frame   int    `json:"frame"`
	X       int    `json:"x"`
	Y       int    `json:"y"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
}

func (t Tileset) validate() error {
	if t.Key == "" {
		return errors.New("tileset key is required")
	}
	if t.TileWidth <= 0 || t.TileHeight <= 0 {
		return fmt.Errorf("tileset %s: tile size must be positive", t.Key)
	}
	if t.Columns <= 0 {
		return fmt.Errorf("tileset %s: columns must be positive", t.Key)
	}
	if t.Frames < 0 {
		return fmt.Errorf("tileset %s: frames must not be negative", t.Key)
	}
	return nil
}

// FrameAt converts a pixel offset to a frame index.
func (t Tileset) FrameAt(x, y int) (int, error) {
	if x < 0 || y < 0 || x%t.TileWidth != 0 || y%t.TileHeight != 0 {
		return 0, fmt.Errorf("%w: %s (%d,%d)", ErrBadOffset, t.Key, x, y)
	}
	col := x / t.TileWidth
	if col >= t.Columns {
		return 0, fmt.Errorf("%w: %s column %d", ErrBadOffset, t.Key, col)
	}
	frame := (y/t.TileHeight)*t.Columns + col
	if t.Frames > 0 && frame >= t.Frames {
		return 0, fmt.Errorf("%w: %s frame %d", ErrBadFrame, t.Key, frame)
	}
	return frame, nil
}

// Offset is the inverse of FrameAt.
func (t Tileset) Offset(frame int) (int, int, error) {
	if frame < 0 || (t.Frames > 0 && frame >= t.Frames) {
		return 0, 0, fmt.Errorf("%w: %s frame %d", ErrBadFrame, t.Key, frame)
	}
	return (frame % t.Columns) * t.TileWidth, (frame / t.Columns) * t.TileHeight, nil
}

type Registry struct {
	tilesets map[string]Tileset
}

type registryFile struct {
	Tilesets []Tileset `yaml:"tilesets"`
}

func NewRegistry(sets ...Tileset) (*Registry, error) {
	r := &Registry{tilesets: make(map[string]Tileset, len(sets))}
	for _, t := range sets {
		if err := t.validate(); err != nil {
			return nil, err
		}
		if _, dup := r.tilesets[t.Key]; dup {
			return nil, fmt.Errorf("tileset %s declared twice", t.Key)
		}
		r.tilesets[t.Key] = t
	}
	return r, nil
}

func ParseRegistry(data []byte) (*Registry, error) {
	var file registryFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse tileset registry: %w", err)
	}
	return NewRegistry(file.Tilesets...)
}

func LoadRegistry(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read tileset registry %s: %w", path, err)
	}
	return ParseRegistry(data)
}

// DefaultRegistry returns the atlases bundled with the server.
func DefaultRegistry() *Registry {
	r, err := ParseRegistry(defaultTilesets)
	if err != nil {
		panic(err)
	}
	return r
}

func (r *Registry) Has(key string) bool {
	_, ok := r.tilesets[key]
	return ok
}

func (r *Registry) Lookup(key string) (Tileset, bool) {
	t, ok := r.tilesets[key]
	return t, ok
}

func (r *Registry) Keys() []string {
	keys := make([]string, 0, len(r.tilesets))
	for k := range r.tilesets {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (r *Registry) FrameAt(key string, x, y int) (int, bool) {
	t, ok := r.tilesets[key]
	if !ok {
		return 0, false
	}
	frame, err := t.FrameAt(x, y)
	if err != nil {
		return 0, false
	}
	return frame, true
}

// Resolve returns the source rectangle for frame in the atlas named key.
func (r *Registry) Resolve(key string, frame int) (Sprite, error) {
	t, ok := r.tilesets[key]
	if !ok {
		return Sprite{}, fmt.Errorf("%w: %s", ErrUnknownTileset, key)
	}
	x, y, err := t.Offset(frame)
	if err != nil {
		return Sprite{}, err
	}
	return Sprite{
		Tileset: key,
		Image:   t.Image,
		Frame:   frame,
		X:       x,
		Y:       y,
		Width:   t.TileWidth,
		Height:  t.TileHeight,
	}, nil
}
