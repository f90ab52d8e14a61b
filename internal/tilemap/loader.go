package tilemap

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
)

var (
	ErrMalformed    = errors.New("malformed map document")
	ErrNonInteger   = errors.New("non-integer value")
	ErrMissingField = errors.New("missing required field")
)

// wireInt keeps the raw token of an integer field so that absent, null and
// quoted values can be told apart from numbers.
type wireInt struct {
	raw []byte
}

func (n *wireInt) UnmarshalJSON(data []byte) error {
	n.raw = append(n.raw[:0], data...)
	return nil
}

func (n wireInt) missing() bool {
	return len(n.raw) == 0 || bytes.Equal(n.raw, []byte("null"))
}

type wireCoord struct {
	X wireInt `json:"x"`
	Y wireInt `json:"y"`
}

type wireTile struct {
	ID         string    `json:"id"`
	Position   wireCoord `json:"position"`
	TilesetX   wireInt   `json:"tilesetX"`
	TilesetY   wireInt   `json:"tilesetY"`
	Frame      wireInt   `json:"frame"`
	TilesetKey string    `json:"tilesetKey"`
	Layer      wireInt   `json:"layer"`
}

type wireDocument struct {
	Version  string `json:"version"`
	GridSize struct {
		Width  wireInt `json:"width"`
		Height wireInt `json:"height"`
	} `json:"gridSize"`
	GroundTiles   []wireTile        `json:"groundTiles"`
	FarmlandGrids []json.RawMessage `json:"farmlandGrids"`
	WallGrids     []wireCoord       `json:"wallGrids"`
	GameGrids     []json.RawMessage `json:"gameGrids"`
	Timestamp     string            `json:"timestamp"`
}

// ReadMap loads and decodes the map document stored at path.
func ReadMap(path string) (*MapDocument, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open map %s: %w", path, err)
	}
	defer file.Close()

	doc, err := Decode(file)
	if err != nil {
		return nil, fmt.Errorf("map file %s: %w", path, err)
	}
	return doc, nil
}

// Decode reads one map document. Numbers that are not integers are rejected
// with ErrNonInteger instead of being truncated, and absent coordinates,
// grid sizes and layers with ErrMissingField.
func Decode(r io.Reader) (*MapDocument, error) {
	dec := json.NewDecoder(r)
	var wire wireDocument
	if err := dec.Decode(&wire); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("%w: unexpected data after document", ErrMalformed)
	}
	return wire.document()
}

// DecodeBytes is Decode over an in-memory payload.
func DecodeBytes(data []byte) (*MapDocument, error) {
	return Decode(bytes.NewReader(data))
}

func (w *wireDocument) document() (*MapDocument, error) {
	var err error
	doc := &MapDocument{
		Version:       w.Version,
		FarmlandGrids: w.FarmlandGrids,
		GameGrids:     w.GameGrids,
		Timestamp:     w.Timestamp,
		GroundTiles:   make([]TileEntry, 0, len(w.GroundTiles)),
		WallGrids:     make([]GridCoord, 0, len(w.WallGrids)),
	}

	if doc.GridSize.Width, err = requiredInt(w.GridSize.Width, "gridSize.width"); err != nil {
		return nil, err
	}
	if doc.GridSize.Height, err = requiredInt(w.GridSize.Height, "gridSize.height"); err != nil {
		return nil, err
	}

	for i, t := range w.GroundTiles {
		tile, err := t.entry(i)
		if err != nil {
			return nil, err
		}
		doc.GroundTiles = append(doc.GroundTiles, tile)
	}

	for i, c := range w.WallGrids {
		coord, err := c.coord("wallGrids[" + strconv.Itoa(i) + "]")
		if err != nil {
			return nil, err
		}
		doc.WallGrids = append(doc.WallGrids, coord)
	}

	return doc, nil
}

func (t wireTile) entry(i int) (TileEntry, error) {
	path := "groundTiles[" + strconv.Itoa(i) + "]"
	tile := TileEntry{ID: t.ID, TilesetKey: t.TilesetKey}

	var err error
	if tile.Position, err = t.Position.coord(path + ".position"); err != nil {
		return tile, err
	}
	if tile.TilesetX, err = toInt(t.TilesetX, path+".tilesetX"); err != nil {
		return tile, err
	}
	if tile.TilesetY, err = toInt(t.TilesetY, path+".tilesetY"); err != nil {
		return tile, err
	}
	if tile.Frame, err = toInt(t.Frame, path+".frame"); err != nil {
		return tile, err
	}
	layer, err := requiredInt(t.Layer, path+".layer")
	if err != nil {
		return tile, err
	}
	tile.Layer = Layer(layer)
	return tile, nil
}

func (c wireCoord) coord(path string) (GridCoord, error) {
	x, err := requiredInt(c.X, path+".x")
	if err != nil {
		return GridCoord{}, err
	}
	y, err := requiredInt(c.Y, path+".y")
	if err != nil {
		return GridCoord{}, err
	}
	return GridCoord{X: x, Y: y}, nil
}

func requiredInt(v wireInt, path string) (int, error) {
	if v.missing() {
		return 0, fmt.Errorf("%w: %s", ErrMissingField, path)
	}
	return toInt(v, path)
}

// toInt accepts integral JSON numbers, including forms such as 4.0 or 1e2.
// An absent or null optional field decodes as zero. Strings are rejected even
// when they hold a number.
func toInt(v wireInt, path string) (int, error) {
	if v.missing() {
		return 0, nil
	}
	if v.raw[0] == '"' {
		return 0, fmt.Errorf("%w: %s = %s is a string", ErrNonInteger, path, v.raw)
	}
	n := json.Number(v.raw)
	if i, err := n.Int64(); err == nil {
		if i > math.MaxInt32 || i < math.MinInt32 {
			return 0, fmt.Errorf("%w: %s = %s out of range", ErrNonInteger, path, n)
		}
		return int(i), nil
	}
	f, err := n.Float64()
	if err != nil || f != math.Trunc(f) || f > math.MaxInt32 || f < math.MinInt32 {
		return 0, fmt.Errorf("%w: %s = %s", ErrNonInteger, path, n)
	}
	return int(f), nil
}

// Encode writes doc in the editor's wire format. Empty sequences are written
// as [] rather than null.
func Encode(w io.Writer, doc *MapDocument) error {
	out := *doc
	if out.GroundTiles == nil {
		out.GroundTiles = []TileEntry{}
	}
	if out.FarmlandGrids == nil {
		out.FarmlandGrids = []json.RawMessage{}
	}
	if out.WallGrids == nil {
		out.WallGrids = []GridCoord{}
	}
	if out.GameGrids == nil {
		out.GameGrids = []json.RawMessage{}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(&out)
}

// EncodeBytes is Encode into a byte slice.
func EncodeBytes(doc *MapDocument) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
