package tilemap

import (
	"fmt"
	"time"
)

type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

type IssueCode string

const (
	IssueInvalidGridSize    IssueCode = "invalid_grid_size"
	IssueNegativeCoordinate IssueCode = "negative_coordinate"
	IssueOutOfBounds        IssueCode = "out_of_bounds"
	IssueUnknownTileset     IssueCode = "unknown_tileset"
	IssueFrameMismatch      IssueCode = "frame_mismatch"
	IssueUnknownLayer       IssueCode = "unknown_layer"
	IssueEmptyID            IssueCode = "empty_id"
	IssueDuplicateID        IssueCode = "duplicate_id"
	IssueDuplicateWall      IssueCode = "duplicate_wall"
	IssueBadTimestamp       IssueCode = "bad_timestamp"
)

// Issue is a single validation finding. Index points into groundTiles or
// wallGrids depending on the code, and is -1 for document level issues.
type Issue struct {
	Severity Severity  `json:"severity"`
	Code     IssueCode `json:"code"`
	TileID   string    `json:"tileId,omitempty"`
	Index    int       `json:"index"`
	Message  string    `json:"message"`
}

type Report struct {
	Issues []Issue `json:"issues"`
}

func (r *Report) add(sev Severity, code IssueCode, tileID string, index int, format string, args ...any) {
	r.Issues = append(r.Issues, Issue{
		Severity: sev,
		Code:     code,
		TileID:   tileID,
		Index:    index,
		Message:  fmt.Sprintf(format, args...),
	})
}

func (r Report) HasErrors() bool {
	return len(r.Errors()) > 0
}

func (r Report) Errors() []Issue {
	return r.filter(SeverityError)
}

func (r Report) Warnings() []Issue {
	return r.filter(SeverityWarning)
}

// Accepted reports whether a document with this report may be loaded. In
// strict mode warnings reject the document too.
func (r Report) Accepted(strict bool) bool {
	if strict {
		return len(r.Issues) == 0
	}
	return !r.HasErrors()
}

func (r Report) filter(sev Severity) []Issue {
	out := []Issue{}
	for _, issue := range r.Issues {
		if issue.Severity == sev {
			out = append(out, issue)
		}
	}
	return out
}

// SpriteRegistry resolves tileset keys for validation.
type SpriteRegistry interface {
	Has(key string) bool
	FrameAt(key string, tilesetX, tilesetY int) (int, bool)
}

// Validate checks doc for integration problems. sprites may be nil, in which
// case tileset keys are not checked.
func Validate(doc *MapDocument, sprites SpriteRegistry) Report {
	report := Report{Issues: []Issue{}}
	size := doc.GridSize

	boundsKnown := true
	if size.Width <= 0 || size.Height <= 0 {
		boundsKnown = false
		report.add(SeverityError, IssueInvalidGridSize, "", -1,
			"grid size %dx%d must be positive", size.Width, size.Height)
	}

	if doc.Timestamp != "" {
		if _, err := time.Parse(time.RFC3339Nano, doc.Timestamp); err != nil {
			report.add(SeverityWarning, IssueBadTimestamp, "", -1,
				"timestamp %q is not RFC 3339", doc.Timestamp)
		}
	}

	seen := make(map[string]int, len(doc.GroundTiles))
	for i, tile := range doc.GroundTiles {
		if tile.ID == "" {
			report.add(SeverityError, IssueEmptyID, "", i, "tile has no id")
		}

		checkCoord(&report, tile.ID, i, "tile", tile.Position, size, boundsKnown)

		if !tile.Layer.Known() {
			report.add(SeverityWarning, IssueUnknownLayer, tile.ID, i,
				"tile %s uses unknown layer %d", tile.ID, int(tile.Layer))
		}

		if sprites != nil {
			if !sprites.Has(tile.TilesetKey) {
				report.add(SeverityError, IssueUnknownTileset, tile.ID, i,
					"tile %s references unknown tileset %q", tile.ID, tile.TilesetKey)
			} else if frame, ok := sprites.FrameAt(tile.TilesetKey, tile.TilesetX, tile.TilesetY); !ok || frame != tile.Frame {
				report.add(SeverityWarning, IssueFrameMismatch, tile.ID, i,
					"tile %s frame %d does not match %s offset (%d,%d)",
					tile.ID, tile.Frame, tile.TilesetKey, tile.TilesetX, tile.TilesetY)
			}
		}

		if tile.ID == "" {
			continue
		}
		if prev, ok := seen[tile.ID]; ok {
			first := doc.GroundTiles[prev]
			switch {
			case first == tile:
				report.add(SeverityWarning, IssueDuplicateID, tile.ID, i,
					"tile %s repeats entry %d", tile.ID, prev)
			case first.Position == tile.Position && first.Layer == tile.Layer:
				report.add(SeverityWarning, IssueDuplicateID, tile.ID, i,
					"tile %s overrides entry %d with different content", tile.ID, prev)
			default:
				report.add(SeverityWarning, IssueDuplicateID, tile.ID, i,
					"tile %s conflicts with entry %d: %s layer %d vs %s layer %d",
					tile.ID, prev, first.Position, int(first.Layer), tile.Position, int(tile.Layer))
			}
		}
		seen[tile.ID] = i
	}

	walls := make(map[GridCoord]int, len(doc.WallGrids))
	for i, wall := range doc.WallGrids {
		checkCoord(&report, "", i, "wall", wall, size, boundsKnown)
		if prev, ok := walls[wall]; ok {
			report.add(SeverityWarning, IssueDuplicateWall, "", i,
				"wall %s already listed at %d", wall, prev)
			continue
		}
		walls[wall] = i
	}

	return report
}

func checkCoord(report *Report, id string, index int, kind string, c GridCoord, size GridSize, boundsKnown bool) {
	if c.X < 0 || c.Y < 0 {
		report.add(SeverityError, IssueNegativeCoordinate, id, index,
			"%s %s has a negative coordinate", kind, c)
		return
	}
	if boundsKnown && !size.Contains(c) {
		report.add(SeverityError, IssueOutOfBounds, id, index,
			"%s %s is outside the %dx%d grid", kind, c, size.Width, size.Height)
	}
}

// ConflictingIDs returns the ids that appear on more than one cell or layer.
// An empty result means ids can serve as primary keys.
func ConflictingIDs(doc *MapDocument) []string {
	type placement struct {
		pos   GridCoord
		layer Layer
	}
	first := make(map[string]placement)
	flagged := make(map[string]bool)
	out := []string{}
	for _, tile := range doc.GroundTiles {
		if tile.ID == "" {
			continue
		}
		p := placement{tile.Position, tile.Layer}
		prev, ok := first[tile.ID]
		if !ok {
			first[tile.ID] = p
			continue
		}
		if prev != p && !flagged[tile.ID] {
			flagged[tile.ID] = true
			out = append(out, tile.ID)
		}
	}
	return out
}
