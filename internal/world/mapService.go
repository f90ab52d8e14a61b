package world

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/thesrcielos/TileMapServer/internal/apperrors"
	"github.com/thesrcielos/TileMapServer/internal/tilemap"
	"github.com/thesrcielos/TileMapServer/internal/tileset"
	"github.com/thesrcielos/TileMapServer/internal/world/state"
)

const maxNameLength = 60

// SpriteAtlas validates tile references and resolves them to atlas
// rectangles. *tileset.Registry implements it.
type SpriteAtlas interface {
	tilemap.SpriteRegistry
	Resolve(key string, frame int) (tileset.Sprite, error)
}

// PublishRecorder receives the outcome of every publish attempt.
type PublishRecorder interface {
	RecordPublish(userID uint, accepted bool) error
}

type MapService struct {
	repo     MapRepository
	cache    MapCacheRepository
	recorder PublishRecorder
	sprites  SpriteAtlas
	strict   bool
	policy   tilemap.DuplicatePolicy
}

type MapServiceOptions struct {
	Sprites    SpriteAtlas
	Strict     bool
	Duplicates tilemap.DuplicatePolicy
}

func NewMapService(repo MapRepository, cache MapCacheRepository, recorder PublishRecorder, opts MapServiceOptions) *MapService {
	return &MapService{
		repo:     repo,
		cache:    cache,
		recorder: recorder,
		sprites:  opts.Sprites,
		strict:   opts.Strict,
		policy:   opts.Duplicates,
	}
}

func (r *PublishRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return apperrors.NewAppError(400, "name is required", nil)
	}
	if utf8.RuneCountInString(r.Name) > maxNameLength {
		return apperrors.NewAppError(400, fmt.Sprintf("name must not exceed %d characters", maxNameLength), nil)
	}
	if len(r.Document) == 0 {
		return apperrors.NewAppError(400, "document is required", nil)
	}
	return nil
}

// ValidateMap decodes and checks a document without storing it.
func (s *MapService) ValidateMap(data []byte) (*ValidationResponse, error) {
	doc, err := tilemap.DecodeBytes(data)
	if err != nil {
		return nil, apperrors.NewAppError(400, "Invalid map document", err)
	}
	report := tilemap.Validate(doc, s.sprites)
	stats := tilemap.NewTileMap(doc, s.policy).Stats()
	return &ValidationResponse{Report: &report, Stats: &stats}, nil
}

// PublishMap validates, stores and announces a map. A rejected map returns
// its report together with a 422 error.
func (s *MapService) PublishMap(ctx context.Context, req *PublishRequest) (*PublishResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	doc, err := tilemap.DecodeBytes(req.Document)
	if err != nil {
		s.recordPublish(req.OwnerID, false)
		return nil, apperrors.NewAppError(400, "Invalid map document", err)
	}

	report := tilemap.Validate(doc, s.sprites)
	if !report.Accepted(s.strict) {
		s.recordPublish(req.OwnerID, false)
		return &PublishResponse{Report: &report}, apperrors.NewAppError(422, "Map rejected", nil)
	}

	index := tilemap.NewTileMap(doc, s.policy)
	data, err := tilemap.EncodeBytes(doc)
	if err != nil {
		return nil, apperrors.NewAppError(500, "Error encoding map", err)
	}

	record := &MapRecord{
		ID:        uuid.New().String()[:8],
		Name:      req.Name,
		OwnerID:   req.OwnerID,
		Version:   doc.Version,
		Width:     doc.GridSize.Width,
		Height:    doc.GridSize.Height,
		Tiles:     len(doc.GroundTiles),
		Walls:     len(index.Walls()),
		Timestamp: doc.Timestamp,
		Document:  string(data),
	}
	if err := s.repo.SaveMap(record); err != nil {
		return nil, err
	}
	s.recordPublish(req.OwnerID, true)

	state.PutIndex(record.ID, index)
	s.warmCache(ctx, record.ID, data, index)

	summary := record.Summary()
	s.publishEvent(ctx, MapEvent{Type: EventMapPublished, MapID: record.ID, Map: &summary})

	return &PublishResponse{Map: &summary, Report: &report}, nil
}

func (s *MapService) recordPublish(userID uint, accepted bool) {
	if s.recorder == nil || userID == 0 {
		return
	}
	if err := s.recorder.RecordPublish(userID, accepted); err != nil {
		log.Println("Error recording publish stats:", err)
	}
}

func (s *MapService) warmCache(ctx context.Context, id string, data []byte, index *tilemap.TileMap) {
	if err := s.cache.CacheDocument(ctx, id, data); err != nil {
		log.Println("Error caching map", id, ":", err)
	}
	if err := s.cache.StoreWalls(ctx, id, index.Walls()); err != nil {
		log.Println("Error caching walls of map", id, ":", err)
	}
}

func (s *MapService) publishEvent(ctx context.Context, event MapEvent) {
	msg, err := json.Marshal(event)
	if err != nil {
		log.Println("Error encoding map event:", err)
		return
	}
	s.cache.PublishMapEvent(ctx, string(msg))
}

// GetMap returns the stored document, reading through the redis cache.
func (s *MapService) GetMap(ctx context.Context, id string) (*tilemap.MapDocument, error) {
	data, err := s.cache.GetCachedDocument(ctx, id)
	if err != nil {
		if !errors.Is(err, ErrCacheMiss) {
			log.Println("Error reading map cache:", err)
		}
		record, errDB := s.repo.GetMap(id)
		if errDB != nil {
			return nil, errDB
		}
		data = []byte(record.Document)
		if err := s.cache.CacheDocument(ctx, id, data); err != nil {
			log.Println("Error caching map", id, ":", err)
		}
	}

	doc, err := tilemap.DecodeBytes(data)
	if err != nil {
		return nil, apperrors.NewAppError(500, "Stored map is corrupt", err)
	}
	return doc, nil
}

func (s *MapService) GetSummary(id string) (*MapSummary, error) {
	record, err := s.repo.GetMap(id)
	if err != nil {
		return nil, err
	}
	summary := record.Summary()
	return &summary, nil
}

func (s *MapService) ListMaps(request *MapPageRequest) ([]MapSummary, error) {
	records, err := s.repo.ListMaps(request.Page, request.PageSize)
	if err != nil {
		return nil, err
	}

	summaries := make([]MapSummary, 0, len(records))
	for i := range records {
		summaries = append(summaries, records[i].Summary())
	}
	return summaries, nil
}

// Index returns the in-process index of a map, loading it on first use.
func (s *MapService) Index(ctx context.Context, id string) (*tilemap.TileMap, error) {
	if index := state.GetIndex(id); index != nil {
		return index, nil
	}
	doc, err := s.GetMap(ctx, id)
	if err != nil {
		return nil, err
	}
	index := tilemap.NewTileMap(doc, s.policy)
	state.PutIndex(id, index)
	return index, nil
}

func (s *MapService) TilesAt(ctx context.Context, id string, x, y int) (*CellResponse, error) {
	index, err := s.Index(ctx, id)
	if err != nil {
		return nil, err
	}
	return &CellResponse{
		MapID: id,
		X:     x,
		Y:     y,
		Tiles: s.resolveTiles(index.TilesAt(x, y)),
		Wall:  index.IsWall(x, y),
	}, nil
}

func (s *MapService) resolveTiles(entries []tilemap.TileEntry) []CellTile {
	tiles := make([]CellTile, 0, len(entries))
	for _, entry := range entries {
		tile := CellTile{TileEntry: entry}
		if s.sprites != nil {
			if sprite, err := s.sprites.Resolve(entry.TilesetKey, entry.Frame); err == nil {
				tile.Sprite = &sprite
			}
		}
		tiles = append(tiles, tile)
	}
	return tiles
}

// IsWall answers from the redis wall set and falls back to the index when the
// set is missing or redis fails.
func (s *MapService) IsWall(ctx context.Context, id string, x, y int) (bool, error) {
	wall, err := s.cache.IsWall(ctx, id, x, y)
	if err == nil {
		return wall, nil
	}

	index, errIndex := s.Index(ctx, id)
	if errIndex != nil {
		return false, errIndex
	}
	if errors.Is(err, ErrCacheMiss) {
		if err := s.cache.StoreWalls(ctx, id, index.Walls()); err != nil {
			log.Println("Error caching walls of map", id, ":", err)
		}
	} else {
		log.Println("Error reading wall cache:", err)
	}
	return index.IsWall(x, y), nil
}

func (s *MapService) DeleteMap(ctx context.Context, ownerID uint, id string) error {
	record, err := s.repo.GetMap(id)
	if err != nil {
		return err
	}
	if record.OwnerID != ownerID {
		return apperrors.NewAppError(403, "Only the owner can delete the map", nil)
	}

	if err := s.repo.DeleteMap(id); err != nil {
		return err
	}
	if err := s.cache.Evict(ctx, id); err != nil {
		log.Println("Error evicting map", id, ":", err)
	}
	state.DropIndex(id)

	s.publishEvent(ctx, MapEvent{Type: EventMapDeleted, MapID: id})
	return nil
}

// HandleMapEvent applies an event coming from any instance and forwards it to
// local watchers.
func (s *MapService) HandleMapEvent(event MapEvent) {
	if event.Type == EventMapDeleted {
		state.DropIndex(event.MapID)
	}
	notifyWatchers(event)
}
