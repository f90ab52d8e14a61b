package v1

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/thesrcielos/TileMapServer/api/middleware"
	"github.com/thesrcielos/TileMapServer/internal/apperrors"
	"github.com/thesrcielos/TileMapServer/internal/tilemap"
	"github.com/thesrcielos/TileMapServer/internal/tileset"
	"github.com/thesrcielos/TileMapServer/internal/user"
	"github.com/thesrcielos/TileMapServer/internal/world"
	"github.com/thesrcielos/TileMapServer/internal/world/state"
)

const handlerSecret = "handler-secret"

type apiMocks struct {
	repo     *world.MapRepositoryMock
	cache    *world.MapCacheRepositoryMock
	recorder *world.PublishRecorderMock
}

func newTestServer(t *testing.T) (*echo.Echo, *apiMocks) {
	t.Setenv("JWT_SECRET", handlerSecret)

	m := &apiMocks{
		repo:     &world.MapRepositoryMock{},
		cache:    &world.MapCacheRepositoryMock{},
		recorder: &world.PublishRecorderMock{},
	}
	t.Cleanup(func() {
		m.repo.AssertExpectations(t)
		m.cache.AssertExpectations(t)
		m.recorder.AssertExpectations(t)
	})
	MapService = world.NewMapService(m.repo, m.cache, m.recorder, world.MapServiceOptions{
		Sprites:    tileset.DefaultRegistry(),
		Duplicates: tilemap.KeepLast,
	})

	e := echo.New()
	e.HTTPErrorHandler = apperrors.HTTPErrorHandler(e)
	public := e.Group("/api/v1/maps")
	protected := e.Group("/api/v1/maps")
	protected.Use(middleware.SetupJWTMiddleware())
	RegisterMapRoutes(public, protected)
	return e, m
}

func farm(t *testing.T) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("..", "..", "internal", "tilemap", "testdata", "farm.json"))
	require.NoError(t, err)
	return data
}

func bearer(t *testing.T, id uint) string {
	t.Helper()
	token, err := user.GenerateJWT(id)
	require.NoError(t, err)
	return "Bearer " + token
}

func do(e *echo.Echo, method, target string, body []byte, auth string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if auth != "" {
		req.Header.Set(echo.HeaderAuthorization, auth)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestTilesAtHandler(t *testing.T) {
	e, m := newTestServer(t)
	m.cache.On("GetCachedDocument", mock.Anything, "http0001").Return(farm(t), nil)
	t.Cleanup(func() { state.DropIndex("http0001") })

	rec := do(e, http.MethodGet, "/api/v1/maps/http0001/tiles?x=16&y=14", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var cell world.CellResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cell))
	require.Len(t, cell.Tiles, 3)
	assert.Equal(t, tilemap.LayerOverlay, cell.Tiles[2].Layer)
	assert.True(t, cell.Wall)
}

func TestTilesAtHandler_BadCoordinates(t *testing.T) {
	e, _ := newTestServer(t)

	rec := do(e, http.MethodGet, "/api/v1/maps/http0001/tiles?x=one&y=2", nil, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestIsWallHandler(t *testing.T) {
	e, m := newTestServer(t)
	m.cache.On("IsWall", mock.Anything, "http0002", 8, 6).Return(true, nil)

	rec := do(e, http.MethodGet, "/api/v1/maps/http0002/walls?x=8&y=6", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"mapId":"http0002","x":8,"y":6,"wall":true}`, rec.Body.String())
}

func TestGetMapsHandler(t *testing.T) {
	e, m := newTestServer(t)
	m.repo.On("ListMaps", 0, 10).Return([]world.MapRecord{{ID: "http0003", Name: "Farm"}}, nil)

	rec := do(e, http.MethodGet, "/api/v1/maps?page=0&size=10", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "http0003")

	rec = do(e, http.MethodGet, "/api/v1/maps", nil, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(e, http.MethodGet, "/api/v1/maps?page=0&size=0", nil, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetMapHandler_NotFound(t *testing.T) {
	e, m := newTestServer(t)
	m.cache.On("GetCachedDocument", mock.Anything, "missing1").Return(nil, world.ErrCacheMiss)
	m.repo.On("GetMap", "missing1").Return(nil, apperrors.NewAppError(404, "Map not found", nil))

	rec := do(e, http.MethodGet, "/api/v1/maps/missing1", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"message":"Map not found"}`, rec.Body.String())
}

func TestPublishMapHandler_RequiresToken(t *testing.T) {
	e, _ := newTestServer(t)

	body, _ := json.Marshal(echo.Map{"name": "Farm", "document": json.RawMessage(farm(t))})
	rec := do(e, http.MethodPost, "/api/v1/maps", body, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestPublishMapHandler_Created(t *testing.T) {
	e, m := newTestServer(t)
	m.repo.On("SaveMap", mock.AnythingOfType("*world.MapRecord")).Return(nil)
	m.recorder.On("RecordPublish", uint(5), true).Return(nil)
	m.cache.On("CacheDocument", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	m.cache.On("StoreWalls", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	m.cache.On("PublishMapEvent", mock.Anything, mock.Anything).Return()

	body, _ := json.Marshal(echo.Map{"name": "Farm", "document": json.RawMessage(farm(t))})
	rec := do(e, http.MethodPost, "/api/v1/maps", body, bearer(t, 5))
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp world.PublishResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Map)
	t.Cleanup(func() { state.DropIndex(resp.Map.ID) })
	assert.Equal(t, uint(5), resp.Map.OwnerID)
	assert.Equal(t, 4, resp.Map.Walls)
}

func TestPublishMapHandler_Rejected(t *testing.T) {
	e, m := newTestServer(t)
	m.recorder.On("RecordPublish", uint(5), false).Return(nil)

	doc := json.RawMessage(`{"gridSize":{"width":1,"height":1},"groundTiles":[{"id":"x","position":{"x":0,"y":0},"tilesetKey":"Lava","layer":1}]}`)
	body, _ := json.Marshal(echo.Map{"name": "Lava", "document": doc})
	rec := do(e, http.MethodPost, "/api/v1/maps", body, bearer(t, 5))
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), string(tilemap.IssueUnknownTileset))
}

func TestValidateMapHandler(t *testing.T) {
	e, _ := newTestServer(t)

	rec := do(e, http.MethodPost, "/api/v1/maps/validate", farm(t), "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp world.ValidationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Report.HasErrors())
	assert.Equal(t, 4, resp.Stats.Walls)

	rec = do(e, http.MethodPost, "/api/v1/maps/validate", []byte(`{"gridSize":{"width":"wide"}}`), "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMapHandlers_BodyLimit(t *testing.T) {
	e, _ := newTestServer(t)
	oversized := bytes.Repeat([]byte(" "), 16<<20+1)

	rec := do(e, http.MethodPost, "/api/v1/maps/validate", oversized, "")
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)

	rec = do(e, http.MethodPost, "/api/v1/maps", oversized, bearer(t, 5))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestDeleteMapHandler_NotOwner(t *testing.T) {
	e, m := newTestServer(t)
	m.repo.On("GetMap", "http0004").Return(&world.MapRecord{ID: "http0004", OwnerID: 1}, nil)

	rec := do(e, http.MethodDelete, "/api/v1/maps/http0004", nil, bearer(t, 2))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
