package world

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/thesrcielos/TileMapServer/internal/tilemap"
)

type MapRepositoryMock struct {
	mock.Mock
}

func (m *MapRepositoryMock) SaveMap(record *MapRecord) error {
	args := m.Called(record)
	return args.Error(0)
}

func (m *MapRepositoryMock) GetMap(id string) (*MapRecord, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*MapRecord), args.Error(1)
}

func (m *MapRepositoryMock) ListMaps(page, pageSize int) ([]MapRecord, error) {
	args := m.Called(page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]MapRecord), args.Error(1)
}

func (m *MapRepositoryMock) DeleteMap(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

type MapCacheRepositoryMock struct {
	mock.Mock
}

func (m *MapCacheRepositoryMock) CacheDocument(ctx context.Context, id string, data []byte) error {
	args := m.Called(ctx, id, data)
	return args.Error(0)
}

func (m *MapCacheRepositoryMock) GetCachedDocument(ctx context.Context, id string) ([]byte, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MapCacheRepositoryMock) StoreWalls(ctx context.Context, id string, walls []tilemap.GridCoord) error {
	args := m.Called(ctx, id, walls)
	return args.Error(0)
}

func (m *MapCacheRepositoryMock) IsWall(ctx context.Context, id string, x, y int) (bool, error) {
	args := m.Called(ctx, id, x, y)
	return args.Bool(0), args.Error(1)
}

func (m *MapCacheRepositoryMock) Evict(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MapCacheRepositoryMock) PublishMapEvent(ctx context.Context, payload string) {
	m.Called(ctx, payload)
}

func (m *MapCacheRepositoryMock) SubscribeMapEvents(ctx context.Context, handler func(MapEvent)) error {
	args := m.Called(ctx, handler)
	return args.Error(0)
}

type PublishRecorderMock struct {
	mock.Mock
}

func (m *PublishRecorderMock) RecordPublish(userID uint, accepted bool) error {
	args := m.Called(userID, accepted)
	return args.Error(0)
}
