package state

import (
	"sync"

	"github.com/gorilla/websocket"
	"github.com/thesrcielos/TileMapServer/internal/tilemap"
)

// AllMaps is the watch key for events about every map.
const AllMaps = "*"

type Watcher struct {
	ID     string
	UserID string
	Conn   *websocket.Conn
	ConnMu sync.Mutex
	maps   map[string]bool
}

var (
	watchers   = make(map[string]*Watcher)
	watchersMu sync.RWMutex

	indexes   = make(map[string]*tilemap.TileMap)
	indexesMu sync.RWMutex
)

func RegisterWatcher(id string, userID string, conn *websocket.Conn) *Watcher {
	watchersMu.Lock()
	defer watchersMu.Unlock()

	w := &Watcher{
		ID:     id,
		UserID: userID,
		Conn:   conn,
		maps:   make(map[string]bool),
	}
	watchers[id] = w
	return w
}

func UnregisterWatcher(id string) {
	watchersMu.Lock()
	defer watchersMu.Unlock()

	delete(watchers, id)
}

func GetWatcher(id string) *Watcher {
	watchersMu.RLock()
	defer watchersMu.RUnlock()

	return watchers[id]
}

func Watch(id string, mapID string) bool {
	watchersMu.Lock()
	defer watchersMu.Unlock()

	w, ok := watchers[id]
	if !ok {
		return false
	}
	w.maps[mapID] = true
	return true
}

func Unwatch(id string, mapID string) {
	watchersMu.Lock()
	defer watchersMu.Unlock()

	if w, ok := watchers[id]; ok {
		delete(w.maps, mapID)
	}
}

// WatchersOf returns the ids of watchers following mapID, including those
// following every map.
func WatchersOf(mapID string) []string {
	watchersMu.RLock()
	defer watchersMu.RUnlock()

	ids := []string{}
	for id, w := range watchers {
		if w.maps[mapID] || w.maps[AllMaps] {
			ids = append(ids, id)
		}
	}
	return ids
}

func PutIndex(mapID string, m *tilemap.TileMap) {
	indexesMu.Lock()
	defer indexesMu.Unlock()

	indexes[mapID] = m
}

func GetIndex(mapID string) *tilemap.TileMap {
	indexesMu.RLock()
	defer indexesMu.RUnlock()

	return indexes[mapID]
}

func DropIndex(mapID string) {
	indexesMu.Lock()
	defer indexesMu.Unlock()

	delete(indexes, mapID)
}
