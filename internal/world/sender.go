package world

import (
	"github.com/thesrcielos/TileMapServer/internal/world/state"
	"github.com/thesrcielos/TileMapServer/websocket/transport"
)

func notifyWatchers(event MapEvent) {
	msg := transport.OutgoingMessage{
		Type:    event.Type,
		Payload: event,
	}

	watchers := state.WatchersOf(event.MapID)
	transport.BroadcastToWatchers(&watchers, msg)
}
