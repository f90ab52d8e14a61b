package actions

import (
	"context"
	"encoding/json"
	"log"

	"github.com/thesrcielos/TileMapServer/internal/world"
	"github.com/thesrcielos/TileMapServer/websocket/message"
	"github.com/thesrcielos/TileMapServer/websocket/transport"
)

type cellQuery struct {
	MapId string
	X, Y  int
}

func decodeCell(watcherId string, msg message.Message) (cellQuery, bool) {
	var payload message.CellPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil || payload.MapId == "" || payload.X == nil || payload.Y == nil {
		log.Println("Invalid cell query:", string(msg.Payload), err)
		transport.SendError(watcherId, "mapId, x and y are required")
		return cellQuery{}, false
	}
	return cellQuery{MapId: payload.MapId, X: *payload.X, Y: *payload.Y}, true
}

func HandleTilesAt(service *world.MapService, watcherId string, msg message.Message) {
	payload, ok := decodeCell(watcherId, msg)
	if !ok {
		return
	}

	cell, err := service.TilesAt(context.Background(), payload.MapId, payload.X, payload.Y)
	if err != nil {
		transport.SendError(watcherId, err.Error())
		return
	}
	transport.SendToWatcher(watcherId, transport.OutgoingMessage{
		Type:    "TILES",
		Payload: cell,
	})
}

func HandleIsWall(service *world.MapService, watcherId string, msg message.Message) {
	payload, ok := decodeCell(watcherId, msg)
	if !ok {
		return
	}

	wall, err := service.IsWall(context.Background(), payload.MapId, payload.X, payload.Y)
	if err != nil {
		transport.SendError(watcherId, err.Error())
		return
	}
	transport.SendToWatcher(watcherId, transport.OutgoingMessage{
		Type: "WALL",
		Payload: message.WallResult{
			MapId: payload.MapId,
			X:     payload.X,
			Y:     payload.Y,
			Wall:  wall,
		},
	})
}
