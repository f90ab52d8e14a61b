package actions

import (
	"encoding/json"
	"log"

	"github.com/thesrcielos/TileMapServer/internal/world/state"
	"github.com/thesrcielos/TileMapServer/websocket/message"
	"github.com/thesrcielos/TileMapServer/websocket/transport"
)

func HandleSubscribe(watcherId string, msg message.Message) {
	var payload message.SubscribePayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil || payload.MapId == "" {
		log.Println("Error decoding subscription:", err)
		transport.SendError(watcherId, "mapId is required")
		return
	}
	if !state.Watch(watcherId, payload.MapId) {
		return
	}
	transport.SendToWatcher(watcherId, transport.OutgoingMessage{
		Type:    "SUBSCRIBED",
		Payload: payload,
	})
}

func HandleUnsubscribe(watcherId string, msg message.Message) {
	var payload message.SubscribePayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Println("Error decoding: ", err)
		return
	}
	state.Unwatch(watcherId, payload.MapId)
}
