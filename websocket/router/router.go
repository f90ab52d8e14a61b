package router

import (
	"log"

	"github.com/thesrcielos/TileMapServer/internal/world"
	"github.com/thesrcielos/TileMapServer/websocket/actions"
	"github.com/thesrcielos/TileMapServer/websocket/message"
	"github.com/thesrcielos/TileMapServer/websocket/transport"
)

type Router struct {
	handlers map[string]func(watcherId string, msg message.Message)
}

func NewRouter(service *world.MapService) *Router {
	return &Router{
		handlers: map[string]func(watcherId string, msg message.Message){
			"SUBSCRIBE":   actions.HandleSubscribe,
			"UNSUBSCRIBE": actions.HandleUnsubscribe,
			"TILES_AT": func(watcherId string, msg message.Message) {
				actions.HandleTilesAt(service, watcherId, msg)
			},
			"IS_WALL": func(watcherId string, msg message.Message) {
				actions.HandleIsWall(service, watcherId, msg)
			},
		},
	}
}

func (r *Router) RouteMessage(watcherId string, msg message.Message) {
	if handler, ok := r.handlers[msg.Type]; ok {
		handler(watcherId, msg)
	} else {
		log.Println("Unknown message type:", msg.Type)
		transport.SendError(watcherId, "unknown message type "+msg.Type)
	}
}
