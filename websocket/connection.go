package websocket

import (
	"encoding/json"
	"log"

	"github.com/gorilla/websocket"
	"github.com/thesrcielos/TileMapServer/internal/world/state"
	"github.com/thesrcielos/TileMapServer/websocket/message"
	"github.com/thesrcielos/TileMapServer/websocket/router"
)

func listenWatcherMessages(watcherId string, conn *websocket.Conn, r *router.Router) {
	defer func() {
		log.Printf("Watcher Disconnected: %s", watcherId)
		state.UnregisterWatcher(watcherId)
		conn.Close()
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			log.Println("Error reading message:", err)
			break
		}

		var msg message.Message
		if err := json.Unmarshal(data, &msg); err != nil {
			log.Println("Error decoding message:", err)
			continue
		}

		r.RouteMessage(watcherId, msg)
	}
}
