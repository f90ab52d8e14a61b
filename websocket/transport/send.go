package transport

import (
	"log"

	"github.com/thesrcielos/TileMapServer/internal/world/state"
)

type OutgoingMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

func SendToWatcher(watcherID string, msg OutgoingMessage) {
	watcher := state.GetWatcher(watcherID)
	if watcher == nil || watcher.Conn == nil {
		return
	}

	watcher.ConnMu.Lock()
	defer watcher.ConnMu.Unlock()

	if err := watcher.Conn.WriteJSON(msg); err != nil {
		log.Println("Error sending msg to", watcherID, ":", err)
	}
}

func BroadcastToWatchers(watchers *[]string, msg OutgoingMessage) {
	if watchers == nil {
		return
	}

	for _, watcher := range *watchers {
		SendToWatcher(watcher, msg)
	}
}

func SendError(watcherID string, message string) {
	SendToWatcher(watcherID, OutgoingMessage{
		Type:    "ERROR",
		Payload: map[string]string{"message": message},
	})
}
