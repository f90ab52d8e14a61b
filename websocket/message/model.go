package message

import (
	"encoding/json"
)

type Message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type SubscribePayload struct {
	MapId string `json:"mapId"`
}

// CellPayload leaves X and Y nil when the client omits them.
type CellPayload struct {
	MapId string `json:"mapId"`
	X     *int   `json:"x"`
	Y     *int   `json:"y"`
}

type WallResult struct {
	MapId string `json:"mapId"`
	X     int    `json:"x"`
	Y     int    `json:"y"`
	Wall  bool   `json:"wall"`
}
