package websocket

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/thesrcielos/TileMapServer/internal/world/state"
	"github.com/thesrcielos/TileMapServer/websocket/router"
)

var (
	upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     func(r *http.Request) bool { return true },
	}
)

// WebSocketHandler authenticates the token query parameter and registers the
// connection as a map watcher.
func WebSocketHandler(r *router.Router) echo.HandlerFunc {
	return func(c echo.Context) error {
		tokenString := c.QueryParam("token")

		userID, err := ValidateJWT(tokenString)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
		}

		ws, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
		if err != nil {
			log.Println("WebSocket upgrade failed:", err)
			return err
		}

		watcherID := uuid.NewString()
		log.Printf("Watcher connected: %s (user %s)", watcherID, userID)
		state.RegisterWatcher(watcherID, userID, ws)
		go listenWatcherMessages(watcherID, ws, r)

		return nil
	}
}

func ValidateJWT(tokenString string) (string, error) {
	if tokenString == "" {
		return "", errors.New("Empty token")
	}

	claims := jwt.MapClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("Invalid token")
		}
		return []byte(os.Getenv("JWT_SECRET")), nil
	})

	if err != nil || !token.Valid {
		return "", fmt.Errorf("Invalid token: %v", err)
	}

	userID, ok := claims["id"].(float64)
	if !ok {
		return "", errors.New("user_id not found in token claims")
	}

	return strconv.Itoa(int(userID)), nil
}
