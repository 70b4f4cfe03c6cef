// Package transport mounts the one piece of public HTTP surface in
// scope (§1): the WebSocket upgrade and a liveness probe. Room discovery
// and creation are the external collaborator's REST API and live outside
// this module.
package transport

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"holdemroom/config"
	"holdemroom/session"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// NewRouter builds the gin engine: CORS from the configured origin list,
// /healthz, and /ws?sessionId=...&roomId=...&name=....
func NewRouter(cfg config.Config, manager *session.Manager) *gin.Engine {
	r := gin.Default()

	corsConfig := cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET"},
		AllowHeaders:     []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsConfig.AllowOriginFunc = func(origin string) bool { return true }
		corsConfig.AllowOrigins = nil
	}
	r.Use(cors.New(corsConfig))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ws", func(c *gin.Context) {
		handleUpgrade(c, manager)
	})

	return r
}

func handleUpgrade(c *gin.Context, manager *session.Manager) {
	sessionID := c.Query("sessionId")
	roomID := c.Query("roomId")
	name := c.Query("name")
	if sessionID == "" || roomID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "sessionId and roomId are required"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	client, err := manager.Connect(conn, sessionID, roomID, name)
	if err != nil {
		conn.WriteJSON(gin.H{"type": "error", "payload": err.Error()})
		conn.Close()
		return
	}

	go client.WritePump()
	client.ReadPump(manager.HandleMessage, manager.Disconnect)
}
