package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"rsvphub/config"
	"rsvphub/database"
	"rsvphub/models"
)

type LiveStatsHandler struct {
	cfg      *config.Config
	upgrader websocket.Upgrader
}

func NewLiveStatsHandler(cfg *config.Config) *LiveStatsHandler {
	return &LiveStatsHandler{
		cfg: cfg,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkWSOrigin(cfg.AllowedOrigins),
		},
	}
}

// HandleWebSocket subscribes to the invitation's Redis stats channel and
// forwards updates to the connected client. Public invitations are open to
// any viewer; the guest page uses this to show a live attendee count.
func (h *LiveStatsHandler) HandleWebSocket(c *gin.Context) {
	code := c.Param("code")

	var inv models.Invitation
	if err := database.DB.Where("code = ?", code).First(&inv).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Invitation not found"})
		return
	}
	if !inv.IsPublic {
		c.JSON(http.StatusForbidden, gin.H{"error": "Invitation is not public"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Warn().Err(err).Msg("live stats websocket upgrade failed")
		return
	}
	defer conn.Close()

	if database.RDB == nil {
		conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseInternalServerErr, "live stats unavailable"))
		return
	}

	channel := "ws:invitation:" + inv.Code

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pubsub := database.RDB.Subscribe(ctx, channel)
	defer pubsub.Close()

	// Ping/pong keepalive
	conn.SetReadDeadline(time.Now().Add(45 * time.Second))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(45 * time.Second))
		return nil
	})

	go func() {
		ticker := time.NewTicker(30 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second)); err != nil {
					cancel()
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	// Redis → WS: forward stats updates to the client
	go func() {
		ch := pubsub.Channel()
		for {
			select {
			case msg, ok := <-ch:
				if !ok {
					cancel()
					return
				}
				if err := conn.WriteMessage(websocket.TextMessage, []byte(msg.Payload)); err != nil {
					cancel()
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	// Keep the read loop alive to detect disconnects
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}
