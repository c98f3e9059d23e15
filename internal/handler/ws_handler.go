package handler

import (
	"log"

	"go-pos-ws/internal/ws"
	"go-pos-ws/pkg/jwt"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

type WSHandler struct {
	hub *ws.Hub
}

func NewWSHandler(hub *ws.Hub) *WSHandler {
	return &WSHandler{hub: hub}
}

// Upgrade admits only websocket upgrades on a known channel with a valid ?token=.
func (h *WSHandler) Upgrade(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return c.SendStatus(fiber.StatusUpgradeRequired)
	}
	if _, ok := ws.ParseChannel(c.Params("channel")); !ok {
		return c.Status(404).JSON(fiber.Map{"error": "Unknown channel"})
	}

	claims, err := jwt.ValidateToken(c.Query("token"))
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": "Invalid or expired token"})
	}
	c.Locals("user_name", claims.Name)
	c.Locals("user_role", claims.Role)
	return c.Next()
}

// Stream subscribes the socket to its channel until the client goes away.
// Incoming frames are read only to notice the disconnect.
func (h *WSHandler) Stream() fiber.Handler {
	return websocket.New(func(c *websocket.Conn) {
		channel, _ := ws.ParseChannel(c.Params("channel"))
		name, _ := c.Locals("user_name").(string)

		h.hub.Subscribe(channel, c)
		defer h.hub.Unsubscribe(channel, c)

		for {
			if _, _, err := c.ReadMessage(); err != nil {
				log.Printf("WS %s left %s: %v", name, channel, err)
				break
			}
		}
	})
}
