package handlers

import (
	"github.com/anjiri1684/parkspace/apperror"
	"github.com/anjiri1684/parkspace/logger"
	"github.com/anjiri1684/parkspace/middleware"
	"github.com/anjiri1684/parkspace/notifications"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

type wsAuthMessage struct {
	Type  string `json:"type"`
	Token string `json:"token"`
}

// ServeWs authenticates the socket with a first {"type":"auth","token":...}
// message, then keeps it registered on the notification hub until the
// client goes away. Inbound messages after auth are ignored.
func ServeWs(c *websocket.Conn) {
	var authMsg wsAuthMessage
	if err := c.ReadJSON(&authMsg); err != nil || authMsg.Type != "auth" {
		logger.Log.Debug().Err(err).Msg("websocket auth failed: missing auth message")
		_ = c.WriteJSON(fiber.Map{"error": "invalid or missing auth message", "code": apperror.CodeUnauthorized})
		_ = c.Close()
		return
	}

	session, err := middleware.ParseToken(authMsg.Token)
	if err != nil {
		logger.Log.Debug().Err(err).Msg("websocket auth failed: invalid token")
		_ = c.WriteJSON(fiber.Map{"error": "invalid token", "code": apperror.CodeUnauthorized})
		_ = c.Close()
		return
	}
	if err := middleware.EnsureActive(session.UserID); err != nil {
		appErr := apperror.As(err)
		_ = c.WriteJSON(fiber.Map{"error": appErr.Message, "code": appErr.Code})
		_ = c.Close()
		return
	}

	// the hub is the only writer once registered
	if err := c.WriteJSON(fiber.Map{"type": "ready"}); err != nil {
		_ = c.Close()
		return
	}
	client := &notifications.Client{UserID: session.UserID, Conn: c}
	notifications.Default.Register(client)
	defer func() {
		notifications.Default.Unregister(client)
		_ = c.Close()
	}()

	for {
		if _, _, err := c.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Log.Debug().Err(err).Str("user_id", session.UserID.String()).Msg("websocket read error")
			}
			return
		}
	}
}
