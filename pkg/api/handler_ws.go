package api

import (
	"net/http"

	"github.com/coder/websocket"
	"github.com/gin-gonic/gin"
)

// wsHandler upgrades HTTP connections to WebSocket and delegates to
// ConnectionManager. Blocks until the connection closes.
func (s *Server) wsHandler(c *gin.Context) {
	if s.connManager == nil {
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, ErrorResponse{Error: "WebSocket not available"})
		return
	}

	conn, err := websocket.Accept(c.Writer, c.Request, &websocket.AcceptOptions{
		// Origin checks are left to the deployment's ingress.
		InsecureSkipVerify: true,
	})
	if err != nil {
		// Accept already wrote the handshake failure response.
		return
	}

	s.connManager.HandleConnection(c.Request.Context(), conn)
}
