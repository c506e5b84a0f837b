package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Zeeeepa/airweave/pkg/auth"
	"github.com/Zeeeepa/airweave/pkg/services"
)

// contextKeyRequestContext is the gin context key holding *auth.RequestContext.
const contextKeyRequestContext = "request_context"

// extractAPIKey extracts the raw API key from request headers.
// Priority: Authorization: Bearer > X-API-Key.
func extractAPIKey(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); h != "" {
		if key, ok := strings.CutPrefix(h, "Bearer "); ok && key != "" {
			return key
		}
	}
	return c.GetHeader("X-API-Key")
}

// authMiddleware resolves the API key into a RequestContext and stores it
// on the gin context for handlers and services.
func (s *Server) authMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		rawKey := extractAPIKey(c)
		if rawKey == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "missing API key"})
			return
		}

		org, user, err := s.apiKeyService.Authenticate(c.Request.Context(), rawKey)
		if err != nil {
			if errors.Is(err, services.ErrInvalidAPIKey) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "invalid API key"})
				return
			}
			respondServiceError(c, err)
			return
		}

		requestID := uuid.New().String()
		reqCtx := &auth.RequestContext{
			RequestID:    requestID,
			Method:       auth.MethodAPIKey,
			Organization: auth.Organization{ID: org.ID, Name: org.Name},
			User:         user,
			Logger: slog.Default().With(
				"request_id", requestID,
				"organization_id", org.ID,
			),
		}
		c.Set(contextKeyRequestContext, reqCtx)
		c.Next()
	}
}

// requestContext returns the RequestContext stored by authMiddleware, or
// nil when the route is not behind authentication.
func requestContext(c *gin.Context) *auth.RequestContext {
	v, ok := c.Get(contextKeyRequestContext)
	if !ok {
		return nil
	}
	rc, _ := v.(*auth.RequestContext)
	return rc
}
