package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Zeeeepa/airweave/ent/searchrequest"
	"github.com/Zeeeepa/airweave/pkg/auth"
	"github.com/Zeeeepa/airweave/pkg/events"
	"github.com/Zeeeepa/airweave/pkg/models"
)

// searchHandler handles POST /api/v1/collections/:slug/search.
// With ?stream=true the request is enqueued for a worker and the client
// follows progress over the WebSocket channel named in the ack. Otherwise
// the pipeline runs inline and the full response is returned.
func (s *Server) searchHandler(c *gin.Context) {
	reqCtx := requestContext(c)
	if reqCtx == nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "authentication required"})
		return
	}

	slug := c.Param("slug")
	if slug == "" {
		respondBadRequest(c, "collection slug is required")
		return
	}

	stream := false
	if v := c.Query("stream"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			respondBadRequest(c, "invalid stream: must be a boolean")
			return
		}
		stream = b
	}

	var req models.SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body: "+err.Error())
		return
	}

	if stream {
		s.streamingSearch(c, reqCtx, slug, req)
		return
	}

	resp, err := s.searchService.ExecuteSync(c.Request.Context(), reqCtx, slug, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// streamingSearch enqueues the request and acks with the channel to follow.
func (s *Server) streamingSearch(c *gin.Context, reqCtx *auth.RequestContext, slug string, req models.SearchRequest) {
	row, err := s.searchService.EnqueueStreaming(c.Request.Context(), reqCtx, slug, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	s.publishPendingStatus(c, row.ID)

	c.JSON(http.StatusAccepted, &models.StreamingSearchAck{
		RequestID: row.ID,
		Channel:   events.SearchChannel(row.ID),
		Status:    events.RequestStatusPending,
	})
}

// publishPendingStatus broadcasts the pending transition on the global
// searches channel. Best effort: dashboards miss one transition at worst.
func (s *Server) publishPendingStatus(c *gin.Context, requestID string) {
	if s.publisher == nil {
		return
	}
	payload := events.RequestStatusPayload{
		Type:      events.EventTypeRequestStatus,
		RequestID: requestID,
		Status:    events.RequestStatusPending,
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
	}
	if err := s.publisher.PublishRequestStatus(c.Request.Context(), payload); err != nil {
		slog.Warn("Failed to publish pending status", "request_id", requestID, "error", err)
	}
}

// getSearchRequestHandler handles GET /api/v1/search/requests/:id.
func (s *Server) getSearchRequestHandler(c *gin.Context) {
	reqCtx := requestContext(c)
	if reqCtx == nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "authentication required"})
		return
	}

	requestID := c.Param("id")
	if requestID == "" {
		respondBadRequest(c, "request id is required")
		return
	}

	row, err := s.searchService.GetSearchRequest(c.Request.Context(), reqCtx, requestID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, row)
}

// listSearchRequestsHandler handles GET /api/v1/search/requests.
func (s *Server) listSearchRequestsHandler(c *gin.Context) {
	reqCtx := requestContext(c)
	if reqCtx == nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "authentication required"})
		return
	}

	var filters models.SearchRequestFilters

	// Parse pagination. Out-of-range values fall back to service defaults.
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			filters.Limit = n
		}
	}
	if v := c.Query("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			filters.Offset = n
		}
	}

	// Parse filters.
	if v := c.Query("status"); v != "" {
		if err := searchrequest.StatusValidator(searchrequest.Status(v)); err != nil {
			respondBadRequest(c, "invalid status: "+v)
			return
		}
		filters.Status = v
	}
	filters.CollectionSlug = c.Query("collection")
	if v := c.Query("created_after"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			respondBadRequest(c, "invalid created_after: must be RFC3339")
			return
		}
		filters.CreatedAfter = &t
	}

	result, err := s.searchService.ListSearchRequests(c.Request.Context(), reqCtx, filters)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
