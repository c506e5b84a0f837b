package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Zeeeepa/airweave/pkg/models"
)

// listCollectionsHandler handles GET /api/v1/collections.
func (s *Server) listCollectionsHandler(c *gin.Context) {
	reqCtx := requestContext(c)
	if reqCtx == nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "authentication required"})
		return
	}

	var limit, offset int
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}
	if v := c.Query("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			offset = n
		}
	}

	result, err := s.collectionService.ListCollections(c.Request.Context(), reqCtx, limit, offset)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// createCollectionHandler handles POST /api/v1/collections.
func (s *Server) createCollectionHandler(c *gin.Context) {
	reqCtx := requestContext(c)
	if reqCtx == nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "authentication required"})
		return
	}

	var req models.CreateCollectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body: "+err.Error())
		return
	}

	col, err := s.collectionService.CreateCollection(c.Request.Context(), reqCtx, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, col)
}

// getCollectionHandler handles GET /api/v1/collections/:slug.
func (s *Server) getCollectionHandler(c *gin.Context) {
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

	col, err := s.collectionService.GetCollection(c.Request.Context(), reqCtx, slug)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, col)
}

// deleteCollectionHandler handles DELETE /api/v1/collections/:slug.
func (s *Server) deleteCollectionHandler(c *gin.Context) {
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

	if err := s.collectionService.DeleteCollection(c.Request.Context(), reqCtx, slug); err != nil {
		respondServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
