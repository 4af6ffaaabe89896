package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/course-catalog-api/internal/service"
	"github.com/noah-isme/course-catalog-api/pkg/response"
)

// CatalogHandler serves the public landing-page feed.
type CatalogHandler struct {
	service *service.CatalogService
}

// NewCatalogHandler constructs a catalog handler.
func NewCatalogHandler(svc *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{service: svc}
}

// Feed godoc
// @Summary Landing-page feed of categories with active courses
// @Tags Catalog
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /catalog/feed [get]
func (h *CatalogHandler) Feed(c *gin.Context) {
	feed, cacheHit, err := h.service.ComposeFeed(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, feed, nil, map[string]interface{}{"cache_hit": cacheHit})
}
