package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/PrazoCerto/internal/application/deadline"
	"github.com/turtacn/PrazoCerto/internal/domain/catalog"
	"github.com/turtacn/PrazoCerto/internal/infrastructure/monitoring/logging"
)

// CatalogHandler serves read access to the deadline catalog.
type CatalogHandler struct {
	svc    deadline.Service
	logger logging.Logger
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(svc deadline.Service, logger logging.Logger) *CatalogHandler {
	return &CatalogHandler{svc: svc, logger: logger}
}

// RegisterRoutes registers the catalog routes on g.
func (h *CatalogHandler) RegisterRoutes(g *gin.RouterGroup) {
	g.GET("/catalog", h.Search)
	g.GET("/catalog/:code", h.Get)
}

// CatalogListResponse is the body of GET /catalog.
type CatalogListResponse struct {
	Entries []catalog.Entry `json:"entries"`
	Total   int             `json:"total"`
}

// Search handles GET /catalog?q=&statute=&category=&class=&mode=&limit=.
func (h *CatalogHandler) Search(c *gin.Context) {
	limit, err := queryInt(c, "limit", 0)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	q := catalog.Query{
		Text:     c.Query("q"),
		Statute:  c.Query("statute"),
		Category: c.Query("category"),
		Limit:    limit,
	}
	if v := c.Query("class"); v != "" {
		if q.Class, err = catalog.ParseClass(v); err != nil {
			respondError(c, h.logger, err)
			return
		}
	}
	if v := c.Query("mode"); v != "" {
		if q.Mode, err = catalog.ParseMode(v); err != nil {
			respondError(c, h.logger, err)
			return
		}
	}

	entries, err := h.svc.SearchCatalog(c.Request.Context(), q)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if entries == nil {
		entries = []catalog.Entry{}
	}
	c.JSON(http.StatusOK, CatalogListResponse{Entries: entries, Total: len(entries)})
}

// Get handles GET /catalog/:code. Codes are normalised, so "cpc-335" and
// "CPC_335" name the same entry.
func (h *CatalogHandler) Get(c *gin.Context) {
	e, err := h.svc.GetCatalogEntry(c.Request.Context(), c.Param("code"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, e)
}

//Personal.AI order the ending
