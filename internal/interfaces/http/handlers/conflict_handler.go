package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/PrazoCerto/internal/application/deadline"
	"github.com/turtacn/PrazoCerto/internal/infrastructure/monitoring/logging"
)

// ConflictHandler serves portfolio conflict detection.
type ConflictHandler struct {
	svc    deadline.Service
	logger logging.Logger
}

// NewConflictHandler creates a new ConflictHandler.
func NewConflictHandler(svc deadline.Service, logger logging.Logger) *ConflictHandler {
	return &ConflictHandler{svc: svc, logger: logger}
}

// RegisterRoutes registers the conflict routes on g.
func (h *ConflictHandler) RegisterRoutes(g *gin.RouterGroup) {
	g.POST("/conflicts/detect", h.Detect)
}

// Detect handles POST /conflicts/detect.
func (h *ConflictHandler) Detect(c *gin.Context) {
	var req deadline.ConflictRequest
	if !bindJSON(c, h.logger, &req) {
		return
	}
	resp, err := h.svc.DetectConflicts(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

//Personal.AI order the ending
