package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/PrazoCerto/internal/application/deadline"
	"github.com/turtacn/PrazoCerto/internal/infrastructure/ics"
	"github.com/turtacn/PrazoCerto/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/PrazoCerto/pkg/errors"
)

// DeadlineHandler serves deadline computation.
type DeadlineHandler struct {
	svc    deadline.Service
	logger logging.Logger
	now    func() time.Time
}

// NewDeadlineHandler creates a new DeadlineHandler.
func NewDeadlineHandler(svc deadline.Service, logger logging.Logger) *DeadlineHandler {
	return &DeadlineHandler{svc: svc, logger: logger, now: time.Now}
}

// RegisterRoutes registers the deadline routes on g.
func (h *DeadlineHandler) RegisterRoutes(g *gin.RouterGroup) {
	g.POST("/deadlines/compute", h.Compute)
}

// Compute handles POST /deadlines/compute. With ?format=ics (or an Accept
// header asking for text/calendar) the due date is returned as an
// all-day iCalendar event instead of JSON.
func (h *DeadlineHandler) Compute(c *gin.Context) {
	var req deadline.ComputeRequest
	if !bindJSON(c, h.logger, &req) {
		return
	}
	if req.TriggerDate.IsZero() {
		respondError(c, h.logger, errors.InvalidParam("trigger_date is required"))
		return
	}

	resp, err := h.svc.ComputeDeadline(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	if wantsICS(c) {
		title := c.Query("title")
		if title == "" && resp.Result.CatalogCode != "" {
			title = "Prazo " + resp.Result.CatalogCode
		}
		ev := ics.FromResult(resp.RequestHash, title, resp.Result)
		c.Header("Content-Disposition", `attachment; filename="prazo-`+resp.Result.DueDate.String()+`.ics"`)
		c.Data(http.StatusOK, contentTypeICS, []byte(ics.ExportDeadlines([]ics.DeadlineEvent{ev}, h.now())))
		return
	}
	c.JSON(http.StatusOK, resp)
}

//Personal.AI order the ending
