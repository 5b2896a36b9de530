package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/PrazoCerto/internal/application/deadline"
	"github.com/turtacn/PrazoCerto/internal/infrastructure/ics"
	"github.com/turtacn/PrazoCerto/internal/infrastructure/monitoring/logging"
)

// CalendarHandler exposes day classification and calendar export.
type CalendarHandler struct {
	svc    deadline.Service
	logger logging.Logger
	now    func() time.Time
}

// NewCalendarHandler creates a new CalendarHandler.
func NewCalendarHandler(svc deadline.Service, logger logging.Logger) *CalendarHandler {
	return &CalendarHandler{svc: svc, logger: logger, now: time.Now}
}

// RegisterRoutes registers the calendar routes on g.
func (h *CalendarHandler) RegisterRoutes(g *gin.RouterGroup) {
	cal := g.Group("/calendar")
	cal.GET("/classify", h.Classify)
	cal.GET("/days", h.Days)
	cal.GET("/export", h.Export)
}

// Classify handles GET /calendar/classify?court=TJSP&date=2025-04-21.
func (h *CalendarHandler) Classify(c *gin.Context) {
	date, err := queryDate(c, "date")
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	resp, err := h.svc.ClassifyDay(c.Request.Context(), c.Query("court"), date)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Days handles GET /calendar/days?court=TJSP&from=...&to=...
func (h *CalendarHandler) Days(c *gin.Context) {
	from, err := queryDate(c, "from")
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	to, err := queryDate(c, "to")
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	resp, err := h.svc.ClassifyRange(c.Request.Context(), c.Query("court"), from, to)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Export handles GET /calendar/export and renders the holidays and
// suspension periods of a court as iCalendar.
func (h *CalendarHandler) Export(c *gin.Context) {
	from, err := queryDate(c, "from")
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	to, err := queryDate(c, "to")
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	snap, err := h.svc.CalendarSnapshot(c.Request.Context(), c.Query("court"), from, to)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="calendario-`+snap.Court().Code+`.ics"`)
	c.Data(http.StatusOK, contentTypeICS, []byte(ics.ExportSnapshot(snap, from, to, h.now())))
}

//Personal.AI order the ending
