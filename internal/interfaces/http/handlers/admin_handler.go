package handlers

import (
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/PrazoCerto/internal/application/deadline"
	"github.com/turtacn/PrazoCerto/internal/domain/calendar"
	"github.com/turtacn/PrazoCerto/internal/infrastructure/ics"
	"github.com/turtacn/PrazoCerto/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/PrazoCerto/pkg/errors"
	"github.com/turtacn/PrazoCerto/pkg/types/common"
)

// CalendarNotifier announces calendar changes to the other replicas.
type CalendarNotifier interface {
	CalendarUpdated(ctx context.Context, court, version, reason string, entries int) error
}

// AdminHandler serves the administrative endpoints. Writer and Notifier are
// optional; without a writer ICS import is disabled.
type AdminHandler struct {
	svc      deadline.Service
	writer   calendar.Writer
	notifier CalendarNotifier
	logger   logging.Logger
	maxBody  int64
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(svc deadline.Service, writer calendar.Writer, notifier CalendarNotifier, logger logging.Logger) *AdminHandler {
	return &AdminHandler{svc: svc, writer: writer, notifier: notifier, logger: logger, maxBody: 4 << 20}
}

// RegisterRoutes registers the admin routes on g. The caller guards g.
func (h *AdminHandler) RegisterRoutes(g *gin.RouterGroup) {
	g.POST("/calendar/invalidate", h.Invalidate)
	g.POST("/calendar/import", h.ImportICS)
	g.POST("/catalog/reload", h.ReloadCatalog)
}

// Invalidate handles POST /admin/calendar/invalidate.
func (h *AdminHandler) Invalidate(c *gin.Context) {
	report, err := h.svc.Invalidate(c.Request.Context(), deadline.TriggerAdmin)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	h.notify(c.Request.Context(), "", report.CalendarVersion, "admin invalidation", 0)
	c.JSON(http.StatusOK, report)
}

// ImportResponse is the body of POST /admin/calendar/import.
type ImportResponse struct {
	Added        int                          `json:"added"`
	Parsed       int                          `json:"parsed"`
	Skipped      int                          `json:"skipped"`
	Invalidation *deadline.InvalidationReport `json:"invalidation"`
}

// ImportICS handles POST /admin/calendar/import. The body is an ICS
// document; uf, court, scope, from, to and legal_basis query parameters
// scope the imported events.
func (h *AdminHandler) ImportICS(c *gin.Context) {
	if h.writer == nil {
		respondError(c, h.logger, errors.New(errors.ErrCodeFeatureDisabled, "calendar store is read-only"))
		return
	}
	opts := ics.ImportOptions{
		UF:         c.Query("uf"),
		CourtCode:  calendar.NormalizeCode(c.Query("court")),
		Scope:      calendar.Scope(strings.ToUpper(c.Query("scope"))),
		LegalBasis: c.Query("legal_basis"),
	}
	for name, dst := range map[string]*common.Date{"from": &opts.From, "to": &opts.To} {
		if c.Query(name) == "" {
			continue
		}
		d, err := queryDate(c, name)
		if err != nil {
			respondError(c, h.logger, err)
			return
		}
		*dst = d
	}

	body := io.LimitReader(c.Request.Body, h.maxBody)
	imp, err := ics.Parse(body, opts, h.logger)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	ctx := c.Request.Context()
	added, err := ics.Load(ctx, h.writer, imp)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	report, err := h.svc.Invalidate(ctx, deadline.TriggerImport)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	h.notify(ctx, opts.CourtCode, report.CalendarVersion, "ics import", added)

	c.JSON(http.StatusOK, ImportResponse{
		Added:        added,
		Parsed:       len(imp.Entries) + len(imp.Suspensions),
		Skipped:      imp.Skipped,
		Invalidation: report,
	})
}

// ReloadCatalog handles POST /admin/catalog/reload.
func (h *AdminHandler) ReloadCatalog(c *gin.Context) {
	n, err := h.svc.ReloadCatalog(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": n})
}

func (h *AdminHandler) notify(ctx context.Context, court, version, reason string, entries int) {
	if h.notifier == nil {
		return
	}
	if err := h.notifier.CalendarUpdated(ctx, court, version, reason, entries); err != nil {
		h.logger.Warn("calendar change notification failed", logging.Err(err))
	}
}

//Personal.AI order the ending
