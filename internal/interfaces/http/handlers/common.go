// Package handlers implements the PrazoCerto REST endpoints on gin.
package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/PrazoCerto/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/PrazoCerto/internal/interfaces/http/middleware"
	"github.com/turtacn/PrazoCerto/pkg/errors"
	"github.com/turtacn/PrazoCerto/pkg/types/common"
)

// ErrorResponse is the standard error response body.
type ErrorResponse struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Detail    string `json:"detail,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// respondError maps err to its HTTP status. Server-side failures are logged
// and their message masked.
func respondError(c *gin.Context, logger logging.Logger, err error) {
	code := errors.GetCode(err)
	if code == errors.CodeUnknown {
		code = errors.ErrCodeInternal
	}
	status := errors.HTTPStatusForCode(code)
	body := ErrorResponse{
		Code:      code.String(),
		Message:   err.Error(),
		RequestID: middleware.GetRequestID(c),
	}
	var appErr *errors.AppError
	if errors.As(err, &appErr) {
		body.Message = appErr.Message
		body.Detail = appErr.Detail
	}
	if status >= http.StatusInternalServerError {
		logger.Error("request failed",
			logging.Err(err),
			logging.String("code", code.String()),
			logging.String("route", c.FullPath()),
			logging.String("request_id", body.RequestID))
		body.Message = errors.DefaultMessageForCode(code)
		body.Detail = ""
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, body)
}

// bindJSON decodes the body into dst, answering 400 on malformed input.
func bindJSON(c *gin.Context, logger logging.Logger, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, logger, errors.Wrap(err, errors.ErrCodeBadRequest, "malformed request body"))
		return false
	}
	return true
}

// queryDate parses a required YYYY-MM-DD query parameter.
func queryDate(c *gin.Context, name string) (common.Date, error) {
	v := strings.TrimSpace(c.Query(name))
	if v == "" {
		return common.Date{}, errors.InvalidParam("missing query parameter").WithDetail(name)
	}
	d, err := common.ParseDate(v)
	if err != nil {
		return common.Date{}, errors.InvalidParam("invalid date, expected YYYY-MM-DD").WithDetail(name + "=" + v)
	}
	return d, nil
}

// queryInt parses an optional integer query parameter.
func queryInt(c *gin.Context, name string, def int) (int, error) {
	v := strings.TrimSpace(c.Query(name))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, errors.InvalidParam("invalid integer").WithDetail(name + "=" + v)
	}
	return n, nil
}

// wantsICS reports whether the caller asked for text/calendar output.
func wantsICS(c *gin.Context) bool {
	if strings.EqualFold(c.Query("format"), "ics") {
		return true
	}
	return strings.Contains(c.GetHeader("Accept"), "text/calendar")
}

const contentTypeICS = "text/calendar; charset=utf-8"

//Personal.AI order the ending
