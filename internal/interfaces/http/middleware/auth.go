package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/PrazoCerto/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/PrazoCerto/pkg/errors"
)

// HeaderAPIKey carries an admin key as an alternative to a bearer token.
const HeaderAPIKey = "X-API-Key"

// AdminAuth guards the administrative routes with static keys taken from
// configuration. A key is accepted from "Authorization: Bearer <key>" or
// X-API-Key. With no keys configured every request is refused.
type AdminAuth struct {
	keys   [][]byte
	logger logging.Logger
}

// NewAdminAuth returns the guard for keys. Blank keys are ignored.
func NewAdminAuth(keys []string, logger logging.Logger) *AdminAuth {
	a := &AdminAuth{logger: logger}
	for _, k := range keys {
		if k = strings.TrimSpace(k); k != "" {
			a.keys = append(a.keys, []byte(k))
		}
	}
	return a
}

// Enabled reports whether at least one key is configured.
func (a *AdminAuth) Enabled() bool { return len(a.keys) > 0 }

// Handler is the gin middleware.
func (a *AdminAuth) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !a.Enabled() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"code":       errors.ErrCodeFeatureDisabled.String(),
				"message":    "administrative endpoints are disabled",
				"request_id": GetRequestID(c),
			})
			return
		}
		presented := extractKey(c)
		if presented == "" || !a.valid(presented) {
			a.logger.Warn("admin request rejected",
				logging.String("path", c.Request.URL.Path),
				logging.String("client_ip", c.ClientIP()),
				logging.Bool("credential_present", presented != ""))
			c.Header("WWW-Authenticate", `Bearer realm="prazocerto-admin"`)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"code":       "UNAUTHORIZED",
				"message":    "missing or invalid admin key",
				"request_id": GetRequestID(c),
			})
			return
		}
		c.Next()
	}
}

func (a *AdminAuth) valid(presented string) bool {
	p := []byte(presented)
	ok := 0
	for _, k := range a.keys {
		ok |= subtle.ConstantTimeCompare(p, k)
	}
	return ok == 1
}

func extractKey(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); h != "" {
		const prefix = "Bearer "
		if len(h) > len(prefix) && strings.EqualFold(h[:len(prefix)], prefix) {
			return strings.TrimSpace(h[len(prefix):])
		}
	}
	return strings.TrimSpace(c.GetHeader(HeaderAPIKey))
}

//Personal.AI order the ending
