package web

import (
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/EmmanuelR15/portfolio/internal/analytics"
)

const (
	sessionCookie = "portfolio_session"
	sessionKey    = "session"
	adminCookie   = "admin_token"
)

// requestLogger writes one structured line per request.
func requestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		status := c.Writer.Status()
		fields := []zap.Field{
			zap.Int("status", status),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("query", query),
			zap.Duration("latency", time.Since(start)),
			zap.Int("size", c.Writer.Size()),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		switch {
		case status >= http.StatusInternalServerError:
			log.Error("request", fields...)
		case status >= http.StatusBadRequest:
			log.Info("request", fields...)
		default:
			log.Debug("request", fields...)
		}
	}
}

// recovery turns a panic anywhere below it into the generic error page,
// whose only action is reloading.
func recovery(log *zap.Logger) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(io.Discard, func(c *gin.Context, err any) {
		log.Error("panic while handling request",
			zap.Any("panic", err),
			zap.String("path", c.Request.URL.Path),
			zap.Stack("stack"),
		)
		c.HTML(http.StatusInternalServerError, "error.html", gin.H{
			"title":  "Something went wrong",
			"reload": reloadTarget(c.Request),
			"year":   time.Now().Year(),
		})
		c.Abort()
	})
}

// reloadTarget is where the error page's reload link points. Only safe
// requests can be repeated by following a link; anything else goes back to
// the same-origin page it was sent from, or to the home page.
func reloadTarget(req *http.Request) string {
	if req.Method == http.MethodGet || req.Method == http.MethodHead {
		return req.URL.RequestURI()
	}
	ref, err := url.Parse(req.Referer())
	if err != nil || ref.Host != req.Host || ref.Path == "" {
		return "/"
	}
	return ref.RequestURI()
}

// sessionMiddleware gives each browser an opaque session id, used to latch
// section reveals. It carries no personal data.
func sessionMiddleware(ttl time.Duration) gin.HandlerFunc {
	maxAge := int(ttl.Seconds())
	return func(c *gin.Context) {
		id, err := c.Cookie(sessionCookie)
		if err != nil || uuid.Validate(id) != nil {
			id = uuid.NewString()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(sessionCookie, id, maxAge, "/", "", false, true)
		}
		c.Set(sessionKey, id)
		c.Next()
	}
}

func sessionID(c *gin.Context) string {
	return c.GetString(sessionKey)
}

// trackingMiddleware records full page loads. HTMX fragment requests and
// opted-out clients are skipped.
func trackingMiddleware(t *analytics.Tracker) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if c.Request.Method == http.MethodGet &&
			c.GetHeader("HX-Request") != "true" &&
			analytics.ShouldTrack(path, c.GetHeader("DNT")) {
			t.Track(c.ClientIP(), c.GetHeader("User-Agent"), path)
		}
		c.Next()
	}
}

// adminAuth requires the per-process admin token cookie.
func (s *Server) adminAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(adminCookie)
		if err != nil || !s.cfg.AdminEnabled() || !constantTimeEqual(token, s.adminToken) {
			c.Redirect(http.StatusFound, "/admin/login")
			c.Abort()
			return
		}
		c.Next()
	}
}
