package web

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const adminCookieMaxAge = 3600 * 24

func (s *Server) registerAdminRoutes(r *gin.Engine) {
	r.GET("/admin/login", func(c *gin.Context) {
		c.HTML(http.StatusOK, "admin-login.html", gin.H{
			"title":    "Admin Login",
			"disabled": !s.cfg.AdminEnabled(),
		})
	})

	r.POST("/admin/login", func(c *gin.Context) {
		username := c.PostForm("username")
		password := c.PostForm("password")

		ok := s.cfg.AdminEnabled() &&
			constantTimeEqual(username, s.cfg.Admin.Username) &&
			constantTimeEqual(password, s.cfg.Admin.Password)
		if !ok {
			s.log.Warn("failed admin login", zap.String("client", s.hashIP(c.ClientIP())))
			c.HTML(http.StatusUnauthorized, "admin-login.html", gin.H{
				"title":    "Admin Login",
				"error":    "Invalid credentials",
				"disabled": !s.cfg.AdminEnabled(),
			})
			return
		}

		c.SetSameSite(http.SameSiteStrictMode)
		c.SetCookie(adminCookie, s.adminToken, adminCookieMaxAge, "/admin", "", false, true)
		s.log.Info("admin login", zap.String("client", s.hashIP(c.ClientIP())))
		c.Redirect(http.StatusFound, "/admin/dashboard")
	})

	r.GET("/admin/logout", func(c *gin.Context) {
		c.SetCookie(adminCookie, "", -1, "/admin", "", false, true)
		c.Redirect(http.StatusFound, "/admin/login")
	})

	admin := r.Group("/admin")
	admin.Use(s.adminAuth())

	admin.GET("/dashboard", func(c *gin.Context) {
		if s.tracker == nil {
			c.HTML(http.StatusServiceUnavailable, "error.html", gin.H{"title": "Analytics disabled", "reload": "/admin/dashboard"})
			return
		}
		stats, err := s.tracker.Stats(c.Request.Context())
		if err != nil {
			s.log.Error("loading admin stats", zap.Error(err))
			c.HTML(http.StatusInternalServerError, "error.html", gin.H{"title": "Failed to load statistics", "reload": "/admin/dashboard"})
			return
		}
		c.HTML(http.StatusOK, "admin-dashboard.html", gin.H{
			"title": "Dashboard",
			"stats": stats,
		})
	})

	admin.GET("/messages", func(c *gin.Context) {
		if s.messages == nil {
			c.HTML(http.StatusServiceUnavailable, "error.html", gin.H{"title": "Message outbox disabled", "reload": "/admin/messages"})
			return
		}
		records, err := s.messages.List(c.Request.Context(), 200)
		if err != nil {
			s.log.Error("loading contact messages", zap.Error(err))
			c.HTML(http.StatusInternalServerError, "error.html", gin.H{"title": "Failed to load messages", "reload": "/admin/messages"})
			return
		}
		c.HTML(http.StatusOK, "admin-messages.html", gin.H{
			"title":    "Messages",
			"messages": records,
		})
	})

	admin.GET("/api/stats", func(c *gin.Context) {
		if s.tracker == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "analytics disabled"})
			return
		}
		stats, err := s.tracker.Stats(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, stats)
	})

	admin.GET("/export/stats", func(c *gin.Context) {
		if s.tracker == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "analytics disabled"})
			return
		}
		stats, err := s.tracker.Stats(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.Header("Content-Disposition", "attachment; filename=admin-stats.json")
		s.log.Info("admin stats exported", zap.String("client", s.hashIP(c.ClientIP())))
		c.JSON(http.StatusOK, stats)
	})

	admin.POST("/privacy/cleanup", func(c *gin.Context) {
		if s.tracker == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "analytics disabled"})
			return
		}
		n, err := s.tracker.Cleanup(c.Request.Context(), s.cfg.Data.Retention())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"deleted": n})
	})
}
