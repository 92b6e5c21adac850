package web

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/EmmanuelR15/portfolio/internal/content"
	"github.com/EmmanuelR15/portfolio/internal/navigation"
	"github.com/EmmanuelR15/portfolio/internal/visibility"
)

type layoutRequest struct {
	Anchors []struct {
		Section string  `json:"section"`
		Top     float64 `json:"top"`
	} `json:"anchors" binding:"required"`
}

type scrollRequest struct {
	Offset float64 `json:"offset"`
}

type navigateRequest struct {
	Section string `json:"section" binding:"required"`
}

type seenRequest struct {
	Target   *visibility.Rect `json:"target"`
	Viewport *visibility.Rect `json:"viewport"`
}

func (s *Server) registerAPIRoutes(r *gin.Engine) {
	api := r.Group("/api")

	api.GET("/navigation", func(c *gin.Context) {
		c.JSON(http.StatusOK, navigation.Config(s.content.Current().Navigation))
	})

	s.registerSpyRoutes(api.Group("/nav"))

	api.GET("/projects", func(c *gin.Context) {
		key := c.DefaultQuery("category", content.All)
		c.JSON(http.StatusOK, gin.H{
			"category": key,
			"projects": content.FilterProjects(s.content.Current().Projects, key),
		})
	})

	api.GET("/skills", func(c *gin.Context) {
		v := s.skillsView(c.Query("tab"))
		c.JSON(http.StatusOK, gin.H{
			"tab":    v.Active,
			"skills": v.Skills,
		})
	})

	// The client reports a section entering the viewport. animate is true
	// only the first time per session.
	api.POST("/sections/:id/seen", func(c *gin.Context) {
		sec, err := navigation.ParseSection(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}

		var req seenRequest
		if c.Request.ContentLength > 0 {
			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
		}

		session := sessionID(c)
		var first bool
		if req.Target != nil && req.Viewport != nil {
			first = s.sightings.Observe(session, string(sec), *req.Target, *req.Viewport)
		} else {
			first = s.sightings.Mark(session, string(sec))
		}

		if first && s.tracker != nil {
			if _, err := s.tracker.RecordSectionView(c.Request.Context(), session, string(sec)); err != nil {
				s.log.Warn("recording section view", zap.String("section", string(sec)), zap.Error(err))
			}
		}

		c.JSON(http.StatusOK, gin.H{
			"section": sec,
			"visible": s.sightings.Seen(session, string(sec)),
			"animate": first,
		})
	})
}

// registerSpyRoutes exposes the session's scroll spy. The page reports its
// layout and scroll offset and asks the spy where to scroll; it only
// renders the state it gets back.
func (s *Server) registerSpyRoutes(nav *gin.RouterGroup) {
	nav.GET("/state", func(c *gin.Context) {
		c.JSON(http.StatusOK, s.spies.State(sessionID(c)))
	})

	nav.PUT("/layout", func(c *gin.Context) {
		var req layoutRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		anchors := make([]navigation.Anchor, 0, len(req.Anchors))
		for _, a := range req.Anchors {
			sec, err := navigation.ParseSection(a.Section)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			anchors = append(anchors, navigation.Anchor{Section: sec, Top: a.Top})
		}
		c.JSON(http.StatusOK, s.spies.Layout(sessionID(c), anchors))
	})

	nav.POST("/scroll", func(c *gin.Context) {
		var req scrollRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, s.spies.Scroll(sessionID(c), req.Offset))
	})

	nav.POST("/menu", func(c *gin.Context) {
		c.JSON(http.StatusOK, s.spies.ToggleMenu(sessionID(c)))
	})

	// Responds once the scroll is released, after the menu collapse delay
	// when the menu was open. scroll is false when a later click won.
	nav.POST("/navigate", func(c *gin.Context) {
		var req navigateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		sec, err := navigation.ParseSection(req.Section)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}

		session := sessionID(c)
		target, scroll, err := s.spies.Navigate(c.Request.Context(), session, sec)
		switch {
		case errors.Is(err, navigation.ErrUnknownSection):
			c.JSON(http.StatusConflict, gin.H{"error": "section layout not reported"})
			return
		case err != nil:
			s.log.Debug("navigation abandoned", zap.String("section", string(sec)), zap.Error(err))
			c.Status(http.StatusNoContent)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"section": sec,
			"target":  target,
			"scroll":  scroll,
			"state":   s.spies.State(session),
		})
	})
}
