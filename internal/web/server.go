// Package web serves the portfolio: the full page, the HTMX fragments the
// page swaps in, the JSON endpoints driving the navigation script, and the
// admin dashboard.
package web

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/EmmanuelR15/portfolio/internal/analytics"
	"github.com/EmmanuelR15/portfolio/internal/config"
	"github.com/EmmanuelR15/portfolio/internal/contact"
	"github.com/EmmanuelR15/portfolio/internal/content"
	"github.com/EmmanuelR15/portfolio/internal/db"
	"github.com/EmmanuelR15/portfolio/internal/navigation"
	"github.com/EmmanuelR15/portfolio/internal/visibility"
)

// Deps are the collaborators the server is built from. Tracker and
// Messages may be nil, which disables visit tracking and the message
// views of the dashboard.
type Deps struct {
	Config     *config.Config
	Log        *zap.Logger
	DB         *db.DB
	Content    *content.Store
	Sender     contact.Sender
	Messages   *contact.Store
	Tracker    *analytics.Tracker
	Sightings  *visibility.Registry
	Navigation *navigation.Sessions
}

// Server is the HTTP front of the portfolio.
type Server struct {
	cfg       *config.Config
	log       *zap.Logger
	db        *db.DB
	content   *content.Store
	sender    contact.Sender
	messages  *contact.Store
	tracker   *analytics.Tracker
	sightings *visibility.Registry
	spies     *navigation.Sessions
	renderer  *content.Renderer

	adminToken   string
	profileImage atomic.Bool

	engine *gin.Engine
}

// New builds the gin engine and registers every route.
func New(deps Deps) (*Server, error) {
	if deps.Config == nil || deps.Content == nil || deps.Sender == nil {
		return nil, fmt.Errorf("web: config, content and sender are required")
	}
	log := deps.Log
	if log == nil {
		log = zap.NewNop()
	}
	sightings := deps.Sightings
	if sightings == nil {
		sightings = visibility.NewRegistry()
	}
	spies := deps.Navigation
	if spies == nil {
		spies = navigation.NewSessions()
	}

	token, err := analytics.RandomToken()
	if err != nil {
		return nil, err
	}

	s := &Server{
		cfg:        deps.Config,
		log:        log.Named("web"),
		db:         deps.DB,
		content:    deps.Content,
		sender:     deps.Sender,
		messages:   deps.Messages,
		tracker:    deps.Tracker,
		sightings:  sightings,
		spies:      spies,
		renderer:   content.NewRenderer(),
		adminToken: token,
	}
	s.RefreshAssets()

	if err := s.setupEngine(); err != nil {
		return nil, err
	}

	if s.cfg.AdminEnabled() {
		s.log.Info("admin access available at /admin/login")
		if gin.Mode() == gin.DebugMode {
			s.log.Debug("admin token (dev only)", zap.String("token", s.adminToken))
		}
	} else {
		s.log.Warn("admin dashboard disabled: no admin password configured")
	}
	return s, nil
}

func (s *Server) setupEngine() error {
	r := gin.New()

	tmpl, err := parseTemplates(s.renderer)
	if err != nil {
		return err
	}
	r.SetHTMLTemplate(tmpl)

	r.Use(requestLogger(s.log))
	r.Use(recovery(s.log))
	r.Use(sessionMiddleware(s.cfg.Data.SessionTTL))
	if s.tracker != nil {
		r.Use(trackingMiddleware(s.tracker))
	}

	r.Static("/images", s.cfg.Server.ImagesDir)
	r.Static("/static", s.cfg.Server.StaticDir)

	s.registerPageRoutes(r)
	s.registerAPIRoutes(r)
	s.registerAdminRoutes(r)

	r.NoRoute(func(c *gin.Context) {
		c.HTML(http.StatusNotFound, "not-found.html", s.pageData(c, gin.H{"title": "Not Found"}))
	})

	s.engine = r
	return nil
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Engine exposes the gin engine, e.g. for tests registering extra routes.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// HTTPServer returns a server listening on the configured port.
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:         fmt.Sprintf(":%d", s.cfg.Server.Port),
		Handler:      s.engine,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		IdleTimeout:  s.cfg.Server.IdleTimeout,
	}
}

// Navigation returns the per-session scroll spies, pruned by the serve loop.
func (s *Server) Navigation() *navigation.Sessions {
	return s.spies
}

// Sightings returns the visibility registry, pruned by the serve loop.
func (s *Server) Sightings() *visibility.Registry {
	return s.sightings
}

// RefreshAssets re-checks the profile image on disk. The page falls back
// to the owner's initials when it is missing.
func (s *Server) RefreshAssets() {
	s.profileImage.Store(s.assetExists(s.content.Current().Profile.Image))
}

// assetExists maps a URL under /images or /static onto the configured
// directories and reports whether the file exists.
func (s *Server) assetExists(url string) bool {
	var dir, rel string
	switch {
	case strings.HasPrefix(url, "/images/"):
		dir, rel = s.cfg.Server.ImagesDir, strings.TrimPrefix(url, "/images/")
	case strings.HasPrefix(url, "/static/"):
		dir, rel = s.cfg.Server.StaticDir, strings.TrimPrefix(url, "/static/")
	default:
		return false
	}
	if dir == "" || rel == "" || strings.Contains(rel, "..") {
		return false
	}
	info, err := os.Stat(filepath.Join(dir, filepath.FromSlash(rel)))
	return err == nil && !info.IsDir()
}
