package web

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/EmmanuelR15/portfolio/internal/contact"
	"github.com/EmmanuelR15/portfolio/internal/content"
	"github.com/EmmanuelR15/portfolio/internal/navigation"
)

type projectsView struct {
	Categories []content.Tab
	Active     string
	Projects   []content.Project
}

type skillsView struct {
	Tabs   []content.Tab
	Active string
	Skills []content.Skill
}

type contactView struct {
	Status      contact.Status
	Fields      contact.Fields
	Notice      string
	RevertAfter time.Duration
	CanSubmit   bool
}

const (
	noticeSuccess = "¡Mensaje enviado con éxito! Te responderé pronto."
	noticeError   = "Hubo un error al enviar el mensaje. Por favor, intenta de nuevo."
)

func (s *Server) projectsView(key string) projectsView {
	p := s.content.Current()
	if key == "" {
		key = content.All
	}
	return projectsView{
		Categories: p.ProjectCategories,
		Active:     key,
		Projects:   content.FilterProjects(p.Projects, key),
	}
}

func (s *Server) skillsView(tab string) skillsView {
	p := s.content.Current()
	if tab == "" {
		tab = p.DefaultSkillTab()
	}
	return skillsView{
		Tabs:   p.SkillTabs,
		Active: tab,
		Skills: content.SkillsFor(p.Skills, tab),
	}
}

func (s *Server) idleContact() contactView {
	return contactView{Status: contact.StatusIdle}
}

// pageData is the template data shared by every full page.
func (s *Server) pageData(c *gin.Context, extra gin.H) gin.H {
	p := s.content.Current()
	data := gin.H{
		"title":    p.Profile.Name,
		"profile":  p.Profile,
		"initials": p.Profile.Initials(),
		"hasImage": s.profileImage.Load(),
		"nav":      navigation.Items(p.Navigation),
		"session":  sessionID(c),
	}
	for k, v := range extra {
		data[k] = v
	}
	return data
}

// homeData renders the whole page. ?section= preselects the active nav
// link; the page script then asks the spy to scroll there.
func (s *Server) homeData(c *gin.Context) gin.H {
	active, err := navigation.ParseSection(c.Query("section"))
	if err != nil {
		active = navigation.Home
	}
	return s.pageData(c, gin.H{
		"active":       active,
		"navConfig":    navigation.Config(s.content.Current().Navigation),
		"projectsGrid": s.projectsView(c.Query("category")),
		"skillsGrid":   s.skillsView(c.Query("tab")),
		"form":         s.idleContact(),
		"cv":           s.cvAvailable(),
	})
}

func (s *Server) cvAvailable() bool {
	info, err := os.Stat(s.cfg.Server.CVPath)
	return err == nil && !info.IsDir()
}

func (s *Server) registerPageRoutes(r *gin.Engine) {
	r.GET("/", func(c *gin.Context) {
		c.HTML(http.StatusOK, "index.html", s.homeData(c))
	})

	// Single section, for HTMX partial reloads.
	r.GET("/sections/:id", func(c *gin.Context) {
		sec, err := navigation.ParseSection(c.Param("id"))
		if err != nil {
			c.HTML(http.StatusNotFound, "not-found.html", s.pageData(c, gin.H{"title": "Not Found"}))
			return
		}
		c.HTML(http.StatusOK, "section-"+string(sec), s.homeData(c))
	})

	// Unknown categories render an empty grid rather than an error.
	r.GET("/projects", func(c *gin.Context) {
		c.HTML(http.StatusOK, "projects-grid", s.projectsView(c.Query("category")))
	})

	r.GET("/skills", func(c *gin.Context) {
		c.HTML(http.StatusOK, "skills-grid", s.skillsView(c.Query("tab")))
	})

	r.GET("/contact-form", func(c *gin.Context) {
		c.HTML(http.StatusOK, "contact-form", s.idleContact())
	})

	// Idle status banner, swapped in once a notice has been shown long enough.
	r.GET("/contact-status", func(c *gin.Context) {
		c.HTML(http.StatusOK, "contact-status", s.idleContact())
	})

	r.POST("/contact", s.submitContact)

	r.GET("/cv", func(c *gin.Context) {
		if !s.cvAvailable() {
			c.HTML(http.StatusNotFound, "not-found.html", s.pageData(c, gin.H{"title": "Not Found"}))
			return
		}
		c.FileAttachment(s.cfg.Server.CVPath, s.cfg.Server.CVFilename)
	})

	r.GET("/privacy", func(c *gin.Context) {
		c.HTML(http.StatusOK, "privacy.html", s.pageData(c, gin.H{
			"title":         "Privacy Policy",
			"retentionDays": s.cfg.Data.RetentionDays,
		}))
	})

	r.GET("/healthz", func(c *gin.Context) {
		if s.db != nil {
			if err := s.db.PingContext(c.Request.Context()); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}

// submitContact runs one form submission for the lifetime of the request.
// The form is closed when the handler returns, which aborts delivery if
// the client went away.
func (s *Server) submitContact(c *gin.Context) {
	var fields contact.Fields
	if err := c.ShouldBind(&fields); err != nil {
		c.HTML(http.StatusBadRequest, "contact-form", s.idleContact())
		return
	}

	form := contact.NewForm(s.sender,
		contact.WithTimeout(s.cfg.Contact.Timeout),
		contact.WithRevertAfter(0),
		contact.WithHashedIP(s.hashIP(c.ClientIP())),
	)
	defer form.Close()

	if err := form.SetFields(fields); err != nil {
		c.HTML(http.StatusInternalServerError, "contact-form", s.idleContact())
		return
	}

	err := form.Submit(c.Request.Context())
	view := contactView{
		Status:      form.Status(),
		Fields:      form.Fields(),
		RevertAfter: s.cfg.Contact.RevertAfter,
		CanSubmit:   form.CanSubmit(),
	}

	switch {
	case errors.Is(err, contact.ErrIncomplete):
		c.HTML(http.StatusUnprocessableEntity, "contact-form", view)
	case err != nil:
		s.log.Warn("contact submission failed", zap.Error(err))
		view.Notice = noticeError
		c.HTML(http.StatusOK, "contact-form", view)
	default:
		view.Notice = noticeSuccess
		c.HTML(http.StatusOK, "contact-form", view)
	}
}

func (s *Server) hashIP(ip string) string {
	if s.tracker == nil {
		return ""
	}
	return s.tracker.HashIP(ip)
}

func constantTimeEqual(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
