package content

import (
	"strings"
	"unicode"
)

// Category is the closed set of project groupings.
type Category string

const (
	CategoryFrontend  Category = "frontend"
	CategoryBackend   Category = "backend"
	CategoryFullstack Category = "fullstack"
	CategoryMobile    Category = "mobile"
)

// SkillCategory is the closed set of skills tabs.
type SkillCategory string

const (
	SkillFrontend  SkillCategory = "frontend"
	SkillBackend   SkillCategory = "backend"
	SkillDatabases SkillCategory = "databases"
	SkillTools     SkillCategory = "tools"
)

// All is the filter key that bypasses category filtering.
const All = "all"

var projectCategories = map[Category]bool{
	CategoryFrontend:  true,
	CategoryBackend:   true,
	CategoryFullstack: true,
	CategoryMobile:    true,
}

var skillCategories = map[SkillCategory]bool{
	SkillFrontend:  true,
	SkillBackend:   true,
	SkillDatabases: true,
	SkillTools:     true,
}

// Project is one card of the projects grid.
type Project struct {
	ID          int      `yaml:"id" json:"id"`
	Title       string   `yaml:"title" json:"title"`
	Description string   `yaml:"description" json:"description"`
	Image       string   `yaml:"image" json:"image,omitempty"`
	Tech        []string `yaml:"tech" json:"tech"`
	Category    Category `yaml:"category" json:"category"`
	DemoURL     string   `yaml:"demo_url" json:"demoUrl,omitempty"`
	GitHubURL   string   `yaml:"github_url" json:"githubUrl,omitempty"`
	Gradient    string   `yaml:"gradient" json:"gradient,omitempty"`
}

// VisibleTechLimit is how many tech badges a card shows before collapsing
// the rest into a "+N" badge.
const VisibleTechLimit = 3

// VisibleTech returns the badges shown on the card.
func (p Project) VisibleTech() []string {
	if len(p.Tech) <= VisibleTechLimit {
		return p.Tech
	}
	return p.Tech[:VisibleTechLimit]
}

// HiddenTech returns how many badges are collapsed into "+N".
func (p Project) HiddenTech() int {
	if len(p.Tech) <= VisibleTechLimit {
		return 0
	}
	return len(p.Tech) - VisibleTechLimit
}

// Skill is one tile of the skills grid.
type Skill struct {
	Name     string        `yaml:"name" json:"name"`
	Color    string        `yaml:"color" json:"color,omitempty"`
	Category SkillCategory `yaml:"category" json:"category"`
}

// Link is an outbound link (social profile, mailto, tel, maps...).
type Link struct {
	Label    string `yaml:"label" json:"label"`
	Value    string `yaml:"value" json:"value,omitempty"`
	Href     string `yaml:"href" json:"href"`
	External bool   `yaml:"external" json:"external"`
}

// Stat is one tile of the about-section stats grid.
type Stat struct {
	Value string `yaml:"value" json:"value"`
	Label string `yaml:"label" json:"label"`
}

// Tab is a labelled filter key.
type Tab struct {
	ID    string `yaml:"id" json:"id"`
	Label string `yaml:"label" json:"label"`
}

// Profile is the owner of the portfolio.
type Profile struct {
	Name        string `yaml:"name" json:"name"`
	Title       string `yaml:"title" json:"title"`
	Tagline     string `yaml:"tagline" json:"tagline"`
	Bio         string `yaml:"bio" json:"bio"` // markdown
	Image       string `yaml:"image" json:"image"`
	ScheduleURL string `yaml:"schedule_url" json:"scheduleUrl,omitempty"`
	Contact     []Link `yaml:"contact" json:"contact"`
	Socials     []Link `yaml:"socials" json:"socials"`
	Stats       []Stat `yaml:"stats" json:"stats"`
}

// Initials returns the placeholder shown when the profile image is missing.
func (p Profile) Initials() string {
	var b strings.Builder
	n := 0
	for _, word := range strings.Fields(p.Name) {
		r := []rune(word)
		if len(r) == 0 || !unicode.IsLetter(r[0]) {
			continue
		}
		b.WriteRune(unicode.ToUpper(r[0]))
		n++
		if n == 2 {
			break
		}
	}
	return b.String()
}

// Portfolio is everything the page renders.
type Portfolio struct {
	Profile           Profile           `yaml:"profile" json:"profile"`
	Navigation        map[string]string `yaml:"navigation" json:"navigation"` // section id -> label
	ProjectCategories []Tab             `yaml:"project_categories" json:"projectCategories"`
	SkillTabs         []Tab             `yaml:"skill_tabs" json:"skillTabs"`
	Projects          []Project         `yaml:"projects" json:"projects"`
	Skills            []Skill           `yaml:"skills" json:"skills"`
}
