// Package navigation models the single-page navigation bar: the fixed set
// of sections, the scroll-spy that derives the active section and the
// "scrolled" mode from the page offset, and the mobile menu sequencing.
package navigation

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Section identifies one anchored region of the page.
type Section string

const (
	Home     Section = "home"
	About    Section = "about"
	Projects Section = "projects"
	Skills   Section = "skills"
	Contact  Section = "contact"
)

// Sections lists every section in page order.
var Sections = []Section{Home, About, Projects, Skills, Contact}

// ErrUnknownSection is returned for identifiers outside Sections.
var ErrUnknownSection = errors.New("unknown section")

const (
	// ScrollThreshold is the offset past which the bar switches to its
	// scrolled appearance.
	ScrollThreshold = 50.0
	// NavbarHeight is subtracted from section positions so the fixed bar
	// does not cover the heading scrolled to.
	NavbarHeight = 64.0
	// MenuCollapseDelay lets the mobile menu close before the scroll starts.
	MenuCollapseDelay = 150 * time.Millisecond
)

// ParseSection validates a section identifier.
func ParseSection(s string) (Section, error) {
	for _, sec := range Sections {
		if string(sec) == s {
			return sec, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSection, s)
}

// Anchor returns the in-page fragment link for the section.
func (s Section) Anchor() string {
	return "#" + string(s)
}

// Item is one entry of the navigation bar.
type Item struct {
	Section Section `json:"section"`
	Label   string  `json:"label"`
	Href    string  `json:"href"`
}

// Items builds the navigation entries in page order. Sections without a
// label fall back to their capitalized identifier.
func Items(labels map[string]string) []Item {
	items := make([]Item, 0, len(Sections))
	for _, sec := range Sections {
		label := labels[string(sec)]
		if label == "" {
			label = strings.ToUpper(string(sec[:1])) + string(sec[1:])
		}
		items = append(items, Item{Section: sec, Label: label, Href: sec.Anchor()})
	}
	return items
}

// IsScrolled reports whether the page offset puts the bar in scrolled mode.
func IsScrolled(offset float64) bool {
	return offset > ScrollThreshold
}

// ScrollTarget computes where to scroll so that an element whose bounding
// box top is rectTop (viewport-relative) lands just under the bar. The
// result is clamped at the top of the document.
func ScrollTarget(rectTop, pageOffset float64) float64 {
	target := rectTop + pageOffset - NavbarHeight
	if target < 0 {
		return 0
	}
	return target
}

// Anchor positions a section on the page, Top being document-relative.
type Anchor struct {
	Section Section `json:"section"`
	Top     float64 `json:"top"`
}

// ActiveAt returns the last section whose top, less the bar height, has
// been scrolled past. Anchors must be in page order; with no anchor passed
// the page is considered to be on Home.
func ActiveAt(anchors []Anchor, offset float64) Section {
	active := Home
	for _, a := range anchors {
		if a.Top-NavbarHeight <= offset {
			active = a.Section
		}
	}
	return active
}

// ClientConfig is handed to the browser script driving the bar.
type ClientConfig struct {
	Sections            []Section `json:"sections"`
	Items               []Item    `json:"items"`
	ScrollThreshold     float64   `json:"scrollThreshold"`
	NavbarHeight        float64   `json:"navbarHeight"`
	MenuCollapseDelayMS int64     `json:"menuCollapseDelayMs"`
}

// Config returns the client configuration for the given labels.
func Config(labels map[string]string) ClientConfig {
	return ClientConfig{
		Sections:            Sections,
		Items:               Items(labels),
		ScrollThreshold:     ScrollThreshold,
		NavbarHeight:        NavbarHeight,
		MenuCollapseDelayMS: MenuCollapseDelay.Milliseconds(),
	}
}
