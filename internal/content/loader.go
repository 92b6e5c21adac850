package content

import (
	_ "embed"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

//go:embed portfolio.yaml
var defaultPortfolio []byte

// Default returns the portfolio compiled into the binary.
func Default() (p *Portfolio, err error) {
	p, err = Parse(defaultPortfolio)
	if err != nil {
		err = errors.Wrap(err, "embedded portfolio")
		return nil, err
	}
	return p, err
}

// Load reads a portfolio from a YAML file.
func Load(path string) (p *Portfolio, err error) {
	var data []byte
	data, err = os.ReadFile(path)
	if err != nil {
		err = errors.Wrapf(err, "failed to read portfolio file: %s", path)
		return nil, err
	}

	p, err = Parse(data)
	if err != nil {
		err = errors.Wrapf(err, "portfolio file %s", path)
		return nil, err
	}
	return p, err
}

// Parse decodes and validates a portfolio document.
func Parse(data []byte) (p *Portfolio, err error) {
	p = &Portfolio{}
	err = yaml.Unmarshal(data, p)
	if err != nil {
		err = errors.Wrap(err, "failed to parse portfolio YAML")
		return nil, err
	}

	err = p.Validate()
	if err != nil {
		err = errors.Wrap(err, "portfolio validation failed")
		return nil, err
	}
	return p, err
}

// Validate checks that the portfolio is well-formed: unique project IDs and
// every category drawn from the closed sets.
func (p *Portfolio) Validate() (err error) {
	if p.Profile.Name == "" {
		err = errors.New("profile name is required")
		return err
	}

	seen := make(map[int]bool, len(p.Projects))
	for i, project := range p.Projects {
		if project.Title == "" {
			err = errors.Errorf("project at index %d missing title", i)
			return err
		}
		if seen[project.ID] {
			err = errors.Errorf("duplicate project id %d", project.ID)
			return err
		}
		seen[project.ID] = true
		if !projectCategories[project.Category] {
			err = errors.Errorf("project %d has unknown category %q", project.ID, project.Category)
			return err
		}
	}

	for i, skill := range p.Skills {
		if skill.Name == "" {
			err = errors.Errorf("skill at index %d missing name", i)
			return err
		}
		if !skillCategories[skill.Category] {
			err = errors.Errorf("skill %s has unknown category %q", skill.Name, skill.Category)
			return err
		}
	}

	for _, tab := range p.ProjectCategories {
		if !IsProjectCategory(tab.ID) {
			err = errors.Errorf("unknown project category tab %q", tab.ID)
			return err
		}
	}
	for _, tab := range p.SkillTabs {
		if !IsSkillCategory(tab.ID) {
			err = errors.Errorf("unknown skills tab %q", tab.ID)
			return err
		}
	}

	return err
}

// DefaultSkillTab returns the tab selected when the page first renders.
func (p *Portfolio) DefaultSkillTab() string {
	if len(p.SkillTabs) > 0 {
		return p.SkillTabs[0].ID
	}
	return string(SkillFrontend)
}
