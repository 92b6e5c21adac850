package content

// FilterProjects returns the projects whose category equals key, in their
// original order. The key "all" returns every project. An unknown key yields
// an empty slice.
func FilterProjects(projects []Project, key string) []Project {
	filtered := make([]Project, 0, len(projects))
	for _, p := range projects {
		if key == All || string(p.Category) == key {
			filtered = append(filtered, p)
		}
	}
	return filtered
}

// SkillsFor returns the skills under the given tab, in their original order.
// The key "all" returns every skill. An unknown key yields an empty slice.
func SkillsFor(skills []Skill, tab string) []Skill {
	filtered := make([]Skill, 0, len(skills))
	for _, s := range skills {
		if tab == All || string(s.Category) == tab {
			filtered = append(filtered, s)
		}
	}
	return filtered
}

// IsProjectCategory reports whether key is "all" or a known project category.
func IsProjectCategory(key string) bool {
	return key == All || projectCategories[Category(key)]
}

// IsSkillCategory reports whether key is a known skills tab.
func IsSkillCategory(key string) bool {
	return skillCategories[SkillCategory(key)]
}
