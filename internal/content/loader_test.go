package content

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPortfolio(t *testing.T) {
	p, err := Default()
	require.NoError(t, err)

	assert.Equal(t, "Emmanuel Ruiz", p.Profile.Name)
	assert.Len(t, p.Projects, 6)
	assert.Len(t, FilterProjects(p.Projects, "backend"), 4)
	assert.Len(t, SkillsFor(p.Skills, "databases"), 4)
	assert.Equal(t, "frontend", p.DefaultSkillTab())
	assert.Equal(t, "all", p.ProjectCategories[0].ID)
	assert.Equal(t, "Inicio", p.Navigation["home"])
}

func TestParseRejectsUnknownCategory(t *testing.T) {
	doc := `
profile: {name: Test}
projects:
  - {id: 1, title: A, category: desktop}
`
	_, err := Parse([]byte(doc))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown category")
}

func TestParseRejectsDuplicateIDs(t *testing.T) {
	doc := `
profile: {name: Test}
projects:
  - {id: 1, title: A, category: backend}
  - {id: 1, title: B, category: frontend}
`
	_, err := Parse([]byte(doc))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate project id 1")
}

func TestParseRejectsUnknownSkillTab(t *testing.T) {
	doc := `
profile: {name: Test}
skill_tabs:
  - {id: all, label: Everything}
`
	_, err := Parse([]byte(doc))
	require.Error(t, err)
}

func TestParseRequiresProfileName(t *testing.T) {
	_, err := Parse([]byte("projects: []"))
	require.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "portfolio.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
profile: {name: Ada Lovelace}
projects:
  - {id: 7, title: Engine, category: backend, tech: [Notes]}
skills:
  - {name: Maths, category: tools}
`), 0o600))

	p, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "AL", p.Profile.Initials())
	assert.Len(t, p.Projects, 1)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "failed to read portfolio file"))
}

func TestInitials(t *testing.T) {
	tests := map[string]string{
		"Emmanuel Ruiz":         "ER",
		"madonna":               "M",
		"  jean  luc  picard  ": "JL",
		"":                      "",
		"Óscar Núñez":           "ÓN",
		"álvaro ruiz":           "ÁR",
	}
	for name, want := range tests {
		if got := (Profile{Name: name}).Initials(); got != want {
			t.Errorf("Initials(%q) = %q, want %q", name, got, want)
		}
	}
}

func TestRendererSanitizes(t *testing.T) {
	r := NewRenderer()
	out := string(r.HTML("**bold** <script>alert(1)</script>"))
	assert.Contains(t, out, "<strong>bold</strong>")
	assert.NotContains(t, out, "<script>")

	assert.Equal(t, "hi", Sanitize("<b>hi</b>"))
}

func TestStoreReloadKeepsRevisionOnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "portfolio.yaml")
	require.NoError(t, os.WriteFile(path, []byte("profile: {name: First}"), 0o600))

	s, err := Open(path)
	require.NoError(t, err)
	assert.Equal(t, "First", s.Current().Profile.Name)

	require.NoError(t, os.WriteFile(path, []byte("profile: {name: ''}"), 0o600))
	require.Error(t, s.Reload())
	assert.Equal(t, "First", s.Current().Profile.Name)

	require.NoError(t, os.WriteFile(path, []byte("profile: {name: Second}"), 0o600))
	require.NoError(t, s.Reload())
	assert.Equal(t, "Second", s.Current().Profile.Name)
}

func TestOpenEmbedded(t *testing.T) {
	s, err := Open("")
	require.NoError(t, err)
	assert.Empty(t, s.Source())
	assert.NoError(t, s.Reload())
	assert.NotNil(t, s.Current())
}
