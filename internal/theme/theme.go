// Package theme defines the theme document tree stored by themestore.
//
// A Theme is the root of an educational content tree:
//
//	Theme → SubTheme → Difficulty → Question → Resource
//
// Themes are identified by name, case-insensitively. [Key] gives the
// normalized form used as cache key and file stem, so renaming a theme
// always moves it to a different key.
package theme

import (
	"reflect"
	"strings"
)

// Theme is a stored document.
type Theme struct {
	Name      string     `json:"name" toml:"name"`
	SubThemes []SubTheme `json:"sub_themes" toml:"sub_themes"`
}

// SubTheme groups questions of one topic by difficulty.
type SubTheme struct {
	Name         string       `json:"name" toml:"name"`
	Difficulties []Difficulty `json:"difficulties" toml:"difficulties"`
}

// Difficulty holds the questions for one difficulty level.
type Difficulty struct {
	Level     Level      `json:"level" toml:"level"`
	Questions []Question `json:"questions" toml:"questions"`
}

// Question is a single question and the resources it is presented with.
type Question struct {
	ID        uint32     `json:"id" toml:"id"`
	Resources []Resource `json:"resources" toml:"resources"`
}

// Resource points at media used by a question.
type Resource struct {
	Name string       `json:"resource_name" toml:"resource_name"`
	Type ResourceType `json:"resource_type" toml:"resource_type"`
	URI  string       `json:"resource_uri" toml:"resource_uri"`
}

// Key returns the storage key for a theme name: the lowercased name.
func Key(name string) string {
	return strings.ToLower(name)
}

// New creates an empty theme.
func New(name string) *Theme {
	return &Theme{Name: name, SubThemes: []SubTheme{}}
}

// Key returns the storage key of the theme.
func (t *Theme) Key() string {
	return Key(t.Name)
}

// AddSubTheme appends a subtheme.
func (t *Theme) AddSubTheme(s SubTheme) {
	t.SubThemes = append(t.SubThemes, s)
}

// NewSubTheme creates an empty subtheme.
func NewSubTheme(name string) SubTheme {
	return SubTheme{Name: name, Difficulties: []Difficulty{}}
}

// AddDifficulty appends a difficulty.
func (s *SubTheme) AddDifficulty(d Difficulty) {
	s.Difficulties = append(s.Difficulties, d)
}

// NewDifficulty creates an empty difficulty of the given level.
func NewDifficulty(level Level) Difficulty {
	return Difficulty{Level: level, Questions: []Question{}}
}

// AddQuestion appends a question.
func (d *Difficulty) AddQuestion(q Question) {
	d.Questions = append(d.Questions, q)
}

// NewQuestion creates a question with the given resources.
func NewQuestion(id uint32, resources ...Resource) Question {
	if resources == nil {
		resources = []Resource{}
	}
	return Question{ID: id, Resources: resources}
}

// Clone returns a deep copy of the theme.
func (t *Theme) Clone() *Theme {
	if t == nil {
		return nil
	}
	c := &Theme{Name: t.Name, SubThemes: make([]SubTheme, len(t.SubThemes))}
	for i, s := range t.SubThemes {
		cs := SubTheme{Name: s.Name, Difficulties: make([]Difficulty, len(s.Difficulties))}
		for j, d := range s.Difficulties {
			cd := Difficulty{Level: d.Level, Questions: make([]Question, len(d.Questions))}
			for k, q := range d.Questions {
				cd.Questions[k] = Question{ID: q.ID, Resources: append([]Resource{}, q.Resources...)}
			}
			cs.Difficulties[j] = cd
		}
		c.SubThemes[i] = cs
	}
	return c
}

// Normalize replaces nil slices with empty ones so that decoded and
// constructed themes compare equal. Decoders produce nil for absent or
// null arrays.
func (t *Theme) Normalize() {
	if t.SubThemes == nil {
		t.SubThemes = []SubTheme{}
	}
	for i := range t.SubThemes {
		s := &t.SubThemes[i]
		if s.Difficulties == nil {
			s.Difficulties = []Difficulty{}
		}
		for j := range s.Difficulties {
			d := &s.Difficulties[j]
			if d.Questions == nil {
				d.Questions = []Question{}
			}
			for k := range d.Questions {
				if d.Questions[k].Resources == nil {
					d.Questions[k].Resources = []Resource{}
				}
			}
		}
	}
}

// Equal reports whether two themes hold the same tree. Nil and empty
// slices are treated alike.
func Equal(a, b *Theme) bool {
	if a == nil || b == nil {
		return a == b
	}
	ca, cb := a.Clone(), b.Clone()
	ca.Normalize()
	cb.Normalize()
	return reflect.DeepEqual(ca, cb)
}
