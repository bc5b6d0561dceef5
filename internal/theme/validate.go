package theme

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid theme")

// ValidateName checks that name is usable as a theme identity. The key
// doubles as a file stem, so anything that could escape the data
// directory or hide the file is rejected.
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalid)
	}
	key := Key(name)
	switch {
	case strings.ContainsAny(key, `/\`):
		return fmt.Errorf("%w: name %q must not contain path separators", ErrInvalid, name)
	case strings.ContainsRune(key, 0):
		return fmt.Errorf("%w: name %q must not contain NUL", ErrInvalid, name)
	case strings.HasPrefix(key, "."):
		return fmt.Errorf("%w: name %q must not start with a dot", ErrInvalid, name)
	}
	return nil
}

// Validate checks that t can be keyed and encoded: a safe name and known
// enum values. Subtheme names and question ids are not constrained.
func (t *Theme) Validate() error {
	if t == nil {
		return fmt.Errorf("%w: missing document", ErrInvalid)
	}
	if err := ValidateName(t.Name); err != nil {
		return err
	}
	for i, s := range t.SubThemes {
		for j, d := range s.Difficulties {
			if !d.Level.Valid() {
				return fmt.Errorf("%w: sub_themes[%d].difficulties[%d]: unknown level %d", ErrInvalid, i, j, d.Level)
			}
			for k, q := range d.Questions {
				for r, res := range q.Resources {
					if !res.Type.Valid() {
						return fmt.Errorf("%w: sub_themes[%d].difficulties[%d].questions[%d].resources[%d]: unknown type %d",
							ErrInvalid, i, j, k, r, res.Type)
					}
				}
			}
		}
	}
	return nil
}
