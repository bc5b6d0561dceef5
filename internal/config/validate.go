package config

import (
	"fmt"
	"slices"
	"strings"
)

// Valid enum values for configuration fields.
var (
	ValidFormats        = []string{"json", "toml"}
	ValidRemovePolicies = []string{"strict", "lenient"}
)

// Validate checks field values. Empty enum values are accepted; Finalize
// replaces them with defaults.
func (c *Config) Validate() error {
	if err := ValidatePath(c.DataDir, "data_dir"); err != nil {
		return err
	}
	if err := ValidatePath(c.ResourcesDir, "resources_dir"); err != nil {
		return err
	}
	if err := validateEnum(c.Format, "format", ValidFormats); err != nil {
		return err
	}
	if err := validateEnum(c.Cache.RemovePolicy, "cache.remove_policy", ValidRemovePolicies); err != nil {
		return err
	}
	if c.Flush.Interval < 0 {
		return fmt.Errorf("invalid flush.interval %s: must be positive", c.Flush.Interval)
	}
	return nil
}

// ValidateFormat validates a storage format value against ValidFormats.
// Exported for use in CLI flag validation.
func ValidateFormat(format string) error {
	return validateEnum(format, "format", ValidFormats)
}

// validateEnum checks that value (if non-empty) is one of the allowed values.
// Returns a formatted error mentioning the field name and allowed options.
func validateEnum(value, field string, allowed []string) error {
	if value == "" {
		return nil
	}
	if !slices.Contains(allowed, value) {
		return fmt.Errorf("invalid %s %q: must be %s", field, value, formatOptions(allowed))
	}
	return nil
}

// formatOptions formats a list of allowed values for error messages.
// E.g., ["a", "b", "c"] -> `"a", "b", or "c"`
func formatOptions(opts []string) string {
	quoted := make([]string, len(opts))
	for i, o := range opts {
		quoted[i] = fmt.Sprintf("%q", o)
	}
	if len(quoted) <= 2 {
		return strings.Join(quoted, " or ")
	}
	return strings.Join(quoted[:len(quoted)-1], ", ") + ", or " + quoted[len(quoted)-1]
}
