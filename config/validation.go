package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validate checks cfg against the struct tags plus the custom hostpattern
// rule for allow-list entries.
func Validate(cfg *Config) error {
	v := validator.New()
	if err := v.RegisterValidation("hostpattern", validateHostPattern); err != nil {
		return fmt.Errorf("failed to register hostpattern validator: %w", err)
	}

	if err := v.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("field %s failed on rule %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value())
		}
		return err
	}

	return nil
}

// validateHostPattern accepts exact hostnames and "*.domain" wildcards.
// Schemes, whitespace, and interior wildcards are configuration mistakes
// that would silently never match, so they are rejected up front.
func validateHostPattern(fl validator.FieldLevel) bool {
	entry := fl.Field().String()
	if entry == "" {
		return false
	}
	if strings.Contains(entry, "://") {
		return false
	}
	if strings.ContainsAny(entry, " \t\n") {
		return false
	}

	rest := entry
	if cut, ok := strings.CutPrefix(entry, "*."); ok {
		rest = cut
		if rest == "" {
			return false
		}
	}
	// A "*" anywhere but the leading label never matches.
	return !strings.Contains(rest, "*")
}
