package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var structValidator = newStructValidator()

func newStructValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("toml"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	return v
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := structValidator.Struct(c); err != nil {
		return formatValidationError(err)
	}
	if err := c.validatePaths(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if filepath.Clean(c.Paths.OutputDir) == filepath.Clean(c.Paths.TempDir) {
		return errors.New("paths.output_dir and paths.temp_dir must differ")
	}
	return nil
}

// formatValidationError reports the first failing field using its TOML key.
func formatValidationError(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return fmt.Errorf("validate config: %w", err)
	}
	first := fieldErrs[0]
	key := tomlKey(first.Namespace())
	switch first.Tag() {
	case "required":
		return fmt.Errorf("%s must be set", key)
	case "oneof":
		return fmt.Errorf("%s must be one of [%s], got %q", key, first.Param(), first.Value())
	case "min":
		return fmt.Errorf("%s must be at least %s", key, first.Param())
	case "max":
		return fmt.Errorf("%s must be at most %s", key, first.Param())
	default:
		return fmt.Errorf("%s is invalid (%s)", key, first.Tag())
	}
}

// tomlKey turns "Config.ffmpeg.probe_concurrency" into "ffmpeg.probe_concurrency".
func tomlKey(namespace string) string {
	if _, rest, ok := strings.Cut(namespace, "."); ok {
		return rest
	}
	return namespace
}
