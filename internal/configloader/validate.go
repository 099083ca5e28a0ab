package configloader

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/yaklabco/mdview/pkg/config"
	"github.com/yaklabco/mdview/pkg/highlight"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	// Field is the path to the invalid field (e.g., "theme.link").
	Field string

	// Value is the invalid value.
	Value any

	// Message describes the validation error.
	Message string

	// FilePath is the config file containing the error (if known).
	FilePath string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	var parts []string
	if e.FilePath != "" {
		parts = append(parts, e.FilePath)
	}
	if e.Field != "" {
		parts = append(parts, e.Field)
	}
	parts = append(parts, e.Message)
	return strings.Join(parts, ": ")
}

// ValidationResult contains all validation findings.
type ValidationResult struct {
	// Errors are validation failures that prevent loading.
	Errors []ValidationError

	// Warnings are non-fatal issues (e.g., unknown languages).
	Warnings []ValidationError
}

// Valid returns true if there are no errors.
func (r *ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

// HasWarnings returns true if there are any warnings.
func (r *ValidationResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// AllMessages returns all error and warning messages combined.
func (r *ValidationResult) AllMessages() []string {
	messages := make([]string, 0, len(r.Errors)+len(r.Warnings))
	for _, e := range r.Errors {
		messages = append(messages, "error: "+e.Error())
	}
	for _, w := range r.Warnings {
		messages = append(messages, "warning: "+w.Error())
	}
	return messages
}

//nolint:gochecknoglobals // Read-only lookup table.
var knownFlavors = map[config.Flavor]bool{
	config.FlavorCommonMark: true,
	config.FlavorGFM:        true,
}

//nolint:gochecknoglobals // Read-only lookup table.
var knownLogLevels = map[string]bool{
	config.LogLevelDebug: true,
	config.LogLevelInfo:  true,
	config.LogLevelWarn:  true,
	config.LogLevelError: true,
}

//nolint:gochecknoglobals // Read-only lookup table.
var knownColorModes = map[config.ColorMode]bool{
	config.ColorAuto:   true,
	config.ColorAlways: true,
	config.ColorNever:  true,
}

//nolint:gochecknoglobals // Compiled once.
var hexColorPattern = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

const maxANSIColor = 255

// Validate checks a configuration for errors and warnings.
func Validate(cfg *config.Config) *ValidationResult {
	result := &ValidationResult{}
	if cfg == nil {
		return result
	}

	if cfg.Flavor != "" && !knownFlavors[cfg.Flavor] {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "flavor",
			Value:   cfg.Flavor,
			Message: fmt.Sprintf("invalid flavor %q; must be one of: commonmark, gfm", cfg.Flavor),
		})
	}

	if cfg.Width < 0 {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "width",
			Value:   cfg.Width,
			Message: "width must be >= 0 (0 means terminal width)",
		})
	}

	if cfg.LogLevel != "" && !knownLogLevels[cfg.LogLevel] {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "log_level",
			Value:   cfg.LogLevel,
			Message: fmt.Sprintf("invalid log level %q; must be one of: debug, info, warn, error", cfg.LogLevel),
		})
	}

	if cfg.Color != "" && !knownColorModes[cfg.Color] {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "color",
			Value:   cfg.Color,
			Message: fmt.Sprintf("invalid color mode %q; must be one of: auto, always, never", cfg.Color),
		})
	}

	if lang := cfg.FallbackLanguage; lang != "" && lang != config.FallbackAuto && !highlight.LanguageExists(lang) {
		result.Warnings = append(result.Warnings, ValidationError{
			Field:   "fallback_language",
			Value:   lang,
			Message: fmt.Sprintf("unknown language %q; code blocks will not fall back to it", lang),
		})
	}

	validateTheme(cfg.Theme, result)

	return result
}

func validateTheme(theme config.ThemeConfig, result *ValidationResult) {
	if theme.Syntax != "" && !highlight.ThemeExists(theme.Syntax) {
		result.Warnings = append(result.Warnings, ValidationError{
			Field:   "theme.syntax",
			Value:   theme.Syntax,
			Message: fmt.Sprintf("unknown syntax theme %q; the default theme is used", theme.Syntax),
		})
	}

	colors := theme.Colors()
	names := make([]string, 0, len(colors))
	for name := range colors {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		value := colors[name]
		if value == "" || IsValidColor(value) {
			continue
		}
		result.Errors = append(result.Errors, ValidationError{
			Field:   "theme." + name,
			Value:   value,
			Message: fmt.Sprintf("invalid color %q; use #rgb, #rrggbb, or an ANSI color number 0-255", value),
		})
	}
}

// ValidateWithFile validates configuration and includes file path in errors.
func ValidateWithFile(cfg *config.Config, filePath string) *ValidationResult {
	result := Validate(cfg)
	for i := range result.Errors {
		result.Errors[i].FilePath = filePath
	}
	for i := range result.Warnings {
		result.Warnings[i].FilePath = filePath
	}
	return result
}

// IsValidColor reports whether s is a hex color or an ANSI color number.
func IsValidColor(s string) bool {
	if hexColorPattern.MatchString(s) {
		return true
	}
	n, err := strconv.Atoi(s)
	return err == nil && n >= 0 && n <= maxANSIColor
}

// IsValidFlavor returns true if the flavor is valid.
func IsValidFlavor(f config.Flavor) bool {
	return knownFlavors[f]
}

// IsValidColorMode returns true if the color mode is valid.
func IsValidColorMode(m config.ColorMode) bool {
	return knownColorModes[m]
}
