package configloader

import (
	"fmt"
	"os"
	"sort"
	"strconv"

	"github.com/yaklabco/mdview/pkg/config"
)

// envVarPrefix is the prefix for all mdview environment variables.
const envVarPrefix = "MDVIEW_"

// envFieldType represents the type of a configuration field.
type envFieldType int

const (
	envTypeString envFieldType = iota
	envTypeBool
	envTypeInt
)

// envMapping defines environment variable to config field mappings.
type envMapping struct {
	field       string
	typ         envFieldType
	description string
}

// envMappings maps environment variable names (without prefix) to config fields.
//
//nolint:gochecknoglobals // Read-only lookup table.
var envMappings = map[string]envMapping{
	"FLAVOR":                      {field: "flavor", typ: envTypeString, description: "Markdown flavor: commonmark or gfm"},
	"LINKS_ONLY":                  {field: "links_only", typ: envTypeBool, description: "Only recognize links: true or false"},
	"WIDTH":                       {field: "width", typ: envTypeInt, description: "Render width in cells (0 = terminal width)"},
	"FALLBACK_LANGUAGE":           {field: "fallback_language", typ: envTypeString, description: "Fallback code block language, or auto"},
	"LOG_LEVEL":                   {field: "log_level", typ: envTypeString, description: "Log level: debug, info, warn, or error"},
	"COLOR":                       {field: "color", typ: envTypeString, description: "Color output: auto, always, or never"},
	"THEME_SYNTAX":                {field: "theme.syntax", typ: envTypeString, description: "Chroma style for code blocks"},
	"THEME_SELECTION":             {field: "theme.selection", typ: envTypeString, description: "Selection background color"},
	"THEME_LINK":                  {field: "theme.link", typ: envTypeString, description: "Link color"},
	"THEME_INLINE_CODE":           {field: "theme.inline_code", typ: envTypeString, description: "Inline code color"},
	"THEME_CODE_BLOCK_BACKGROUND": {field: "theme.code_block_background", typ: envTypeString, description: "Code block background color"},
	"THEME_BLOCK_QUOTE_BORDER":    {field: "theme.block_quote_border", typ: envTypeString, description: "Block quote border color"},
	"THEME_RULE":                  {field: "theme.rule", typ: envTypeString, description: "Thematic break color"},
}

// LoadFromEnv applies environment variable overrides to the configuration.
// Environment variables are prefixed with MDVIEW_ (e.g., MDVIEW_FLAVOR).
func LoadFromEnv(cfg *config.Config) error {
	if cfg == nil {
		return nil
	}

	for envSuffix, mapping := range envMappings {
		envVar := envVarPrefix + envSuffix
		value := os.Getenv(envVar)
		if value == "" {
			continue
		}

		if err := applyEnvValue(cfg, mapping, value, envVar); err != nil {
			return err
		}
	}

	return nil
}

// applyEnvValue applies a single environment variable value to the config.
func applyEnvValue(cfg *config.Config, mapping envMapping, value, envVar string) error {
	switch mapping.typ {
	case envTypeString:
		return setStringField(cfg, mapping.field, value)
	case envTypeBool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean for %s: %q (expected true/false/1/0)", envVar, value)
		}
		return setBoolField(cfg, mapping.field, b)
	case envTypeInt:
		i, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer for %s: %q", envVar, value)
		}
		return setIntField(cfg, mapping.field, i)
	default:
		return fmt.Errorf("unknown field type for %s", envVar)
	}
}

// setStringField sets a string field on the config by field path.
func setStringField(cfg *config.Config, field, value string) error {
	switch field {
	case "flavor":
		cfg.Flavor = config.Flavor(value)
	case "fallback_language":
		cfg.FallbackLanguage = value
	case "log_level":
		cfg.LogLevel = value
	case "color":
		cfg.Color = config.ColorMode(value)
	case "theme.syntax":
		cfg.Theme.Syntax = value
	case "theme.selection":
		cfg.Theme.Selection = value
	case "theme.link":
		cfg.Theme.Link = value
	case "theme.inline_code":
		cfg.Theme.InlineCode = value
	case "theme.code_block_background":
		cfg.Theme.CodeBlockBackground = value
	case "theme.block_quote_border":
		cfg.Theme.BlockQuoteBorder = value
	case "theme.rule":
		cfg.Theme.Rule = value
	default:
		return fmt.Errorf("unknown string field: %s", field)
	}
	return nil
}

// setBoolField sets a boolean field on the config by field path.
func setBoolField(cfg *config.Config, field string, value bool) error {
	switch field {
	case "links_only":
		cfg.LinksOnly = &value
	default:
		return fmt.Errorf("unknown boolean field: %s", field)
	}
	return nil
}

// setIntField sets an integer field on the config by field path.
func setIntField(cfg *config.Config, field string, value int) error {
	switch field {
	case "width":
		cfg.Width = value
	default:
		return fmt.Errorf("unknown integer field: %s", field)
	}
	return nil
}

// GetEnvVarName returns the full environment variable name for a config field.
func GetEnvVarName(field string) string {
	for suffix, mapping := range envMappings {
		if mapping.field == field {
			return envVarPrefix + suffix
		}
	}
	return ""
}

// EnvVar describes one supported environment variable.
type EnvVar struct {
	Name        string
	Description string
}

// ListEnvVars returns all supported environment variables sorted by name.
func ListEnvVars() []EnvVar {
	vars := make([]EnvVar, 0, len(envMappings))
	for suffix, mapping := range envMappings {
		vars = append(vars, EnvVar{Name: envVarPrefix + suffix, Description: mapping.description})
	}
	sort.Slice(vars, func(i, j int) bool { return vars[i].Name < vars[j].Name })
	return vars
}
