// Package configloader provides configuration loading and resolution.
// It implements XDG-compliant configuration discovery, hierarchical merging,
// environment variable support and validation.
package configloader

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/yaklabco/mdview/pkg/config"
	"github.com/yaklabco/mdview/pkg/fsutil"
)

// configFilePermissions is the file mode for configuration files (world-readable).
const configFilePermissions = 0o644

// LoadOptions controls configuration loading behavior.
type LoadOptions struct {
	// WorkingDir is the directory to search from for project config.
	// Defaults to current working directory if empty.
	WorkingDir string

	// ExplicitPath is an explicit config file path (from --config flag).
	ExplicitPath string

	// IgnoreSystemConfig skips loading system-level configuration.
	IgnoreSystemConfig bool

	// IgnoreUserConfig skips loading user-level configuration.
	IgnoreUserConfig bool

	// IgnoreProjectConfig skips loading project-level configuration.
	IgnoreProjectConfig bool

	// IgnoreEnv skips loading environment variables.
	IgnoreEnv bool

	// CLIConfig contains configuration from CLI flags.
	// These take highest precedence.
	CLIConfig *config.Config
}

// LoadResult contains the resolved configuration and metadata.
type LoadResult struct {
	// Config is the final merged configuration.
	Config *config.Config

	// Paths contains the discovered configuration file paths.
	Paths *ConfigPaths

	// LoadedFrom lists the files that were actually loaded (in order).
	LoadedFrom []string

	// Warnings contains non-fatal issues encountered during loading.
	Warnings []string
}

// Load resolves the final configuration by merging all sources.
// Precedence (highest to lowest):
//  1. CLI flags (opts.CLIConfig)
//  2. Environment variables (MDVIEW_*)
//  3. Explicit config file (opts.ExplicitPath)
//  4. Project config (.mdview.yml upward search)
//  5. User config ($XDG_CONFIG_HOME/mdview/config.yaml)
//  6. System config (/etc/mdview/config.yaml)
//  7. Defaults
func Load(ctx context.Context, opts LoadOptions) (*LoadResult, error) {
	workDir := opts.WorkingDir
	if workDir == "" {
		var err error
		workDir, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("get working directory: %w", err)
		}
	}

	paths, err := DiscoverPaths(ctx, workDir)
	if err != nil {
		return nil, fmt.Errorf("discover paths: %w", err)
	}
	paths.Explicit = opts.ExplicitPath

	result := &LoadResult{Paths: paths}
	cfg := config.NewConfig()
	seen := make(map[string]bool)
	warn := func(w ValidationError) {
		key := w.Field + "\x00" + w.Message
		if !seen[key] {
			seen[key] = true
			result.Warnings = append(result.Warnings, w.Error())
		}
	}

	layers := []struct {
		name    string
		path    string
		enabled bool
	}{
		{name: "system", path: paths.System, enabled: !opts.IgnoreSystemConfig},
		{name: "user", path: paths.User, enabled: !opts.IgnoreUserConfig},
		{name: "project", path: paths.Project, enabled: !opts.IgnoreProjectConfig},
		{name: "explicit", path: paths.Explicit, enabled: true},
	}
	for _, layer := range layers {
		if !layer.enabled || layer.path == "" {
			continue
		}
		fileCfg, err := loadConfigFile(layer.path)
		if err != nil {
			return nil, fmt.Errorf("load %s config: %w", layer.name, err)
		}

		validation := ValidateWithFile(fileCfg, layer.path)
		if !validation.Valid() {
			return nil, &validation.Errors[0]
		}
		for _, w := range validation.Warnings {
			warn(w)
		}

		cfg = merge(cfg, fileCfg)
		result.LoadedFrom = append(result.LoadedFrom, layer.path)
	}

	if !opts.IgnoreEnv {
		if err := LoadFromEnv(cfg); err != nil {
			return nil, fmt.Errorf("load environment: %w", err)
		}
	}

	if opts.CLIConfig != nil {
		cfg = merge(cfg, opts.CLIConfig)
	}

	validation := Validate(cfg)
	if !validation.Valid() {
		return nil, &validation.Errors[0]
	}
	// Warnings already reported against a file are not repeated.
	for _, w := range validation.Warnings {
		warn(w)
	}

	result.Config = cfg
	return result, nil
}

// loadConfigFile loads a configuration from a YAML file.
func loadConfigFile(path string) (*config.Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	cfg := &config.Config{}
	if err := yaml.Unmarshal(content, cfg); err != nil {
		return nil, fmt.Errorf("parse YAML: %w", err)
	}
	return cfg, nil
}

// WriteTemplate writes a configuration template to path. It refuses to
// overwrite an existing file unless force is set.
func WriteTemplate(ctx context.Context, path string, opts config.TemplateOptions, force bool) error {
	if !force && fileExists(path) {
		return fmt.Errorf("%s: %w", path, os.ErrExist)
	}

	if err := fsutil.WriteAtomic(ctx, path, config.GenerateTemplate(opts), configFilePermissions); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	return nil
}
