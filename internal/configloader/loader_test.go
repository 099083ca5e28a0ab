package configloader

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/yaklabco/mdview/pkg/config"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func isolated(workDir string) LoadOptions {
	return LoadOptions{
		WorkingDir:         workDir,
		IgnoreSystemConfig: true,
		IgnoreUserConfig:   true,
		IgnoreEnv:          true,
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Parallel()

	result, err := Load(context.Background(), isolated(t.TempDir()))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if result.Config == nil {
		t.Fatal("Load() returned nil config")
	}
	if result.Config.Flavor != config.FlavorGFM {
		t.Errorf("expected flavor %q, got %q", config.FlavorGFM, result.Config.Flavor)
	}
	if result.Config.LogLevel != config.LogLevelWarn {
		t.Errorf("expected log level %q, got %q", config.LogLevelWarn, result.Config.LogLevel)
	}
	if len(result.LoadedFrom) != 0 {
		t.Errorf("expected no loaded files, got %v", result.LoadedFrom)
	}
}

func TestLoad_ProjectConfig(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, ".mdview.yml"), `
flavor: commonmark
width: 72
fallback_language: auto
theme:
  link: "#ff00ff"
`)

	// Discovery walks upward from a nested directory.
	nested := filepath.Join(tmpDir, "docs", "guide")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	result, err := Load(context.Background(), isolated(nested))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	cfg := result.Config
	if cfg.Flavor != config.FlavorCommonMark {
		t.Errorf("expected flavor %q, got %q", config.FlavorCommonMark, cfg.Flavor)
	}
	if cfg.Width != 72 {
		t.Errorf("expected width 72, got %d", cfg.Width)
	}
	if cfg.FallbackLanguage != config.FallbackAuto {
		t.Errorf("expected fallback %q, got %q", config.FallbackAuto, cfg.FallbackLanguage)
	}
	if cfg.Theme.Link != "#ff00ff" {
		t.Errorf("expected link color #ff00ff, got %q", cfg.Theme.Link)
	}
	if len(result.LoadedFrom) != 1 {
		t.Errorf("expected 1 loaded file, got %d", len(result.LoadedFrom))
	}
}

func TestLoad_StopsAtVCSRoot(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, ".mdview.yml"), "width: 10\n")
	repo := filepath.Join(tmpDir, "repo")
	if err := os.MkdirAll(filepath.Join(repo, ".git"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	path, err := FindProjectConfig(context.Background(), repo)
	if err != nil {
		t.Fatalf("FindProjectConfig() error = %v", err)
	}
	if path != "" {
		t.Errorf("expected search to stop at the repository root, found %q", path)
	}
}

func TestLoad_ExplicitConfigOverridesProject(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, ".mdview.yaml"), "flavor: commonmark\nwidth: 50\n")
	customPath := filepath.Join(tmpDir, "custom.yml")
	writeFile(t, customPath, "width: 90\nlinks_only: true\n")

	opts := isolated(tmpDir)
	opts.ExplicitPath = customPath

	result, err := Load(context.Background(), opts)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if result.Config.Flavor != config.FlavorCommonMark {
		t.Errorf("project flavor should survive, got %q", result.Config.Flavor)
	}
	if result.Config.Width != 90 {
		t.Errorf("expected width 90 from explicit config, got %d", result.Config.Width)
	}
	if !result.Config.IsLinksOnly() {
		t.Error("expected links_only from explicit config")
	}
	if len(result.LoadedFrom) != 2 || result.LoadedFrom[1] != customPath {
		t.Errorf("expected project then explicit config, got %v", result.LoadedFrom)
	}
}

func TestLoad_CLIOverrides(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, ".mdview.yml"), "flavor: commonmark\nlinks_only: true\n")

	linksOnly := false
	opts := isolated(tmpDir)
	opts.CLIConfig = &config.Config{
		Flavor:    config.FlavorGFM,
		LinksOnly: &linksOnly,
		Color:     config.ColorNever,
	}

	result, err := Load(context.Background(), opts)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if result.Config.Flavor != config.FlavorGFM {
		t.Errorf("expected flavor %q (CLI override), got %q", config.FlavorGFM, result.Config.Flavor)
	}
	if result.Config.IsLinksOnly() {
		t.Error("an explicit false from the CLI should turn links_only off")
	}
	if result.Config.Color != config.ColorNever {
		t.Errorf("expected color %q, got %q", config.ColorNever, result.Config.Color)
	}
}

func TestLoad_UserConfig(t *testing.T) {
	configHome := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", configHome)
	writeFile(t, filepath.Join(configHome, "mdview", "config.yaml"), "log_level: debug\n")

	opts := isolated(t.TempDir())
	opts.IgnoreUserConfig = false

	result, err := Load(context.Background(), opts)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if result.Config.LogLevel != config.LogLevelDebug {
		t.Errorf("expected log level from user config, got %q", result.Config.LogLevel)
	}
	if result.Paths.User == "" {
		t.Error("expected the user config path to be reported")
	}
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("MDVIEW_WIDTH", "33")
	t.Setenv("MDVIEW_LINKS_ONLY", "true")
	t.Setenv("MDVIEW_THEME_SYNTAX", "dracula")

	opts := isolated(t.TempDir())
	opts.IgnoreEnv = false

	result, err := Load(context.Background(), opts)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if result.Config.Width != 33 {
		t.Errorf("expected width 33, got %d", result.Config.Width)
	}
	if !result.Config.IsLinksOnly() {
		t.Error("expected links_only from environment")
	}
	if result.Config.Theme.Syntax != "dracula" {
		t.Errorf("expected syntax theme from environment, got %q", result.Config.Theme.Syntax)
	}
}

func TestLoad_EnvironmentInvalidValue(t *testing.T) {
	t.Setenv("MDVIEW_WIDTH", "wide")

	opts := isolated(t.TempDir())
	opts.IgnoreEnv = false

	_, err := Load(context.Background(), opts)
	if err == nil || !strings.Contains(err.Error(), "MDVIEW_WIDTH") {
		t.Fatalf("expected an error naming MDVIEW_WIDTH, got %v", err)
	}
}

func TestLoad_InvalidConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		field   string
	}{
		{name: "flavor", content: "flavor: invalid-flavor\n", field: "flavor"},
		{name: "width", content: "width: -1\n", field: "width"},
		{name: "log level", content: "log_level: loud\n", field: "log_level"},
		{name: "color", content: "theme:\n  rule: red\n", field: "theme.rule"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tmpDir := t.TempDir()
			path := filepath.Join(tmpDir, ".mdview.yml")
			writeFile(t, path, tt.content)

			_, err := Load(context.Background(), isolated(tmpDir))
			var validationErr *ValidationError
			if !errors.As(err, &validationErr) {
				t.Fatalf("expected *ValidationError, got %v", err)
			}
			if validationErr.Field != tt.field {
				t.Errorf("expected field %q, got %q", tt.field, validationErr.Field)
			}
			if validationErr.FilePath != path {
				t.Errorf("expected file path %q, got %q", path, validationErr.FilePath)
			}
		})
	}
}

func TestLoad_Warnings(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, ".mdview.yml"), "fallback_language: klingon\ntheme:\n  syntax: no-such-style\n")

	result, err := Load(context.Background(), isolated(tmpDir))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(result.Warnings) != 2 {
		t.Fatalf("expected 2 warnings reported once each, got %v", result.Warnings)
	}
	if !strings.Contains(result.Warnings[0], "klingon") {
		t.Errorf("expected the unknown language warning first, got %q", result.Warnings[0])
	}
}

func TestLoad_MalformedYAML(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, ".mdview.yml"), "width: [1\n")

	_, err := Load(context.Background(), isolated(tmpDir))
	if err == nil || !strings.Contains(err.Error(), "load project config") {
		t.Fatalf("expected a project config error, got %v", err)
	}
}

func TestLoad_ContextCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Load(ctx, isolated(t.TempDir()))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context cancellation error, got %v", err)
	}
}

func TestMergeAll(t *testing.T) {
	t.Parallel()

	on, off := true, false
	got := MergeAll(
		&config.Config{Flavor: config.FlavorGFM, Width: 40, Theme: config.ThemeConfig{Link: "1", Rule: "2"}},
		&config.Config{LinksOnly: &on, Theme: config.ThemeConfig{Rule: "3"}},
		&config.Config{LinksOnly: &off, Width: 60},
	)

	if got.Flavor != config.FlavorGFM || got.Width != 60 {
		t.Errorf("unexpected scalars: %+v", got)
	}
	if got.IsLinksOnly() {
		t.Error("the last explicit links_only should win")
	}
	if got.Theme.Link != "1" || got.Theme.Rule != "3" {
		t.Errorf("theme should merge per field, got %+v", got.Theme)
	}
}

func TestWriteTemplate(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), ".mdview.yml")
	if err := WriteTemplate(context.Background(), path, config.TemplateOptions{}, false); err != nil {
		t.Fatalf("WriteTemplate() error = %v", err)
	}
	if err := WriteTemplate(context.Background(), path, config.TemplateOptions{}, false); !errors.Is(err, os.ErrExist) {
		t.Fatalf("expected os.ErrExist without force, got %v", err)
	}
	if err := WriteTemplate(context.Background(), path, config.TemplateOptions{Full: true}, true); err != nil {
		t.Fatalf("WriteTemplate(force) error = %v", err)
	}

	cfg, err := loadConfigFile(path)
	if err != nil {
		t.Fatalf("loadConfigFile() error = %v", err)
	}
	if !Validate(cfg).Valid() {
		t.Errorf("the generated template should validate: %v", Validate(cfg).AllMessages())
	}
}

func TestIsValidColor(t *testing.T) {
	t.Parallel()

	for _, valid := range []string{"#fff", "#A0b1C2", "0", "255"} {
		if !IsValidColor(valid) {
			t.Errorf("%q should be valid", valid)
		}
	}
	for _, invalid := range []string{"red", "#ffff", "256", "-1", "#gggggg"} {
		if IsValidColor(invalid) {
			t.Errorf("%q should be invalid", invalid)
		}
	}
}
