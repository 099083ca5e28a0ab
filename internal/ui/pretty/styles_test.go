package pretty_test

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/mdview/internal/ui/pretty"
)

func TestNewStyles_ColorEnabled(t *testing.T) {
	styles := pretty.NewStyles(true)
	require.NotNil(t, styles)

	// Lipgloss may not emit ANSI codes when stdout is not a TTY, so only the
	// rendered text is checked here.
	assert.Contains(t, styles.Heading.Render("x"), "x")
	assert.Contains(t, styles.Error.Render("x"), "x")
	assert.Contains(t, styles.Link.Render("x"), "x")
}

func TestNewStyles_ColorDisabled(t *testing.T) {
	styles := pretty.NewStyles(false)
	require.NotNil(t, styles)

	for name, style := range map[string]func(...string) string{
		"Heading": styles.Heading.Render,
		"Event":   styles.Event.Render,
		"Range":   styles.Range.Render,
		"Link":    styles.Link.Render,
		"Error":   styles.Error.Render,
		"Bold":    styles.Bold.Render,
	} {
		assert.Equal(t, "test", style("test"), "no-color %s should not add formatting", name)
	}
}

func TestIsColorEnabled_AlwaysMode(t *testing.T) {
	var buf bytes.Buffer
	assert.True(t, pretty.IsColorEnabled("always", &buf), "always mode should return true")
}

func TestIsColorEnabled_NeverMode(t *testing.T) {
	assert.False(t, pretty.IsColorEnabled("never", os.Stdout), "never mode should return false")
}

func TestIsColorEnabled_AutoMode_NonTTY(t *testing.T) {
	var buf bytes.Buffer
	assert.False(t, pretty.IsColorEnabled("auto", &buf), "auto mode with non-TTY should return false")
}

func TestIsColorEnabled_AutoMode_NoColorEnv(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	// Even with a TTY, NO_COLOR should disable colors
	assert.False(t, pretty.IsColorEnabled("auto", os.Stdout), "auto mode with NO_COLOR set should return false")
}

func TestIsColorEnabled_DefaultsToAuto(t *testing.T) {
	t.Setenv("NO_COLOR", "")

	var buf bytes.Buffer
	assert.False(t, pretty.IsColorEnabled("", &buf), "empty mode with non-TTY should return false (auto behavior)")
	assert.False(t, pretty.IsColorEnabled("unknown", &buf), "unknown mode with non-TTY should return false (auto behavior)")
}
