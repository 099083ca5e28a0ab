package cli_test

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/mdview/internal/cli"
	"github.com/yaklabco/mdview/internal/configloader"
)

const titleDoc = "# Title\n\nBody *em*."

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	cmd := cli.NewRootCommand(cli.BuildInfo{Version: "1.2.3", Commit: "abc123", Date: "2026-01-01"})
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

func writeDoc(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "doc.md")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestNewRootCommand(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(cli.BuildInfo{})
	assert.Equal(t, "mdview", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Long)

	for _, name := range []string{"render", "events", "copy", "hit", "init", "config", "version"} {
		sub, _, err := cmd.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, sub.Name())
	}

	for _, flag := range []string{"debug", "config", "color", "width", "flavor", "links-only", "fallback-language", "syntax-theme"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(flag), flag)
	}
}

func TestRender(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		stdin string
		args  []string
		want  string
	}{
		{
			name:  "stdin when no file is given",
			stdin: titleDoc,
			args:  []string{"render", "--color", "never", "--width", "20"},
			want:  "Title\n\nBody em.\n",
		},
		{
			name:  "dash reads stdin",
			stdin: "> quoted",
			args:  []string{"render", "--color", "never", "--width", "20", "-"},
			want:  "│  quoted\n",
		},
		{
			name:  "long lines wrap at the width",
			stdin: "alpha beta gamma delta",
			args:  []string{"render", "--color", "never", "--width", "11"},
			want:  "alpha beta\ngamma delta\n",
		},
		{
			name:  "links only keeps markup as text",
			stdin: "# not a heading",
			args:  []string{"render", "--color", "never", "--width", "20", "--links-only"},
			want:  "# not a heading\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			out, err := run(t, tt.stdin, tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestRender_List(t *testing.T) {
	t.Parallel()

	out, err := run(t, "- one\n- two\n", "render", "--color", "never", "--width", "20")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "• one")
	assert.Contains(t, lines[1], "• two")
}

func TestRender_File(t *testing.T) {
	t.Parallel()

	path := writeDoc(t, titleDoc)
	out, err := run(t, "", "render", "--color", "never", "--width", "20", path)
	require.NoError(t, err)
	assert.Equal(t, "Title\n\nBody em.\n", out)
}

func TestRender_Demo(t *testing.T) {
	t.Parallel()

	out, err := run(t, "", "render", "--color", "never", "--width", "80", filepath.Join("testdata", "demo.md"))
	require.NoError(t, err)

	for _, want := range []string{
		"Demo", "emphasis", "inline code", "link", "• first", "1.", "quoted line.",
		"package main", "func main() {}", "https://example.org",
	} {
		assert.Contains(t, out, want)
	}
	assert.NotContains(t, out, "```")
	assert.NotContains(t, out, "**")
}

func TestRender_SelectionIsColored(t *testing.T) {
	t.Parallel()

	plain, err := run(t, titleDoc, "render", "--color", "always", "--width", "20")
	require.NoError(t, err)
	selected, err := run(t, titleDoc, "render", "--color", "always", "--width", "20", "--select", "9:13")
	require.NoError(t, err)

	assert.Contains(t, plain, "\x1b[")
	assert.NotEqual(t, plain, selected)
}

func TestRender_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		args     []string
		wantErr  error
		wantCode int
	}{
		{
			name:     "selection past the end",
			args:     []string{"render", "--select", "0:99"},
			wantErr:  cli.ErrInvalidRange,
			wantCode: cli.ExitInvalidUsage,
		},
		{
			name:     "reversed selection",
			args:     []string{"render", "--select", "5:2"},
			wantErr:  cli.ErrInvalidRange,
			wantCode: cli.ExitInvalidUsage,
		},
		{
			name:     "missing file",
			args:     []string{"render", filepath.Join(t.TempDir(), "missing.md")},
			wantErr:  cli.ErrReadInput,
			wantCode: cli.ExitIOError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := run(t, titleDoc, tt.args...)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, tt.wantCode, cli.ExitCodeForError(err))
		})
	}
}

func TestRender_InvalidConfig(t *testing.T) {
	t.Parallel()

	cfgPath := filepath.Join(t.TempDir(), "bad.yml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("flavor: markdown-extra\n"), 0o644))

	_, err := run(t, titleDoc, "render", "--config", cfgPath)
	require.Error(t, err)

	var validationErr *configloader.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "flavor", validationErr.Field)
	assert.Equal(t, cli.ExitConfigError, cli.ExitCodeForError(err))
}

func TestEvents(t *testing.T) {
	t.Parallel()

	out, err := run(t, titleDoc, "events", "--color", "never")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	require.NotEmpty(t, lines)
	assert.True(t, strings.HasPrefix(lines[0], "1:1"), lines[0])
	assert.Contains(t, lines[0], "Start(Heading(1))")
	assert.Contains(t, out, `Text 2..7 "Title"`)
	assert.Contains(t, out, `Text 15..17 "em"`)
	assert.NotContains(t, out, "\x1b[")
}

func TestCopy(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		r    string
		want string
	}{
		{name: "whole document drops markup", r: "0:19", want: "Title\nBody em.\n"},
		{name: "partial lines", r: "4:13", want: "tle\nBody\n"},
		{name: "empty range copies nothing", r: "9:9", want: "\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			out, err := run(t, titleDoc, "copy", "--range", tt.r)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestCopy_RequiresRange(t *testing.T) {
	t.Parallel()

	_, err := run(t, titleDoc, "copy")
	require.Error(t, err)
}

func TestHit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		doc  string
		args []string
		want []string
	}{
		{
			name: "double click selects the word",
			doc:  titleDoc,
			args: []string{"--at", "1,2", "--clicks", "2"},
			want: []string{
				"offset:    10 exact",
				`selection: 9..13 "Body"`,
				"word:      9..13",
				"line:      9..19",
				"link:      none",
				"cursor:    IBeam",
			},
		},
		{
			name: "triple click selects the line",
			doc:  titleDoc,
			args: []string{"--at", "1,2", "--clicks", "3"},
			want: []string{`selection: 9..19 "Body em."`},
		},
		{
			name: "drag extends the selection",
			doc:  titleDoc,
			args: []string{"--at", "2,0", "--drag-to", "4,2"},
			want: []string{`selection: 4..13 "tle\nBody"`},
		},
		{
			name: "link under the pointer",
			doc:  "[go](https://go.dev)",
			args: []string{"--at", "0,0"},
			want: []string{"link:      https://go.dev", "cursor:    PointingHand"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			args := append([]string{"hit", "--color", "never", "--width", "20"}, tt.args...)
			out, err := run(t, tt.doc, args...)
			require.NoError(t, err)
			for _, want := range tt.want {
				assert.Contains(t, out, want)
			}
		})
	}
}

func TestHit_InvalidPoint(t *testing.T) {
	t.Parallel()

	_, err := run(t, titleDoc, "hit", "--at", "three,4")
	require.ErrorIs(t, err, cli.ErrInvalidPoint)
	assert.Equal(t, cli.ExitInvalidUsage, cli.ExitCodeForError(err))
}

func TestInit(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), ".mdview.yml")

	out, err := run(t, "", "init", "--output", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Created")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "flavor")

	_, err = run(t, "", "init", "--output", path)
	require.ErrorIs(t, err, os.ErrExist)

	_, err = run(t, "", "init", "--output", path, "--force", "--full")
	require.NoError(t, err)
}

func TestConfig(t *testing.T) {
	t.Parallel()

	cfgPath := filepath.Join(t.TempDir(), "mdview.yml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("flavor: commonmark\nwidth: 72\n"), 0o644))

	out, err := run(t, "", "config", "--config", cfgPath, "--width", "40")
	require.NoError(t, err)
	assert.Contains(t, out, cfgPath)
	assert.Contains(t, out, "flavor: commonmark")
	assert.Contains(t, out, "width: 40")
}

func TestConfig_Env(t *testing.T) {
	t.Parallel()

	out, err := run(t, "", "config", "--env", "--color", "never")
	require.NoError(t, err)
	assert.Contains(t, out, "MDVIEW_FLAVOR")
	assert.Contains(t, out, "MDVIEW_THEME_SYNTAX")
}

func TestVersion(t *testing.T) {
	t.Parallel()

	out, err := run(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "mdview")
	assert.Contains(t, out, "1.2.3")
	assert.Contains(t, out, "abc123")
}

func TestHelpIsPlainWithoutColor(t *testing.T) {
	t.Parallel()

	out, err := run(t, "", "render", "--help")
	require.NoError(t, err)
	assert.Contains(t, out, "Usage:")
	assert.Contains(t, out, "--select")
	assert.Contains(t, out, "Global Flags:")
}

func TestExitCodeForError(t *testing.T) {
	t.Parallel()

	assert.Equal(t, cli.ExitSuccess, cli.ExitCodeForError(nil))
	assert.Equal(t, cli.ExitFailure, cli.ExitCodeForError(errors.New("boom")))
	assert.Equal(t, cli.ExitConfigError, cli.ExitCodeForError(errors.Join(cli.ErrConfigLoad, errors.New("x"))))
}
