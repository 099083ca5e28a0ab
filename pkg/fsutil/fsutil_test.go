package fsutil_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/mdview/pkg/fsutil"
)

func TestReadFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "doc.md")
	require.NoError(t, os.WriteFile(path, []byte("# Title\n"), 0o644))

	tests := []struct {
		name    string
		path    string
		want    string
		wantErr error
	}{
		{name: "reads content", path: path, want: "# Title\n"},
		{name: "missing file", path: filepath.Join(dir, "missing.md"), wantErr: fsutil.ErrNotFound},
		{name: "directory", path: dir, wantErr: fsutil.ErrIsDirectory},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			content, info, err := fsutil.ReadFile(context.Background(), tt.path)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, info)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(content))
			assert.Equal(t, tt.path, info.Path)
			assert.Equal(t, int64(len(tt.want)), info.Size)
		})
	}
}

func TestReadFile_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := fsutil.ReadFile(ctx, "doc.md")
	require.ErrorIs(t, err, context.Canceled)
}

func TestWriteAtomic(t *testing.T) {
	t.Parallel()

	t.Run("writes new file with default mode", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), ".mdview.yml")
		require.NoError(t, fsutil.WriteAtomic(context.Background(), path, []byte("flavor: gfm\n"), 0))

		got, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "flavor: gfm\n", string(got))

		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, fsutil.DefaultFileMode, info.Mode().Perm())
	})

	t.Run("replaces existing file and leaves no temp files", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		path := filepath.Join(dir, "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("old"), 0o600))

		require.NoError(t, fsutil.WriteAtomic(context.Background(), path, []byte("new"), 0o600))

		got, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "new", string(got))

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.Len(t, entries, 1)
	})

	t.Run("missing directory fails", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "missing", "config.yaml")
		require.Error(t, fsutil.WriteAtomic(context.Background(), path, []byte("x"), 0))
	})

	t.Run("cancelled context leaves nothing behind", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.ErrorIs(t, fsutil.WriteAtomic(ctx, path, []byte("x"), 0), context.Canceled)

		_, err := os.Stat(path)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}
