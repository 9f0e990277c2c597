package phpver

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestList(t *testing.T) {
	t.Run("finds version directories, newest first", func(t *testing.T) {
		root := t.TempDir()
		for _, name := range []string{"7.4", "8.3", "8.1"} {
			require.NoError(t, os.Mkdir(filepath.Join(root, name), 0755))
		}
		// Entries that must be ignored.
		require.NoError(t, os.Mkdir(filepath.Join(root, "cli"), 0755))
		require.NoError(t, os.WriteFile(filepath.Join(root, "8.2"), []byte("a file, not a dir"), 0644))

		versions, err := List(root)
		require.NoError(t, err)
		assert.Equal(t, []string{"8.3", "8.1", "7.4"}, versions)
	})

	t.Run("orders double-digit minors numerically", func(t *testing.T) {
		root := t.TempDir()
		for _, name := range []string{"8.9", "8.10"} {
			require.NoError(t, os.Mkdir(filepath.Join(root, name), 0755))
		}
		versions, err := List(root)
		require.NoError(t, err)
		assert.Equal(t, []string{"8.10", "8.9"}, versions)
	})

	t.Run("empty root is an error", func(t *testing.T) {
		_, err := List(t.TempDir())
		assert.Error(t, err)
	})

	t.Run("missing root is an error", func(t *testing.T) {
		_, err := List(filepath.Join(t.TempDir(), "nope"))
		assert.Error(t, err)
	})
}
