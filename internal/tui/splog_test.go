package tui

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplog(t *testing.T) {
	t.Run("print passes pre-rendered messages through untouched", func(t *testing.T) {
		logPath := filepath.Join(t.TempDir(), "gtw.log")
		splog, err := newSplogWithFile(logPath)
		require.NoError(t, err)

		// Branch names can carry percent signs; they must never be
		// interpreted as format verbs.
		splog.Print("↩️  Returned to branch: release-50%-rollout")
		require.NoError(t, splog.Close())

		data, err := os.ReadFile(logPath)
		require.NoError(t, err)
		assert.Contains(t, string(data), "release-50%-rollout")
		assert.NotContains(t, string(data), "MISSING")
	})

	t.Run("info formats when given arguments", func(t *testing.T) {
		logPath := filepath.Join(t.TempDir(), "gtw.log")
		splog, err := newSplogWithFile(logPath)
		require.NoError(t, err)

		splog.Info("🗑️  Deleted branch: %s", "feature_a")
		require.NoError(t, splog.Close())

		data, err := os.ReadFile(logPath)
		require.NoError(t, err)
		assert.Contains(t, string(data), "Deleted branch: feature_a")
	})
}
