package news

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "answerme/internal/errors"
)

func writeArtifact(t *testing.T, base, dateDir, name, content string) {
	t.Helper()
	dir := filepath.Join(base, dateDir, "txt")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestReader_Load(t *testing.T) {
	date := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)

	t.Run("reads the CJK-named date folder", func(t *testing.T) {
		base := t.TempDir()
		writeArtifact(t, base, "2025年06月15日", "news_0900.txt", "morning batch")

		content, err := NewReader(base).Load(date)

		assert.NoError(t, err)
		assert.Equal(t, "morning batch", content)
	})

	t.Run("falls back to the ISO-named folder", func(t *testing.T) {
		base := t.TempDir()
		writeArtifact(t, base, "2025-06-15", "news_0900.txt", "iso batch")

		content, err := NewReader(base).Load(date)

		assert.NoError(t, err)
		assert.Equal(t, "iso batch", content)
	})

	t.Run("picks the lexically last artifact", func(t *testing.T) {
		base := t.TempDir()
		writeArtifact(t, base, "2025年06月15日", "news_0900.txt", "morning batch")
		writeArtifact(t, base, "2025年06月15日", "news_1800.txt", "evening batch")

		content, err := NewReader(base).Load(date)

		assert.NoError(t, err)
		assert.Equal(t, "evening batch", content)
	})

	t.Run("CJK folder wins over ISO folder", func(t *testing.T) {
		base := t.TempDir()
		writeArtifact(t, base, "2025年06月15日", "news_0900.txt", "cjk batch")
		writeArtifact(t, base, "2025-06-15", "news_0900.txt", "iso batch")

		content, err := NewReader(base).Load(date)

		assert.NoError(t, err)
		assert.Equal(t, "cjk batch", content)
	})

	t.Run("no folder for the date", func(t *testing.T) {
		base := t.TempDir()

		_, err := NewReader(base).Load(date)

		assert.ErrorIs(t, err, apperrors.ErrNoNewsData)
	})

	t.Run("folder exists but holds no artifacts", func(t *testing.T) {
		base := t.TempDir()
		require.NoError(t, os.MkdirAll(filepath.Join(base, "2025年06月15日", "txt"), 0o755))

		_, err := NewReader(base).Load(date)

		assert.ErrorIs(t, err, apperrors.ErrNoNewsData)
	})

	t.Run("non-txt files are ignored", func(t *testing.T) {
		base := t.TempDir()
		dir := filepath.Join(base, "2025年06月15日", "txt")
		require.NoError(t, os.MkdirAll(dir, 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "news.json"), []byte("{}"), 0o644))

		_, err := NewReader(base).Load(date)

		assert.ErrorIs(t, err, apperrors.ErrNoNewsData)
	})
}
