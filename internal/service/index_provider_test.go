package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apperrors "answerme/internal/errors"
	"answerme/internal/news"
	"answerme/internal/rag"
)

func writeNewsArtifact(t *testing.T, base string, date time.Time, content string) {
	t.Helper()
	dir := filepath.Join(base, date.Format("2006年01月02日"), "txt")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "news.txt"), []byte(content), 0o644))
}

func TestIndexProvider_IndexForDate(t *testing.T) {
	ctx := context.Background()
	date := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)

	t.Run("builds once and caches per date", func(t *testing.T) {
		base := t.TempDir()
		writeNewsArtifact(t, base, date, "today's news")

		engine := new(MockEngine)
		index := &rag.Index{}
		engine.On("BuildIndex", ctx, "today's news").Return(index, nil).Once()

		provider := NewIndexProvider(news.NewReader(base), engine, zap.NewNop())

		first, err := provider.IndexForDate(ctx, date)
		assert.NoError(t, err)
		second, err := provider.IndexForDate(ctx, date)
		assert.NoError(t, err)

		assert.Same(t, first, second)
		engine.AssertExpectations(t)
	})

	t.Run("distinct dates build distinct indexes", func(t *testing.T) {
		base := t.TempDir()
		other := date.AddDate(0, 0, -1)
		writeNewsArtifact(t, base, date, "today's news")
		writeNewsArtifact(t, base, other, "yesterday's news")

		engine := new(MockEngine)
		engine.On("BuildIndex", ctx, "today's news").Return(&rag.Index{}, nil).Once()
		engine.On("BuildIndex", ctx, "yesterday's news").Return(&rag.Index{}, nil).Once()

		provider := NewIndexProvider(news.NewReader(base), engine, zap.NewNop())

		todayIdx, err := provider.IndexForDate(ctx, date)
		assert.NoError(t, err)
		yesterdayIdx, err := provider.IndexForDate(ctx, other)
		assert.NoError(t, err)

		assert.NotSame(t, todayIdx, yesterdayIdx)
		engine.AssertExpectations(t)
	})

	t.Run("missing artifact surfaces without building", func(t *testing.T) {
		engine := new(MockEngine)
		provider := NewIndexProvider(news.NewReader(t.TempDir()), engine, zap.NewNop())

		index, err := provider.IndexForDate(ctx, date)

		assert.Nil(t, index)
		assert.ErrorIs(t, err, apperrors.ErrNoNewsData)
		engine.AssertNotCalled(t, "BuildIndex", ctx, "")
	})

	t.Run("failed build is retried on the next call", func(t *testing.T) {
		base := t.TempDir()
		writeNewsArtifact(t, base, date, "today's news")

		engine := new(MockEngine)
		engine.On("BuildIndex", ctx, "today's news").Return(nil, assert.AnError).Once()
		engine.On("BuildIndex", ctx, "today's news").Return(&rag.Index{}, nil).Once()

		provider := NewIndexProvider(news.NewReader(base), engine, zap.NewNop())

		_, err := provider.IndexForDate(ctx, date)
		assert.Error(t, err)

		index, err := provider.IndexForDate(ctx, date)
		assert.NoError(t, err)
		assert.NotNil(t, index)
		engine.AssertExpectations(t)
	})
}
