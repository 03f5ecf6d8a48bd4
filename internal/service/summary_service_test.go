package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
	"gorm.io/gorm"

	apperrors "answerme/internal/errors"
	"answerme/internal/model"
	"answerme/internal/rag"
)

func summaryPrompt(term string) string {
	return fmt.Sprintf("Summarize all news related to '%s'. Include original links if available.", term)
}

func TestSummaryService_GetOrCreateDaily(t *testing.T) {
	ctx := context.Background()
	requestedAt := time.Date(2025, 6, 15, 9, 30, 0, 0, time.UTC)
	day := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	user := freeUser(1)

	t.Run("existing thread short-circuits retrieval", func(t *testing.T) {
		threadRepo := new(MockThreadRepository)
		keywordRepo := new(MockKeywordRepository)
		indexes := new(MockIndexProvider)
		engine := new(MockEngine)
		svc := NewSummaryService(threadRepo, keywordRepo, indexes, engine, zap.NewNop())

		existing := &model.Thread{ID: 42, UserID: 1, Date: day}
		threadRepo.On("FindByUserAndDate", ctx, uint(1), day).Return(existing, nil)

		thread, err := svc.GetOrCreateDaily(ctx, user, requestedAt)

		assert.NoError(t, err)
		assert.Equal(t, existing, thread)
		engine.AssertNotCalled(t, "Query", mock.Anything, mock.Anything, mock.Anything)
		indexes.AssertNotCalled(t, "IndexForDate", mock.Anything, mock.Anything)
	})

	t.Run("no keywords creates nothing", func(t *testing.T) {
		threadRepo := new(MockThreadRepository)
		keywordRepo := new(MockKeywordRepository)
		indexes := new(MockIndexProvider)
		engine := new(MockEngine)
		svc := NewSummaryService(threadRepo, keywordRepo, indexes, engine, zap.NewNop())

		threadRepo.On("FindByUserAndDate", ctx, uint(1), day).Return(nil, gorm.ErrRecordNotFound)
		keywordRepo.On("FindByUser", ctx, uint(1)).Return([]model.Keyword{}, nil)

		thread, err := svc.GetOrCreateDaily(ctx, user, requestedAt)

		assert.Nil(t, thread)
		assert.ErrorIs(t, err, apperrors.ErrNoKeywords)
		threadRepo.AssertNotCalled(t, "CreateWithDigest", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("fresh digest covers every keyword in order", func(t *testing.T) {
		threadRepo := new(MockThreadRepository)
		keywordRepo := new(MockKeywordRepository)
		indexes := new(MockIndexProvider)
		engine := new(MockEngine)
		svc := NewSummaryService(threadRepo, keywordRepo, indexes, engine, zap.NewNop())

		index := &rag.Index{}
		threadRepo.On("FindByUserAndDate", ctx, uint(1), day).Return(nil, gorm.ErrRecordNotFound)
		keywordRepo.On("FindByUser", ctx, uint(1)).Return([]model.Keyword{
			{ID: 1, UserID: 1, Keyword: "AI"},
			{ID: 2, UserID: 1, Keyword: "economy"},
		}, nil)
		indexes.On("IndexForDate", ctx, day).Return(index, nil)
		engine.On("Query", ctx, index, summaryPrompt("AI")).Return("AI moved fast today.", nil)
		engine.On("Query", ctx, index, summaryPrompt("economy")).Return("Markets were calm.", nil)

		var createdThread *model.Thread
		var createdDigest *model.Message
		threadRepo.On("CreateWithDigest", ctx, mock.AnythingOfType("*model.Thread"), mock.AnythingOfType("*model.Message")).
			Run(func(args mock.Arguments) {
				createdThread = args.Get(1).(*model.Thread)
				createdDigest = args.Get(2).(*model.Message)
			}).
			Return(nil)

		thread, err := svc.GetOrCreateDaily(ctx, user, requestedAt)

		assert.NoError(t, err)
		assert.Equal(t, createdThread, thread)
		assert.Equal(t, "Daily Summary - 2025-06-15", thread.Title)
		assert.Equal(t, day, thread.Date)

		assert.Equal(t, model.MessageRoleAssistant, createdDigest.Role)
		assert.Equal(t,
			"# Daily News Summary\n\n## AI\n\nAI moved fast today.\n\n## economy\n\nMarkets were calm.\n",
			createdDigest.Content)
		assert.Equal(t, []string{"AI", "economy"}, createdDigest.Metadata["keywords"])
		assert.Equal(t,
			map[string]string{"AI": "AI moved fast today.", "economy": "Markets were calm."},
			createdDigest.Metadata["summaries"])
	})

	t.Run("one failed keyword keeps the rest of the digest", func(t *testing.T) {
		threadRepo := new(MockThreadRepository)
		keywordRepo := new(MockKeywordRepository)
		indexes := new(MockIndexProvider)
		engine := new(MockEngine)
		svc := NewSummaryService(threadRepo, keywordRepo, indexes, engine, zap.NewNop())

		index := &rag.Index{}
		threadRepo.On("FindByUserAndDate", ctx, uint(1), day).Return(nil, gorm.ErrRecordNotFound)
		keywordRepo.On("FindByUser", ctx, uint(1)).Return([]model.Keyword{
			{ID: 1, UserID: 1, Keyword: "AI"},
			{ID: 2, UserID: 1, Keyword: "economy"},
		}, nil)
		indexes.On("IndexForDate", ctx, day).Return(index, nil)
		engine.On("Query", ctx, index, summaryPrompt("AI")).Return("", errors.New("rate limited"))
		engine.On("Query", ctx, index, summaryPrompt("economy")).Return("Markets were calm.", nil)

		var createdDigest *model.Message
		threadRepo.On("CreateWithDigest", ctx, mock.AnythingOfType("*model.Thread"), mock.AnythingOfType("*model.Message")).
			Run(func(args mock.Arguments) {
				createdDigest = args.Get(2).(*model.Message)
			}).
			Return(nil)

		_, err := svc.GetOrCreateDaily(ctx, user, requestedAt)

		assert.NoError(t, err)
		summaries := createdDigest.Metadata["summaries"].(map[string]string)
		assert.Equal(t, "Error generating summary: rate limited", summaries["AI"])
		assert.Equal(t, "Markets were calm.", summaries["economy"])
	})

	t.Run("creation race returns the winning thread", func(t *testing.T) {
		threadRepo := new(MockThreadRepository)
		keywordRepo := new(MockKeywordRepository)
		indexes := new(MockIndexProvider)
		engine := new(MockEngine)
		svc := NewSummaryService(threadRepo, keywordRepo, indexes, engine, zap.NewNop())

		index := &rag.Index{}
		winner := &model.Thread{ID: 77, UserID: 1, Date: day}
		threadRepo.On("FindByUserAndDate", ctx, uint(1), day).Return(nil, gorm.ErrRecordNotFound).Once()
		keywordRepo.On("FindByUser", ctx, uint(1)).Return([]model.Keyword{
			{ID: 1, UserID: 1, Keyword: "AI"},
		}, nil)
		indexes.On("IndexForDate", ctx, day).Return(index, nil)
		engine.On("Query", ctx, index, summaryPrompt("AI")).Return("AI moved fast today.", nil)
		threadRepo.On("CreateWithDigest", ctx, mock.AnythingOfType("*model.Thread"), mock.AnythingOfType("*model.Message")).
			Return(gorm.ErrDuplicatedKey)
		threadRepo.On("FindByUserAndDate", ctx, uint(1), day).Return(winner, nil).Once()

		thread, err := svc.GetOrCreateDaily(ctx, user, requestedAt)

		assert.NoError(t, err)
		assert.Equal(t, winner, thread)
	})

	t.Run("missing news artifact propagates", func(t *testing.T) {
		threadRepo := new(MockThreadRepository)
		keywordRepo := new(MockKeywordRepository)
		indexes := new(MockIndexProvider)
		engine := new(MockEngine)
		svc := NewSummaryService(threadRepo, keywordRepo, indexes, engine, zap.NewNop())

		threadRepo.On("FindByUserAndDate", ctx, uint(1), day).Return(nil, gorm.ErrRecordNotFound)
		keywordRepo.On("FindByUser", ctx, uint(1)).Return([]model.Keyword{
			{ID: 1, UserID: 1, Keyword: "AI"},
		}, nil)
		indexes.On("IndexForDate", ctx, day).
			Return(nil, fmt.Errorf("%w: 2025-06-15", apperrors.ErrNoNewsData))

		thread, err := svc.GetOrCreateDaily(ctx, user, requestedAt)

		assert.Nil(t, thread)
		assert.ErrorIs(t, err, apperrors.ErrNoNewsData)
		threadRepo.AssertNotCalled(t, "CreateWithDigest", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestFormatDigest(t *testing.T) {
	content := formatDigest(
		[]string{"b", "a"},
		map[string]string{"a": "second", "b": "first"},
	)
	// Section order follows the keyword list, not map iteration.
	assert.Equal(t, "# Daily News Summary\n\n## b\n\nfirst\n\n## a\n\nsecond\n", content)
}

func TestTruncateToDay(t *testing.T) {
	loc := time.FixedZone("UTC+9", 9*3600)
	// 2025-06-15 08:30 +09:00 is 2025-06-14 23:30 UTC.
	local := time.Date(2025, 6, 15, 8, 30, 0, 0, loc)
	assert.Equal(t, time.Date(2025, 6, 14, 0, 0, 0, 0, time.UTC), truncateToDay(local))
}
