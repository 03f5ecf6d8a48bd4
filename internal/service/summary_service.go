package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	apperrors "answerme/internal/errors"
	"answerme/internal/model"
	"answerme/internal/rag"
	"answerme/internal/repository"
)

// SummaryService is the daily digest orchestrator: given a user and a
// calendar date it returns the existing digest thread or builds one from the
// day's crawled news, one retrieval query per subscribed keyword.
type SummaryService interface {
	GetOrCreateDaily(ctx context.Context, user *model.User, date time.Time) (*model.Thread, error)
}

type summaryService struct {
	threadRepo  repository.ThreadRepository
	keywordRepo repository.KeywordRepository
	indexes     IndexProvider
	engine      rag.Engine
	logger      *zap.Logger
}

// NewSummaryService creates a new summary service.
func NewSummaryService(
	threadRepo repository.ThreadRepository,
	keywordRepo repository.KeywordRepository,
	indexes IndexProvider,
	engine rag.Engine,
	logger *zap.Logger,
) SummaryService {
	return &summaryService{
		threadRepo:  threadRepo,
		keywordRepo: keywordRepo,
		indexes:     indexes,
		engine:      engine,
		logger:      logger,
	}
}

// GetOrCreateDaily implements the digest state machine.
//
// Existing thread: returned as-is, no retrieval calls (the idempotent path).
// No keywords: no thread is created; the condition is re-checked every call.
// Otherwise: build/reuse the date's index, summarize per keyword in
// keyword-list order, and persist thread + digest message atomically. Two
// concurrent first requests race on the (user_id, date) unique constraint;
// the loser re-reads and returns the winner's thread.
func (s *summaryService) GetOrCreateDaily(ctx context.Context, user *model.User, date time.Time) (*model.Thread, error) {
	day := truncateToDay(date)

	existing, err := s.threadRepo.FindByUserAndDate(ctx, user.ID, day)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("find thread: %w", err)
	}

	keywords, err := s.keywordRepo.FindByUser(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("load keywords: %w", err)
	}
	if len(keywords) == 0 {
		return nil, apperrors.ErrNoKeywords
	}

	index, err := s.indexes.IndexForDate(ctx, day)
	if err != nil {
		return nil, err
	}

	terms := make([]string, len(keywords))
	for i, kw := range keywords {
		terms[i] = kw.Keyword
	}
	summaries := s.summarizeByKeywords(ctx, index, terms)

	thread := &model.Thread{
		UserID: user.ID,
		Title:  "Daily Summary - " + day.Format("2006-01-02"),
		Date:   day,
	}
	digest := &model.Message{
		Role:    model.MessageRoleAssistant,
		Content: formatDigest(terms, summaries),
		Metadata: model.Metadata{
			"keywords":  terms,
			"summaries": summaries,
		},
	}

	if err := s.threadRepo.CreateWithDigest(ctx, thread, digest); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Lost the creation race; the winner's thread is the digest.
			winner, findErr := s.threadRepo.FindByUserAndDate(ctx, user.ID, day)
			if findErr != nil {
				return nil, fmt.Errorf("find winning thread after race: %w", findErr)
			}
			s.logger.Info("digest race deduplicated",
				zap.Uint("user_id", user.ID),
				zap.String("date", day.Format("2006-01-02")))
			return winner, nil
		}
		return nil, fmt.Errorf("create digest thread: %w", err)
	}

	s.logger.Info("digest created",
		zap.Uint("user_id", user.ID),
		zap.String("date", day.Format("2006-01-02")),
		zap.Int("keywords", len(terms)))
	return thread, nil
}

// summarizeByKeywords issues one retrieval query per keyword, preserving
// keyword order. A failed query records an error placeholder for that keyword
// and the loop continues: the (user, date) slot is permanent once the thread
// is created, so one flaky keyword must not lose the rest of the digest.
func (s *summaryService) summarizeByKeywords(ctx context.Context, index *rag.Index, terms []string) map[string]string {
	summaries := make(map[string]string, len(terms))
	for _, term := range terms {
		prompt := fmt.Sprintf("Summarize all news related to '%s'. Include original links if available.", term)
		summary, err := s.engine.Query(ctx, index, prompt)
		if err != nil {
			s.logger.Warn("keyword summary failed",
				zap.String("keyword", term),
				zap.Error(err))
			summaries[term] = fmt.Sprintf("Error generating summary: %v", err)
			continue
		}
		summaries[term] = summary
	}
	return summaries
}

// formatDigest concatenates per-keyword sections in keyword order.
func formatDigest(terms []string, summaries map[string]string) string {
	var b strings.Builder
	b.WriteString("# Daily News Summary\n\n")
	for _, term := range terms {
		b.WriteString("## " + term + "\n\n")
		b.WriteString(summaries[term])
		b.WriteString("\n\n")
	}
	return strings.TrimRight(b.String(), "\n") + "\n"
}

// truncateToDay normalizes a timestamp to its UTC calendar day.
func truncateToDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
