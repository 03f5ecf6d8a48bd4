package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	apperrors "answerme/internal/errors"
	"answerme/internal/model"
	"answerme/internal/rag"
	"answerme/internal/repository"
	"answerme/internal/subscription"
)

var urlPattern = regexp.MustCompile(`https?://[^\s)\]>"']+`)

// QueryResult is the answer to a follow-up question.
type QueryResult struct {
	Answer    string   `json:"answer"`
	Sources   []string `json:"sources"`
	MessageID uint     `json:"message_id"`
}

// QueryService answers follow-up questions within a thread's date context,
// metering free-tier users to a daily quota.
type QueryService interface {
	Ask(ctx context.Context, user *model.User, threadID uint, question string) (*QueryResult, error)
}

type queryService struct {
	threadRepo  repository.ThreadRepository
	messageRepo repository.MessageRepository
	indexes     IndexProvider
	engine      rag.Engine
	logger      *zap.Logger
	now         func() time.Time
}

// NewQueryService creates a new query service.
func NewQueryService(
	threadRepo repository.ThreadRepository,
	messageRepo repository.MessageRepository,
	indexes IndexProvider,
	engine rag.Engine,
	logger *zap.Logger,
) QueryService {
	return &queryService{
		threadRepo:  threadRepo,
		messageRepo: messageRepo,
		indexes:     indexes,
		engine:      engine,
		logger:      logger,
		now:         time.Now,
	}
}

// Ask verifies ownership and quota, answers against the thread's date index,
// and persists the user/assistant exchange. The user message's timestamp
// strictly precedes the assistant's so chronological replay reconstructs the
// conversation unambiguously.
func (s *queryService) Ask(ctx context.Context, user *model.User, threadID uint, question string) (*QueryResult, error) {
	thread, err := s.threadRepo.FindOwned(ctx, user.ID, threadID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrThreadNotFound
		}
		return nil, fmt.Errorf("find thread: %w", err)
	}

	if err := s.checkQuota(ctx, user); err != nil {
		return nil, err
	}

	index, err := s.indexes.IndexForDate(ctx, thread.Date)
	if err != nil {
		return nil, err
	}

	answer, err := s.engine.Query(ctx, index, question)
	if err != nil {
		s.logger.Error("chat query failed",
			zap.Uint("thread_id", thread.ID),
			zap.Error(err))
		return nil, fmt.Errorf("%w: %v", apperrors.ErrRetrievalFailed, err)
	}

	sources := extractSources(answer)

	askedAt := s.now().UTC()
	userMsg := &model.Message{
		ThreadID:  thread.ID,
		Role:      model.MessageRoleUser,
		Content:   question,
		CreatedAt: askedAt,
	}
	assistantMsg := &model.Message{
		ThreadID:  thread.ID,
		Role:      model.MessageRoleAssistant,
		Content:   answer,
		Metadata:  model.Metadata{"sources": sources},
		CreatedAt: askedAt.Add(time.Millisecond),
	}
	if err := s.messageRepo.CreateExchange(ctx, userMsg, assistantMsg); err != nil {
		return nil, fmt.Errorf("persist exchange: %w", err)
	}

	return &QueryResult{
		Answer:    answer,
		Sources:   sources,
		MessageID: assistantMsg.ID,
	}, nil
}

// checkQuota enforces the free-tier daily question budget by counting the
// user's role=user messages within the current UTC calendar day. The stored
// messages are the source of truth, so the count survives restarts and resets
// at UTC midnight by construction.
func (s *queryService) checkQuota(ctx context.Context, user *model.User) error {
	now := s.now()
	tier := subscription.Effective(user, now)
	limit, limited := tier.DailyQueryLimit()
	if !limited {
		return nil
	}

	dayStart := truncateToDay(now)
	dayEnd := dayStart.AddDate(0, 0, 1)
	count, err := s.messageRepo.CountUserMessagesBetween(ctx, user.ID, dayStart, dayEnd)
	if err != nil {
		return fmt.Errorf("count queries: %w", err)
	}
	if count >= int64(limit) {
		return apperrors.ErrQueryLimitExceeded
	}
	return nil
}

// extractSources pulls URLs out of an answer for the client's source list.
func extractSources(answer string) []string {
	matches := urlPattern.FindAllString(answer, -1)
	seen := make(map[string]struct{}, len(matches))
	sources := make([]string, 0, len(matches))
	for _, m := range matches {
		if _, ok := seen[m]; ok {
			continue
		}
		seen[m] = struct{}{}
		sources = append(sources, m)
	}
	return sources
}
