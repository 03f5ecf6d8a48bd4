package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	apperrors "answerme/internal/errors"
	"answerme/internal/model"
	"answerme/internal/repository"
	"answerme/internal/subscription"
)

// ThreadSummary is one listing entry, annotated with its message count.
type ThreadSummary struct {
	ID           uint      `json:"id"`
	Title        string    `json:"title"`
	Date         time.Time `json:"date"`
	CreatedAt    time.Time `json:"created_at"`
	MessageCount int64     `json:"message_count"`
}

// ThreadDetail is a thread with its full message history.
type ThreadDetail struct {
	ID       uint            `json:"id"`
	Title    string          `json:"title"`
	Date     time.Time       `json:"date"`
	Messages []model.Message `json:"messages"`
}

// ThreadService exposes thread listing, retrieval, and deletion with
// tier-derived visibility rules.
type ThreadService interface {
	List(ctx context.Context, user *model.User) ([]ThreadSummary, error)
	Get(ctx context.Context, user *model.User, threadID uint) (*ThreadDetail, error)
	Detail(ctx context.Context, user *model.User, thread *model.Thread) (*ThreadDetail, error)
	Delete(ctx context.Context, user *model.User, threadID uint) error
}

type threadService struct {
	threadRepo  repository.ThreadRepository
	messageRepo repository.MessageRepository
	now         func() time.Time
}

// NewThreadService creates a new thread service.
func NewThreadService(threadRepo repository.ThreadRepository, messageRepo repository.MessageRepository) ThreadService {
	return &threadService{
		threadRepo:  threadRepo,
		messageRepo: messageRepo,
		now:         time.Now,
	}
}

// List returns the user's threads newest first, restricted to the visibility
// window for free-tier callers and annotated with message counts.
func (s *threadService) List(ctx context.Context, user *model.User) ([]ThreadSummary, error) {
	now := s.now()
	var since *time.Time
	tier := subscription.Effective(user, now)
	if days, limited := tier.HistoryWindow(); limited {
		cutoff := truncateToDay(now).AddDate(0, 0, -days)
		since = &cutoff
	}

	threads, err := s.threadRepo.ListByUser(ctx, user.ID, since)
	if err != nil {
		return nil, fmt.Errorf("list threads: %w", err)
	}

	ids := make([]uint, len(threads))
	for i, t := range threads {
		ids[i] = t.ID
	}
	counts, err := s.messageRepo.CountByThreads(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("count messages: %w", err)
	}

	summaries := make([]ThreadSummary, len(threads))
	for i, t := range threads {
		summaries[i] = ThreadSummary{
			ID:           t.ID,
			Title:        t.Title,
			Date:         t.Date,
			CreatedAt:    t.CreatedAt,
			MessageCount: counts[t.ID],
		}
	}
	return summaries, nil
}

// Get loads an owned thread with messages. A thread outside the free tier's
// window returns ErrThreadUpgradeRequired, not ErrThreadNotFound, so the
// client can render an upgrade prompt instead of a dead end.
func (s *threadService) Get(ctx context.Context, user *model.User, threadID uint) (*ThreadDetail, error) {
	thread, err := s.threadRepo.FindOwned(ctx, user.ID, threadID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrThreadNotFound
		}
		return nil, fmt.Errorf("find thread: %w", err)
	}
	return s.Detail(ctx, user, thread)
}

// Detail assembles the detail payload for an already-loaded thread, applying
// the visibility window.
func (s *threadService) Detail(ctx context.Context, user *model.User, thread *model.Thread) (*ThreadDetail, error) {
	tier := subscription.Effective(user, s.now())
	if days, limited := tier.HistoryWindow(); limited {
		cutoff := truncateToDay(s.now()).AddDate(0, 0, -days)
		// thread.Date is scanned in the driver's location; compare calendar
		// days, not instants, or the boundary day shifts with the timezone.
		if thread.Date.Format("2006-01-02") < cutoff.Format("2006-01-02") {
			return nil, apperrors.ErrThreadUpgradeRequired
		}
	}

	messages, err := s.messageRepo.ListByThread(ctx, thread.ID)
	if err != nil {
		return nil, fmt.Errorf("load messages: %w", err)
	}
	return &ThreadDetail{
		ID:       thread.ID,
		Title:    thread.Title,
		Date:     thread.Date,
		Messages: messages,
	}, nil
}

// Delete removes an owned thread and its messages.
func (s *threadService) Delete(ctx context.Context, user *model.User, threadID uint) error {
	deleted, err := s.threadRepo.DeleteOwned(ctx, user.ID, threadID)
	if err != nil {
		return fmt.Errorf("delete thread: %w", err)
	}
	if !deleted {
		return apperrors.ErrThreadNotFound
	}
	return nil
}
