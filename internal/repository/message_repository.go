package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"answerme/internal/model"
)

// MessageRepository defines message persistence operations.
type MessageRepository interface {
	Create(ctx context.Context, message *model.Message) error
	CreateExchange(ctx context.Context, userMsg, assistantMsg *model.Message) error
	ListByThread(ctx context.Context, threadID uint) ([]model.Message, error)
	CountByThreads(ctx context.Context, threadIDs []uint) (map[uint]int64, error)
	CountUserMessagesBetween(ctx context.Context, userID uint, from, to time.Time) (int64, error)
}

type messageRepository struct {
	db *gorm.DB
}

// NewMessageRepository creates a new message repository.
func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) Create(ctx context.Context, message *model.Message) error {
	return r.db.WithContext(ctx).Create(message).Error
}

// CreateExchange persists a question/answer pair atomically, user message
// first. Callers set CreatedAt so the assistant timestamp strictly follows
// the user's and chronological replay stays unambiguous.
func (r *messageRepository) CreateExchange(ctx context.Context, userMsg, assistantMsg *model.Message) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(userMsg).Error; err != nil {
			return err
		}
		return tx.Create(assistantMsg).Error
	})
}

// ListByThread returns a thread's messages in chronological order.
func (r *messageRepository) ListByThread(ctx context.Context, threadID uint) ([]model.Message, error) {
	var messages []model.Message
	if err := r.db.WithContext(ctx).
		Where("thread_id = ?", threadID).
		Order("created_at ASC, id ASC").
		Find(&messages).Error; err != nil {
		return nil, err
	}
	return messages, nil
}

// CountByThreads returns message counts grouped by thread for the given ids.
func (r *messageRepository) CountByThreads(ctx context.Context, threadIDs []uint) (map[uint]int64, error) {
	counts := make(map[uint]int64, len(threadIDs))
	if len(threadIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		ThreadID uint
		Count    int64
	}
	if err := r.db.WithContext(ctx).
		Model(&model.Message{}).
		Select("thread_id, COUNT(*) AS count").
		Where("thread_id IN ?", threadIDs).
		Group("thread_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[row.ThreadID] = row.Count
	}
	return counts, nil
}

// CountUserMessagesBetween counts role=user messages the user authored across
// all their threads in [from, to). This backs the free-tier daily query quota.
func (r *messageRepository) CountUserMessagesBetween(ctx context.Context, userID uint, from, to time.Time) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&model.Message{}).
		Joins("JOIN threads ON threads.id = messages.thread_id").
		Where("threads.user_id = ? AND messages.role = ? AND messages.created_at >= ? AND messages.created_at < ?",
			userID, model.MessageRoleUser, from, to).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
