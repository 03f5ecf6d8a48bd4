package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"answerme/internal/model"
)

// ThreadRepository defines thread persistence operations.
type ThreadRepository interface {
	FindByUserAndDate(ctx context.Context, userID uint, date time.Time) (*model.Thread, error)
	FindOwned(ctx context.Context, userID, threadID uint) (*model.Thread, error)
	ListByUser(ctx context.Context, userID uint, since *time.Time) ([]model.Thread, error)
	CreateWithDigest(ctx context.Context, thread *model.Thread, digest *model.Message) error
	DeleteOwned(ctx context.Context, userID, threadID uint) (bool, error)
}

type threadRepository struct {
	db *gorm.DB
}

// NewThreadRepository creates a new thread repository.
func NewThreadRepository(db *gorm.DB) ThreadRepository {
	return &threadRepository{db: db}
}

func (r *threadRepository) FindByUserAndDate(ctx context.Context, userID uint, date time.Time) (*model.Thread, error) {
	var thread model.Thread
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND date = ?", userID, date.Format("2006-01-02")).
		First(&thread).Error; err != nil {
		return nil, err
	}
	return &thread, nil
}

func (r *threadRepository) FindOwned(ctx context.Context, userID, threadID uint) (*model.Thread, error) {
	var thread model.Thread
	if err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", threadID, userID).
		First(&thread).Error; err != nil {
		return nil, err
	}
	return &thread, nil
}

// ListByUser returns the user's threads newest date first. A non-nil since
// restricts the result to threads dated on or after it (the free tier's
// visibility window).
func (r *threadRepository) ListByUser(ctx context.Context, userID uint, since *time.Time) ([]model.Thread, error) {
	query := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if since != nil {
		query = query.Where("date >= ?", since.Format("2006-01-02"))
	}
	var threads []model.Thread
	if err := query.Order("date DESC").Find(&threads).Error; err != nil {
		return nil, err
	}
	return threads, nil
}

// CreateWithDigest inserts the thread and its first assistant message in one
// transaction. A concurrent insert for the same (user, date) hits the
// uq_user_date constraint and returns gorm.ErrDuplicatedKey; the caller
// resolves the race by re-reading the winner.
func (r *threadRepository) CreateWithDigest(ctx context.Context, thread *model.Thread, digest *model.Message) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(thread).Error; err != nil {
			return err
		}
		digest.ThreadID = thread.ID
		return tx.Create(digest).Error
	})
}

// DeleteOwned removes the thread and cascades to its messages. Returns false
// when the thread is absent or owned by someone else.
func (r *threadRepository) DeleteOwned(ctx context.Context, userID, threadID uint) (bool, error) {
	var deleted bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND user_id = ?", threadID, userID).Delete(&model.Thread{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		deleted = true
		// Explicit cascade keeps behavior consistent when the schema's FK
		// cascade is absent (e.g. sqlite in dev).
		return tx.Where("thread_id = ?", threadID).Delete(&model.Message{}).Error
	})
	return deleted, err
}
