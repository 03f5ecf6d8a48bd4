package repository

import (
	"context"

	"gorm.io/gorm"

	"answerme/internal/model"
)

// KeywordRepository defines keyword persistence operations.
type KeywordRepository interface {
	Create(ctx context.Context, keyword *model.Keyword) error
	FindByUser(ctx context.Context, userID uint) ([]model.Keyword, error)
	FindByUserAndTerm(ctx context.Context, userID uint, term string) (*model.Keyword, error)
	CountByUser(ctx context.Context, userID uint) (int64, error)
	DeleteOwned(ctx context.Context, userID, keywordID uint) (bool, error)
}

type keywordRepository struct {
	db *gorm.DB
}

// NewKeywordRepository creates a new keyword repository.
func NewKeywordRepository(db *gorm.DB) KeywordRepository {
	return &keywordRepository{db: db}
}

func (r *keywordRepository) Create(ctx context.Context, keyword *model.Keyword) error {
	return r.db.WithContext(ctx).Create(keyword).Error
}

// FindByUser returns the user's keywords in insertion order. Digest sections
// are rendered in this order, so it must be stable.
func (r *keywordRepository) FindByUser(ctx context.Context, userID uint) ([]model.Keyword, error) {
	var keywords []model.Keyword
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id ASC").
		Find(&keywords).Error; err != nil {
		return nil, err
	}
	return keywords, nil
}

// FindByUserAndTerm does a case-sensitive exact match. The keyword column's
// binary collation makes plain equality byte-wise.
func (r *keywordRepository) FindByUserAndTerm(ctx context.Context, userID uint, term string) (*model.Keyword, error) {
	var keyword model.Keyword
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND keyword = ?", userID, term).
		First(&keyword).Error; err != nil {
		return nil, err
	}
	return &keyword, nil
}

func (r *keywordRepository) CountByUser(ctx context.Context, userID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&model.Keyword{}).
		Where("user_id = ?", userID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// DeleteOwned removes the keyword only if it belongs to the user. Returns
// false when nothing matched.
func (r *keywordRepository) DeleteOwned(ctx context.Context, userID, keywordID uint) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", keywordID, userID).
		Delete(&model.Keyword{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
