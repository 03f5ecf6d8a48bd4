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

// KeywordList is the listing payload: keywords plus quota information so the
// client can render remaining capacity. Limit is nil for unlimited tiers.
type KeywordList struct {
	Keywords []model.Keyword `json:"keywords"`
	Count    int             `json:"count"`
	Limit    *int            `json:"limit"`
}

// KeywordService manages a user's keyword subscriptions.
type KeywordService interface {
	Add(ctx context.Context, user *model.User, term string) (*model.Keyword, error)
	List(ctx context.Context, user *model.User) (*KeywordList, error)
	Remove(ctx context.Context, user *model.User, keywordID uint) error
}

type keywordService struct {
	repo repository.KeywordRepository
	now  func() time.Time
}

// NewKeywordService creates a new keyword service.
func NewKeywordService(repo repository.KeywordRepository) KeywordService {
	return &keywordService{repo: repo, now: time.Now}
}

// Add inserts a keyword, enforcing the tier cap and case-sensitive uniqueness.
func (s *keywordService) Add(ctx context.Context, user *model.User, term string) (*model.Keyword, error) {
	tier := subscription.Effective(user, s.now())
	if limit, limited := tier.KeywordLimit(); limited {
		count, err := s.repo.CountByUser(ctx, user.ID)
		if err != nil {
			return nil, fmt.Errorf("count keywords: %w", err)
		}
		if count >= int64(limit) {
			return nil, apperrors.ErrKeywordLimitExceeded
		}
	}

	existing, err := s.repo.FindByUserAndTerm(ctx, user.ID, term)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check keyword: %w", err)
	}
	if existing != nil {
		return nil, apperrors.ErrKeywordExists
	}

	keyword := &model.Keyword{UserID: user.ID, Keyword: term}
	if err := s.repo.Create(ctx, keyword); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrKeywordExists
		}
		return nil, fmt.Errorf("create keyword: %w", err)
	}
	return keyword, nil
}

// List returns the user's keywords with count and tier limit.
func (s *keywordService) List(ctx context.Context, user *model.User) (*KeywordList, error) {
	keywords, err := s.repo.FindByUser(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("list keywords: %w", err)
	}

	list := &KeywordList{
		Keywords: keywords,
		Count:    len(keywords),
	}
	tier := subscription.Effective(user, s.now())
	if limit, limited := tier.KeywordLimit(); limited {
		list.Limit = &limit
	}
	return list, nil
}

// Remove deletes a keyword the user owns.
func (s *keywordService) Remove(ctx context.Context, user *model.User, keywordID uint) error {
	deleted, err := s.repo.DeleteOwned(ctx, user.ID, keywordID)
	if err != nil {
		return fmt.Errorf("delete keyword: %w", err)
	}
	if !deleted {
		return apperrors.ErrKeywordNotFound
	}
	return nil
}
