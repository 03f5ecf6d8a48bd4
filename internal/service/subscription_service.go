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

// SubscriptionService mutates stored subscription facts. Entitlement itself
// stays computed (internal/subscription); only the facts change here.
type SubscriptionService interface {
	Upgrade(ctx context.Context, user *model.User) (*model.User, error)
	SetSubscription(ctx context.Context, userID uint, tier string, expiresAt *time.Time) (*model.User, error)
}

type subscriptionService struct {
	userRepo    repository.UserRepository
	userService UserService
	now         func() time.Time
}

// NewSubscriptionService creates a new subscription service.
func NewSubscriptionService(userRepo repository.UserRepository, userService UserService) SubscriptionService {
	return &subscriptionService{
		userRepo:    userRepo,
		userService: userService,
		now:         time.Now,
	}
}

// Upgrade grants the caller one premium period from now. Re-upgrading while
// premium extends from the current expiry rather than discarding paid days.
func (s *subscriptionService) Upgrade(ctx context.Context, user *model.User) (*model.User, error) {
	if user.Role == model.RoleAdmin {
		// Admins already have every entitlement; nothing to buy.
		return user, nil
	}

	plan := subscription.PremiumPlan()
	start := s.now()
	if user.SubscriptionType == model.SubscriptionPremium &&
		user.SubscriptionExpiresAt != nil &&
		user.SubscriptionExpiresAt.After(start) {
		start = *user.SubscriptionExpiresAt
	}
	expiry := start.AddDate(0, 0, plan.DurationDays)

	user.SubscriptionType = model.SubscriptionPremium
	user.SubscriptionExpiresAt = &expiry
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update subscription: %w", err)
	}
	s.userService.InvalidateUser(ctx, user.ID)
	return user, nil
}

// SetSubscription is the administrative mutation: set a user's tier and
// expiry directly. Admin targets keep their invariant (no tier, no expiry).
func (s *subscriptionService) SetSubscription(ctx context.Context, userID uint, tier string, expiresAt *time.Time) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if user.Role == model.RoleAdmin {
		user.SubscriptionType = ""
		user.SubscriptionExpiresAt = nil
	} else {
		user.SubscriptionType = tier
		user.SubscriptionExpiresAt = expiresAt
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update subscription: %w", err)
	}
	s.userService.InvalidateUser(ctx, user.ID)
	return user, nil
}
