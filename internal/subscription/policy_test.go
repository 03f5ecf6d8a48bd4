package subscription

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"answerme/internal/model"
)

func TestEffective(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	future := now.Add(48 * time.Hour)
	past := now.Add(-48 * time.Hour)

	tests := []struct {
		name     string
		user     *model.User
		expected Tier
	}{
		{
			name:     "admin ignores subscription fields",
			user:     &model.User{Role: model.RoleAdmin},
			expected: TierAdmin,
		},
		{
			name: "admin with stale premium fields is still admin",
			user: &model.User{
				Role:                  model.RoleAdmin,
				SubscriptionType:      model.SubscriptionPremium,
				SubscriptionExpiresAt: &past,
			},
			expected: TierAdmin,
		},
		{
			name: "premium with future expiry",
			user: &model.User{
				Role:                  model.RoleUser,
				SubscriptionType:      model.SubscriptionPremium,
				SubscriptionExpiresAt: &future,
			},
			expected: TierPremium,
		},
		{
			name: "premium with past expiry lapses to free",
			user: &model.User{
				Role:                  model.RoleUser,
				SubscriptionType:      model.SubscriptionPremium,
				SubscriptionExpiresAt: &past,
			},
			expected: TierFree,
		},
		{
			name: "premium without expiry is free",
			user: &model.User{
				Role:             model.RoleUser,
				SubscriptionType: model.SubscriptionPremium,
			},
			expected: TierFree,
		},
		{
			name: "free tier",
			user: &model.User{
				Role:             model.RoleUser,
				SubscriptionType: model.SubscriptionFree,
			},
			expected: TierFree,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Effective(tt.user, now))
		})
	}
}

func TestEffectiveExpiryBoundary(t *testing.T) {
	now := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	user := &model.User{
		Role:                  model.RoleUser,
		SubscriptionType:      model.SubscriptionPremium,
		SubscriptionExpiresAt: &now,
	}

	// Expiry exactly at now is already lapsed.
	assert.Equal(t, TierFree, Effective(user, now))

	justBefore := now.Add(-time.Second)
	assert.Equal(t, TierPremium, Effective(user, justBefore))
}

func TestTierLimits(t *testing.T) {
	t.Run("free tier is capped everywhere", func(t *testing.T) {
		limit, limited := TierFree.KeywordLimit()
		assert.True(t, limited)
		assert.Equal(t, FreeKeywordLimit, limit)

		days, limited := TierFree.HistoryWindow()
		assert.True(t, limited)
		assert.Equal(t, FreeHistoryDays, days)

		queries, limited := TierFree.DailyQueryLimit()
		assert.True(t, limited)
		assert.Equal(t, FreeDailyQueries, queries)

		assert.False(t, TierFree.IsPremium())
	})

	for _, tier := range []Tier{TierPremium, TierAdmin} {
		t.Run(string(tier)+" tier is unlimited", func(t *testing.T) {
			_, limited := tier.KeywordLimit()
			assert.False(t, limited)

			_, limited = tier.HistoryWindow()
			assert.False(t, limited)

			_, limited = tier.DailyQueryLimit()
			assert.False(t, limited)

			assert.True(t, tier.IsPremium())
		})
	}
}

func TestDaysRemaining(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		user     *model.User
		expected int
	}{
		{
			name:     "no expiry",
			user:     &model.User{Role: model.RoleUser},
			expected: 0,
		},
		{
			name: "admin reports zero even with expiry set",
			user: func() *model.User {
				expiry := now.Add(240 * time.Hour)
				return &model.User{Role: model.RoleAdmin, SubscriptionExpiresAt: &expiry}
			}(),
			expected: 0,
		},
		{
			name: "lapsed subscription",
			user: func() *model.User {
				expiry := now.Add(-time.Hour)
				return &model.User{Role: model.RoleUser, SubscriptionExpiresAt: &expiry}
			}(),
			expected: 0,
		},
		{
			name: "expiring later today rounds up to one",
			user: func() *model.User {
				expiry := now.Add(6 * time.Hour)
				return &model.User{Role: model.RoleUser, SubscriptionExpiresAt: &expiry}
			}(),
			expected: 1,
		},
		{
			name: "exactly thirty days",
			user: func() *model.User {
				expiry := now.Add(30 * 24 * time.Hour)
				return &model.User{Role: model.RoleUser, SubscriptionExpiresAt: &expiry}
			}(),
			expected: 30,
		},
		{
			name: "thirty days and change rounds up",
			user: func() *model.User {
				expiry := now.Add(30*24*time.Hour + time.Minute)
				return &model.User{Role: model.RoleUser, SubscriptionExpiresAt: &expiry}
			}(),
			expected: 31,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DaysRemaining(tt.user, now))
		})
	}
}
