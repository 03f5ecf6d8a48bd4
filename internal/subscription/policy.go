// Package subscription derives effective entitlements from stored account
// facts. Everything here is a pure function over (role, tier, expiry, now):
// entitlements are recomputed per request, never cached on the user row.
package subscription

import (
	"time"

	"answerme/internal/model"
)

// Tier is the access level actually granted to a request.
type Tier string

const (
	TierAdmin   Tier = "admin"
	TierPremium Tier = "premium"
	TierFree    Tier = "free"
)

// Free tier limits. Premium and admin are unlimited on all three.
const (
	FreeKeywordLimit = 5
	FreeHistoryDays  = 30
	FreeDailyQueries = 10
)

// Effective computes the tier granted to the user at the given instant.
// Admin role always wins regardless of subscription fields. A premium
// subscription counts only while it has a future expiry.
func Effective(user *model.User, now time.Time) Tier {
	if user.Role == model.RoleAdmin {
		return TierAdmin
	}
	if user.SubscriptionType == model.SubscriptionPremium &&
		user.SubscriptionExpiresAt != nil &&
		user.SubscriptionExpiresAt.After(now) {
		return TierPremium
	}
	return TierFree
}

// IsPremium reports whether the tier grants premium entitlements.
func (t Tier) IsPremium() bool {
	return t == TierAdmin || t == TierPremium
}

// KeywordLimit returns the keyword cap for the tier. limited is false when
// the tier has no cap.
func (t Tier) KeywordLimit() (limit int, limited bool) {
	if t.IsPremium() {
		return 0, false
	}
	return FreeKeywordLimit, true
}

// HistoryWindow returns the thread visibility window. limited is false when
// the full history is visible.
func (t Tier) HistoryWindow() (days int, limited bool) {
	if t.IsPremium() {
		return 0, false
	}
	return FreeHistoryDays, true
}

// DailyQueryLimit returns the per-UTC-day chat query quota. limited is false
// when queries are unmetered.
func (t Tier) DailyQueryLimit() (limit int, limited bool) {
	if t.IsPremium() {
		return 0, false
	}
	return FreeDailyQueries, true
}

// DaysRemaining returns the whole days left on a premium subscription,
// rounding up so a subscription expiring later today reports 1. Zero for
// admins, free users, and lapsed subscriptions.
func DaysRemaining(user *model.User, now time.Time) int {
	if user.Role == model.RoleAdmin || user.SubscriptionExpiresAt == nil {
		return 0
	}
	remaining := user.SubscriptionExpiresAt.Sub(now)
	if remaining <= 0 {
		return 0
	}
	return int((remaining + 24*time.Hour - 1) / (24 * time.Hour))
}
