package subscription

import "github.com/shopspring/decimal"

// Plan describes a purchasable subscription tier.
type Plan struct {
	Name         string          `json:"name"`
	MonthlyPrice decimal.Decimal `json:"monthly_price"`
	DurationDays int             `json:"duration_days"`
}

// Plans is the self-service catalog. A premium upgrade buys one 30-day period
// from the moment of purchase.
func Plans() []Plan {
	return []Plan{
		{
			Name:         string(TierFree),
			MonthlyPrice: decimal.Zero,
			DurationDays: 0,
		},
		{
			Name:         string(TierPremium),
			MonthlyPrice: decimal.NewFromFloat(9.99),
			DurationDays: 30,
		},
	}
}

// PremiumPlan returns the premium catalog entry.
func PremiumPlan() Plan {
	return Plans()[1]
}
