package model

import "time"

// Role values stored on User.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// Subscription tiers stored on User. Meaningful only for role=user;
// admins carry neither a tier nor an expiry.
const (
	SubscriptionFree    = "free"
	SubscriptionPremium = "premium"
)

// User represents a registered account.
type User struct {
	ID                    uint       `json:"id" gorm:"primaryKey"`
	Email                 string     `json:"email" gorm:"uniqueIndex;size:255;not null"`
	Fullname              string     `json:"fullname" gorm:"size:255;not null"`
	PasswordHash          string     `json:"-" gorm:"size:255;not null"` // Never expose in JSON
	Role                  string     `json:"role" gorm:"size:50;not null;default:'user'"`
	SubscriptionType      string     `json:"subscription_type,omitempty" gorm:"size:50;default:'free'"`
	SubscriptionExpiresAt *time.Time `json:"subscription_expires_at,omitempty"`
	CreatedAt             time.Time  `json:"created_at"`
	UpdatedAt             time.Time  `json:"updated_at"`
}

// IsAdmin reports whether the stored role grants administrative access.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
