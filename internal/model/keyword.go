package model

import "time"

// Keyword is a news term a user subscribes to. The (user_id, keyword) pair is
// unique and case-sensitive: "AI" and "ai" are distinct subscriptions. The
// keyword column carries a binary collation so the unique index enforces the
// same case-sensitive equality the lookups use.
type Keyword struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"not null;uniqueIndex:uq_user_keyword"`
	Keyword   string    `json:"keyword" gorm:"type:varchar(255) COLLATE utf8mb4_bin;not null;uniqueIndex:uq_user_keyword"`
	CreatedAt time.Time `json:"created_at"`

	User User `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}
