package model

import "time"

// Thread holds one calendar day's digest conversation for a user.
//
// The (user_id, date) unique index is the digest idempotency invariant: the
// database, not application locking, guarantees at most one digest per user
// per day. Concurrent first requests race on this constraint and the loser
// re-reads the winner's row.
type Thread struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"not null;uniqueIndex:uq_user_date"`
	Title     string    `json:"title" gorm:"size:500;not null"`
	Date      time.Time `json:"date" gorm:"type:date;not null;uniqueIndex:uq_user_date"`
	CreatedAt time.Time `json:"created_at"`

	User     User      `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Messages []Message `json:"messages,omitempty" gorm:"foreignKey:ThreadID"`
}
