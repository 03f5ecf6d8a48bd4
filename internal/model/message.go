package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Message roles.
const (
	MessageRoleSystem    = "system"
	MessageRoleUser      = "user"
	MessageRoleAssistant = "assistant"
)

// Metadata is a JSON object column. The digest message stores the
// keyword->summary map here so clients can extract per-keyword source links.
type Metadata map[string]interface{}

// Value implements driver.Valuer, serializing the map to a JSON column.
func (m Metadata) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

// Scan implements sql.Scanner.
func (m *Metadata) Scan(value interface{}) error {
	if value == nil {
		*m = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, m)
	case string:
		return json.Unmarshal([]byte(v), m)
	default:
		return fmt.Errorf("unsupported metadata column type %T", value)
	}
}

// Message is one entry in a thread's conversation, ordered by CreatedAt.
// The first message of a fresh thread is always an assistant digest;
// chat exchanges append user/assistant pairs after it.
type Message struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	ThreadID  uint      `json:"thread_id" gorm:"not null;index"`
	Role      string    `json:"role" gorm:"size:50;not null"`
	Content   string    `json:"content" gorm:"type:text;not null"`
	Metadata  Metadata  `json:"metadata,omitempty" gorm:"type:json"`
	CreatedAt time.Time `json:"created_at"`

	Thread Thread `json:"-" gorm:"foreignKey:ThreadID;constraint:OnDelete:CASCADE"`
}
