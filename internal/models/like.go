package models

import (
	"time"

	"github.com/google/uuid"
)

// Like marks that a user liked a chat. The composite unique index keeps
// at most one row per (user, chat) pair so the toggle cannot double-insert
// under concurrent requests.
type Like struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_user_chat_like" json:"user_id"`
	ChatID    uint      `gorm:"not null;uniqueIndex:idx_user_chat_like" json:"chat_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Chat Chat `gorm:"foreignKey:ChatID;constraint:OnDelete:CASCADE" json:"-"`
}
