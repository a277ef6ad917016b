package models

import (
	"time"

	"github.com/google/uuid"
)

// MaxChatMessageLength caps the length of a single chat message.
const MaxChatMessageLength = 120

type Chat struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	ChatRoomID uint      `gorm:"not null;index" json:"chat_room_id"`
	Message    string    `gorm:"type:varchar(120);not null" json:"message"`
	Edited     bool      `gorm:"not null;default:false" json:"edited"`
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	// Foreign key relationships
	User     User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	ChatRoom ChatRoom `gorm:"foreignKey:ChatRoomID;constraint:OnDelete:CASCADE" json:"-"`
}
