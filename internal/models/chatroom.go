package models

import "time"

// ChatRoom is a named channel holding an ordered sequence of chats.
// Rooms are never deleted once created.
type ChatRoom struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
