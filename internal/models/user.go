package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Email        string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Username     string         `gorm:"type:varchar(255);not null" json:"username"`
	Nickname     string         `gorm:"type:varchar(255)" json:"nickname"`
	PasswordHash string         `gorm:"type:varchar(255);not null" json:"-"` // Never expose password hash in JSON
	IsActive     bool           `gorm:"not null;default:true" json:"is_active"`
	IsStaff      bool           `gorm:"not null;default:false" json:"is_staff"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}
