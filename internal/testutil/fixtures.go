package testutil

import (
	"time"

	"github.com/aokimura/chatplaza/internal/utils"
	"github.com/google/uuid"
)

// CreateTestUser creates a SQLite-compatible test user with hashed password
func CreateTestUser(email, username, nickname, password string, isStaff bool) (*TestUser, error) {
	hashedPassword, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}

	return &TestUser{
		ID:           uuid.New().String(), // SQLite stores UUID as string
		Email:        email,
		Username:     username,
		Nickname:     nickname,
		PasswordHash: hashedPassword,
		IsActive:     true,
		IsStaff:      isStaff,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}, nil
}

// DefaultTestUser returns a default regular user
func DefaultTestUser() (*TestUser, error) {
	return CreateTestUser("test@example.com", "testuser", "tester", "Test123456", false)
}

// DefaultStaffUser returns a default staff user
func DefaultStaffUser() (*TestUser, error) {
	return CreateTestUser("staff@example.com", "staff", "the staff", "Staff123456", true)
}

// CreateTestRoom creates a SQLite-compatible chat room
func CreateTestRoom(name string) *TestChatRoom {
	return &TestChatRoom{
		Name:      name,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}

// CreateTestChat creates a SQLite-compatible chat message
func CreateTestChat(userID string, roomID uint, message string) *TestChat {
	return &TestChat{
		UserID:     userID,
		ChatRoomID: roomID,
		Message:    message,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}
}

// CreateTestArticle creates a SQLite-compatible article
func CreateTestArticle(title, text string, createdAt time.Time) *TestArticle {
	return &TestArticle{
		Title:     title,
		Text:      text,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
}
