package testutil

import (
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// TestDatabase holds test database connection (in-memory SQLite)
type TestDatabase struct {
	DB  *gorm.DB
	DSN string
}

// TestRedis holds test Redis mock (miniredis)
type TestRedis struct {
	Server *miniredis.Miniredis
	URL    string
}

// TestUser is a SQLite-compatible version of models.User for testing
// (SQLite has no uuid type or gen_random_uuid default).
type TestUser struct {
	ID           string `gorm:"type:text;primaryKey"`
	Email        string `gorm:"type:varchar(255);uniqueIndex;not null"`
	Username     string `gorm:"type:varchar(255);not null"`
	Nickname     string `gorm:"type:varchar(255)"`
	PasswordHash string `gorm:"type:varchar(255);not null"`
	IsActive     bool   `gorm:"not null;default:true"`
	IsStaff      bool   `gorm:"not null;default:false"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    gorm.DeletedAt `gorm:"index"`
}

func (TestUser) TableName() string {
	return "users"
}

// TestChatRoom mirrors models.ChatRoom for SQLite
type TestChatRoom struct {
	ID        uint   `gorm:"primaryKey;autoIncrement"`
	Name      string `gorm:"type:varchar(255);uniqueIndex;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (TestChatRoom) TableName() string {
	return "chat_rooms"
}

// TestChat mirrors models.Chat for SQLite
type TestChat struct {
	ID         uint   `gorm:"primaryKey;autoIncrement"`
	UserID     string `gorm:"type:text;not null;index"`
	ChatRoomID uint   `gorm:"not null;index"`
	Message    string `gorm:"type:varchar(120);not null"`
	Edited     bool   `gorm:"not null;default:false"`
	CreatedAt  time.Time `gorm:"index"`
	UpdatedAt  time.Time
}

func (TestChat) TableName() string {
	return "chats"
}

// TestLike mirrors models.Like for SQLite, keeping the composite unique
// index that backs the toggle
type TestLike struct {
	ID        uint   `gorm:"primaryKey;autoIncrement"`
	UserID    string `gorm:"type:text;not null;uniqueIndex:idx_user_chat_like"`
	ChatID    uint   `gorm:"not null;uniqueIndex:idx_user_chat_like"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (TestLike) TableName() string {
	return "likes"
}

// TestArticle mirrors models.Article for SQLite
type TestArticle struct {
	ID        uint   `gorm:"primaryKey;autoIncrement"`
	Title     string `gorm:"type:varchar(255);not null"`
	Text      string `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time
}

func (TestArticle) TableName() string {
	return "articles"
}

// SetupTestDatabase creates an in-memory SQLite database for integration
// tests. No Docker required.
func SetupTestDatabase(t *testing.T) *TestDatabase {
	dsn := "file::memory:?cache=shared"

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	err = db.AutoMigrate(&TestUser{}, &TestChatRoom{}, &TestChat{}, &TestLike{}, &TestArticle{})
	if err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	return &TestDatabase{
		DB:  db,
		DSN: dsn,
	}
}

// Teardown cleans up the test database (closes connection)
func (td *TestDatabase) Teardown(t *testing.T) {
	sqlDB, err := td.DB.DB()
	if err != nil {
		t.Logf("Warning: Failed to get underlying DB: %v", err)
		return
	}
	if err := sqlDB.Close(); err != nil {
		t.Logf("Warning: Failed to close database: %v", err)
	}
}

// SetupTestRedis creates an in-memory Redis mock (miniredis)
func SetupTestRedis(t *testing.T) *TestRedis {
	server, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}

	return &TestRedis{
		Server: server,
		URL:    fmt.Sprintf("redis://%s", server.Addr()),
	}
}

// Teardown cleans up the test Redis mock
func (tr *TestRedis) Teardown(t *testing.T) {
	tr.Server.Close()
}

// CleanDatabase deletes all records from tables (for test isolation)
func CleanDatabase(t *testing.T, db *gorm.DB) {
	// SQLite doesn't support TRUNCATE; delete child tables first
	tables := []string{"likes", "chats", "chat_rooms", "articles", "users"}
	for _, table := range tables {
		if err := db.Exec(fmt.Sprintf("DELETE FROM %s", table)).Error; err != nil {
			t.Logf("Warning: Failed to clean table %s: %v", table, err)
		}
	}
}
