package repository

import (
	"errors"

	"github.com/aokimura/chatplaza/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ChatRepository struct {
	db *gorm.DB
}

func NewChatRepository(db *gorm.DB) *ChatRepository {
	return &ChatRepository{db: db}
}

func (r *ChatRepository) CreateChat(chat *models.Chat) error {
	return r.db.Create(chat).Error
}

// GetChatsByRoom retrieves all chats in a room in ascending creation-time order.
func (r *ChatRepository) GetChatsByRoom(roomID uint) ([]models.Chat, error) {
	var chats []models.Chat
	err := r.db.
		Preload("User").
		Where("chat_room_id = ?", roomID).
		Order("created_at ASC").
		Find(&chats).Error

	return chats, err
}

// GetChatByIDAndUser filters on both chat id and author id. A non-author
// request for an existing chat comes back as not-found, never forbidden.
func (r *ChatRepository) GetChatByIDAndUser(chatID uint, userID uuid.UUID) (*models.Chat, error) {
	var chat models.Chat
	err := r.db.Where("id = ? AND user_id = ?", chatID, userID).First(&chat).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &chat, nil
}

func (r *ChatRepository) GetChatByID(chatID uint) (*models.Chat, error) {
	var chat models.Chat
	err := r.db.First(&chat, chatID).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &chat, nil
}

func (r *ChatRepository) UpdateChat(chat *models.Chat) error {
	return r.db.Save(chat).Error
}

func (r *ChatRepository) DeleteChat(chatID uint) error {
	return r.db.Delete(&models.Chat{}, chatID).Error
}

// SearchChats returns chats matching the query on message text, newest first.
// Empty query returns everything.
func (r *ChatRepository) SearchChats(query string) ([]models.Chat, error) {
	var chats []models.Chat
	tx := r.db.Preload("User").Order("created_at DESC")
	if query != "" {
		tx = tx.Where("message LIKE ?", "%"+query+"%")
	}
	err := tx.Find(&chats).Error
	return chats, err
}
