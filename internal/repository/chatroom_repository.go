package repository

import (
	"errors"

	"github.com/aokimura/chatplaza/internal/models"
	"gorm.io/gorm"
)

type ChatRoomRepository struct {
	db *gorm.DB
}

func NewChatRoomRepository(db *gorm.DB) *ChatRoomRepository {
	return &ChatRoomRepository{db: db}
}

func (r *ChatRoomRepository) CreateChatRoom(room *models.ChatRoom) error {
	return r.db.Create(room).Error
}

// GetChatRoomByName does a case-sensitive exact match on the room name.
func (r *ChatRoomRepository) GetChatRoomByName(name string) (*models.ChatRoom, error) {
	var room models.ChatRoom
	err := r.db.Where("name = ?", name).First(&room).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &room, nil
}

func (r *ChatRoomRepository) GetChatRoomByID(id uint) (*models.ChatRoom, error) {
	var room models.ChatRoom
	err := r.db.First(&room, id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &room, nil
}

func (r *ChatRoomRepository) GetAllChatRooms() ([]models.ChatRoom, error) {
	var rooms []models.ChatRoom
	err := r.db.Order("created_at ASC").Find(&rooms).Error
	return rooms, err
}
