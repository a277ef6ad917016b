package repository

import (
	"errors"

	"github.com/aokimura/chatplaza/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type LikeRepository struct {
	db *gorm.DB
}

func NewLikeRepository(db *gorm.DB) *LikeRepository {
	return &LikeRepository{db: db}
}

// ToggleLike flips the like state for (user, chat) inside one transaction:
// delete the row if it exists, create it otherwise. The unique index on
// (user_id, chat_id) keeps concurrent toggles from double-inserting.
// Returns the resulting liked state.
func (r *LikeRepository) ToggleLike(userID uuid.UUID, chatID uint) (bool, error) {
	var liked bool

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var like models.Like
		err := tx.Where("user_id = ? AND chat_id = ?", userID, chatID).First(&like).Error

		if err == nil {
			liked = false
			return tx.Delete(&like).Error
		}

		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		liked = true
		return tx.Create(&models.Like{UserID: userID, ChatID: chatID}).Error
	})

	return liked, err
}

func (r *LikeRepository) CountLikesByChat(chatID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Like{}).Where("chat_id = ?", chatID).Count(&count).Error
	return count, err
}

// HasUserLiked reports whether the user has an existing like on the chat.
func (r *LikeRepository) HasUserLiked(userID uuid.UUID, chatID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.Like{}).
		Where("user_id = ? AND chat_id = ?", userID, chatID).
		Count(&count).Error
	return count > 0, err
}

func (r *LikeRepository) GetAllLikes() ([]models.Like, error) {
	var likes []models.Like
	err := r.db.Order("created_at DESC").Find(&likes).Error
	return likes, err
}
