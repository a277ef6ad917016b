package repository

import (
	"errors"

	"github.com/aokimura/chatplaza/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) CreateUser(user *models.User) error {
	return r.db.Create(user).Error
}

func (r *UserRepository) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	err := r.db.Where("email = ?", email).First(&user).Error
	// GORM automatically excludes soft-deleted users

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &user, nil
}

func (r *UserRepository) GetUserByID(id uuid.UUID) (*models.User, error) {
	var user models.User
	err := r.db.Where("id = ?", id).First(&user).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &user, nil
}

func (r *UserRepository) UpdateUser(user *models.User) error {
	return r.db.Save(user).Error
}

// SoftDeleteUser marks a user as deleted (sets DeletedAt)
func (r *UserRepository) SoftDeleteUser(id uuid.UUID) error {
	return r.db.Delete(&models.User{}, "id = ?", id).Error
}

// SearchUsers returns users matching the query on email or username,
// including soft-deleted ones. Empty query returns everyone.
func (r *UserRepository) SearchUsers(query string) ([]*models.User, error) {
	var users []*models.User
	tx := r.db.Unscoped().Order("created_at DESC")
	if query != "" {
		pattern := "%" + query + "%"
		tx = tx.Where("email LIKE ? OR username LIKE ?", pattern, pattern)
	}
	if err := tx.Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}
