package repository

import (
	"github.com/aokimura/chatplaza/internal/models"
	"gorm.io/gorm"
)

type ArticleRepository struct {
	db *gorm.DB
}

func NewArticleRepository(db *gorm.DB) *ArticleRepository {
	return &ArticleRepository{db: db}
}

func (r *ArticleRepository) CreateArticle(article *models.Article) error {
	return r.db.Create(article).Error
}

// GetAllArticles returns articles in descending creation-time order.
func (r *ArticleRepository) GetAllArticles() ([]models.Article, error) {
	var articles []models.Article
	err := r.db.Order("created_at DESC").Find(&articles).Error
	return articles, err
}
