package service

import (
	"github.com/aokimura/chatplaza/internal/models"
	"github.com/aokimura/chatplaza/internal/repository"
	"github.com/aokimura/chatplaza/pkg/logger"
	"go.uber.org/zap"
)

type ArticleService struct {
	articleRepo *repository.ArticleRepository
}

func NewArticleService(articleRepo *repository.ArticleRepository) *ArticleService {
	return &ArticleService{articleRepo: articleRepo}
}

// ListArticles returns all articles, newest first. There is no write path.
func (s *ArticleService) ListArticles() ([]models.Article, error) {
	articles, err := s.articleRepo.GetAllArticles()
	if err != nil {
		logger.Log.Error("Failed to list articles", zap.Error(err))
		return nil, err
	}
	return articles, nil
}
