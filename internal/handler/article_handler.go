package handler

import (
	"net/http"

	"github.com/aokimura/chatplaza/internal/service"
	"github.com/gin-gonic/gin"
)

type ArticleHandler struct {
	articleService *service.ArticleService
}

func NewArticleHandler(articleService *service.ArticleService) *ArticleHandler {
	return &ArticleHandler{
		articleService: articleService,
	}
}

// List returns all articles, newest first.
// GET /api/articles
func (h *ArticleHandler) List(c *gin.Context) {
	articles, err := h.articleService.ListArticles()
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"articles": articles})
}
