package main

import (
	"log"
	"net/http"

	"github.com/aokimura/chatplaza/internal/broker"
	"github.com/aokimura/chatplaza/internal/config"
	"github.com/aokimura/chatplaza/internal/database"
	"github.com/aokimura/chatplaza/internal/handler"
	"github.com/aokimura/chatplaza/internal/middleware"
	"github.com/aokimura/chatplaza/internal/repository"
	"github.com/aokimura/chatplaza/internal/service"
	"github.com/aokimura/chatplaza/internal/wal"
	"github.com/aokimura/chatplaza/pkg/logger"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg := config.Load()
	log.Println("Config loaded successfully")

	if err := logger.Init(cfg.Environment != "production"); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	database.Connect(cfg)
	database.Migrate()

	// Chat post journal
	chatWAL, err := wal.New(cfg.WALPath)
	if err != nil {
		log.Fatalf("Failed to initialize WAL: %v", err)
	}
	defer chatWAL.Close()

	// Redis: chat event fan-out and rate limiting
	chatBroker, err := broker.NewRedisChatBroker(cfg.RedisURL)
	if err != nil {
		log.Fatalf("Failed to initialize Redis broker: %v", err)
	}
	defer chatBroker.Close()

	redisOpt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Fatalf("Invalid REDIS_URL: %v", err)
	}
	redisClient := redis.NewClient(redisOpt)
	defer redisClient.Close()

	// Repositories
	userRepo := repository.NewUserRepository(database.DB)
	roomRepo := repository.NewChatRoomRepository(database.DB)
	chatRepo := repository.NewChatRepository(database.DB)
	likeRepo := repository.NewLikeRepository(database.DB)
	articleRepo := repository.NewArticleRepository(database.DB)

	// Services
	authService := service.NewAuthService(userRepo, cfg.JWTSecret, cfg.JWTExpiry, cfg.Environment)
	roomService := service.NewRoomService(roomRepo)
	chatService := service.NewChatService(chatRepo, roomRepo, likeRepo, chatBroker, chatWAL)
	articleService := service.NewArticleService(articleRepo)

	// Handlers
	authHandler := handler.NewAuthHandler(authService)
	roomHandler := handler.NewRoomHandler(roomService)
	chatHandler := handler.NewChatHandler(chatService)
	articleHandler := handler.NewArticleHandler(articleService)
	adminHandler := handler.NewAdminHandler(authService, chatService)
	wsHandler := handler.NewWebSocketHandler(roomService, chatBroker)

	rateLimiter := middleware.NewRateLimiter(redisClient, middleware.RateLimiterConfig{
		MaxRequests: cfg.RateLimitMaxRequests,
		Window:      cfg.RateLimitWindow,
		BlockTime:   cfg.RateLimitBlockTime,
	})

	// Router
	router := gin.Default()
	router.Use(middleware.SecurityHeadersMiddleware())
	router.Use(rateLimiter.Middleware())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowCredentials = false
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	router.Use(cors.New(corsConfig))

	// Public routes
	router.POST("/api/auth/register", authHandler.Register)
	router.POST("/api/auth/login", authHandler.Login)

	// Protected routes (require session token)
	protected := router.Group("/api")
	protected.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	{
		protected.POST("/auth/logout", authHandler.Logout)

		protected.GET("/me", authHandler.Me)
		protected.PUT("/me", authHandler.UpdateMe)
		protected.DELETE("/me", authHandler.DeleteMe)

		protected.GET("/rooms", roomHandler.List)
		protected.POST("/rooms", roomHandler.Create)
		protected.POST("/rooms/join", roomHandler.Join)

		protected.GET("/rooms/:id/chats", chatHandler.ListByRoom)
		protected.POST("/rooms/:id/chats", chatHandler.Post)
		protected.GET("/rooms/:id/ws", wsHandler.HandleRoomFeed)

		protected.GET("/chats/:id", chatHandler.Get)
		protected.PUT("/chats/:id", chatHandler.Edit)
		protected.DELETE("/chats/:id", chatHandler.Delete)
		// The like endpoint answers non-POST methods itself with a
		// generic client error
		protected.Any("/chats/:id/like", chatHandler.ToggleLike)

		protected.GET("/articles", articleHandler.List)
	}

	// Operator console routes
	admin := router.Group("/api/admin")
	admin.Use(middleware.AuthMiddleware(cfg.JWTSecret), middleware.StaffMiddleware())
	{
		admin.GET("/users", adminHandler.ListUsers)
		admin.GET("/chats", adminHandler.ListChats)
		admin.GET("/likes", adminHandler.ListLikes)
	}

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	log.Printf("Server starting on %s", cfg.ServerPort)
	if err := router.Run(cfg.ServerPort); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
