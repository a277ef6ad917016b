package handler_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aokimura/chatplaza/internal/broker"
	"github.com/aokimura/chatplaza/internal/handler"
	"github.com/aokimura/chatplaza/internal/middleware"
	"github.com/aokimura/chatplaza/internal/models"
	"github.com/aokimura/chatplaza/internal/repository"
	"github.com/aokimura/chatplaza/internal/service"
	"github.com/aokimura/chatplaza/internal/testutil"
	"github.com/aokimura/chatplaza/internal/utils"
	"github.com/aokimura/chatplaza/internal/wal"
	"github.com/aokimura/chatplaza/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

// ChatHandlerIntegrationTestSuite defines test suite
type ChatHandlerIntegrationTestSuite struct {
	suite.Suite
	testDB    *testutil.TestDatabase
	testRedis *testutil.TestRedis
	chatWAL   *wal.WAL
	router    *gin.Engine
	author    *testutil.TestUser
	other     *testutil.TestUser
	room      *testutil.TestChatRoom
}

// SetupSuite runs before all tests
func (s *ChatHandlerIntegrationTestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
	logger.Init(false)

	s.testDB = testutil.SetupTestDatabase(s.T())
	s.testRedis = testutil.SetupTestRedis(s.T())

	chatWAL, err := wal.New(filepath.Join(s.T().TempDir(), "wal_chats"))
	s.Require().NoError(err)
	s.chatWAL = chatWAL

	chatBroker, err := broker.NewRedisChatBroker(s.testRedis.URL)
	s.Require().NoError(err)

	chatRepo := repository.NewChatRepository(s.testDB.DB)
	roomRepo := repository.NewChatRoomRepository(s.testDB.DB)
	likeRepo := repository.NewLikeRepository(s.testDB.DB)

	chatService := service.NewChatService(chatRepo, roomRepo, likeRepo, chatBroker, chatWAL)
	roomService := service.NewRoomService(roomRepo)

	chatHandler := handler.NewChatHandler(chatService)
	roomHandler := handler.NewRoomHandler(roomService)

	s.router = gin.New()
	protected := s.router.Group("/api")
	protected.Use(middleware.AuthMiddleware(testJWTSecret))
	{
		protected.POST("/rooms", roomHandler.Create)
		protected.POST("/rooms/join", roomHandler.Join)
		protected.GET("/rooms/:id/chats", chatHandler.ListByRoom)
		protected.POST("/rooms/:id/chats", chatHandler.Post)
		protected.GET("/chats/:id", chatHandler.Get)
		protected.PUT("/chats/:id", chatHandler.Edit)
		protected.DELETE("/chats/:id", chatHandler.Delete)
		protected.Any("/chats/:id/like", chatHandler.ToggleLike)
	}
}

// TearDownSuite runs after all tests
func (s *ChatHandlerIntegrationTestSuite) TearDownSuite() {
	s.chatWAL.Close()
	s.testDB.Teardown(s.T())
	s.testRedis.Teardown(s.T())
}

// SetupTest runs before each test
func (s *ChatHandlerIntegrationTestSuite) SetupTest() {
	testutil.CleanDatabase(s.T(), s.testDB.DB)

	author, err := testutil.CreateTestUser("author@example.com", "author", "the author", "Test123456", false)
	s.Require().NoError(err)
	s.testDB.DB.Create(author)
	s.author = author

	other, err := testutil.CreateTestUser("other@example.com", "other", "someone else", "Test123456", false)
	s.Require().NoError(err)
	s.testDB.DB.Create(other)
	s.other = other

	room := testutil.CreateTestRoom("1")
	s.testDB.DB.Create(room)
	s.room = room
}

func (s *ChatHandlerIntegrationTestSuite) doJSONAs(user *testutil.TestUser, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		s.Require().NoError(err)
		reqBody = bytes.NewBuffer(bodyBytes)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	token, err := utils.GenerateToken(&models.User{
		ID:       testutil.ParseUUID(s.T(), user.ID),
		Email:    user.Email,
		Username: user.Username,
		Nickname: user.Nickname,
	}, testJWTSecret, 1*time.Hour)
	s.Require().NoError(err)

	req, _ := http.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

// seedChat inserts a chat row directly, with a controllable timestamp
func (s *ChatHandlerIntegrationTestSuite) seedChat(user *testutil.TestUser, message string, createdAt time.Time) *testutil.TestChat {
	chat := testutil.CreateTestChat(user.ID, s.room.ID, message)
	chat.CreatedAt = createdAt
	chat.UpdatedAt = createdAt
	s.testDB.DB.Create(chat)
	return chat
}

func (s *ChatHandlerIntegrationTestSuite) TestPostChat() {
	w := s.doJSONAs(s.author, http.MethodPost, fmt.Sprintf("/api/rooms/%d/chats", s.room.ID),
		map[string]string{"message": "hello"})

	assert.Equal(s.T(), http.StatusCreated, w.Code)

	var count int64
	s.testDB.DB.Model(&testutil.TestChat{}).Where("chat_room_id = ?", s.room.ID).Count(&count)
	assert.EqualValues(s.T(), 1, count)

	// The post was journaled before hitting the database
	entries, err := s.chatWAL.ReadAll()
	s.Require().NoError(err)
	s.Require().NotEmpty(entries)
	last := entries[len(entries)-1]
	assert.Equal(s.T(), "hello", last.Message)
	assert.Equal(s.T(), s.room.ID, last.RoomID)
}

func (s *ChatHandlerIntegrationTestSuite) TestPostChatTooLong() {
	w := s.doJSONAs(s.author, http.MethodPost, fmt.Sprintf("/api/rooms/%d/chats", s.room.ID),
		map[string]string{"message": strings.Repeat("a", 121)})

	assert.Equal(s.T(), http.StatusBadRequest, w.Code)

	var response map[string]map[string]string
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(s.T(), "message must be at most 120 characters", response["errors"]["message"])
}

func (s *ChatHandlerIntegrationTestSuite) TestPostChatUnknownRoom() {
	w := s.doJSONAs(s.author, http.MethodPost, "/api/rooms/9999/chats",
		map[string]string{"message": "hello"})

	assert.Equal(s.T(), http.StatusNotFound, w.Code)
}

func (s *ChatHandlerIntegrationTestSuite) TestListChatsAscendingOrder() {
	base := time.Now().Add(-time.Hour)
	s.seedChat(s.author, "oldest", base)
	s.seedChat(s.other, "middle", base.Add(time.Minute))
	s.seedChat(s.author, "newest", base.Add(2*time.Minute))

	w := s.doJSONAs(s.author, http.MethodGet, fmt.Sprintf("/api/rooms/%d/chats", s.room.ID), nil)

	assert.Equal(s.T(), http.StatusOK, w.Code)

	var response struct {
		Chats []struct {
			Message    string `json:"message"`
			Nickname   string `json:"nickname"`
			LikesCount int64  `json:"likes_count"`
			Liked      bool   `json:"liked"`
		} `json:"chats"`
	}
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	s.Require().Len(response.Chats, 3)
	assert.Equal(s.T(), "oldest", response.Chats[0].Message)
	assert.Equal(s.T(), "middle", response.Chats[1].Message)
	assert.Equal(s.T(), "newest", response.Chats[2].Message)
	assert.Equal(s.T(), "someone else", response.Chats[1].Nickname)
}

func (s *ChatHandlerIntegrationTestSuite) TestEditOwnChat() {
	chat := s.seedChat(s.author, "tpyo", time.Now())

	w := s.doJSONAs(s.author, http.MethodPut, fmt.Sprintf("/api/chats/%d", chat.ID),
		map[string]string{"message": "typo"})

	assert.Equal(s.T(), http.StatusOK, w.Code)

	var saved testutil.TestChat
	s.testDB.DB.First(&saved, chat.ID)
	assert.Equal(s.T(), "typo", saved.Message)
	assert.True(s.T(), saved.Edited, "editing must set the edited flag")
}

func (s *ChatHandlerIntegrationTestSuite) TestEditOthersChatIsNotFound() {
	chat := s.seedChat(s.author, "private", time.Now())

	w := s.doJSONAs(s.other, http.MethodPut, fmt.Sprintf("/api/chats/%d", chat.ID),
		map[string]string{"message": "hijacked"})

	// Ownership failures surface as not-found, never forbidden
	assert.Equal(s.T(), http.StatusNotFound, w.Code)

	var saved testutil.TestChat
	s.testDB.DB.First(&saved, chat.ID)
	assert.Equal(s.T(), "private", saved.Message)
}

func (s *ChatHandlerIntegrationTestSuite) TestGetOwnChatForConfirmation() {
	chat := s.seedChat(s.author, "delete me?", time.Now())

	w := s.doJSONAs(s.author, http.MethodGet, fmt.Sprintf("/api/chats/%d", chat.ID), nil)

	assert.Equal(s.T(), http.StatusOK, w.Code)

	var response map[string]map[string]interface{}
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(s.T(), "delete me?", response["chat"]["message"])
}

func (s *ChatHandlerIntegrationTestSuite) TestDeleteOwnChat() {
	chat := s.seedChat(s.author, "going away", time.Now())

	w := s.doJSONAs(s.author, http.MethodDelete, fmt.Sprintf("/api/chats/%d", chat.ID), nil)

	assert.Equal(s.T(), http.StatusOK, w.Code)

	var count int64
	s.testDB.DB.Model(&testutil.TestChat{}).Where("id = ?", chat.ID).Count(&count)
	assert.EqualValues(s.T(), 0, count)
}

func (s *ChatHandlerIntegrationTestSuite) TestDeleteOthersChatIsNotFound() {
	chat := s.seedChat(s.author, "mine", time.Now())

	w := s.doJSONAs(s.other, http.MethodDelete, fmt.Sprintf("/api/chats/%d", chat.ID), nil)

	assert.Equal(s.T(), http.StatusNotFound, w.Code)

	var count int64
	s.testDB.DB.Model(&testutil.TestChat{}).Where("id = ?", chat.ID).Count(&count)
	assert.EqualValues(s.T(), 1, count)
}

func (s *ChatHandlerIntegrationTestSuite) TestLikeToggleInvolution() {
	chat := s.seedChat(s.author, "like me", time.Now())
	path := fmt.Sprintf("/api/chats/%d/like", chat.ID)

	// First toggle: liked
	w := s.doJSONAs(s.other, http.MethodPost, path, nil)
	assert.Equal(s.T(), http.StatusOK, w.Code)

	var response struct {
		Liked      bool  `json:"liked"`
		LikesCount int64 `json:"likes_count"`
	}
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	assert.True(s.T(), response.Liked)
	assert.EqualValues(s.T(), 1, response.LikesCount)

	// Second toggle: back to the prior state
	w = s.doJSONAs(s.other, http.MethodPost, path, nil)
	assert.Equal(s.T(), http.StatusOK, w.Code)
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	assert.False(s.T(), response.Liked)
	assert.EqualValues(s.T(), 0, response.LikesCount)
}

func (s *ChatHandlerIntegrationTestSuite) TestLikeCountsPerUser() {
	chat := s.seedChat(s.author, "popular", time.Now())
	path := fmt.Sprintf("/api/chats/%d/like", chat.ID)

	s.doJSONAs(s.author, http.MethodPost, path, nil)
	w := s.doJSONAs(s.other, http.MethodPost, path, nil)

	var response struct {
		Liked      bool  `json:"liked"`
		LikesCount int64 `json:"likes_count"`
	}
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	assert.True(s.T(), response.Liked)
	assert.EqualValues(s.T(), 2, response.LikesCount)
}

func (s *ChatHandlerIntegrationTestSuite) TestLikeRejectsNonPost() {
	chat := s.seedChat(s.author, "no peeking", time.Now())

	w := s.doJSONAs(s.other, http.MethodGet, fmt.Sprintf("/api/chats/%d/like", chat.ID), nil)

	assert.Equal(s.T(), http.StatusBadRequest, w.Code)

	var response map[string]string
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(s.T(), "Invalid request", response["error"])
}

func (s *ChatHandlerIntegrationTestSuite) TestLikeUnknownChat() {
	w := s.doJSONAs(s.other, http.MethodPost, "/api/chats/99999/like", nil)
	assert.Equal(s.T(), http.StatusNotFound, w.Code)
}

// TestRoomScenario walks the whole room flow: failed join, create, join,
// post, list, like, unlike.
func (s *ChatHandlerIntegrationTestSuite) TestRoomScenario() {
	// Room "42" does not exist yet
	w := s.doJSONAs(s.author, http.MethodPost, "/api/rooms/join", map[string]string{"chat_room": "42"})
	assert.Equal(s.T(), http.StatusBadRequest, w.Code)

	var joinErr map[string]map[string]string
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &joinErr))
	assert.Equal(s.T(), "specified chat room does not exist", joinErr["errors"]["chat_room"])

	// Create it
	w = s.doJSONAs(s.author, http.MethodPost, "/api/rooms", map[string]string{"name": "42"})
	assert.Equal(s.T(), http.StatusCreated, w.Code)

	var created struct {
		Room struct {
			ID   uint   `json:"id"`
			Name string `json:"name"`
		} `json:"room"`
	}
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &created))

	// Join now succeeds
	w = s.doJSONAs(s.author, http.MethodPost, "/api/rooms/join", map[string]string{"chat_room": "42"})
	assert.Equal(s.T(), http.StatusOK, w.Code)

	// Post a message into it
	w = s.doJSONAs(s.author, http.MethodPost, fmt.Sprintf("/api/rooms/%d/chats", created.Room.ID),
		map[string]string{"message": "hello"})
	assert.Equal(s.T(), http.StatusCreated, w.Code)

	var posted struct {
		Chat struct {
			ID uint `json:"id"`
		} `json:"chat"`
	}
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &posted))

	// It shows up in the room listing
	w = s.doJSONAs(s.author, http.MethodGet, fmt.Sprintf("/api/rooms/%d/chats", created.Room.ID), nil)
	assert.Equal(s.T(), http.StatusOK, w.Code)

	var listing struct {
		Chats []struct {
			Message string `json:"message"`
		} `json:"chats"`
	}
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &listing))
	s.Require().Len(listing.Chats, 1)
	assert.Equal(s.T(), "hello", listing.Chats[0].Message)

	// Like, then unlike
	likePath := fmt.Sprintf("/api/chats/%d/like", posted.Chat.ID)

	var toggled struct {
		Liked      bool  `json:"liked"`
		LikesCount int64 `json:"likes_count"`
	}

	w = s.doJSONAs(s.author, http.MethodPost, likePath, nil)
	assert.Equal(s.T(), http.StatusOK, w.Code)
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &toggled))
	assert.True(s.T(), toggled.Liked)
	assert.EqualValues(s.T(), 1, toggled.LikesCount)

	w = s.doJSONAs(s.author, http.MethodPost, likePath, nil)
	assert.Equal(s.T(), http.StatusOK, w.Code)
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &toggled))
	assert.False(s.T(), toggled.Liked)
	assert.EqualValues(s.T(), 0, toggled.LikesCount)
}

func TestChatHandlerIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(ChatHandlerIntegrationTestSuite))
}
