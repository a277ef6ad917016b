package service

import (
	"time"

	"github.com/aokimura/chatplaza/internal/broker"
	"github.com/aokimura/chatplaza/internal/models"
	"github.com/aokimura/chatplaza/internal/repository"
	"github.com/aokimura/chatplaza/internal/wal"
	"github.com/aokimura/chatplaza/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ChatService struct {
	chatRepo *repository.ChatRepository
	roomRepo *repository.ChatRoomRepository
	likeRepo *repository.LikeRepository
	broker   broker.ChatBroker
	wal      *wal.WAL
}

func NewChatService(
	chatRepo *repository.ChatRepository,
	roomRepo *repository.ChatRoomRepository,
	likeRepo *repository.LikeRepository,
	chatBroker broker.ChatBroker,
	chatWAL *wal.WAL,
) *ChatService {
	return &ChatService{
		chatRepo: chatRepo,
		roomRepo: roomRepo,
		likeRepo: likeRepo,
		broker:   chatBroker,
		wal:      chatWAL,
	}
}

// ChatView is one chat as displayed in a room, with author and like state
// resolved for the requesting user.
type ChatView struct {
	ID         uint      `json:"id"`
	UserID     uuid.UUID `json:"user_id"`
	Nickname   string    `json:"nickname"`
	Message    string    `json:"message"`
	Edited     bool      `json:"edited"`
	CreatedAt  time.Time `json:"created_at"`
	LikesCount int64     `json:"likes_count"`
	Liked      bool      `json:"liked"`
}

// ListRoomChats returns a room's chats in ascending creation-time order,
// each with its like count and whether viewerID has liked it.
func (s *ChatService) ListRoomChats(roomID uint, viewerID uuid.UUID) ([]ChatView, error) {
	room, err := s.roomRepo.GetChatRoomByID(roomID)
	if err != nil {
		return nil, err
	}
	if room == nil {
		return nil, ErrRoomNotFound
	}

	chats, err := s.chatRepo.GetChatsByRoom(roomID)
	if err != nil {
		logger.Log.Error("Failed to list room chats",
			zap.Uint("room_id", roomID),
			zap.Error(err),
		)
		return nil, err
	}

	views := make([]ChatView, 0, len(chats))
	for _, chat := range chats {
		likesCount, err := s.likeRepo.CountLikesByChat(chat.ID)
		if err != nil {
			return nil, err
		}
		liked, err := s.likeRepo.HasUserLiked(viewerID, chat.ID)
		if err != nil {
			return nil, err
		}

		views = append(views, ChatView{
			ID:         chat.ID,
			UserID:     chat.UserID,
			Nickname:   chat.User.Nickname,
			Message:    chat.Message,
			Edited:     chat.Edited,
			CreatedAt:  chat.CreatedAt,
			LikesCount: likesCount,
			Liked:      liked,
		})
	}

	return views, nil
}

// PostChat validates and persists a new chat in the room. The post is
// journaled to the WAL before the database write and fanned out to live
// room subscribers afterwards.
func (s *ChatService) PostChat(userID uuid.UUID, nickname string, roomID uint, message string) (*models.Chat, error) {
	if err := validateChatMessage(message); err != nil {
		logger.Log.Warn("Chat post validation failed",
			zap.String("user_id", userID.String()),
			zap.Uint("room_id", roomID),
			zap.Error(err),
		)
		return nil, err
	}

	room, err := s.roomRepo.GetChatRoomByID(roomID)
	if err != nil {
		return nil, err
	}
	if room == nil {
		return nil, ErrRoomNotFound
	}

	now := time.Now()

	entry := wal.Entry{
		EntryID:   uuid.New().String(),
		UserID:    userID.String(),
		RoomID:    roomID,
		Message:   message,
		Timestamp: now,
	}
	if err := s.wal.Write(entry); err != nil {
		return nil, err
	}

	chat := &models.Chat{
		UserID:     userID,
		ChatRoomID: roomID,
		Message:    message,
	}
	if err := s.chatRepo.CreateChat(chat); err != nil {
		logger.Log.Error("Failed to create chat",
			zap.String("user_id", userID.String()),
			zap.Uint("room_id", roomID),
			zap.Error(err),
		)
		return nil, err
	}

	event := broker.Event{
		ChatID:    chat.ID,
		RoomID:    roomID,
		UserID:    userID.String(),
		Nickname:  nickname,
		Message:   message,
		Timestamp: now.Format(time.RFC3339),
	}
	if err := s.broker.Publish(event); err != nil {
		// The chat is already persisted; live subscribers just miss the event
		logger.Log.Error("Failed to publish chat event",
			zap.Uint("chat_id", chat.ID),
			zap.Error(err),
		)
	}

	logger.Log.Info("Chat posted",
		zap.Uint("chat_id", chat.ID),
		zap.Uint("room_id", roomID),
		zap.String("user_id", userID.String()),
	)

	return chat, nil
}

// GetChatForUser fetches a chat scoped to its author, for the delete
// confirmation view. Non-authors get ErrChatNotFound.
func (s *ChatService) GetChatForUser(chatID uint, userID uuid.UUID) (*models.Chat, error) {
	chat, err := s.chatRepo.GetChatByIDAndUser(chatID, userID)
	if err != nil {
		return nil, err
	}
	if chat == nil {
		return nil, ErrChatNotFound
	}
	return chat, nil
}

// EditChat updates the message text. Only the author can edit; anyone else
// gets ErrChatNotFound.
func (s *ChatService) EditChat(chatID uint, userID uuid.UUID, message string) (*models.Chat, error) {
	chat, err := s.chatRepo.GetChatByIDAndUser(chatID, userID)
	if err != nil {
		return nil, err
	}
	if chat == nil {
		logger.Log.Warn("Chat edit rejected: not found for user",
			zap.Uint("chat_id", chatID),
			zap.String("user_id", userID.String()),
		)
		return nil, ErrChatNotFound
	}

	if err := validateChatMessage(message); err != nil {
		return nil, err
	}

	chat.Message = message
	chat.Edited = true

	if err := s.chatRepo.UpdateChat(chat); err != nil {
		logger.Log.Error("Failed to update chat",
			zap.Uint("chat_id", chatID),
			zap.Error(err),
		)
		return nil, err
	}

	logger.Log.Info("Chat edited",
		zap.Uint("chat_id", chatID),
		zap.String("user_id", userID.String()),
	)

	return chat, nil
}

// DeleteChat removes a chat. Only the author can delete; anyone else gets
// ErrChatNotFound.
func (s *ChatService) DeleteChat(chatID uint, userID uuid.UUID) error {
	chat, err := s.chatRepo.GetChatByIDAndUser(chatID, userID)
	if err != nil {
		return err
	}
	if chat == nil {
		logger.Log.Warn("Chat delete rejected: not found for user",
			zap.Uint("chat_id", chatID),
			zap.String("user_id", userID.String()),
		)
		return ErrChatNotFound
	}

	if err := s.chatRepo.DeleteChat(chatID); err != nil {
		logger.Log.Error("Failed to delete chat",
			zap.Uint("chat_id", chatID),
			zap.Error(err),
		)
		return err
	}

	logger.Log.Info("Chat deleted",
		zap.Uint("chat_id", chatID),
		zap.String("user_id", userID.String()),
	)

	return nil
}

// ToggleLike flips the viewer's like on a chat and returns the new liked
// state with the updated total.
func (s *ChatService) ToggleLike(userID uuid.UUID, chatID uint) (bool, int64, error) {
	chat, err := s.chatRepo.GetChatByID(chatID)
	if err != nil {
		return false, 0, err
	}
	if chat == nil {
		return false, 0, ErrChatNotFound
	}

	liked, err := s.likeRepo.ToggleLike(userID, chatID)
	if err != nil {
		logger.Log.Error("Failed to toggle like",
			zap.Uint("chat_id", chatID),
			zap.String("user_id", userID.String()),
			zap.Error(err),
		)
		return false, 0, err
	}

	likesCount, err := s.likeRepo.CountLikesByChat(chatID)
	if err != nil {
		return false, 0, err
	}

	logger.Log.Debug("Like toggled",
		zap.Uint("chat_id", chatID),
		zap.String("user_id", userID.String()),
		zap.Bool("liked", liked),
		zap.Int64("likes_count", likesCount),
	)

	return liked, likesCount, nil
}

// SearchChats lists chats for the operator console.
func (s *ChatService) SearchChats(query string) ([]models.Chat, error) {
	return s.chatRepo.SearchChats(query)
}

// ListLikes lists likes for the operator console.
func (s *ChatService) ListLikes() ([]models.Like, error) {
	return s.likeRepo.GetAllLikes()
}

func validateChatMessage(message string) error {
	if message == "" {
		return FieldErrors{"message": "this field is required"}
	}
	if len([]rune(message)) > models.MaxChatMessageLength {
		return FieldErrors{"message": "message must be at most 120 characters"}
	}
	return nil
}
