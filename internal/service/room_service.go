package service

import (
	"regexp"

	"github.com/aokimura/chatplaza/internal/models"
	"github.com/aokimura/chatplaza/internal/repository"
	"github.com/aokimura/chatplaza/pkg/logger"
	"go.uber.org/zap"
)

// Room names are numeric strings.
var roomNameRegex = regexp.MustCompile(`^[0-9]+$`)

type RoomService struct {
	roomRepo *repository.ChatRoomRepository
}

func NewRoomService(roomRepo *repository.ChatRoomRepository) *RoomService {
	return &RoomService{roomRepo: roomRepo}
}

func (s *RoomService) ListRooms() ([]models.ChatRoom, error) {
	rooms, err := s.roomRepo.GetAllChatRooms()
	if err != nil {
		logger.Log.Error("Failed to list chat rooms", zap.Error(err))
		return nil, err
	}
	return rooms, nil
}

// CreateRoom creates a chat room. The name must be composed entirely of
// digits and must not collide with an existing room (case-sensitive exact
// match).
func (s *RoomService) CreateRoom(name string) (*models.ChatRoom, error) {
	if name == "" {
		return nil, FieldErrors{"name": "this field is required"}
	}
	if !roomNameRegex.MatchString(name) {
		logger.Log.Warn("Room creation rejected: non-numeric name",
			zap.String("name", name),
		)
		return nil, FieldErrors{"name": "room name must contain only digits"}
	}

	existing, err := s.roomRepo.GetChatRoomByName(name)
	if err != nil {
		logger.Log.Error("Failed to check room name existence",
			zap.String("name", name),
			zap.Error(err),
		)
		return nil, err
	}
	if existing != nil {
		logger.Log.Warn("Room creation rejected: name already exists",
			zap.String("name", name),
		)
		return nil, FieldErrors{"name": "chat room name already exists"}
	}

	room := &models.ChatRoom{Name: name}
	if err := s.roomRepo.CreateChatRoom(room); err != nil {
		logger.Log.Error("Failed to create chat room",
			zap.String("name", name),
			zap.Error(err),
		)
		return nil, err
	}

	logger.Log.Info("Chat room created",
		zap.Uint("room_id", room.ID),
		zap.String("name", name),
	)

	return room, nil
}

// JoinRoom resolves a room by name for the join form. Unknown names come
// back as a field error on the chat_room field.
func (s *RoomService) JoinRoom(name string) (*models.ChatRoom, error) {
	if name == "" {
		return nil, FieldErrors{"chat_room": "this field is required"}
	}

	room, err := s.roomRepo.GetChatRoomByName(name)
	if err != nil {
		logger.Log.Error("Failed to look up chat room",
			zap.String("name", name),
			zap.Error(err),
		)
		return nil, err
	}
	if room == nil {
		logger.Log.Warn("Join rejected: room does not exist",
			zap.String("name", name),
		)
		return nil, FieldErrors{"chat_room": "specified chat room does not exist"}
	}

	return room, nil
}

// GetRoom fetches a room by id.
func (s *RoomService) GetRoom(roomID uint) (*models.ChatRoom, error) {
	room, err := s.roomRepo.GetChatRoomByID(roomID)
	if err != nil {
		return nil, err
	}
	if room == nil {
		return nil, ErrRoomNotFound
	}
	return room, nil
}
