package service

import (
	"errors"
	"strings"

	"github.com/gymbuddy/gymbuddy-backend/internal/app/model"
	"github.com/gymbuddy/gymbuddy-backend/internal/app/repository"
	"github.com/gymbuddy/gymbuddy-backend/internal/websocket"
	"github.com/gymbuddy/gymbuddy-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrChatRoomNotFound = errors.New("chat room not found")
	ErrNotRoomMember    = errors.New("not a member of this chat room")
	ErrEmptyMessage     = errors.New("message content is empty")
	ErrChatWithSelf     = errors.New("cannot open a chat room with yourself")
	ErrChatPeerNotFound = errors.New("chat peer not found")
)

type ChatService interface {
	OpenRoom(userID, peerID uint) (*model.ChatRoom, bool, error)
	GetRoom(roomID, userID uint) (*model.ChatRoom, error)
	ListRooms(userID uint) ([]model.ChatRoomWithUnread, error)
	SendMessage(roomID, senderID uint, content string) (*model.Message, error)
	ListMessages(roomID, userID uint, limit, offset int) ([]*model.Message, error)
	MarkRoomRead(roomID, userID uint) error

	// WebSocket session membership
	JoinRoom(userID, roomID uint) error
	LeaveRoom(userID, roomID uint)
}

type chatService struct {
	chatRepo repository.ChatRepository
	userRepo repository.UserRepository
	notifier NotificationService
	hub      *websocket.Hub
}

func NewChatService(chatRepo repository.ChatRepository, userRepo repository.UserRepository, notifier NotificationService, hub *websocket.Hub) ChatService {
	return &chatService{
		chatRepo: chatRepo,
		userRepo: userRepo,
		notifier: notifier,
		hub:      hub,
	}
}

// OpenRoom returns the existing room for the pair or creates one. The
// second return value reports whether a new room was created.
func (s *chatService) OpenRoom(userID, peerID uint) (*model.ChatRoom, bool, error) {
	if userID == peerID {
		return nil, false, ErrChatWithSelf
	}

	if _, err := s.userRepo.FindByID(peerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, ErrChatPeerNotFound
		}
		return nil, false, err
	}

	existing, err := s.chatRepo.FindRoomByUsers(userID, peerID)
	if err == nil {
		room, err := s.chatRepo.FindRoomByID(existing.ID)
		if err != nil {
			return nil, false, err
		}
		return room, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	newRoom := &model.ChatRoom{
		User1ID: userID,
		User2ID: peerID,
	}
	if err := s.chatRepo.CreateRoom(newRoom); err != nil {
		return nil, false, err
	}

	room, err := s.chatRepo.FindRoomByID(newRoom.ID)
	if err != nil {
		return nil, false, err
	}

	logger.Info("Chat room created", map[string]interface{}{
		"room_id":  room.ID,
		"user1_id": userID,
		"user2_id": peerID,
	})

	return room, true, nil
}

func (s *chatService) GetRoom(roomID, userID uint) (*model.ChatRoom, error) {
	room, err := s.chatRepo.FindRoomByID(roomID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrChatRoomNotFound
		}
		return nil, err
	}

	if room.User1ID != userID && room.User2ID != userID {
		return nil, ErrNotRoomMember
	}

	return room, nil
}

func (s *chatService) ListRooms(userID uint) ([]model.ChatRoomWithUnread, error) {
	rooms, err := s.chatRepo.ListRoomsByUser(userID)
	if err != nil {
		return nil, err
	}

	result := make([]model.ChatRoomWithUnread, len(rooms))
	for i, room := range rooms {
		result[i] = model.ChatRoomWithUnread{ChatRoom: *room}
		if room.User1ID == userID {
			result[i].UnreadCount = room.User1UnreadCount
		} else {
			result[i].UnreadCount = room.User2UnreadCount
		}
	}

	return result, nil
}

func (s *chatService) SendMessage(roomID, senderID uint, content string) (*model.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyMessage
	}

	room, err := s.GetRoom(roomID, senderID)
	if err != nil {
		return nil, err
	}

	message := &model.Message{
		ChatRoomID: roomID,
		SenderID:   senderID,
		Content:    content,
	}
	if err := s.chatRepo.CreateMessage(message); err != nil {
		return nil, err
	}

	// Live delivery to the room, best-effort
	wsMessage := map[string]interface{}{
		"type":    "new_message",
		"message": message,
	}
	if err := s.hub.SendToRoom(roomID, wsMessage, senderID); err != nil {
		logger.Warn("Failed to broadcast chat message", map[string]interface{}{
			"room_id": roomID,
		})
	}

	recipientID := room.User1ID
	if senderID == room.User1ID {
		recipientID = room.User2ID
	}

	sender, err := s.userRepo.FindByID(senderID)
	senderName := ""
	if err == nil {
		senderName = sender.Nickname
	}
	if err := s.notifier.NotifyNewMessage(recipientID, senderID, roomID, senderName); err != nil {
		logger.Error("Failed to create message notification", err, map[string]interface{}{
			"room_id":      roomID,
			"recipient_id": recipientID,
		})
	}

	return message, nil
}

func (s *chatService) ListMessages(roomID, userID uint, limit, offset int) ([]*model.Message, error) {
	if _, err := s.GetRoom(roomID, userID); err != nil {
		return nil, err
	}
	return s.chatRepo.ListMessages(roomID, limit, offset)
}

func (s *chatService) MarkRoomRead(roomID, userID uint) error {
	if _, err := s.GetRoom(roomID, userID); err != nil {
		return err
	}

	if err := s.chatRepo.MarkMessagesRead(roomID, userID); err != nil {
		return err
	}

	wsMessage := map[string]interface{}{
		"type":         "read",
		"chat_room_id": roomID,
		"user_id":      userID,
	}
	if err := s.hub.SendToRoom(roomID, wsMessage, userID); err != nil {
		logger.Warn("Failed to broadcast read event", map[string]interface{}{
			"room_id": roomID,
		})
	}

	return nil
}

func (s *chatService) JoinRoom(userID, roomID uint) error {
	if _, err := s.GetRoom(roomID, userID); err != nil {
		return err
	}
	s.hub.JoinRoom(userID, roomID)
	return nil
}

func (s *chatService) LeaveRoom(userID, roomID uint) {
	s.hub.LeaveRoom(userID, roomID)
}
