package repository

import (
	"time"

	"github.com/gymbuddy/gymbuddy-backend/internal/app/model"
	"gorm.io/gorm"
)

type ChatRepository interface {
	FindRoomByID(roomID uint) (*model.ChatRoom, error)
	FindRoomByUsers(user1ID, user2ID uint) (*model.ChatRoom, error)
	CreateRoom(room *model.ChatRoom) error
	ListRoomsByUser(userID uint) ([]*model.ChatRoom, error)
	CreateMessage(message *model.Message) error
	ListMessages(roomID uint, limit, offset int) ([]*model.Message, error)
	MarkMessagesRead(roomID, readerID uint) error
}

type chatRepository struct {
	db *gorm.DB
}

func NewChatRepository(db *gorm.DB) ChatRepository {
	return &chatRepository{db: db}
}

func (r *chatRepository) FindRoomByID(roomID uint) (*model.ChatRoom, error) {
	var room model.ChatRoom
	err := r.db.Preload("User1").Preload("User2").First(&room, roomID).Error
	if err != nil {
		return nil, err
	}
	return &room, nil
}

// FindRoomByUsers looks up the room for a user pair in either order
func (r *chatRepository) FindRoomByUsers(user1ID, user2ID uint) (*model.ChatRoom, error) {
	var room model.ChatRoom
	err := r.db.
		Where("(user1_id = ? AND user2_id = ?) OR (user1_id = ? AND user2_id = ?)",
			user1ID, user2ID, user2ID, user1ID).
		First(&room).Error
	if err != nil {
		return nil, err
	}
	return &room, nil
}

func (r *chatRepository) CreateRoom(room *model.ChatRoom) error {
	return r.db.Create(room).Error
}

func (r *chatRepository) ListRoomsByUser(userID uint) ([]*model.ChatRoom, error) {
	var rooms []*model.ChatRoom
	err := r.db.
		Where("user1_id = ? OR user2_id = ?", userID, userID).
		Preload("User1").
		Preload("User2").
		Order("last_message_at DESC NULLS LAST").
		Find(&rooms).Error
	if err != nil {
		return nil, err
	}
	return rooms, nil
}

// CreateMessage inserts the message and refreshes the room's last-message
// summary and the recipient's unread counter in one transaction.
func (r *chatRepository) CreateMessage(message *model.Message) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(message).Error; err != nil {
			return err
		}

		var room model.ChatRoom
		if err := tx.First(&room, message.ChatRoomID).Error; err != nil {
			return err
		}

		now := time.Now()
		updates := map[string]interface{}{
			"last_message_content": message.Content,
			"last_message_at":      &now,
		}
		if message.SenderID == room.User1ID {
			updates["user2_unread_count"] = gorm.Expr("user2_unread_count + 1")
		} else {
			updates["user1_unread_count"] = gorm.Expr("user1_unread_count + 1")
		}

		return tx.Model(&model.ChatRoom{}).
			Where("id = ?", room.ID).
			Updates(updates).Error
	})
}

func (r *chatRepository) ListMessages(roomID uint, limit, offset int) ([]*model.Message, error) {
	if limit <= 0 {
		limit = 50
	}

	var messages []*model.Message
	err := r.db.
		Where("chat_room_id = ?", roomID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&messages).Error
	if err != nil {
		return nil, err
	}
	return messages, nil
}

// MarkMessagesRead marks all messages from the other participant as read and
// resets the reader's unread counter.
func (r *chatRepository) MarkMessagesRead(roomID, readerID uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		err := tx.Model(&model.Message{}).
			Where("chat_room_id = ? AND sender_id != ? AND is_read = ?", roomID, readerID, false).
			Updates(map[string]interface{}{
				"is_read": true,
				"read_at": &now,
			}).Error
		if err != nil {
			return err
		}

		var room model.ChatRoom
		if err := tx.First(&room, roomID).Error; err != nil {
			return err
		}

		counter := "user1_unread_count"
		if readerID == room.User2ID {
			counter = "user2_unread_count"
		}
		return tx.Model(&model.ChatRoom{}).
			Where("id = ?", roomID).
			Update(counter, 0).Error
	})
}
