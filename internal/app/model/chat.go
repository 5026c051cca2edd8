package model

import (
	"time"

	"gorm.io/gorm"
)

// ChatRoom is a 1:1 conversation between two members. User1 is the member
// who opened the room.
type ChatRoom struct {
	ID uint `gorm:"primarykey" json:"id"`

	User1ID uint `gorm:"not null;index:idx_room_pair,priority:1;index" json:"user1_id"`
	User2ID uint `gorm:"not null;index:idx_room_pair,priority:2;index" json:"user2_id"`
	User1   User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"user1,omitempty"`
	User2   User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"user2,omitempty"`

	// Last message summary for room lists
	LastMessageContent string     `gorm:"type:text" json:"last_message_content,omitempty"`
	LastMessageAt      *time.Time `gorm:"index" json:"last_message_at,omitempty"`

	// Per-user unread counters
	User1UnreadCount int `gorm:"default:0" json:"user1_unread_count"`
	User2UnreadCount int `gorm:"default:0" json:"user2_unread_count"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Messages []Message `gorm:"foreignKey:ChatRoomID" json:"messages,omitempty"`
}

func (ChatRoom) TableName() string {
	return "chat_rooms"
}

// Message is a single chat message
type Message struct {
	ID         uint     `gorm:"primarykey" json:"id"`
	ChatRoomID uint     `gorm:"not null;index:idx_room_created,priority:1;index" json:"chat_room_id"`
	ChatRoom   ChatRoom `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`

	SenderID uint `gorm:"not null;index" json:"sender_id"`
	Sender   User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"sender,omitempty"`

	Content string `gorm:"type:text;not null" json:"content"`

	IsRead bool       `gorm:"default:false;index" json:"is_read"`
	ReadAt *time.Time `json:"read_at,omitempty"`

	CreatedAt time.Time      `gorm:"index:idx_room_created,priority:2" json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Message) TableName() string {
	return "messages"
}

// ChatRoomWithUnread is a room plus the calling user's unread count
type ChatRoomWithUnread struct {
	ChatRoom
	UnreadCount int `json:"unread_count"`
}
