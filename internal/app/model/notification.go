package model

import (
	"time"

	"gorm.io/gorm"
)

type NotificationType string

const (
	NotificationTypeVerificationApproved NotificationType = "verification_approved"
	NotificationTypeVerificationDeclined NotificationType = "verification_declined"
	NotificationTypeTrainerVerified      NotificationType = "trainer_verified"
	NotificationTypeWorkoutJoined        NotificationType = "workout_joined"
	NotificationTypeWorkoutReminder      NotificationType = "workout_reminder"
	NotificationTypeNewMessage           NotificationType = "new_message"
)

// Notification is an in-app notification row, also pushed over the
// websocket hub when the recipient is online
type Notification struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	UserID uint  `gorm:"not null;index" json:"user_id"`
	User   *User `gorm:"foreignKey:UserID" json:"user,omitempty"`

	Type NotificationType `gorm:"type:varchar(50);not null;index" json:"type"`

	Title   string `gorm:"type:text;not null" json:"title"`
	Content string `gorm:"type:text;not null" json:"content"`
	Link    string `gorm:"type:text" json:"link"`

	IsRead bool `gorm:"default:false;index" json:"is_read"`

	// Related records (nullable)
	RelatedWorkoutID  *uint `gorm:"index" json:"related_workout_id,omitempty"`
	RelatedChatRoomID *uint `gorm:"index" json:"related_chat_room_id,omitempty"`
	RelatedUserID     *uint `gorm:"index" json:"related_user_id,omitempty"`
}

func (Notification) TableName() string {
	return "notifications"
}
