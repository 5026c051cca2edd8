package service

import (
	"errors"
	"fmt"

	"github.com/gymbuddy/gymbuddy-backend/internal/app/model"
	"github.com/gymbuddy/gymbuddy-backend/internal/app/repository"
	"github.com/gymbuddy/gymbuddy-backend/internal/websocket"
	"github.com/gymbuddy/gymbuddy-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrNotificationNotFound = errors.New("notification not found")
	ErrNotNotificationOwner = errors.New("notification belongs to another user")
)

type NotificationService interface {
	List(userID uint, unreadOnly bool, limit, offset int) ([]*model.Notification, int64, error)
	UnreadCount(userID uint) (int64, error)
	MarkAsRead(notificationID, userID uint) (*model.Notification, error)
	MarkAllAsRead(userID uint) error
	Delete(notificationID, userID uint) error

	// Creation helpers used by other services and the scheduler
	NotifyVerificationResult(userID uint, approved bool, businessName, reason string) error
	NotifyTrainerVerified(userID uint) error
	NotifyWorkoutJoined(hostID, joinerID, workoutID uint, title string) error
	NotifyWorkoutReminder(userID, workoutID uint, title string) error
	NotifyNewMessage(recipientID, senderID, roomID uint, senderName string) error
}

type notificationService struct {
	repo repository.NotificationRepository
	hub  *websocket.Hub
}

func NewNotificationService(repo repository.NotificationRepository, hub *websocket.Hub) NotificationService {
	return &notificationService{
		repo: repo,
		hub:  hub,
	}
}

func (s *notificationService) List(userID uint, unreadOnly bool, limit, offset int) ([]*model.Notification, int64, error) {
	return s.repo.ListByUser(userID, unreadOnly, limit, offset)
}

func (s *notificationService) UnreadCount(userID uint) (int64, error) {
	return s.repo.CountUnread(userID)
}

func (s *notificationService) MarkAsRead(notificationID, userID uint) (*model.Notification, error) {
	notification, err := s.repo.FindByID(notificationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotificationNotFound
		}
		return nil, err
	}

	if notification.UserID != userID {
		return nil, ErrNotNotificationOwner
	}

	if notification.IsRead {
		return notification, nil
	}

	if err := s.repo.MarkAsRead(notificationID); err != nil {
		return nil, err
	}

	notification.IsRead = true
	return notification, nil
}

func (s *notificationService) MarkAllAsRead(userID uint) error {
	return s.repo.MarkAllAsRead(userID)
}

func (s *notificationService) Delete(notificationID, userID uint) error {
	notification, err := s.repo.FindByID(notificationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotificationNotFound
		}
		return err
	}

	if notification.UserID != userID {
		return ErrNotNotificationOwner
	}

	return s.repo.Delete(notificationID)
}

// create persists the notification and pushes it to any live session of
// the recipient. The push is best-effort.
func (s *notificationService) create(notification *model.Notification) error {
	if err := s.repo.Create(notification); err != nil {
		return err
	}

	payload := map[string]interface{}{
		"type":         "notification",
		"notification": notification,
	}
	if err := s.hub.SendToUser(notification.UserID, payload); err != nil {
		logger.Warn("Failed to push notification", map[string]interface{}{
			"notification_id": notification.ID,
			"user_id":         notification.UserID,
		})
	}

	return nil
}

func (s *notificationService) NotifyVerificationResult(userID uint, approved bool, businessName, reason string) error {
	notification := &model.Notification{
		UserID:        userID,
		RelatedUserID: nil,
		Link:          "/gym-dashboard",
	}

	if approved {
		notification.Type = model.NotificationTypeVerificationApproved
		notification.Title = "Gym verification approved"
		notification.Content = fmt.Sprintf("%s has been verified. Your gym is now visible in the directory and payments are enabled.", businessName)
	} else {
		notification.Type = model.NotificationTypeVerificationDeclined
		notification.Title = "Gym verification declined"
		notification.Content = fmt.Sprintf("The verification request for %s was declined: %s. You can update your details and resubmit.", businessName, reason)
	}

	return s.create(notification)
}

func (s *notificationService) NotifyTrainerVerified(userID uint) error {
	return s.create(&model.Notification{
		UserID:  userID,
		Type:    model.NotificationTypeTrainerVerified,
		Title:   "Trainer certification verified",
		Content: "Your certifications have been verified. Your profile now carries a verified badge.",
		Link:    "/trainer-dashboard",
	})
}

func (s *notificationService) NotifyWorkoutJoined(hostID, joinerID, workoutID uint, title string) error {
	return s.create(&model.Notification{
		UserID:           hostID,
		Type:             model.NotificationTypeWorkoutJoined,
		Title:            "New workout buddy",
		Content:          fmt.Sprintf("Someone joined your workout \"%s\".", title),
		Link:             fmt.Sprintf("/workouts/%d", workoutID),
		RelatedWorkoutID: &workoutID,
		RelatedUserID:    &joinerID,
	})
}

func (s *notificationService) NotifyWorkoutReminder(userID, workoutID uint, title string) error {
	return s.create(&model.Notification{
		UserID:           userID,
		Type:             model.NotificationTypeWorkoutReminder,
		Title:            "Workout coming up",
		Content:          fmt.Sprintf("\"%s\" starts in about an hour.", title),
		Link:             fmt.Sprintf("/workouts/%d", workoutID),
		RelatedWorkoutID: &workoutID,
	})
}

func (s *notificationService) NotifyNewMessage(recipientID, senderID, roomID uint, senderName string) error {
	return s.create(&model.Notification{
		UserID:            recipientID,
		Type:              model.NotificationTypeNewMessage,
		Title:             "New message",
		Content:           fmt.Sprintf("%s sent you a message.", senderName),
		Link:              fmt.Sprintf("/chat/%d", roomID),
		RelatedChatRoomID: &roomID,
		RelatedUserID:     &senderID,
	})
}
