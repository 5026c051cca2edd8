package service

import (
	"fmt"
	"testing"

	"github.com/gymbuddy/gymbuddy-backend/internal/app/model"
	"github.com/gymbuddy/gymbuddy-backend/internal/app/repository"
	"github.com/gymbuddy/gymbuddy-backend/internal/db"
	"github.com/gymbuddy/gymbuddy-backend/internal/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type chatFixture struct {
	svc      ChatService
	notifier NotificationService
	db       *gorm.DB
}

func setupChatTest(t *testing.T) *chatFixture {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	hub := websocket.NewHub()
	notifier := NewNotificationService(repository.NewNotificationRepository(testDB), hub)
	svc := NewChatService(
		repository.NewChatRepository(testDB),
		repository.NewUserRepository(testDB),
		notifier,
		hub,
	)

	return &chatFixture{svc: svc, notifier: notifier, db: testDB}
}

func (f *chatFixture) createUser(t *testing.T, nickname string) *model.User {
	user := model.User{
		Email:        fmt.Sprintf("%s@example.com", nickname),
		PasswordHash: "x",
		Name:         nickname,
		Nickname:     nickname,
		Role:         model.RoleUser,
		AccountType:  model.AccountTypeStandard,
	}
	require.NoError(t, f.db.Create(&user).Error)
	return &user
}

func TestChatService_OpenRoom(t *testing.T) {
	f := setupChatTest(t)
	alice := f.createUser(t, "alice")
	bob := f.createUser(t, "bob")

	room, created, err := f.svc.OpenRoom(alice.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, alice.ID, room.User1ID)
	assert.Equal(t, bob.ID, room.User2ID)

	// Opening again returns the same room
	again, created, err := f.svc.OpenRoom(alice.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, room.ID, again.ID)

	// Direction does not matter
	reversed, created, err := f.svc.OpenRoom(bob.ID, alice.ID)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, room.ID, reversed.ID)
}

func TestChatService_OpenRoom_Validation(t *testing.T) {
	f := setupChatTest(t)
	alice := f.createUser(t, "alice")

	_, _, err := f.svc.OpenRoom(alice.ID, alice.ID)
	assert.ErrorIs(t, err, ErrChatWithSelf)

	_, _, err = f.svc.OpenRoom(alice.ID, 9999)
	assert.ErrorIs(t, err, ErrChatPeerNotFound)
}

func TestChatService_SendMessage(t *testing.T) {
	f := setupChatTest(t)
	alice := f.createUser(t, "alice")
	bob := f.createUser(t, "bob")

	room, _, err := f.svc.OpenRoom(alice.ID, bob.ID)
	require.NoError(t, err)

	message, err := f.svc.SendMessage(room.ID, alice.ID, "  see you at the squat rack  ")
	require.NoError(t, err)
	assert.Equal(t, "see you at the squat rack", message.Content)
	assert.Equal(t, alice.ID, message.SenderID)

	// Room summary and the recipient's unread counter are updated
	var updated model.ChatRoom
	require.NoError(t, f.db.First(&updated, room.ID).Error)
	assert.Equal(t, "see you at the squat rack", updated.LastMessageContent)
	require.NotNil(t, updated.LastMessageAt)
	assert.Equal(t, 0, updated.User1UnreadCount)
	assert.Equal(t, 1, updated.User2UnreadCount)

	// The recipient gets a new-message notification
	notifications, total, err := f.notifier.List(bob.ID, false, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, model.NotificationTypeNewMessage, notifications[0].Type)
	assert.Contains(t, notifications[0].Content, "alice")

	// The sender does not
	_, total, err = f.notifier.List(alice.ID, false, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)
}

func TestChatService_SendMessage_Validation(t *testing.T) {
	f := setupChatTest(t)
	alice := f.createUser(t, "alice")
	bob := f.createUser(t, "bob")
	mallory := f.createUser(t, "mallory")

	room, _, err := f.svc.OpenRoom(alice.ID, bob.ID)
	require.NoError(t, err)

	_, err = f.svc.SendMessage(room.ID, alice.ID, "   ")
	assert.ErrorIs(t, err, ErrEmptyMessage)

	_, err = f.svc.SendMessage(room.ID, mallory.ID, "let me in")
	assert.ErrorIs(t, err, ErrNotRoomMember)

	_, err = f.svc.SendMessage(9999, alice.ID, "hello?")
	assert.ErrorIs(t, err, ErrChatRoomNotFound)
}

func TestChatService_ListRooms_UnreadPerViewer(t *testing.T) {
	f := setupChatTest(t)
	alice := f.createUser(t, "alice")
	bob := f.createUser(t, "bob")

	room, _, err := f.svc.OpenRoom(alice.ID, bob.ID)
	require.NoError(t, err)

	_, err = f.svc.SendMessage(room.ID, alice.ID, "first")
	require.NoError(t, err)
	_, err = f.svc.SendMessage(room.ID, alice.ID, "second")
	require.NoError(t, err)

	bobRooms, err := f.svc.ListRooms(bob.ID)
	require.NoError(t, err)
	require.Len(t, bobRooms, 1)
	assert.Equal(t, 2, bobRooms[0].UnreadCount)

	aliceRooms, err := f.svc.ListRooms(alice.ID)
	require.NoError(t, err)
	require.Len(t, aliceRooms, 1)
	assert.Equal(t, 0, aliceRooms[0].UnreadCount)
}

func TestChatService_ListMessages(t *testing.T) {
	f := setupChatTest(t)
	alice := f.createUser(t, "alice")
	bob := f.createUser(t, "bob")
	mallory := f.createUser(t, "mallory")

	room, _, err := f.svc.OpenRoom(alice.ID, bob.ID)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err = f.svc.SendMessage(room.ID, alice.ID, fmt.Sprintf("message %d", i))
		require.NoError(t, err)
	}

	messages, err := f.svc.ListMessages(room.ID, bob.ID, 10, 0)
	require.NoError(t, err)
	assert.Len(t, messages, 3)

	// Membership is enforced
	_, err = f.svc.ListMessages(room.ID, mallory.ID, 10, 0)
	assert.ErrorIs(t, err, ErrNotRoomMember)
}

func TestChatService_MarkRoomRead(t *testing.T) {
	f := setupChatTest(t)
	alice := f.createUser(t, "alice")
	bob := f.createUser(t, "bob")

	room, _, err := f.svc.OpenRoom(alice.ID, bob.ID)
	require.NoError(t, err)

	_, err = f.svc.SendMessage(room.ID, alice.ID, "hey")
	require.NoError(t, err)
	_, err = f.svc.SendMessage(room.ID, bob.ID, "hey back")
	require.NoError(t, err)

	require.NoError(t, f.svc.MarkRoomRead(room.ID, bob.ID))

	// Alice's message is now read, Bob's own message is untouched
	var messages []model.Message
	require.NoError(t, f.db.Where("chat_room_id = ?", room.ID).Order("id").Find(&messages).Error)
	require.Len(t, messages, 2)
	assert.True(t, messages[0].IsRead)
	assert.NotNil(t, messages[0].ReadAt)
	assert.False(t, messages[1].IsRead)

	var updated model.ChatRoom
	require.NoError(t, f.db.First(&updated, room.ID).Error)
	assert.Equal(t, 0, updated.User2UnreadCount)
	assert.Equal(t, 1, updated.User1UnreadCount)
}

func TestChatService_MarkRoomRead_Validation(t *testing.T) {
	f := setupChatTest(t)
	alice := f.createUser(t, "alice")
	bob := f.createUser(t, "bob")
	mallory := f.createUser(t, "mallory")

	room, _, err := f.svc.OpenRoom(alice.ID, bob.ID)
	require.NoError(t, err)

	assert.ErrorIs(t, f.svc.MarkRoomRead(room.ID, mallory.ID), ErrNotRoomMember)
	assert.ErrorIs(t, f.svc.MarkRoomRead(9999, bob.ID), ErrChatRoomNotFound)
}

func TestChatService_JoinRoom_MembershipEnforced(t *testing.T) {
	f := setupChatTest(t)
	alice := f.createUser(t, "alice")
	bob := f.createUser(t, "bob")
	mallory := f.createUser(t, "mallory")

	room, _, err := f.svc.OpenRoom(alice.ID, bob.ID)
	require.NoError(t, err)

	assert.NoError(t, f.svc.JoinRoom(alice.ID, room.ID))
	assert.ErrorIs(t, f.svc.JoinRoom(mallory.ID, room.ID), ErrNotRoomMember)
	assert.ErrorIs(t, f.svc.JoinRoom(alice.ID, 9999), ErrChatRoomNotFound)
}
