package controller

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/gymbuddy/gymbuddy-backend/internal/app/service"
	apperrors "github.com/gymbuddy/gymbuddy-backend/internal/errors"
	"github.com/gymbuddy/gymbuddy-backend/internal/middleware"
	ws "github.com/gymbuddy/gymbuddy-backend/internal/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		allowedOrigins := map[string]bool{
			"https://gymbuddy.app":  true,
			"http://localhost:5173": true, // dev
			"http://localhost:3000": true, // dev
		}
		return allowedOrigins[origin]
	},
}

type ChatController struct {
	chatService service.ChatService
	hub         *ws.Hub
}

func NewChatController(chatService service.ChatService, hub *ws.Hub) *ChatController {
	return &ChatController{
		chatService: chatService,
		hub:         hub,
	}
}

type OpenRoomRequest struct {
	PeerID uint `json:"peer_id" binding:"required"`
}

type SendMessageRequest struct {
	Content string `json:"content" binding:"required"`
}

// OpenRoom creates or returns the 1:1 room with another member
// POST /api/v1/chats
func (ctrl *ChatController) OpenRoom(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Sign in required")
		return
	}

	var req OpenRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Some of the information you entered is invalid")
		return
	}

	room, created, err := ctrl.chatService.OpenRoom(userID, req.PeerID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrChatWithSelf):
			apperrors.BadRequest(c, apperrors.ChatSelfRoomForbidden, "You cannot open a chat room with yourself")
		case errors.Is(err, service.ErrChatPeerNotFound):
			apperrors.NotFound(c, apperrors.ResourceNotFound, "That user does not exist")
		default:
			log.Error("Failed to open chat room", err, map[string]interface{}{
				"user_id": userID,
				"peer_id": req.PeerID,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "create chat room")
		}
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}

	c.JSON(status, gin.H{
		"room":    room,
		"created": created,
	})
}

// ListRooms lists the caller's chat rooms with unread counts
// GET /api/v1/chats
func (ctrl *ChatController) ListRooms(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Sign in required")
		return
	}

	rooms, err := ctrl.chatService.ListRooms(userID)
	if err != nil {
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list chat rooms")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"rooms": rooms,
	})
}

// ListMessages pages through a room's message history, newest first
// GET /api/v1/chats/:id/messages
func (ctrl *ChatController) ListMessages(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Sign in required")
		return
	}

	roomID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid chat room ID")
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	messages, err := ctrl.chatService.ListMessages(uint(roomID), userID, limit, offset)
	if err != nil {
		respondChatError(c, err, "list messages")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"messages": messages,
	})
}

// SendMessage posts a message to a room
// POST /api/v1/chats/:id/messages
func (ctrl *ChatController) SendMessage(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Sign in required")
		return
	}

	roomID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid chat room ID")
		return
	}

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Some of the information you entered is invalid")
		return
	}

	message, err := ctrl.chatService.SendMessage(uint(roomID), userID, req.Content)
	if err != nil {
		if errors.Is(err, service.ErrEmptyMessage) {
			apperrors.BadRequest(c, apperrors.ValidationRequired, "Message content is empty")
			return
		}
		respondChatError(c, err, "send message")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": message,
	})
}

// MarkRead marks a room's messages as read for the caller
// PUT /api/v1/chats/:id/read
func (ctrl *ChatController) MarkRead(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Sign in required")
		return
	}

	roomID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid chat room ID")
		return
	}

	if err := ctrl.chatService.MarkRoomRead(uint(roomID), userID); err != nil {
		respondChatError(c, err, "mark room read")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
	})
}

// JoinRoom subscribes the caller's websocket sessions to a room
// POST /api/v1/chats/:id/join
func (ctrl *ChatController) JoinRoom(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Sign in required")
		return
	}

	roomID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid chat room ID")
		return
	}

	if err := ctrl.chatService.JoinRoom(userID, uint(roomID)); err != nil {
		respondChatError(c, err, "join chat room")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
	})
}

// LeaveRoom unsubscribes the caller's websocket sessions from a room
// POST /api/v1/chats/:id/leave
func (ctrl *ChatController) LeaveRoom(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Sign in required")
		return
	}

	roomID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid chat room ID")
		return
	}

	ctrl.chatService.LeaveRoom(userID, uint(roomID))

	c.JSON(http.StatusOK, gin.H{
		"success": true,
	})
}

// WebSocketHandler upgrades the connection and registers the session.
// The token arrives as a query parameter; it is never logged.
// GET /api/v1/chats/ws
func (ctrl *ChatController) WebSocketHandler(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "Sign in required")
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error("Failed to upgrade to WebSocket", err)
		return
	}

	client := &ws.Client{
		Hub:           ctrl.hub,
		Conn:          &ws.Conn{Conn: conn},
		UserID:        userID,
		Send:          make(chan []byte, 2048),
		ChatRooms:     make(map[uint]bool),
		LastResetTime: time.Now(),
	}

	ctrl.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()

	log.Info("WebSocket connection established", map[string]interface{}{
		"user_id": userID,
	})
}

func respondChatError(c *gin.Context, err error, context string) {
	switch {
	case errors.Is(err, service.ErrChatRoomNotFound):
		apperrors.NotFound(c, apperrors.ChatRoomNotFound, "Chat room not found")
	case errors.Is(err, service.ErrNotRoomMember):
		apperrors.Forbidden(c, "You are not a member of this chat room")
	default:
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, context)
	}
}
