package websocket

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gymbuddy/gymbuddy-backend/pkg/logger"
)

// ClientMessage is an inbound event from a connected client
type ClientMessage struct {
	Type       string `json:"type"` // typing_start, typing_stop
	ChatRoomID uint   `json:"chat_room_id"`
}

// Client is one WebSocket session. A user can have several at once
// (phone and laptop).
type Client struct {
	Hub       *Hub
	Conn      *Conn
	UserID    uint
	Send      chan []byte
	ChatRooms map[uint]bool
	mu        sync.RWMutex

	// Rate limiting state
	MessageCount  int
	LastResetTime time.Time
	RateMu        sync.Mutex
}

// Hub tracks connected clients and routes chat and notification events
type Hub struct {
	// UserID -> sessions
	clients map[uint][]*Client

	// ChatRoomID -> set of UserIDs
	rooms map[uint]map[uint]bool

	register   chan *Client
	unregister chan *Client
	broadcast  chan *BroadcastMessage

	mu sync.RWMutex
}

// BroadcastMessage is a payload for everyone in a room except the sender
type BroadcastMessage struct {
	ChatRoomID uint
	Message    []byte
	SenderID   uint
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[uint][]*Client),
		rooms:      make(map[uint]map[uint]bool),
		register:   make(chan *Client, 256),
		unregister: make(chan *Client, 256),
		broadcast:  make(chan *BroadcastMessage, 1024),
	}
}

// Run processes register, unregister and broadcast events. Call it once
// from main in its own goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.UserID] = append(h.clients[client.UserID], client)
			h.mu.Unlock()
			logger.Info("WebSocket client registered", map[string]interface{}{
				"user_id":        client.UserID,
				"total_sessions": len(h.clients[client.UserID]),
			})

		case client := <-h.unregister:
			h.mu.Lock()
			if clientList, ok := h.clients[client.UserID]; ok {
				newList := make([]*Client, 0, len(clientList))
				for _, c := range clientList {
					if c != client {
						newList = append(newList, c)
					}
				}

				if len(newList) == 0 {
					delete(h.clients, client.UserID)

					// Last session gone: drop room membership too
					client.mu.RLock()
					for roomID := range client.ChatRooms {
						if users, ok := h.rooms[roomID]; ok {
							delete(users, client.UserID)
							if len(users) == 0 {
								delete(h.rooms, roomID)
							}
						}
					}
					client.mu.RUnlock()
				} else {
					h.clients[client.UserID] = newList
				}

				close(client.Send)
			}
			h.mu.Unlock()
			logger.Info("WebSocket client unregistered", map[string]interface{}{
				"user_id": client.UserID,
			})

		case message := <-h.broadcast:
			h.mu.RLock()
			if users, ok := h.rooms[message.ChatRoomID]; ok {
				for userID := range users {
					if userID == message.SenderID {
						continue
					}
					h.deliverLocked(userID, message.Message)
				}
			}
			h.mu.RUnlock()
		}
	}
}

// deliverLocked pushes data to every session of a user. Caller holds h.mu.
func (h *Hub) deliverLocked(userID uint, data []byte) {
	clientList, ok := h.clients[userID]
	if !ok {
		return
	}
	for _, client := range clientList {
		select {
		case client.Send <- data:
		default:
			// Slow consumer: drop the session rather than block the hub
			go h.Unregister(client)
			logger.Warn("Client send buffer full, disconnecting", map[string]interface{}{
				"user_id": userID,
			})
		}
	}
}

// JoinRoom adds all of a user's sessions to a chat room
func (h *Hub) JoinRoom(userID, roomID uint) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if clientList, ok := h.clients[userID]; ok {
		for _, client := range clientList {
			client.mu.Lock()
			client.ChatRooms[roomID] = true
			client.mu.Unlock()
		}

		if _, ok := h.rooms[roomID]; !ok {
			h.rooms[roomID] = make(map[uint]bool)
		}
		h.rooms[roomID][userID] = true
	}
}

// LeaveRoom removes a user from a chat room
func (h *Hub) LeaveRoom(userID, roomID uint) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if clientList, ok := h.clients[userID]; ok {
		for _, client := range clientList {
			client.mu.Lock()
			delete(client.ChatRooms, roomID)
			client.mu.Unlock()
		}
	}

	if users, ok := h.rooms[roomID]; ok {
		delete(users, userID)
		if len(users) == 0 {
			delete(h.rooms, roomID)
		}
	}
}

// SendToRoom broadcasts a message to everyone in the room except the sender
func (h *Hub) SendToRoom(roomID uint, message interface{}, senderID uint) error {
	data, err := json.Marshal(message)
	if err != nil {
		logger.Error("Failed to marshal message", err, nil)
		return err
	}

	select {
	case h.broadcast <- &BroadcastMessage{
		ChatRoomID: roomID,
		Message:    data,
		SenderID:   senderID,
	}:
		return nil
	default:
		logger.Warn("Broadcast channel full, message dropped", map[string]interface{}{
			"room_id": roomID,
		})
		return nil
	}
}

// SendToUser pushes a message to every session of one user. Used for
// notification delivery; offline users just miss the push and see the
// notification on next fetch.
func (h *Hub) SendToUser(userID uint, message interface{}) error {
	data, err := json.Marshal(message)
	if err != nil {
		logger.Error("Failed to marshal message", err, nil)
		return err
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	h.deliverLocked(userID, data)
	return nil
}

func (h *Hub) Register(client *Client) {
	h.register <- client
}

func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// IsUserOnline reports whether the user has at least one live session
func (h *Hub) IsUserOnline(userID uint) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.clients[userID]
	return ok
}

// HandleClientMessage processes an inbound client event (typing indicators)
func (h *Hub) HandleClientMessage(client *Client, message []byte) {
	client.RateMu.Lock()
	now := time.Now()
	if now.Sub(client.LastResetTime) >= time.Second {
		client.MessageCount = 0
		client.LastResetTime = now
	}
	client.MessageCount++
	count := client.MessageCount
	client.RateMu.Unlock()

	if count > maxMessagesPerSecond {
		logger.Warn("Rate limit exceeded", map[string]interface{}{
			"user_id": client.UserID,
			"count":   count,
		})
		return
	}

	var msg ClientMessage
	if err := json.Unmarshal(message, &msg); err != nil {
		logger.Warn("Failed to parse client message", map[string]interface{}{
			"user_id": client.UserID,
			"error":   err.Error(),
		})
		return
	}

	if msg.Type == "typing_start" || msg.Type == "typing_stop" {
		client.mu.RLock()
		_, isInRoom := client.ChatRooms[msg.ChatRoomID]
		client.mu.RUnlock()

		if !isInRoom {
			return
		}

		response := map[string]interface{}{
			"type":         msg.Type,
			"chat_room_id": msg.ChatRoomID,
			"user_id":      client.UserID,
		}

		if err := h.SendToRoom(msg.ChatRoomID, response, client.UserID); err != nil {
			logger.Error("Failed to broadcast typing event", err, map[string]interface{}{
				"user_id": client.UserID,
				"room_id": msg.ChatRoomID,
			})
		}
	}
}
