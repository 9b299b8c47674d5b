package realtime

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// Hub keeps one room of websocket connections per chat id.
type Hub struct {
	rooms map[uint64]map[*websocket.Conn]bool
	mu    sync.RWMutex
	log   zerolog.Logger
}

func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		rooms: make(map[uint64]map[*websocket.Conn]bool),
		log:   log,
	}
}

func (h *Hub) AddClient(chatID uint64, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.rooms[chatID]; !ok {
		h.rooms[chatID] = make(map[*websocket.Conn]bool)
	}
	h.rooms[chatID][conn] = true
}

func (h *Hub) RemoveClient(chatID uint64, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if conns, ok := h.rooms[chatID]; ok {
		delete(conns, conn)
		if len(conns) == 0 {
			delete(h.rooms, chatID)
		}
	}
}

// RoomSize reports how many connections are registered for a chat.
func (h *Hub) RoomSize(chatID uint64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[chatID])
}

func (h *Hub) broadcast(chatID uint64, event string, payload any) {
	h.mu.RLock()
	conns := make([]*websocket.Conn, 0, len(h.rooms[chatID]))
	for conn := range h.rooms[chatID] {
		conns = append(conns, conn)
	}
	h.mu.RUnlock()

	data, _ := json.Marshal(Event{Event: event, Payload: payload})
	for _, conn := range conns {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			h.log.Warn().Err(err).Uint64("chat_id", chatID).Str("event", event).
				Msg("websocket write failed, dropping client")
			conn.Close()
			h.RemoveClient(chatID, conn)
		}
	}
}

func (h *Hub) NewMessage(chatID uint64, message any) {
	h.broadcast(chatID, "message", message)
}

func (h *Hub) MessageStatus(chatID, messageID uint64, status string) {
	h.broadcast(chatID, "message_status", map[string]any{
		"messageId": messageID,
		"status":    status,
	})
}

func (h *Hub) MessageDeleted(chatID, messageID uint64, forEveryone bool, userID uint64) {
	payload := map[string]any{
		"messageId":          messageID,
		"deletedForEveryone": forEveryone,
	}
	if !forEveryone {
		payload["deletedForUser"] = userID
	}
	h.broadcast(chatID, "message_deleted", payload)
}

func (h *Hub) Typing(chatID, userID uint64, name string, isTyping bool) {
	h.broadcast(chatID, "typing", map[string]any{
		"chatId":   chatID,
		"userId":   userID,
		"name":     name,
		"isTyping": isTyping,
	})
}

func (h *Hub) CallStarted(chatID uint64, payload any) {
	h.broadcast(chatID, "call_started", payload)
}

func (h *Hub) CallEnded(chatID uint64, payload any) {
	h.broadcast(chatID, "call_ended", payload)
}
