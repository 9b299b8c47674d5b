package handler

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"pulse/internal/realtime"
)

type WSHandler struct {
	Hub   *realtime.Hub
	Chats ChatService
	Log   zerolog.Logger

	upgrader websocket.Upgrader
}

func NewWSHandler(hub *realtime.Hub, chats ChatService, log zerolog.Logger) *WSHandler {
	return &WSHandler{
		Hub:   hub,
		Chats: chats,
		Log:   log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// Subscribe upgrades the connection and joins the chat room. Membership
// is checked before the upgrade so outsiders never hold a socket.
func (h *WSHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	chatID, err := pathID(r, "id")
	if err != nil {
		respondErr(w, err)
		return
	}
	if _, err := h.Chats.Get(r.Context(), caller(r), chatID); err != nil {
		respondErr(w, err)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.Log.Warn().Err(err).Uint64("chat_id", chatID).Msg("websocket upgrade failed")
		return
	}

	h.Hub.AddClient(chatID, conn)
	defer func() {
		h.Hub.RemoveClient(chatID, conn)
		conn.Close()
	}()

	// Inbound frames are ignored; the socket is broadcast-only. The read
	// loop just detects disconnects.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
