package realtime

// Broadcaster publishes chat-scoped events to whoever is listening.
// Services hold this interface so tests can swap in a mock.
type Broadcaster interface {
	NewMessage(chatID uint64, message any)
	MessageStatus(chatID, messageID uint64, status string)
	MessageDeleted(chatID, messageID uint64, forEveryone bool, userID uint64)
	Typing(chatID, userID uint64, name string, isTyping bool)
	CallStarted(chatID uint64, payload any)
	CallEnded(chatID uint64, payload any)
}

// Event is the wire envelope for every broadcast.
type Event struct {
	Event   string `json:"event"`
	Payload any    `json:"payload"`
}
