package broker

// Event is a chat post fanned out to live room subscribers.
type Event struct {
	ChatID    uint   `json:"chat_id"`
	RoomID    uint   `json:"room_id"`
	UserID    string `json:"user_id"`
	Nickname  string `json:"nickname"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// ChatBroker fans chat events out per room channel so every server node
// can feed its own websocket clients.
type ChatBroker interface {
	Publish(event Event) error
	Subscribe(roomID uint) (Subscription, error)
	Close() error
}

// Subscription is one live feed for one room.
type Subscription interface {
	Events() <-chan Event
	Close() error
}
