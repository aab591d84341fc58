package relay

import "time"

// Event names on the realtime surface.
const (
	EventMessageNew         = "message:new"
	EventMessageSent        = "message:sent"
	EventConversationUpdate = "conversation:update"
	EventTypingStart        = "typing:start"
	EventTypingStop         = "typing:stop"
	EventConversationRead   = "conversation:read:success"
	EventError              = "error"
)

// WorkspaceRoom is the broadcast group for a workspace's dashboard clients.
func WorkspaceRoom(workspaceID string) string {
	return "workspace:" + workspaceID
}

// ConversationRoom is the broadcast group for one conversation thread.
func ConversationRoom(conversationID string) string {
	return "conversation:" + conversationID
}

// Broadcaster fans an event out to a room. Delivery is best-effort and
// fire-and-forget; within one room, publish order is delivery order.
type Broadcaster interface {
	Publish(room, event string, data any)
	// PublishExcept suppresses the echo to the originating client.
	PublishExcept(room, event string, data any, exceptClientID string)
}

// MessagePayload is the wire shape of message:new.
type MessagePayload struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversationId"`
	WorkspaceID    string    `json:"workspaceId"`
	Sender         string    `json:"sender"`
	SenderName     string    `json:"senderName,omitempty"`
	Content        string    `json:"content"`
	ContentType    string    `json:"contentType"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"createdAt"`
}

// ConversationUpdatePayload is the wire shape of conversation:update.
type ConversationUpdatePayload struct {
	ConversationID     string    `json:"conversationId"`
	LastMessageAt      time.Time `json:"lastMessageAt"`
	LastMessagePreview string    `json:"lastMessagePreview"`
	UnreadCount        int       `json:"unreadCount"`
}

// SendMessageRequest is the inbound message:send frame from a dashboard
// or widget socket client.
type SendMessageRequest struct {
	WorkspaceID    string         `json:"workspaceId"`
	ConversationID string         `json:"conversationId"`
	Channel        string         `json:"channel"`
	ChannelID      string         `json:"channelId"`
	Content        string         `json:"content"`
	Sender         string         `json:"sender"`
	SenderName     string         `json:"senderName"`
	Customer       CustomerDetail `json:"customer"`
}

// CustomerDetail is the optional customer identity on a message:send frame.
type CustomerDetail struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	SessionID string `json:"sessionId"`
}

// JoinWorkspaceRequest is the inbound join:workspace frame.
type JoinWorkspaceRequest struct {
	WorkspaceID string `json:"workspaceId"`
}

// JoinConversationRequest is the inbound join:conversation frame.
type JoinConversationRequest struct {
	ConversationID string `json:"conversationId"`
}

// ReadRequest is the inbound conversation:read frame.
type ReadRequest struct {
	ConversationID string `json:"conversationId"`
}

// TypingPayload is the wire shape of typing:start / typing:stop.
type TypingPayload struct {
	ConversationID string `json:"conversationId"`
	Sender         string `json:"sender"`
}
