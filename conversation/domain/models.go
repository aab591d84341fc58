package domain

import (
	"time"
	"unicode/utf8"
)

type Channel string

const (
	ChannelWidget    Channel = "widget"
	ChannelWhatsApp  Channel = "whatsapp"
	ChannelMessenger Channel = "messenger"
	ChannelEmail     Channel = "email"
)

func (c Channel) Valid() bool {
	switch c {
	case ChannelWidget, ChannelWhatsApp, ChannelMessenger, ChannelEmail:
		return true
	}
	return false
}

type ConversationStatus string

const (
	StatusOpen     ConversationStatus = "open"
	StatusPending  ConversationStatus = "pending"
	StatusResolved ConversationStatus = "resolved"
	StatusClosed   ConversationStatus = "closed"
)

func (s ConversationStatus) Valid() bool {
	switch s {
	case StatusOpen, StatusPending, StatusResolved, StatusClosed:
		return true
	}
	return false
}

type Sender string

const (
	SenderCustomer Sender = "customer"
	SenderAgent    Sender = "agent"
	SenderBot      Sender = "bot"
	SenderSystem   Sender = "system"
)

type MessageStatus string

const (
	MessageStatusPending   MessageStatus = "pending"
	MessageStatusSent      MessageStatus = "sent"
	MessageStatusDelivered MessageStatus = "delivered"
	MessageStatusRead      MessageStatus = "read"
	MessageStatusFailed    MessageStatus = "failed"
)

// Customer is the profile of the person on the other side of a conversation.
type Customer struct {
	Name      string `bson:"name,omitempty" json:"name,omitempty"`
	Email     string `bson:"email,omitempty" json:"email,omitempty"`
	Phone     string `bson:"phone,omitempty" json:"phone,omitempty"`
	SessionID string `bson:"sessionId,omitempty" json:"sessionId,omitempty"`
}

// Conversation is a single customer-to-business thread on one channel.
// IsBot snapshots the workspace bot setting at creation time.
type Conversation struct {
	ID                 string             `bson:"_id" json:"id"`
	WorkspaceID        string             `bson:"workspaceId" json:"workspaceId"`
	Channel            Channel            `bson:"channel" json:"channel"`
	ChannelID          string             `bson:"channelId" json:"channelId"`
	Customer           Customer           `bson:"customer" json:"customer"`
	Status             ConversationStatus `bson:"status" json:"status"`
	LastMessageAt      time.Time          `bson:"lastMessageAt" json:"lastMessageAt"`
	LastMessagePreview string             `bson:"lastMessagePreview,omitempty" json:"lastMessagePreview,omitempty"`
	UnreadCount        int                `bson:"unreadCount" json:"unreadCount"`
	IsBot              bool               `bson:"isBot" json:"isBot"`
	CreatedAt          time.Time          `bson:"createdAt" json:"createdAt"`
}

// Message is one immutable utterance. WorkspaceID is denormalized for
// query efficiency.
type Message struct {
	ID             string        `bson:"_id" json:"id"`
	ConversationID string        `bson:"conversationId" json:"conversationId"`
	WorkspaceID    string        `bson:"workspaceId" json:"workspaceId"`
	Sender         Sender        `bson:"sender" json:"sender"`
	SenderName     string        `bson:"senderName,omitempty" json:"senderName,omitempty"`
	Content        string        `bson:"content" json:"content"`
	ContentType    string        `bson:"contentType" json:"contentType"`
	Status         MessageStatus `bson:"status" json:"status"`
	IsInternal     bool          `bson:"isInternal" json:"isInternal"`
	CreatedAt      time.Time     `bson:"createdAt" json:"createdAt"`
}

const previewMaxRunes = 100

// Preview truncates message content to the conversation preview length.
func Preview(content string) string {
	if utf8.RuneCountInString(content) <= previewMaxRunes {
		return content
	}
	runes := []rune(content)
	return string(runes[:previewMaxRunes])
}
