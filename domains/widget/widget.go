package widget

import (
	"time"

	"github.com/nobotchat/relay/conversation/domain"
)

// CustomerInfo is the optional visitor identity sent by the embed script.
type CustomerInfo struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// ChatRequest is the body of the widget chat endpoint.
type ChatRequest struct {
	Message      string       `json:"message"`
	SessionID    string       `json:"sessionId"`
	CustomerInfo CustomerInfo `json:"customerInfo"`
}

// ChatResponse is returned to the embed script. Response is empty when
// the bot did not answer in time or is disabled for the workspace.
type ChatResponse struct {
	Success        bool   `json:"success"`
	Response       string `json:"response,omitempty"`
	ConversationID string `json:"conversationId"`
}

// HistoryMessage is one visible message in the widget's session history.
type HistoryMessage struct {
	ID         string    `json:"id"`
	Sender     string    `json:"sender"`
	SenderName string    `json:"senderName,omitempty"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"createdAt"`
}

// HistoryResponse is the widget session transcript.
type HistoryResponse struct {
	ConversationID string           `json:"conversationId"`
	Status         string           `json:"status"`
	Messages       []HistoryMessage `json:"messages"`
}

func (c CustomerInfo) ToCustomer(sessionID string) domain.Customer {
	return domain.Customer{
		Name:      c.Name,
		Email:     c.Email,
		Phone:     c.Phone,
		SessionID: sessionID,
	}
}
