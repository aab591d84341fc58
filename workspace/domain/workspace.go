package domain

import "time"

type WorkspaceStatus string

const (
	WorkspaceStatusPending   WorkspaceStatus = "pending"
	WorkspaceStatusActive    WorkspaceStatus = "active"
	WorkspaceStatusSuspended WorkspaceStatus = "suspended"
)

// BotSettings controls the automated reply pipeline of one workspace.
// Durations are stored in milliseconds, matching the wire format of the
// dashboard settings API.
type BotSettings struct {
	Enabled                 bool `bson:"enabled" json:"enabled"`
	ReplyDelayMs            int  `bson:"replyDelay" json:"replyDelay"`
	TypingIndicatorDuration int  `bson:"typingIndicatorDuration" json:"typingIndicatorDuration"`
}

type WidgetSettings struct {
	AgentName string `bson:"agentName" json:"agentName"`
	Greeting  string `bson:"greeting,omitempty" json:"greeting,omitempty"`
}

// TrainingData is the workspace knowledge base. Ingestion is owned by an
// external pipeline; the relay only reads Content.
type TrainingData struct {
	Status  string `bson:"status,omitempty" json:"status,omitempty"`
	Content string `bson:"content,omitempty" json:"content,omitempty"`
}

// Workspace is the tenant unit: one business account owning conversations
// and bot configuration.
type Workspace struct {
	ID           string          `bson:"_id" json:"id"`
	Name         string          `bson:"name" json:"name"`
	BusinessName string          `bson:"businessName,omitempty" json:"businessName,omitempty"`
	Website      string          `bson:"website,omitempty" json:"website,omitempty"`
	SupportEmail string          `bson:"supportEmail,omitempty" json:"supportEmail,omitempty"`
	Status       WorkspaceStatus `bson:"status" json:"status"`
	TrainingData TrainingData    `bson:"trainingData,omitempty" json:"trainingData,omitempty"`
	BotSettings  BotSettings     `bson:"botSettings" json:"botSettings"`
	Widget       WidgetSettings  `bson:"widgetSettings" json:"widgetSettings"`
	CreatedAt    time.Time       `bson:"createdAt,omitempty" json:"createdAt,omitempty"`
	UpdatedAt    time.Time       `bson:"updatedAt,omitempty" json:"updatedAt,omitempty"`
}

// IsActive reports whether the workspace accepts inbound messages.
func (w Workspace) IsActive() bool {
	return w.Status == WorkspaceStatusActive
}

// AgentName returns the display name used for bot-authored messages.
func (w Workspace) AgentName(fallback string) string {
	if w.Widget.AgentName != "" {
		return w.Widget.AgentName
	}
	return fallback
}
