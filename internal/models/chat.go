package models

import (
	"time"
)

// ChatRole identifies the author of a chat message.
type ChatRole string

const (
	RoleUser      ChatRole = "user"
	RoleAssistant ChatRole = "assistant"
)

// ChatMessage is one conversational turn. Append-only; createdAt order
// is the canonical conversational order.
type ChatMessage struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Role      ChatRole  `json:"role"`
	Message   string    `json:"message"`
	ReportID  string    `json:"reportId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
