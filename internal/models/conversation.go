package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Conversation groups the messages exchanged with the chatbot in one session.
type Conversation struct {
	ID uint `gorm:"primaryKey" json:"id"`
	// SessionID identifies the conversation for the client.
	SessionID     string    `gorm:"size:255;uniqueIndex;not null" json:"session_id"`
	Title         string    `gorm:"size:255" json:"title"`
	IsActive      bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	LastMessageAt time.Time `json:"last_message_at"`

	Messages []Message `gorm:"constraint:OnDelete:CASCADE" json:"messages,omitempty"`
}

// BeforeCreate generates a session id when none was supplied.
func (c *Conversation) BeforeCreate(tx *gorm.DB) (err error) {
	if c.SessionID == "" {
		c.SessionID = uuid.New().String()
	}
	if c.LastMessageAt.IsZero() {
		c.LastMessageAt = time.Now()
	}
	return
}

// Message is one turn of a conversation.
type Message struct {
	ID             uint   `gorm:"primaryKey" json:"id"`
	ConversationID uint   `gorm:"not null;index" json:"conversation_id"`
	Content        string `gorm:"type:text;not null" json:"content"`
	Role           string `gorm:"size:20;not null" json:"role"`
	// TokensUsed and ResponseTime are only known for assistant messages.
	TokensUsed   *int      `json:"tokens_used,omitempty"`
	ResponseTime *float64  `json:"response_time,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}
