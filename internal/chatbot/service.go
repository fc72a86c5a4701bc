// Package chatbot implements Nereu, the coastal assistant: conversation
// persistence plus prompt assembly around a Gemini text model.
package chatbot

import (
	"context"
	"errors"
	"fmt"
	"guardaazul/backend/internal/config"
	"guardaazul/backend/internal/localization"
	"guardaazul/backend/internal/models"
	"guardaazul/backend/internal/storage"
	"log"
	"strings"
	"time"
)

// ErrEmptyMessage is returned for blank user messages.
var ErrEmptyMessage = errors.New("message is empty")

// Generator produces the assistant's answer for a full prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (*Reply, error)
}

// Store is the conversation persistence the chatbot needs.
type Store interface {
	CreateConversation(sessionID, title string) (*models.Conversation, error)
	GetConversationByID(id uint) (*models.Conversation, error)
	GetConversationBySession(sessionID string) (*models.Conversation, error)
	SaveMessage(msg *models.Message) error
	GetMessages(conversationID uint, limit int) ([]models.Message, error)
	ListConversations(limit int) ([]storage.ConversationSummary, error)
}

// OceanData supplies today's tide and sun summary.
type OceanData interface {
	ChatContext() string
}

type Service struct {
	Store     Store
	Generator Generator
	Ocean     OceanData
	Localizer *localization.Localizer
}

func NewService(store Store, gen Generator, ocean OceanData, l *localization.Localizer) *Service {
	return &Service{Store: store, Generator: gen, Ocean: ocean, Localizer: l}
}

// ConversationInfo is the conversation summary attached to each turn.
type ConversationInfo struct {
	ID        uint      `json:"id"`
	SessionID string    `json:"session_id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}

// Turn is the result of one user message.
type Turn struct {
	ConversationID uint              `json:"conversation_id"`
	SessionID      string            `json:"session_id"`
	UserMessage    string            `json:"user_message"`
	BotResponse    string            `json:"bot_response"`
	Conversation   *ConversationInfo `json:"conversation,omitempty"`
	TokensUsed     *int              `json:"tokens_used,omitempty"`
	ResponseTime   float64           `json:"response_time"`
	Error          string            `json:"error,omitempty"`
}

// Error codes reported in Turn.Error. The underlying error is only logged.
const (
	ErrCodeStorage = "storage_unavailable"
	ErrCodeModel   = "model_unavailable"
)

// Send stores the user's message, asks the model for an answer and stores
// it too. Failures after validation still produce a turn carrying an
// apology and an error code.
func (s *Service) Send(ctx context.Context, sessionID, message, lang string) (*Turn, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, ErrEmptyMessage
	}

	start := time.Now()
	turn := &Turn{SessionID: sessionID, UserMessage: message}

	fail := func(code string, err error) (*Turn, error) {
		log.Printf("ERROR: Failed to generate chat reply (%s): %v", code, err)
		turn.BotResponse = s.Localizer.GetString(lang, "chat.error")
		turn.Error = code
		turn.ResponseTime = time.Since(start).Seconds()
		return turn, nil
	}

	conv, err := s.conversationFor(sessionID, message)
	if err != nil {
		return fail(ErrCodeStorage, err)
	}
	turn.ConversationID = conv.ID
	turn.SessionID = conv.SessionID
	turn.Conversation = &ConversationInfo{ID: conv.ID, SessionID: conv.SessionID, Title: conv.Title, CreatedAt: conv.CreatedAt}

	if err := s.Store.SaveMessage(&models.Message{ConversationID: conv.ID, Content: message, Role: models.RoleUser}); err != nil {
		return fail(ErrCodeStorage, fmt.Errorf("save user message: %w", err))
	}

	history, err := s.Store.GetMessages(conv.ID, 0)
	if err != nil {
		return fail(ErrCodeStorage, fmt.Errorf("load history: %w", err))
	}

	var daily string
	if s.Ocean != nil {
		daily = s.Ocean.ChatContext()
	}

	reply, err := s.Generator.Generate(ctx, BuildPrompt(SystemContext(daily), history))
	if err != nil {
		return fail(ErrCodeModel, err)
	}

	elapsed := time.Since(start).Seconds()
	answer := &models.Message{
		ConversationID: conv.ID,
		Content:        reply.Text,
		Role:           models.RoleAssistant,
		TokensUsed:     reply.TotalTokens,
		ResponseTime:   &elapsed,
	}
	if err := s.Store.SaveMessage(answer); err != nil {
		log.Printf("ERROR: Failed to save chat reply for conversation %d: %v", conv.ID, err)
	}

	log.Printf("INFO: Chat reply generated in %.2fs", elapsed)
	turn.BotResponse = reply.Text
	turn.TokensUsed = reply.TotalTokens
	turn.ResponseTime = elapsed
	return turn, nil
}

// conversationFor finds the session's conversation or starts one titled
// after the first message.
func (s *Service) conversationFor(sessionID, firstMessage string) (*models.Conversation, error) {
	if sessionID != "" {
		conv, err := s.Store.GetConversationBySession(sessionID)
		if err == nil {
			return conv, nil
		}
		if !errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("find conversation: %w", err)
		}
	}

	conv, err := s.Store.CreateConversation(sessionID, Title(firstMessage, config.ChatTitleMaxLen))
	if err != nil {
		return nil, fmt.Errorf("create conversation: %w", err)
	}
	return conv, nil
}

// NewConversation starts an empty conversation.
func (s *Service) NewConversation(ctx context.Context, title, lang string) (*models.Conversation, error) {
	if strings.TrimSpace(title) == "" {
		title = s.Localizer.GetString(lang, "chat.default_title")
	}
	return s.Store.CreateConversation("", title)
}

// Conversations lists conversations, most recent first.
func (s *Service) Conversations(ctx context.Context, limit int) ([]storage.ConversationSummary, error) {
	return s.Store.ListConversations(limit)
}

// History returns a conversation and all its messages in order.
func (s *Service) History(ctx context.Context, conversationID uint) (*models.Conversation, []models.Message, error) {
	conv, err := s.Store.GetConversationByID(conversationID)
	if err != nil {
		return nil, nil, err
	}
	msgs, err := s.Store.GetMessages(conv.ID, 0)
	if err != nil {
		return nil, nil, err
	}
	return conv, msgs, nil
}
