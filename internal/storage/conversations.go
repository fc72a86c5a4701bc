package storage

import (
	"guardaazul/backend/internal/models"
	"log"
	"time"

	"gorm.io/gorm"
)

// ConversationSummary is a conversation with its most recent message.
type ConversationSummary struct {
	models.Conversation
	LastMessage  string `json:"last_message"`
	MessageCount int64  `json:"message_count"`
}

// CreateConversation starts a conversation. An empty sessionID gets a generated one.
func (s *Service) CreateConversation(sessionID, title string) (*models.Conversation, error) {
	conv := models.Conversation{SessionID: sessionID, Title: title, IsActive: true}
	if err := s.DB.Create(&conv).Error; err != nil {
		log.Printf("ERROR: Failed to create conversation: %v", err)
		return nil, err
	}
	return &conv, nil
}

func (s *Service) GetConversationByID(id uint) (*models.Conversation, error) {
	var conv models.Conversation
	if err := s.DB.First(&conv, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &conv, nil
}

func (s *Service) GetConversationBySession(sessionID string) (*models.Conversation, error) {
	var conv models.Conversation
	if err := s.DB.Where("session_id = ?", sessionID).First(&conv).Error; err != nil {
		return nil, notFound(err)
	}
	return &conv, nil
}

// SaveMessage stores one turn and bumps the conversation's last activity.
func (s *Service) SaveMessage(msg *models.Message) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(msg).Error; err != nil {
			log.Printf("ERROR: Failed to save message for conversation %d: %v", msg.ConversationID, err)
			return err
		}
		return tx.Model(&models.Conversation{}).
			Where("id = ?", msg.ConversationID).
			Update("last_message_at", time.Now()).Error
	})
}

// GetMessages returns the last limit messages of a conversation in
// chronological order. A non-positive limit returns the whole history.
func (s *Service) GetMessages(conversationID uint, limit int) ([]models.Message, error) {
	var msgs []models.Message
	q := s.DB.Where("conversation_id = ?", conversationID).Order("created_at desc, id desc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&msgs).Error; err != nil {
		return nil, err
	}

	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
	return msgs, nil
}

// ListConversations returns active conversations, most recently used first.
func (s *Service) ListConversations(limit int) ([]ConversationSummary, error) {
	var convs []models.Conversation
	q := s.DB.Where("is_active = ?", true).Order("last_message_at desc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&convs).Error; err != nil {
		log.Printf("ERROR: Failed to list conversations: %v", err)
		return nil, err
	}

	out := make([]ConversationSummary, 0, len(convs))
	for _, c := range convs {
		sum := ConversationSummary{Conversation: c}
		if err := s.DB.Model(&models.Message{}).Where("conversation_id = ?", c.ID).Count(&sum.MessageCount).Error; err != nil {
			return nil, err
		}

		var last models.Message
		err := s.DB.Where("conversation_id = ?", c.ID).Order("created_at desc, id desc").Limit(1).Find(&last).Error
		if err != nil {
			return nil, err
		}
		sum.LastMessage = last.Content
		out = append(out, sum)
	}
	return out, nil
}
