package complaint_test

import (
	"guardaazul/backend/internal/models"
	"guardaazul/backend/internal/storage"
	"time"

	"github.com/stretchr/testify/mock"
	"gorm.io/datatypes"
)

type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) SaveComplaint(complaint *models.Complaint) error {
	args := m.Called(complaint)
	return args.Error(0)
}

func (m *MockStorage) GetComplaintByID(id uint) (*models.Complaint, error) {
	args := m.Called(id)
	c, _ := args.Get(0).(*models.Complaint)
	return c, args.Error(1)
}

func (m *MockStorage) ListComplaints(limit int) ([]models.Complaint, error) {
	args := m.Called(limit)
	return args.Get(0).([]models.Complaint), args.Error(1)
}

func (m *MockStorage) ListValidatedComplaints(minScore int) ([]models.Complaint, error) {
	args := m.Called(minScore)
	return args.Get(0).([]models.Complaint), args.Error(1)
}

func (m *MockStorage) ListComplaintsByStatus(status models.Status) ([]models.Complaint, error) {
	args := m.Called(status)
	return args.Get(0).([]models.Complaint), args.Error(1)
}

func (m *MockStorage) ApplyVerdict(id uint, u storage.VerdictUpdate) error {
	args := m.Called(id, u)
	return args.Error(0)
}

func (m *MockStorage) MarkManualReview(id uint, details datatypes.JSON) error {
	args := m.Called(id, details)
	return args.Error(0)
}

func (m *MockStorage) ReopenForValidation(id uint) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockStorage) SetReview(id uint, valid bool) error {
	args := m.Called(id, valid)
	return args.Error(0)
}

func (m *MockStorage) GetCachedStatus(id uint) ([]byte, error) {
	args := m.Called(id)
	b, _ := args.Get(0).([]byte)
	return b, args.Error(1)
}

func (m *MockStorage) CacheStatus(id uint, payload []byte, ttl time.Duration) error {
	args := m.Called(id, payload, ttl)
	return args.Error(0)
}

func (m *MockStorage) PublishVerdict(event models.VerdictEvent) error {
	args := m.Called(event)
	return args.Error(0)
}

func (m *MockStorage) CreateConversation(sessionID, title string) (*models.Conversation, error) {
	args := m.Called(sessionID, title)
	c, _ := args.Get(0).(*models.Conversation)
	return c, args.Error(1)
}

func (m *MockStorage) GetConversationByID(id uint) (*models.Conversation, error) {
	args := m.Called(id)
	c, _ := args.Get(0).(*models.Conversation)
	return c, args.Error(1)
}

func (m *MockStorage) GetConversationBySession(sessionID string) (*models.Conversation, error) {
	args := m.Called(sessionID)
	c, _ := args.Get(0).(*models.Conversation)
	return c, args.Error(1)
}

func (m *MockStorage) SaveMessage(msg *models.Message) error {
	args := m.Called(msg)
	return args.Error(0)
}

func (m *MockStorage) GetMessages(conversationID uint, limit int) ([]models.Message, error) {
	args := m.Called(conversationID, limit)
	return args.Get(0).([]models.Message), args.Error(1)
}

func (m *MockStorage) ListConversations(limit int) ([]storage.ConversationSummary, error) {
	args := m.Called(limit)
	return args.Get(0).([]storage.ConversationSummary), args.Error(1)
}

func (m *MockStorage) Stats() (*storage.Stats, error) {
	args := m.Called()
	st, _ := args.Get(0).(*storage.Stats)
	return st, args.Error(1)
}
