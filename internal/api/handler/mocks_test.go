package handler_test

import (
	"context"
	"guardaazul/backend/internal/chatbot"
	"guardaazul/backend/internal/complaint"
	"guardaazul/backend/internal/models"
	"guardaazul/backend/internal/storage"
	"guardaazul/backend/internal/tides"
	"io"

	"github.com/stretchr/testify/mock"
)

type MockComplaints struct {
	mock.Mock
	// image bytes seen by Submit, read while the upload is still open
	image []byte
}

func (m *MockComplaints) Submit(ctx context.Context, sub complaint.Submission, lang string) (*complaint.Receipt, error) {
	if sub.Image != nil {
		m.image, _ = io.ReadAll(sub.Image)
		sub.Image = nil
	}
	args := m.Called(sub, lang)
	r, _ := args.Get(0).(*complaint.Receipt)
	return r, args.Error(1)
}

func (m *MockComplaints) Status(ctx context.Context, id uint, lang string) (*complaint.StatusView, error) {
	args := m.Called(id, lang)
	v, _ := args.Get(0).(*complaint.StatusView)
	return v, args.Error(1)
}

func (m *MockComplaints) List(ctx context.Context, limit int) ([]models.Complaint, error) {
	args := m.Called(limit)
	l, _ := args.Get(0).([]models.Complaint)
	return l, args.Error(1)
}

func (m *MockComplaints) ListValidated(ctx context.Context) ([]models.Complaint, error) {
	args := m.Called()
	l, _ := args.Get(0).([]models.Complaint)
	return l, args.Error(1)
}

func (m *MockComplaints) Get(ctx context.Context, id uint) (*models.Complaint, error) {
	args := m.Called(id)
	c, _ := args.Get(0).(*models.Complaint)
	return c, args.Error(1)
}

type MockChat struct {
	mock.Mock
}

func (m *MockChat) Send(ctx context.Context, sessionID, message, lang string) (*chatbot.Turn, error) {
	args := m.Called(sessionID, message, lang)
	t, _ := args.Get(0).(*chatbot.Turn)
	return t, args.Error(1)
}

func (m *MockChat) NewConversation(ctx context.Context, title, lang string) (*models.Conversation, error) {
	args := m.Called(title, lang)
	c, _ := args.Get(0).(*models.Conversation)
	return c, args.Error(1)
}

func (m *MockChat) Conversations(ctx context.Context, limit int) ([]storage.ConversationSummary, error) {
	args := m.Called(limit)
	l, _ := args.Get(0).([]storage.ConversationSummary)
	return l, args.Error(1)
}

func (m *MockChat) History(ctx context.Context, conversationID uint) (*models.Conversation, []models.Message, error) {
	args := m.Called(conversationID)
	c, _ := args.Get(0).(*models.Conversation)
	msgs, _ := args.Get(1).([]models.Message)
	return c, msgs, args.Error(2)
}

type MockTides struct {
	mock.Mock
}

func (m *MockTides) Today() (*tides.Report, error) {
	args := m.Called()
	r, _ := args.Get(0).(*tides.Report)
	return r, args.Error(1)
}

type MockHealth struct {
	mock.Mock
}

func (m *MockHealth) Stats() (*storage.Stats, error) {
	args := m.Called()
	s, _ := args.Get(0).(*storage.Stats)
	return s, args.Error(1)
}
