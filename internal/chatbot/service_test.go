package chatbot_test

import (
	"context"
	"encoding/json"
	"errors"
	"guardaazul/backend/internal/chatbot"
	"guardaazul/backend/internal/localization"
	"guardaazul/backend/internal/models"
	"guardaazul/backend/internal/storage"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockStore struct {
	mock.Mock
}

func (m *MockStore) CreateConversation(sessionID, title string) (*models.Conversation, error) {
	args := m.Called(sessionID, title)
	c, _ := args.Get(0).(*models.Conversation)
	return c, args.Error(1)
}

func (m *MockStore) GetConversationByID(id uint) (*models.Conversation, error) {
	args := m.Called(id)
	c, _ := args.Get(0).(*models.Conversation)
	return c, args.Error(1)
}

func (m *MockStore) GetConversationBySession(sessionID string) (*models.Conversation, error) {
	args := m.Called(sessionID)
	c, _ := args.Get(0).(*models.Conversation)
	return c, args.Error(1)
}

func (m *MockStore) SaveMessage(msg *models.Message) error {
	args := m.Called(msg)
	return args.Error(0)
}

func (m *MockStore) GetMessages(conversationID uint, limit int) ([]models.Message, error) {
	args := m.Called(conversationID, limit)
	msgs, _ := args.Get(0).([]models.Message)
	return msgs, args.Error(1)
}

func (m *MockStore) ListConversations(limit int) ([]storage.ConversationSummary, error) {
	args := m.Called(limit)
	list, _ := args.Get(0).([]storage.ConversationSummary)
	return list, args.Error(1)
}

type fakeGenerator struct {
	reply  *chatbot.Reply
	err    error
	prompt string
}

func (f *fakeGenerator) Generate(_ context.Context, prompt string) (*chatbot.Reply, error) {
	f.prompt = prompt
	return f.reply, f.err
}

type staticOcean string

func (s staticOcean) ChatContext() string { return string(s) }

func newService(t *testing.T, store chatbot.Store, gen chatbot.Generator) *chatbot.Service {
	t.Helper()
	l, err := localization.NewBundled()
	require.NoError(t, err)
	return chatbot.NewService(store, gen, staticOcean("🌊 MARÉS DE HOJE:\n   1. 03:12, 0.4m, 86"), l)
}

func TestSend_NewConversation(t *testing.T) {
	store := new(MockStore)
	conv := &models.Conversation{ID: 4, SessionID: "s-1", Title: "Qual a maré hoje?"}
	store.On("CreateConversation", "", "Qual a maré hoje?").Return(conv, nil)
	store.On("SaveMessage", mock.MatchedBy(func(m *models.Message) bool { return m.Role == models.RoleUser })).Return(nil)
	store.On("GetMessages", uint(4), 0).Return([]models.Message{{Role: models.RoleUser, Content: "Qual a maré hoje?"}}, nil)
	store.On("SaveMessage", mock.MatchedBy(func(m *models.Message) bool { return m.Role == models.RoleAssistant })).Return(nil)

	tokens := 17
	gen := &fakeGenerator{reply: &chatbot.Reply{Text: "A primeira maré é às 03:12.", TotalTokens: &tokens}}
	svc := newService(t, store, gen)

	turn, err := svc.Send(context.Background(), "", "  Qual a maré hoje?  ", "pt-BR")
	require.NoError(t, err)

	assert.Equal(t, uint(4), turn.ConversationID)
	assert.Equal(t, "s-1", turn.SessionID)
	assert.Equal(t, "A primeira maré é às 03:12.", turn.BotResponse)
	assert.Equal(t, &tokens, turn.TokensUsed)
	assert.Empty(t, turn.Error)
	assert.Equal(t, "Qual a maré hoje?", turn.Conversation.Title)

	assert.True(t, strings.HasPrefix(gen.prompt, "Você é Nereu"))
	assert.Contains(t, gen.prompt, "03:12, 0.4m, 86")
	assert.True(t, strings.HasSuffix(gen.prompt, "\nUsuário: Qual a maré hoje?"))

	store.AssertNumberOfCalls(t, "SaveMessage", 2)
	for _, c := range store.Calls {
		if c.Method == "SaveMessage" {
			m := c.Arguments.Get(0).(*models.Message)
			if m.Role == models.RoleAssistant {
				assert.Equal(t, &tokens, m.TokensUsed)
				assert.NotNil(t, m.ResponseTime)
			}
		}
	}
}

func TestSend_ExistingSession(t *testing.T) {
	store := new(MockStore)
	store.On("GetConversationBySession", "s-9").Return(&models.Conversation{ID: 9, SessionID: "s-9"}, nil)
	store.On("SaveMessage", mock.Anything).Return(nil)
	store.On("GetMessages", uint(9), 0).Return([]models.Message{
		{Role: models.RoleUser, Content: "oi"},
		{Role: models.RoleAssistant, Content: "Olá!"},
		{Role: models.RoleUser, Content: "e o pôr do sol?"},
	}, nil)

	gen := &fakeGenerator{reply: &chatbot.Reply{Text: "17:40"}}
	svc := newService(t, store, gen)

	turn, err := svc.Send(context.Background(), "s-9", "e o pôr do sol?", "pt-BR")
	require.NoError(t, err)

	assert.Equal(t, uint(9), turn.ConversationID)
	assert.Contains(t, gen.prompt, "Usuário: oi\nChatbot: Olá!\nUsuário: e o pôr do sol?")
	store.AssertNotCalled(t, "CreateConversation", mock.Anything, mock.Anything)
}

func TestSend_UnknownSessionKeepsItsID(t *testing.T) {
	store := new(MockStore)
	store.On("GetConversationBySession", "client-id").Return(nil, storage.ErrNotFound)
	store.On("CreateConversation", "client-id", "oi").Return(&models.Conversation{ID: 2, SessionID: "client-id"}, nil)
	store.On("SaveMessage", mock.Anything).Return(nil)
	store.On("GetMessages", uint(2), 0).Return([]models.Message{}, nil)

	svc := newService(t, store, &fakeGenerator{reply: &chatbot.Reply{Text: "Olá!"}})

	turn, err := svc.Send(context.Background(), "client-id", "oi", "pt-BR")
	require.NoError(t, err)
	assert.Equal(t, "client-id", turn.SessionID)
}

func TestSend_GenerationErrorApologises(t *testing.T) {
	store := new(MockStore)
	store.On("GetConversationBySession", "s-1").Return(&models.Conversation{ID: 1, SessionID: "s-1"}, nil)
	store.On("SaveMessage", mock.Anything).Return(nil)
	store.On("GetMessages", uint(1), 0).Return([]models.Message{}, nil)

	svc := newService(t, store, &fakeGenerator{err: errors.New("quota exceeded")})

	turn, err := svc.Send(context.Background(), "s-1", "oi", "pt-BR")
	require.NoError(t, err)

	assert.Equal(t, "Desculpe, ocorreu um erro inesperado. Tente novamente.", turn.BotResponse)
	assert.Equal(t, chatbot.ErrCodeModel, turn.Error)
	store.AssertNumberOfCalls(t, "SaveMessage", 1)
}

func TestSend_StorageErrorApologises(t *testing.T) {
	store := new(MockStore)
	store.On("GetConversationBySession", "s-1").Return(nil, errors.New("db down"))
	gen := &fakeGenerator{}

	svc := newService(t, store, gen)

	turn, err := svc.Send(context.Background(), "s-1", "oi", "en")
	require.NoError(t, err)

	assert.Equal(t, "Sorry, something unexpected went wrong. Please try again.", turn.BotResponse)
	assert.Equal(t, chatbot.ErrCodeStorage, turn.Error)
	assert.Empty(t, gen.prompt)
}

func TestSend_EmptyMessage(t *testing.T) {
	svc := newService(t, new(MockStore), &fakeGenerator{})

	_, err := svc.Send(context.Background(), "", "   ", "pt-BR")
	assert.ErrorIs(t, err, chatbot.ErrEmptyMessage)
}

func TestNewConversation_DefaultTitle(t *testing.T) {
	store := new(MockStore)
	store.On("CreateConversation", "", "Nova conversa").Return(&models.Conversation{ID: 1}, nil)
	svc := newService(t, store, &fakeGenerator{})

	conv, err := svc.NewConversation(context.Background(), "", "pt-BR")
	require.NoError(t, err)
	assert.Equal(t, uint(1), conv.ID)
}

func TestHistory(t *testing.T) {
	store := new(MockStore)
	store.On("GetConversationByID", uint(3)).Return(&models.Conversation{ID: 3}, nil)
	store.On("GetMessages", uint(3), 0).Return([]models.Message{{Content: "oi"}}, nil)
	svc := newService(t, store, &fakeGenerator{})

	conv, msgs, err := svc.History(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, uint(3), conv.ID)
	assert.Len(t, msgs, 1)
}

func TestHistory_NotFound(t *testing.T) {
	store := new(MockStore)
	store.On("GetConversationByID", uint(3)).Return(nil, storage.ErrNotFound)
	svc := newService(t, store, &fakeGenerator{})

	_, _, err := svc.History(context.Background(), 3)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestSend_ModelTransportErrorDoesNotLeakKey(t *testing.T) {
	store := new(MockStore)
	store.On("GetConversationBySession", "s-1").Return(&models.Conversation{ID: 1, SessionID: "s-1"}, nil)
	store.On("SaveMessage", mock.Anything).Return(nil)
	store.On("GetMessages", uint(1), 0).Return([]models.Message{}, nil)

	gemini := chatbot.NewGemini("SECRET-GEMINI-KEY", "gemini-2.0-flash")
	gemini.BaseURL = "http://127.0.0.1:1/v1beta/models/"
	svc := newService(t, store, gemini)

	turn, err := svc.Send(context.Background(), "s-1", "oi", "pt-BR")
	require.NoError(t, err)

	assert.Equal(t, chatbot.ErrCodeModel, turn.Error)
	body, err := json.Marshal(turn)
	require.NoError(t, err)
	assert.NotContains(t, string(body), "SECRET-GEMINI-KEY")
}
