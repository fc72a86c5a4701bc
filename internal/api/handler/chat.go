package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type chatMessageRequest struct {
	Message   string `json:"message" binding:"required"`
	SessionID string `json:"session_id"`
}

// SendChatMessage runs one chatbot turn. Model failures still answer 200
// with an apology and an error field.
func (h *Handler) SendChatMessage(c *gin.Context) {
	var req chatMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	turn, err := h.Chat.Send(c.Request.Context(), req.SessionID, req.Message, h.lang(c))
	if err != nil {
		h.respondError(c, err, "error.conversation_not_found")
		return
	}
	c.JSON(http.StatusOK, turn)
}

type conversationItem struct {
	ID             uint      `json:"id"`
	SessionID      string    `json:"session_id"`
	Title          string    `json:"title"`
	CreatedAt      time.Time `json:"created_at"`
	LastMessage    string    `json:"ultima_mensagem"`
	LastActivityAt time.Time `json:"ultima_atividade"`
	MessageCount   int64     `json:"message_count"`
}

func (h *Handler) ListConversations(c *gin.Context) {
	list, err := h.Chat.Conversations(c.Request.Context(), parseLimit(c))
	if err != nil {
		h.respondError(c, err, "error.conversation_not_found")
		return
	}

	lang := h.lang(c)
	out := make([]conversationItem, 0, len(list))
	for _, s := range list {
		item := conversationItem{
			ID:             s.ID,
			SessionID:      s.SessionID,
			Title:          s.Title,
			CreatedAt:      s.CreatedAt,
			LastMessage:    s.LastMessage,
			LastActivityAt: s.LastMessageAt,
			MessageCount:   s.MessageCount,
		}
		if s.MessageCount == 0 {
			item.LastMessage = h.Localizer.GetString(lang, "chat.no_messages")
		}
		out = append(out, item)
	}
	c.JSON(http.StatusOK, gin.H{"conversations": out})
}

type messageItem struct {
	ID        uint      `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

func (h *Handler) GetConversation(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	conv, msgs, err := h.Chat.History(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err, "error.conversation_not_found")
		return
	}

	items := make([]messageItem, 0, len(msgs))
	for _, m := range msgs {
		items = append(items, messageItem{ID: m.ID, Role: m.Role, Content: m.Content, CreatedAt: m.CreatedAt})
	}

	c.JSON(http.StatusOK, gin.H{
		"conversation": gin.H{
			"id":         conv.ID,
			"session_id": conv.SessionID,
			"title":      conv.Title,
			"created_at": conv.CreatedAt,
		},
		"messages": items,
	})
}

func (h *Handler) NewConversation(c *gin.Context) {
	lang := h.lang(c)
	conv, err := h.Chat.NewConversation(c.Request.Context(), c.Query("title"), lang)
	if err != nil {
		h.respondError(c, err, "error.conversation_not_found")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"conversation_id": conv.ID,
		"session_id":      conv.SessionID,
		"title":           conv.Title,
		"created_at":      conv.CreatedAt,
		"message":         h.Localizer.GetString(lang, "chat.conversation_created"),
	})
}
