package handler

import (
	"context"
	"errors"
	"guardaazul/backend/internal/chatbot"
	"guardaazul/backend/internal/complaint"
	"guardaazul/backend/internal/localization"
	"guardaazul/backend/internal/models"
	"guardaazul/backend/internal/notify"
	"guardaazul/backend/internal/storage"
	"guardaazul/backend/internal/tides"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// ComplaintService is the complaint intake and status surface.
type ComplaintService interface {
	Submit(ctx context.Context, sub complaint.Submission, lang string) (*complaint.Receipt, error)
	Status(ctx context.Context, id uint, lang string) (*complaint.StatusView, error)
	List(ctx context.Context, limit int) ([]models.Complaint, error)
	ListValidated(ctx context.Context) ([]models.Complaint, error)
	Get(ctx context.Context, id uint) (*models.Complaint, error)
}

// ChatService is the Nereu chatbot.
type ChatService interface {
	Send(ctx context.Context, sessionID, message, lang string) (*chatbot.Turn, error)
	NewConversation(ctx context.Context, title, lang string) (*models.Conversation, error)
	Conversations(ctx context.Context, limit int) ([]storage.ConversationSummary, error)
	History(ctx context.Context, conversationID uint) (*models.Conversation, []models.Message, error)
}

// TideService serves today's ocean data.
type TideService interface {
	Today() (*tides.Report, error)
}

// HealthChecker reports database health.
type HealthChecker interface {
	Stats() (*storage.Stats, error)
}

// Handler wires the HTTP API to the services.
type Handler struct {
	Complaints ComplaintService
	Chat       ChatService
	Tides      TideService
	Health     HealthChecker
	Hub        *notify.Hub
	Localizer  *localization.Localizer
	JWTSecret  []byte
}

func NewHandler(complaints ComplaintService, chat ChatService, tideSvc TideService, health HealthChecker,
	hub *notify.Hub, l *localization.Localizer, jwtSecret string) *Handler {
	return &Handler{
		Complaints: complaints,
		Chat:       chat,
		Tides:      tideSvc,
		Health:     health,
		Hub:        hub,
		Localizer:  l,
		JWTSecret:  []byte(jwtSecret),
	}
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// RegisterRoutes mounts every endpoint on r.
func RegisterRoutes(r *gin.Engine, h *Handler) {
	r.GET("/", h.Root)
	r.GET("/health", h.HealthCheck)
	r.GET("/anonid", h.GetAnonID)
	r.GET("/mares", h.GetTides)

	d := r.Group("/denuncias")
	d.POST("", h.CreateComplaint)
	d.GET("/list", h.ListComplaints)
	d.GET("/validated", h.ListValidatedComplaints)
	d.GET("/:id", h.GetComplaint)
	d.GET("/:id/status", h.GetComplaintStatus)
	d.GET("/:id/ws", h.ServeVerdictSocket)

	chat := r.Group("/chat")
	chat.POST("/message", h.SendChatMessage)
	chat.GET("/conversations", h.ListConversations)
	chat.GET("/conversation/:id", h.GetConversation)
	chat.POST("/conversation/new", h.NewConversation)
}

func (h *Handler) lang(c *gin.Context) string {
	return h.Localizer.Match(c.GetHeader("Accept-Language"))
}

// respondError maps service errors to status codes. notFoundKey is the
// localization key used for storage.ErrNotFound.
func (h *Handler) respondError(c *gin.Context, err error, notFoundKey string) {
	lang := h.lang(c)
	switch {
	case errors.Is(err, complaint.ErrInvalidSubmission),
		errors.Is(err, chatbot.ErrEmptyMessage):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.Is(err, storage.ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: h.Localizer.GetString(lang, notFoundKey)})
	default:
		log.Printf("ERROR: %s %s: %v", c.Request.Method, c.FullPath(), err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: h.Localizer.GetString(lang, "error.internal")})
	}
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
		return 0, false
	}
	return uint(id), true
}

func parseLimit(c *gin.Context) int {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "0"))
	if err != nil || limit < 0 {
		return 0
	}
	return limit
}
