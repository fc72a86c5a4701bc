package storage

import (
	"context"
	"errors"
	"guardaazul/backend/internal/models"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ErrNotFound is returned when the requested record does not exist.
var ErrNotFound = errors.New("record not found")

// ErrStatusConflict is returned when a complaint is no longer in the state a
// write requires, typically because another writer got there first.
var ErrStatusConflict = errors.New("complaint status changed")

// VerdictChannel is the Redis channel carrying models.VerdictEvent payloads.
const VerdictChannel = "denuncias:verdicts"

// VerdictUpdate holds every column the validation job writes at completion.
type VerdictUpdate struct {
	Status         models.Status
	IsValid        bool
	Score          int
	Details        datatypes.JSON
	DetectedLabels []string
}

type Storage interface {
	SaveComplaint(complaint *models.Complaint) error
	GetComplaintByID(id uint) (*models.Complaint, error)
	ListComplaints(limit int) ([]models.Complaint, error)
	ListValidatedComplaints(minScore int) ([]models.Complaint, error)
	ListComplaintsByStatus(status models.Status) ([]models.Complaint, error)

	ApplyVerdict(id uint, u VerdictUpdate) error
	MarkManualReview(id uint, details datatypes.JSON) error
	ReopenForValidation(id uint) error
	SetReview(id uint, valid bool) error

	GetCachedStatus(id uint) ([]byte, error)
	CacheStatus(id uint, payload []byte, ttl time.Duration) error
	PublishVerdict(event models.VerdictEvent) error

	CreateConversation(sessionID, title string) (*models.Conversation, error)
	GetConversationByID(id uint) (*models.Conversation, error)
	GetConversationBySession(sessionID string) (*models.Conversation, error)
	SaveMessage(msg *models.Message) error
	GetMessages(conversationID uint, limit int) ([]models.Message, error)
	ListConversations(limit int) ([]ConversationSummary, error)

	Stats() (*Stats, error)
}

type Service struct {
	DB    *gorm.DB
	Redis *redis.Client
	Ctx   context.Context
}

// NewStorageService Constructor
func NewStorageService(db *gorm.DB, rdb *redis.Client) *Service {
	return &Service{
		DB:    db,
		Redis: rdb,
		Ctx:   context.Background(),
	}
}

// AutoMigrate creates or updates every table the backend owns.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Complaint{},
		&models.Conversation{},
		&models.Message{},
	)
}

// Stats is the health snapshot of the database.
type Stats struct {
	Complaints    int64 `json:"total_denuncias"`
	Conversations int64 `json:"total_conversations"`
	Messages      int64 `json:"total_messages"`
}

// Stats pings the database and counts the main tables.
func (s *Service) Stats() (*Stats, error) {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return nil, err
	}
	if err := sqlDB.PingContext(s.Ctx); err != nil {
		return nil, err
	}

	var st Stats
	if err := s.DB.Model(&models.Complaint{}).Count(&st.Complaints).Error; err != nil {
		return nil, err
	}
	if err := s.DB.Model(&models.Conversation{}).Count(&st.Conversations).Error; err != nil {
		return nil, err
	}
	if err := s.DB.Model(&models.Message{}).Count(&st.Messages).Error; err != nil {
		return nil, err
	}
	return &st, nil
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
