// Package complaint handles citizen complaints from intake to verdict:
// it persists them, runs AI validation in the background and exposes the
// validation status.
package complaint

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"guardaazul/backend/internal/config"
	"guardaazul/backend/internal/localization"
	"guardaazul/backend/internal/models"
	"guardaazul/backend/internal/storage"
	"guardaazul/backend/internal/validation"
	"io"
	"log"
	"math"
	"strings"
	"sync"
	"time"

	"gorm.io/datatypes"
)

var (
	// ErrInvalidSubmission wraps every input problem found by Submit.
	ErrInvalidSubmission = errors.New("invalid submission")
	// ErrNoImage is returned when revalidating a complaint without a photo.
	ErrNoImage = errors.New("complaint has no image")
	// ErrNotRevalidatable is returned when the complaint already has a final verdict.
	ErrNotRevalidatable = errors.New("complaint is not awaiting manual review")
	ErrNotReviewable    = errors.New("complaint already has a final verdict")
)

// Validator runs the validation pipeline once.
type Validator interface {
	Validate(ctx context.Context, in validation.Input) validation.Outcome
}

// ImageStore persists uploaded photos.
type ImageStore interface {
	Save(originalName string, r io.Reader) (filename, path string, err error)
	Read(path string) ([]byte, error)
}

// Submission is a complaint as sent by the citizen.
type Submission struct {
	Description string
	Latitude    float64
	Longitude   float64
	Address     string
	Category    models.Category
	ReporterID  string

	// Image is optional; ImageName is the uploaded file name.
	Image     io.Reader
	ImageName string
}

// Receipt is returned as soon as the complaint is stored.
type Receipt struct {
	Success    bool      `json:"success"`
	Message    string    `json:"message"`
	DenunciaID uint      `json:"denuncia_id"`
	SavedAt    time.Time `json:"saved_at"`
}

// Service handles the business logic for complaints.
type Service struct {
	Storage        storage.Storage
	Images         ImageStore
	Validator      Validator
	Localizer      *localization.Localizer
	Tuning         config.ValidationTuning
	StatusCacheTTL time.Duration
	// Local, when set, also receives every verdict. Used without Redis.
	Local chan<- models.VerdictEvent

	jobs sync.WaitGroup
}

// NewService creates a new complaint service.
func NewService(s storage.Storage, images ImageStore, v Validator, l *localization.Localizer, tuning config.ValidationTuning) *Service {
	return &Service{
		Storage:        s,
		Images:         images,
		Validator:      v,
		Localizer:      l,
		Tuning:         tuning,
		StatusCacheTTL: config.DefaultStatusCacheTTL,
	}
}

// Submit stores a complaint and, when it carries a photo, starts its
// validation in the background. It returns before validation finishes.
func (s *Service) Submit(ctx context.Context, sub Submission, lang string) (*Receipt, error) {
	if err := checkSubmission(sub); err != nil {
		return nil, err
	}

	c := &models.Complaint{
		ReporterID:  sub.ReporterID,
		Description: strings.TrimSpace(sub.Description),
		Latitude:    sub.Latitude,
		Longitude:   sub.Longitude,
		Address:     strings.TrimSpace(sub.Address),
		Category:    sub.Category,
		Status:      models.StatusPendingValidation,
	}

	if sub.Image != nil {
		name, path, err := s.Images.Save(sub.ImageName, sub.Image)
		if err != nil {
			log.Printf("ERROR: Failed to store complaint image: %v", err)
			return nil, fmt.Errorf("save image: %w", err)
		}
		c.ImageFilename = name
		c.ImagePath = path
	}

	if err := s.Storage.SaveComplaint(c); err != nil {
		return nil, fmt.Errorf("save complaint: %w", err)
	}
	log.Printf("INFO: Complaint %d saved (category %s)", c.ID, c.Category)
	if !validation.KnownCategory(c.Category) {
		log.Printf("WARNING: Complaint %d has unmapped category %q, it will be scored neutrally", c.ID, c.Category)
	}

	msgKey := "submit.received_no_image"
	if c.HasImage() {
		msgKey = "submit.received"
		s.jobs.Add(1)
		go s.runJob(*c)
	}

	return &Receipt{
		Success:    true,
		Message:    s.Localizer.GetString(lang, msgKey),
		DenunciaID: c.ID,
		SavedAt:    c.CreatedAt,
	}, nil
}

// Wait blocks until every background validation has finished.
func (s *Service) Wait() {
	s.jobs.Wait()
}

func (s *Service) runJob(c models.Complaint) {
	defer s.jobs.Done()
	defer func() {
		if r := recover(); r != nil {
			log.Printf("ERROR: Validation job for complaint %d panicked: %v", c.ID, r)
			s.parkForReview(c.ID, fallbackDetails())
		}
	}()

	log.Printf("INFO: Starting AI validation for complaint %d", c.ID)
	if _, err := s.validate(context.Background(), &c); err != nil && !errors.Is(err, storage.ErrStatusConflict) {
		log.Printf("ERROR: Validation job for complaint %d failed: %v", c.ID, err)
	}
}

// validate runs the pipeline for a stored complaint and writes its outcome
// with a single update. It returns the resulting status.
func (s *Service) validate(ctx context.Context, c *models.Complaint) (models.Status, error) {
	image, err := s.Images.Read(c.ImagePath)
	if err != nil {
		log.Printf("ERROR: Failed to read image of complaint %d: %v", c.ID, err)
		return models.StatusNeedsManualReview, s.parkForReview(c.ID, fallbackDetails())
	}

	out := s.Validator.Validate(ctx, validation.Input{
		Image:       image,
		Category:    c.Category,
		Description: c.Description,
		Latitude:    c.Latitude,
		Longitude:   c.Longitude,
		Address:     c.Address,
	})

	details, err := json.Marshal(out.Verdict.Details)
	if err != nil {
		return models.StatusNeedsManualReview, s.parkForReview(c.ID, fallbackDetails())
	}

	if out.Fallback() {
		log.Printf("WARNING: Complaint %d needs manual review: %v", c.ID, out.Err)
		return models.StatusNeedsManualReview, s.parkForReview(c.ID, details)
	}

	v := out.Verdict
	status := models.StatusRejected
	if v.IsValid {
		status = models.StatusValidated
	}

	var labels []string
	if v.Details.Breakdown != nil {
		labels = v.Details.DetectedLabels
	}

	err = s.Storage.ApplyVerdict(c.ID, storage.VerdictUpdate{
		Status:         status,
		IsValid:        v.IsValid,
		Score:          v.ConfidenceScore,
		Details:        datatypes.JSON(details),
		DetectedLabels: labels,
	})
	if errors.Is(err, storage.ErrStatusConflict) {
		log.Printf("WARNING: Complaint %d was decided elsewhere, dropping verdict", c.ID)
		return "", err
	}
	if err != nil {
		return status, fmt.Errorf("apply verdict: %w", err)
	}
	log.Printf("INFO: Complaint %d %s with score %d", c.ID, status, v.ConfidenceScore)

	valid, score := v.IsValid, v.ConfidenceScore
	c.Status, c.IsAIValidated, c.IsValid, c.ValidationScore = status, true, &valid, &score
	s.publish(models.NewVerdictEvent(c))
	return status, nil
}

func (s *Service) parkForReview(id uint, details []byte) error {
	if err := s.Storage.MarkManualReview(id, datatypes.JSON(details)); err != nil {
		if errors.Is(err, storage.ErrStatusConflict) {
			log.Printf("WARNING: Complaint %d was decided elsewhere, not parking it", id)
		} else {
			log.Printf("ERROR: Failed to mark complaint %d for manual review: %v", id, err)
		}
		return err
	}
	s.publish(models.VerdictEvent{ComplaintID: id, Status: models.StatusNeedsManualReview, At: time.Now().UTC()})
	return nil
}

func (s *Service) publish(event models.VerdictEvent) {
	if err := s.Storage.PublishVerdict(event); err != nil {
		log.Printf("WARNING: Failed to publish verdict for complaint %d: %v", event.ComplaintID, err)
	}
	if s.Local != nil {
		select {
		case s.Local <- event:
		default:
			log.Printf("WARNING: Verdict queue full, complaint %d not pushed", event.ComplaintID)
		}
	}
}

func fallbackDetails() []byte {
	b, _ := json.Marshal(validation.Details{Method: validation.MethodFallback})
	return b
}

func checkSubmission(sub Submission) error {
	switch {
	case strings.TrimSpace(sub.Description) == "":
		return fmt.Errorf("%w: description is required", ErrInvalidSubmission)
	case strings.TrimSpace(string(sub.Category)) == "":
		return fmt.Errorf("%w: category is required", ErrInvalidSubmission)
	case math.IsNaN(sub.Latitude) || sub.Latitude < -90 || sub.Latitude > 90:
		return fmt.Errorf("%w: latitude must be between -90 and 90", ErrInvalidSubmission)
	case math.IsNaN(sub.Longitude) || sub.Longitude < -180 || sub.Longitude > 180:
		return fmt.Errorf("%w: longitude must be between -180 and 180", ErrInvalidSubmission)
	}
	return nil
}
