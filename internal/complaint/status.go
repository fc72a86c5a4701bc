package complaint

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"guardaazul/backend/internal/models"
	"guardaazul/backend/internal/storage"
	"log"
	"time"
)

// StatusView is the polling surface for a complaint's validation.
type StatusView struct {
	DenunciaID      uint            `json:"denuncia_id"`
	Status          models.Status   `json:"status"`
	IsAIValidated   bool            `json:"is_ai_validated"`
	IsValid         *bool           `json:"is_valid"`
	ValidationScore *int            `json:"validation_score"`
	StatusMessage   string          `json:"status_message"`
	Details         json.RawMessage `json:"details"`
}

// Status reports where a complaint is in the validation pipeline. Final
// states are served from the cache when possible.
func (s *Service) Status(ctx context.Context, id uint, lang string) (*StatusView, error) {
	if cached, err := s.Storage.GetCachedStatus(id); err != nil {
		log.Printf("WARNING: Status cache read failed for complaint %d: %v", id, err)
	} else if cached != nil {
		var view StatusView
		if err := json.Unmarshal(cached, &view); err == nil {
			view.StatusMessage = s.statusMessage(&view, lang)
			return &view, nil
		}
	}

	c, err := s.Storage.GetComplaintByID(id)
	if err != nil {
		return nil, err
	}

	view := &StatusView{
		DenunciaID:      c.ID,
		Status:          c.Status,
		IsAIValidated:   c.IsAIValidated,
		IsValid:         c.IsValid,
		ValidationScore: c.ValidationScore,
		Details:         json.RawMessage("{}"),
	}
	if len(c.ValidationDetails) > 0 {
		view.Details = json.RawMessage(c.ValidationDetails)
	}

	if c.Status.IsTerminal() {
		if payload, err := json.Marshal(view); err == nil {
			if err := s.Storage.CacheStatus(id, payload, s.StatusCacheTTL); err != nil {
				log.Printf("WARNING: Status cache write failed for complaint %d: %v", id, err)
			}
		}
	}

	view.StatusMessage = s.statusMessage(view, lang)
	return view, nil
}

func (s *Service) statusMessage(v *StatusView, lang string) string {
	score := 0
	if v.ValidationScore != nil {
		score = *v.ValidationScore
	}

	if !v.IsAIValidated {
		switch v.Status {
		case models.StatusPendingValidation:
			return s.Localizer.GetString(lang, "status.analyzing")
		case models.StatusNeedsManualReview:
			return s.Localizer.GetString(lang, "status.manual_review")
		case models.StatusValidated:
			return s.Localizer.GetString(lang, "status.reviewed_approved")
		case models.StatusRejected:
			return s.Localizer.GetString(lang, "status.reviewed_rejected")
		default:
			return s.Localizer.GetString(lang, "status.processing")
		}
	}

	if v.IsValid != nil && *v.IsValid {
		return s.Localizer.Format(lang, "status.approved", score)
	}
	return s.Localizer.Format(lang, "status.rejected", score)
}

// List returns complaints newest first.
func (s *Service) List(ctx context.Context, limit int) ([]models.Complaint, error) {
	return s.Storage.ListComplaints(limit)
}

// ListValidated returns complaints the AI approved at or above the approval bar.
func (s *Service) ListValidated(ctx context.Context) ([]models.Complaint, error) {
	return s.Storage.ListValidatedComplaints(s.Tuning.ApprovalThreshold)
}

func (s *Service) Get(ctx context.Context, id uint) (*models.Complaint, error) {
	return s.Storage.GetComplaintByID(id)
}

// Pending returns complaints waiting for a moderator.
func (s *Service) Pending(ctx context.Context) ([]models.Complaint, error) {
	return s.Storage.ListComplaintsByStatus(models.StatusNeedsManualReview)
}

// Revalidate runs the pipeline again, synchronously, for a complaint parked
// for manual review. The complaint is claimed first so a concurrent call
// cannot run the pipeline on it too.
func (s *Service) Revalidate(ctx context.Context, id uint) (models.Status, error) {
	c, err := s.Storage.GetComplaintByID(id)
	if err != nil {
		return "", err
	}
	if !c.HasImage() {
		return c.Status, ErrNoImage
	}
	if c.Status != models.StatusNeedsManualReview {
		return c.Status, fmt.Errorf("%w: status is %s", ErrNotRevalidatable, c.Status)
	}

	if err := s.Storage.ReopenForValidation(id); err != nil {
		if errors.Is(err, storage.ErrStatusConflict) {
			return c.Status, fmt.Errorf("%w: status changed", ErrNotRevalidatable)
		}
		return c.Status, err
	}
	c.Status = models.StatusPendingValidation

	return s.validate(ctx, c)
}

// Review records a moderator's decision and announces it. Only complaints
// in manual review, or pending without a photo, can be reviewed.
func (s *Service) Review(ctx context.Context, id uint, valid bool) error {
	if err := s.Storage.SetReview(id, valid); err != nil {
		if errors.Is(err, storage.ErrStatusConflict) {
			return ErrNotReviewable
		}
		return err
	}

	status := models.StatusRejected
	if valid {
		status = models.StatusValidated
	}
	log.Printf("INFO: Complaint %d reviewed manually: %s", id, status)
	s.publish(models.VerdictEvent{ComplaintID: id, Status: status, IsValid: &valid, At: time.Now().UTC()})
	return nil
}
