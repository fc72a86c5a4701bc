package storage

import (
	"guardaazul/backend/internal/models"
	"log"

	"github.com/lib/pq"
	"gorm.io/datatypes"
)

// SaveComplaint inserts a new complaint. The ID is filled in by GORM.
func (s *Service) SaveComplaint(complaint *models.Complaint) error {
	if complaint.Status == "" {
		complaint.Status = models.StatusPendingValidation
	}

	if err := s.DB.Create(complaint).Error; err != nil {
		log.Printf("ERROR: Failed to save complaint: %v", err)
		return err
	}
	return nil
}

func (s *Service) GetComplaintByID(id uint) (*models.Complaint, error) {
	var c models.Complaint
	if err := s.DB.First(&c, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

// ListComplaints returns complaints newest first. A non-positive limit means no limit.
func (s *Service) ListComplaints(limit int) ([]models.Complaint, error) {
	var list []models.Complaint
	q := s.DB.Order("created_at desc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&list).Error; err != nil {
		log.Printf("ERROR: Failed to list complaints: %v", err)
		return nil, err
	}
	return list, nil
}

// ListValidatedComplaints returns complaints the AI approved with at least minScore.
func (s *Service) ListValidatedComplaints(minScore int) ([]models.Complaint, error) {
	var list []models.Complaint
	err := s.DB.
		Where("is_ai_validated = ? AND is_valid = ? AND validation_score >= ?", true, true, minScore).
		Order("created_at desc").
		Find(&list).Error
	if err != nil {
		log.Printf("ERROR: Failed to list validated complaints: %v", err)
		return nil, err
	}
	return list, nil
}

// ListComplaintsByStatus returns complaints in the given state, oldest first.
func (s *Service) ListComplaintsByStatus(status models.Status) ([]models.Complaint, error) {
	var list []models.Complaint
	if err := s.DB.Where("status = ?", status).Order("created_at asc").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// ApplyVerdict writes the outcome of a clean validation run in one UPDATE.
// Only a complaint still pending validation can receive it; otherwise
// ErrStatusConflict is returned and nothing changes.
func (s *Service) ApplyVerdict(id uint, u VerdictUpdate) error {
	labels := u.DetectedLabels
	if labels == nil {
		labels = []string{}
	}

	return s.updateComplaint(id, map[string]interface{}{
		"status":             u.Status,
		"is_ai_validated":    true,
		"is_valid":           u.IsValid,
		"validation_score":   u.Score,
		"validation_details": u.Details,
		"detected_labels":    pq.StringArray(labels),
	}, "status = ?", models.StatusPendingValidation)
}

// MarkManualReview parks a pending complaint whose validation could not
// complete. Score and verdict are cleared so nobody mistakes it for an AI
// decision.
func (s *Service) MarkManualReview(id uint, details datatypes.JSON) error {
	return s.updateComplaint(id, map[string]interface{}{
		"status":             models.StatusNeedsManualReview,
		"is_ai_validated":    false,
		"is_valid":           nil,
		"validation_score":   nil,
		"validation_details": details,
	}, "status = ?", models.StatusPendingValidation)
}

// ReopenForValidation moves a complaint from manual review back to pending
// so exactly one caller can run the pipeline on it again.
func (s *Service) ReopenForValidation(id uint) error {
	return s.updateComplaint(id, map[string]interface{}{
		"status": models.StatusPendingValidation,
	}, "status = ?", models.StatusNeedsManualReview)
}

// SetReview records a moderator's decision. It applies to complaints in
// manual review, or still pending because they carry no photo.
func (s *Service) SetReview(id uint, valid bool) error {
	status := models.StatusRejected
	if valid {
		status = models.StatusValidated
	}
	return s.updateComplaint(id, map[string]interface{}{
		"status":           status,
		"is_ai_validated":  false,
		"is_valid":         valid,
		"validation_score": nil,
		"processed":        true,
	}, "status = ? OR (status = ? AND (image_path IS NULL OR image_path = ''))",
		models.StatusNeedsManualReview, models.StatusPendingValidation)
}

// updateComplaint updates the complaint when cond holds for its current row.
func (s *Service) updateComplaint(id uint, fields map[string]interface{}, cond string, args ...interface{}) error {
	res := s.DB.Model(&models.Complaint{}).Where("id = ?", id).Where(cond, args...).Updates(fields)
	if res.Error != nil {
		log.Printf("ERROR: Failed to update complaint %d: %v", id, res.Error)
		return res.Error
	}
	if res.RowsAffected == 0 {
		var n int64
		if err := s.DB.Model(&models.Complaint{}).Where("id = ?", id).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return ErrNotFound
		}
		return ErrStatusConflict
	}

	s.invalidateStatus(id)
	return nil
}
