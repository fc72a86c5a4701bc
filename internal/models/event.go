package models

import "time"

// VerdictEvent is published when a complaint leaves pending_validation.
type VerdictEvent struct {
	ComplaintID     uint      `json:"denuncia_id"`
	Status          Status    `json:"status"`
	IsValid         *bool     `json:"is_valid"`
	ValidationScore *int      `json:"validation_score"`
	At              time.Time `json:"at"`
}

// NewVerdictEvent snapshots the validation state of a complaint.
func NewVerdictEvent(c *Complaint) VerdictEvent {
	return VerdictEvent{
		ComplaintID:     c.ID,
		Status:          c.Status,
		IsValid:         c.IsValid,
		ValidationScore: c.ValidationScore,
		At:              time.Now().UTC(),
	}
}
