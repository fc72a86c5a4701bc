package models

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/datatypes"
)

// Category is the kind of environmental problem a complaint reports.
type Category string

const (
	CategoryWaterPollution        Category = "poluicao_aguas"
	CategoryDeforestation         Category = "desmatamento"
	CategoryCoastalErosion        Category = "erosao_costeira"
	CategorySoilPollution         Category = "poluicao_solo"
	CategoryMarineFauna           Category = "fauna_marinha"
	CategoryMarineFlora           Category = "flora_marinha"
	CategoryNoisePollution        Category = "poluicao_sonora"
	CategoryIrregularConstruction Category = "construcoes_irregulares"
	CategoryResourceExtraction    Category = "exploracao_recursos"
	CategoryPredatoryTourism      Category = "turismo_predatorio"
	CategoryOther                 Category = "outros"
)

// Status is the validation state of a complaint.
type Status string

const (
	StatusPendingValidation Status = "pending_validation"
	StatusValidated         Status = "validated"
	StatusRejected          Status = "rejected"
	StatusNeedsManualReview Status = "needs_manual_review"
)

// IsTerminal reports whether the validation pipeline is done with the complaint.
func (s Status) IsTerminal() bool {
	return s == StatusValidated || s == StatusRejected || s == StatusNeedsManualReview
}

// Complaint (denúncia) is a citizen report of an environmental problem.
// The validation fields are written only by the validation job, in a single
// update once the pipeline finishes.
type Complaint struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// ReporterID is the anonymous id of the reporter, empty for unauthenticated submissions.
	ReporterID string `gorm:"type:text;index" json:"reporter_id,omitempty"`

	Description string   `gorm:"type:text;not null" json:"description"`
	Latitude    float64  `gorm:"not null" json:"latitude"`
	Longitude   float64  `gorm:"not null" json:"longitude"`
	Address     string   `gorm:"size:500" json:"address,omitempty"`
	Category    Category `gorm:"size:50;not null;index" json:"category"`
	Status      Status   `gorm:"size:50;not null;default:'pending_validation';index" json:"status"`

	ImageFilename string `gorm:"size:255" json:"image_filename,omitempty"`
	ImagePath     string `gorm:"size:500" json:"image_path,omitempty"`

	IsAIValidated     bool           `gorm:"not null;default:false" json:"is_ai_validated"`
	IsValid           *bool          `json:"is_valid"`
	ValidationScore   *int           `json:"validation_score"`
	ValidationDetails datatypes.JSON `gorm:"type:jsonb" json:"validation_details,omitempty"`
	// DetectedLabels keeps the first labels seen in the image for listings.
	DetectedLabels pq.StringArray `gorm:"type:text[]" json:"detected_labels,omitempty"`

	// Processed marks complaints a human has already acted on.
	Processed bool `gorm:"not null;default:false" json:"processed"`
}

// TableName keeps the historical table name.
func (Complaint) TableName() string {
	return "denuncias"
}

// HasImage reports whether an image was uploaded with the complaint.
func (c *Complaint) HasImage() bool {
	return c.ImagePath != ""
}
