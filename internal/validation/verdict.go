// Package validation scores citizen complaints against what the vision
// service sees in the attached photo and decides whether to accept them.
package validation

// Validation method tags recorded in the verdict details.
const (
	MethodVision   = "google_vision_ai_rigorous_v3"
	MethodFallback = "fallback_manual_review_needed"
)

// Partials are the four partial scores combined by the aggregator.
type Partials struct {
	Category    int `json:"category_match"`
	Description int `json:"description_match"`
	Location    int `json:"location_relevance"`
	Spam        int `json:"spam_detection"`
}

// Breakdown explains how a scored verdict was reached.
type Breakdown struct {
	Partials
	EnvironmentalBonus  int      `json:"environmental_bonus"`
	DetectedLabels      []string `json:"detected_labels"`
	EnvironmentalLabels []string `json:"environmental_labels"`
	IrrelevantLabels    []string `json:"irrelevant_labels"`
	HasOutdoorContext   bool     `json:"has_outdoor_context"`
}

// Details is the structured explanation stored with the complaint. Fallback
// verdicts carry only the method.
type Details struct {
	*Breakdown
	Method string `json:"validation_method"`
}

// Verdict is the outcome of validating one complaint.
type Verdict struct {
	IsValid         bool    `json:"is_valid"`
	ConfidenceScore int     `json:"confidence_score"`
	Details         Details `json:"details"`
}

// Fallback reports whether the verdict is the optimistic default produced
// when the pipeline could not finish.
func (v Verdict) Fallback() bool {
	return v.Details.Method == MethodFallback
}
