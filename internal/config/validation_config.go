package config

import "time"

const (
	// Status cache
	DefaultStatusCacheTTL = 30 * time.Second

	// Tides data
	TidesCacheTTL     = 10 * time.Minute
	TidesCacheCleanup = 30 * time.Minute

	// Chat
	ChatTitleMaxLen     = 50
	ChatRequestsPerSec  = 1.0
	ChatRequestBurst    = 3
	ChatTemperature     = 0.7
	ChatMaxOutputTokens = 1024

	// Image description
	DescribeTemperature     = 0.4
	DescribeMaxOutputTokens = 256
)

// ValidationTuning holds the empirically chosen weights and thresholds used by
// the complaint validation pipeline. Every field can be overridden, the
// defaults reproduce the production behaviour.
type ValidationTuning struct {
	// Partial score caps
	CategoryMaxPoints    int
	CategoryWeight       float64
	CategoryNeutralScore int

	DescriptionMaxPoints    int
	DescriptionWeight       float64
	DescriptionNeutralScore int
	DescriptionMinWordLen   int

	LocationMaxPoints     int
	CoastalBoxPoints      int
	AddressKeywordPoints  int
	CoastalCategoryPoints int

	// Spam heuristics
	SpamMinDescriptionLen int
	ShortDescriptionScore int
	SpamTokenScore        int
	OffTopicImageScore    int

	// Aggregator adjustments
	IrrelevantPenalty       int
	EnvironmentalPointsEach int
	EnvironmentalBonusCap   int
	WaterPollutionBonus     int
	NoContextPenalty        int
	UnsafeContentPenalty    int
	BaseOffset              int
	ApprovalThreshold       int
	IrrelevantScoreCap      int
	AutoRejectBelow         int
	DetailLabelLimit        int
	FallbackConfidence      int
	CoastalBounds           Bounds
}

// Bounds is a latitude/longitude rectangle, inclusive on every side.
type Bounds struct {
	LatMin, LatMax float64
	LngMin, LngMax float64
}

// Contains reports whether the point lies inside the rectangle.
func (b Bounds) Contains(lat, lng float64) bool {
	return b.LatMin <= lat && lat <= b.LatMax &&
		b.LngMin <= lng && lng <= b.LngMax
}

// ParaibaCoast approximates the coastal strip of Paraíba.
var ParaibaCoast = Bounds{
	LatMin: -7.5, LatMax: -6.5,
	LngMin: -35.2, LngMax: -34.8,
}

// DefaultValidationTuning returns the production weights.
func DefaultValidationTuning() ValidationTuning {
	return ValidationTuning{
		CategoryMaxPoints:    40,
		CategoryWeight:       0.4,
		CategoryNeutralScore: 20,

		DescriptionMaxPoints:    30,
		DescriptionWeight:       0.3,
		DescriptionNeutralScore: 10,
		DescriptionMinWordLen:   4,

		LocationMaxPoints:     25,
		CoastalBoxPoints:      15,
		AddressKeywordPoints:  10,
		CoastalCategoryPoints: 10,

		SpamMinDescriptionLen: 10,
		ShortDescriptionScore: -20,
		SpamTokenScore:        -30,
		OffTopicImageScore:    -25,

		IrrelevantPenalty:       40,
		EnvironmentalPointsEach: 12,
		EnvironmentalBonusCap:   35,
		WaterPollutionBonus:     25,
		NoContextPenalty:        25,
		UnsafeContentPenalty:    30,
		BaseOffset:              45,
		ApprovalThreshold:       65,
		IrrelevantScoreCap:      30,
		AutoRejectBelow:         40,
		DetailLabelLimit:        10,
		FallbackConfidence:      50,
		CoastalBounds:           ParaibaCoast,
	}
}
