package validation_test

import (
	"encoding/json"
	"guardaazul/backend/internal/config"
	"guardaazul/backend/internal/validation"
	"guardaazul/backend/internal/vision"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func safeFeatures(labels ...string) *vision.Features {
	return &vision.Features{
		Labels:     labels,
		SafeSearch: vision.SafeSearch{Adult: vision.VeryUnlikely, Violence: vision.VeryUnlikely},
	}
}

func TestAggregate_ScoreIsAlwaysInRange(t *testing.T) {
	s := newScorer()
	partials := []validation.Partials{
		{},
		{Category: 40, Description: 30, Location: 25},
		{Category: 0, Description: 0, Location: 0, Spam: -30},
	}
	labelSets := [][]string{
		nil,
		{"person", "selfie", "indoor"},
		{"water", "oil", "plastic", "trash", "garbage", "litter"},
	}

	for _, p := range partials {
		for _, labels := range labelSets {
			v := s.Aggregate(p, safeFeatures(labels...))
			assert.GreaterOrEqual(t, v.ConfidenceScore, 0)
			assert.LessOrEqual(t, v.ConfidenceScore, 100)
			if v.ConfidenceScore < 40 {
				assert.False(t, v.IsValid)
			}
		}
	}
}

func TestAggregate_IsPure(t *testing.T) {
	s := newScorer()
	labels := []string{"Water", "Oil", "Beach"}
	f := safeFeatures(labels...)
	p := validation.Partials{Category: 9, Location: 25}

	first := s.Aggregate(p, f)
	second := s.Aggregate(p, f)

	assert.Equal(t, first, second)
	assert.Equal(t, []string{"Water", "Oil", "Beach"}, f.Labels)
}

func TestAggregate_EnvironmentalLabelNeverLowersScore(t *testing.T) {
	s := newScorer()
	partials := []validation.Partials{
		{},
		{Category: 20, Description: 10, Location: 15, Spam: -25},
		{Category: 40, Description: 30, Location: 25},
	}
	labelSets := [][]string{
		nil,
		{"person"},
		{"person", "indoor", "food"},
		{"sky", "tree"},
		{"water"},
		{"trash", "garbage", "waste"},
	}

	for _, p := range partials {
		for _, labels := range labelSets {
			before := s.Aggregate(p, safeFeatures(labels...))
			after := s.Aggregate(p, safeFeatures(append(append([]string{}, labels...), "plastic")...))
			assert.GreaterOrEqual(t, after.ConfidenceScore, before.ConfidenceScore, "%+v %v", p, labels)
		}
	}
}

func TestAggregate_UnsafeContentNeverRaisesScore(t *testing.T) {
	s := newScorer()
	p := validation.Partials{Category: 20, Description: 10, Location: 15}

	for _, labels := range [][]string{nil, {"water", "oil"}, {"person"}} {
		safe := s.Aggregate(p, safeFeatures(labels...))

		unsafe := safeFeatures(labels...)
		unsafe.SafeSearch.Adult = vision.VeryLikely
		got := s.Aggregate(p, unsafe)

		assert.LessOrEqual(t, got.ConfidenceScore, safe.ConfidenceScore)
	}
}

func TestAggregate_UnknownSafeSearchIsNotPenalised(t *testing.T) {
	s := newScorer()
	p := validation.Partials{Category: 20, Description: 10, Location: 15}

	known := s.Aggregate(p, safeFeatures("sky"))
	unknown := s.Aggregate(p, &vision.Features{Labels: []string{"sky"}})

	assert.Equal(t, known.ConfidenceScore, unknown.ConfidenceScore)
}

func TestAggregate_IrrelevantWithoutEnvironmentIsCapped(t *testing.T) {
	s := newScorer()
	p := validation.Partials{Category: 40, Description: 30, Location: 25}

	// 95 - 40 + 45 would pass; the override still rejects it.
	v := s.Aggregate(p, safeFeatures("person", "outdoor"))

	assert.False(t, v.IsValid)
	assert.Equal(t, 30, v.ConfidenceScore)
	assert.Equal(t, []string{"person"}, v.Details.IrrelevantLabels)
	assert.True(t, v.Details.HasOutdoorContext)
}

func TestAggregate_EnvironmentalBonusIsCappedButReportedRaw(t *testing.T) {
	s := newScorer()

	v := s.Aggregate(validation.Partials{}, safeFeatures("oil", "plastic", "trash", "garbage"))

	// 4*12 = 48 reported, only 35 applied: 0 + 35 + 45.
	assert.Equal(t, 48, v.Details.EnvironmentalBonus)
	assert.Equal(t, 80, v.ConfidenceScore)
	assert.True(t, v.IsValid)
}

func TestAggregate_DetectedLabelsAreTruncated(t *testing.T) {
	s := newScorer()
	labels := []string{"a1", "a2", "a3", "a4", "a5", "a6", "a7", "a8", "a9", "a10", "a11", "a12"}

	v := s.Aggregate(validation.Partials{}, safeFeatures(labels...))

	assert.Equal(t, labels[:10], v.Details.DetectedLabels)
}

func TestDetails_JSONShape(t *testing.T) {
	s := newScorer()

	t.Run("scored", func(t *testing.T) {
		v := s.Aggregate(validation.Partials{Category: 9, Location: 25}, safeFeatures("water", "oil"))
		raw, err := json.Marshal(v.Details)
		require.NoError(t, err)

		var m map[string]any
		require.NoError(t, json.Unmarshal(raw, &m))
		for _, key := range []string{
			"category_match", "description_match", "location_relevance", "spam_detection",
			"environmental_bonus", "detected_labels", "environmental_labels",
			"irrelevant_labels", "has_outdoor_context", "validation_method",
		} {
			assert.Contains(t, m, key)
		}
		assert.Equal(t, validation.MethodVision, m["validation_method"])
		assert.Equal(t, []any{}, m["irrelevant_labels"])
	})

	t.Run("fallback", func(t *testing.T) {
		v := s.FallbackVerdict()
		raw, err := json.Marshal(v.Details)
		require.NoError(t, err)

		assert.JSONEq(t, `{"validation_method":"fallback_manual_review_needed"}`, string(raw))
		assert.True(t, v.IsValid)
		assert.Equal(t, 50, v.ConfidenceScore)
		assert.True(t, v.Fallback())
	})
}

func TestAggregate_UsesTuning(t *testing.T) {
	tuning := config.DefaultValidationTuning()
	tuning.ApprovalThreshold = 90
	s := validation.NewScorer(tuning)

	// Same input as the bonus test, which passes at the default threshold.
	v := s.Aggregate(validation.Partials{}, safeFeatures("oil", "plastic", "trash", "garbage"))

	assert.Equal(t, 80, v.ConfidenceScore)
	assert.False(t, v.IsValid)
}
