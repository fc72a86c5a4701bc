package validation_test

import (
	"guardaazul/backend/internal/config"
	"guardaazul/backend/internal/models"
	"guardaazul/backend/internal/validation"
	"testing"

	"github.com/stretchr/testify/assert"
)

var allCategories = []models.Category{
	models.CategoryWaterPollution,
	models.CategoryDeforestation,
	models.CategoryCoastalErosion,
	models.CategorySoilPollution,
	models.CategoryMarineFauna,
	models.CategoryMarineFlora,
	models.CategoryNoisePollution,
	models.CategoryIrregularConstruction,
	models.CategoryResourceExtraction,
	models.CategoryPredatoryTourism,
	models.CategoryOther,
}

// Inside the coastal box, near Tambaú.
const (
	coastLat = -7.115
	coastLng = -34.83
)

func newScorer() *validation.Scorer {
	return validation.NewScorer(config.DefaultValidationTuning())
}

func TestCategoryScore_RangeForMappedCategories(t *testing.T) {
	s := newScorer()
	labelSets := [][]string{
		nil,
		{"water"},
		{"tree", "sand", "plastic bottle"},
		{"unrelated"},
	}

	for _, c := range allCategories {
		assert.True(t, validation.KnownCategory(c), c)
		for _, labels := range labelSets {
			score := s.CategoryScore(c, labels)
			assert.GreaterOrEqual(t, score, 0, "%s %v", c, labels)
			assert.LessOrEqual(t, score, 40, "%s %v", c, labels)
		}
	}
}

func TestCategoryScore_UnknownCategoryIsNeutral(t *testing.T) {
	s := newScorer()

	assert.Equal(t, 20, s.CategoryScore("poluicao_marinha", []string{"water", "oil"}))
	assert.Equal(t, 20, s.CategoryScore("", nil))
}

func TestCategoryScore_SubstringAndCase(t *testing.T) {
	s := newScorer()

	// water, oil and spill match "Water", "Oil Spill"; 3 of 13 keywords.
	score := s.CategoryScore(models.CategoryWaterPollution, []string{"Water", "Oil Spill"})

	assert.Equal(t, 9, score)
}

func TestDescriptionScore(t *testing.T) {
	s := newScorer()

	tests := []struct {
		name        string
		description string
		labels      []string
		text        string
		want        int
	}{
		{"no relevant words", "a de na o", []string{"water"}, "", 10},
		{"empty", "", nil, "", 10},
		{"all words in labels", "Water Pollution", []string{"water", "pollution"}, "", 30},
		{"half via detected text", "lixo praia", nil, "PROIBIDO JOGAR LIXO", 15},
		{"accented words count runes", "óleo", []string{"óleo na areia"}, "", 30},
		{"no match", "vazamento de óleo na praia", []string{"water"}, "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.DescriptionScore(tt.description, tt.labels, tt.text))
		})
	}
}

func TestLocationScore(t *testing.T) {
	s := newScorer()

	tests := []struct {
		name     string
		lat, lng float64
		address  string
		category models.Category
		want     int
	}{
		{"coastal box only", coastLat, coastLng, "", models.CategoryDeforestation, 15},
		{"address only", -5.79, -35.2, "Praia de Ponta Negra", models.CategoryWaterPollution, 10},
		{"box and coastal category", coastLat, coastLng, "", models.CategoryMarineFauna, 25},
		{"everything clamps to 25", coastLat, coastLng, "Av. Litorânea, praia do Cabo Branco", models.CategoryWaterPollution, 25},
		{"coastal category outside box", -8.05, -34.9, "", models.CategoryCoastalErosion, 0},
		{"nothing", 0, 0, "", models.CategoryOther, 0},
		{"huge coordinates", 1e9, -1e9, "oceano", models.CategoryWaterPollution, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.LocationScore(tt.lat, tt.lng, tt.address, tt.category)
			assert.Equal(t, tt.want, got)
			assert.GreaterOrEqual(t, got, 0)
			assert.LessOrEqual(t, got, 25)
		})
	}
}

func TestSpamScore(t *testing.T) {
	s := newScorer()

	tests := []struct {
		name        string
		description string
		labels      []string
		want        int
	}{
		{"short wins over labels", "abcde", []string{"person", "selfie"}, -20},
		{"whitespace is trimmed", "   curto     ", nil, -20},
		{"spam token", "isso é só um teste de envio", []string{"water"}, -30},
		{"numeric token", "denúncia número 123 na praia", nil, -30},
		{"selfie without environment", "foto tirada hoje à tarde", []string{"person", "smile"}, -25},
		{"selfie with water", "foto tirada hoje à tarde", []string{"person", "water"}, 0},
		{"label match is exact", "foto tirada hoje à tarde", []string{"personal computer"}, 0},
		{"clean", "manchas escuras na areia perto do rio", []string{"sand"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.SpamScore(tt.description, tt.labels))
		})
	}
}
