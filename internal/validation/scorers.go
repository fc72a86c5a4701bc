package validation

import (
	"guardaazul/backend/internal/config"
	"guardaazul/backend/internal/models"
	"strings"
	"unicode/utf8"
)

// Scorer computes the partial scores of a complaint. It holds only immutable
// tuning, so one Scorer can be shared by every validation run.
type Scorer struct {
	Tuning config.ValidationTuning
}

// NewScorer creates a scorer with the given tuning.
func NewScorer(t config.ValidationTuning) *Scorer {
	return &Scorer{Tuning: t}
}

// CategoryScore rewards photos whose labels contain the objects expected for
// the reported category. Unmapped categories get a neutral score.
func (s *Scorer) CategoryScore(category models.Category, labels []string) int {
	expected := categoryKeywords[category]
	if len(expected) == 0 {
		return s.Tuning.CategoryNeutralScore
	}

	labels = lowerAll(labels)
	matches := 0
	for _, kw := range expected {
		if anyContains(labels, kw) {
			matches++
		}
	}

	return scaled(matches, len(expected), s.Tuning.CategoryWeight, s.Tuning.CategoryMaxPoints)
}

// DescriptionScore measures how many relevant words of the description appear
// in the image labels or in the text detected in the image.
func (s *Scorer) DescriptionScore(description string, labels []string, text string) int {
	text = strings.ToLower(text)

	var relevant []string
	for _, w := range strings.Fields(strings.ToLower(description)) {
		if utf8.RuneCountInString(w) >= s.Tuning.DescriptionMinWordLen {
			relevant = append(relevant, w)
		}
	}
	if len(relevant) == 0 {
		return s.Tuning.DescriptionNeutralScore
	}

	labels = lowerAll(labels)
	matches := 0
	for _, w := range relevant {
		if anyContains(labels, w) || strings.Contains(text, w) {
			matches++
		}
	}

	return scaled(matches, len(relevant), s.Tuning.DescriptionWeight, s.Tuning.DescriptionMaxPoints)
}

// LocationScore checks that the report plausibly comes from the coast.
func (s *Scorer) LocationScore(lat, lng float64, address string, category models.Category) int {
	score := 0
	coastal := s.Tuning.CoastalBounds.Contains(lat, lng)

	if coastal {
		score += s.Tuning.CoastalBoxPoints
	}

	address = strings.ToLower(address)
	for _, w := range coastalAddressWords {
		if strings.Contains(address, w) {
			score += s.Tuning.AddressKeywordPoints
			break
		}
	}

	if coastal && coastalCategories[category] {
		score += s.Tuning.CoastalCategoryPoints
	}

	return clamp(score, 0, s.Tuning.LocationMaxPoints)
}

// SpamScore penalises likely fake reports. The first matching rule wins.
func (s *Scorer) SpamScore(description string, labels []string) int {
	if utf8.RuneCountInString(strings.TrimSpace(description)) < s.Tuning.SpamMinDescriptionLen {
		return s.Tuning.ShortDescriptionScore
	}

	lower := strings.ToLower(description)
	for _, tok := range spamTokens {
		if strings.Contains(lower, tok) {
			return s.Tuning.SpamTokenScore
		}
	}

	labels = lowerAll(labels)
	if anyEqual(labels, nonEnvironmentalLabels) && !anyEqual(labels, environmentalCounterLabels) {
		return s.Tuning.OffTopicImageScore
	}

	return 0
}

// scaled converts a match fraction into points, truncating like the original
// integer conversion, and caps the result.
func scaled(matches, total int, weight float64, limit int) int {
	pct := float64(matches) / float64(total) * 100
	return min(limit, int(pct*weight))
}

func clamp(v, lo, hi int) int {
	return max(lo, min(hi, v))
}

// anyContains reports whether substr occurs in any label.
func anyContains(labels []string, substr string) bool {
	for _, l := range labels {
		if strings.Contains(l, substr) {
			return true
		}
	}
	return false
}

// anyEqual reports whether any label equals any candidate.
func anyEqual(labels, candidates []string) bool {
	for _, l := range labels {
		for _, c := range candidates {
			if l == c {
				return true
			}
		}
	}
	return false
}

// matching returns the labels containing at least one of the keywords.
func matching(labels, keywords []string) []string {
	out := []string{}
	for _, l := range labels {
		for _, kw := range keywords {
			if strings.Contains(l, kw) {
				out = append(out, l)
				break
			}
		}
	}
	return out
}

func lowerAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.ToLower(s)
	}
	return out
}
