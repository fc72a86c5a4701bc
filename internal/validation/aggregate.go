package validation

import "guardaazul/backend/internal/vision"

// Aggregate combines the partial scores with the raw image features into the
// final verdict. The adjustments run in a fixed order because later rules see
// the total accumulated by earlier ones. It has no side effects.
func (s *Scorer) Aggregate(p Partials, f *vision.Features) Verdict {
	t := s.Tuning
	labels := lowerAll(f.Labels)

	total := p.Category + p.Description + p.Location + p.Spam

	irrelevant := matching(labels, irrelevantKeywords)
	if len(irrelevant) > 0 {
		total -= t.IrrelevantPenalty
	}

	environmental := matching(labels, environmentalKeywords)
	envBonus := 0
	if len(environmental) > 0 {
		envBonus = len(environmental) * t.EnvironmentalPointsEach
		total += min(t.EnvironmentalBonusCap, envBonus)
	}

	if len(environmental) > 0 && len(matching(labels, waterKeywords)) > 0 {
		total += t.WaterPollutionBonus
	}

	outdoor := len(matching(labels, outdoorKeywords)) > 0
	if !outdoor && len(environmental) == 0 {
		total -= t.NoContextPenalty
	}

	if f.SafeSearch.Unsafe() {
		total -= t.UnsafeContentPenalty
	}

	final := clamp(total+t.BaseOffset, 0, 100)
	valid := final >= t.ApprovalThreshold

	if len(irrelevant) > 0 && len(environmental) == 0 {
		valid = false
		final = min(final, t.IrrelevantScoreCap)
	}

	if final < t.AutoRejectBelow {
		valid = false
	}

	detected := labels
	if len(detected) > t.DetailLabelLimit {
		detected = detected[:t.DetailLabelLimit]
	}

	return Verdict{
		IsValid:         valid,
		ConfidenceScore: final,
		Details: Details{
			Breakdown: &Breakdown{
				Partials:            p,
				EnvironmentalBonus:  envBonus,
				DetectedLabels:      detected,
				EnvironmentalLabels: environmental,
				IrrelevantLabels:    irrelevant,
				HasOutdoorContext:   outdoor,
			},
			Method: MethodVision,
		},
	}
}

// FallbackVerdict is returned whenever the pipeline cannot complete. It
// accepts the complaint; callers must route it to manual review.
func (s *Scorer) FallbackVerdict() Verdict {
	return Verdict{
		IsValid:         true,
		ConfidenceScore: s.Tuning.FallbackConfidence,
		Details:         Details{Method: MethodFallback},
	}
}
