package validation

import (
	"context"
	"errors"
	"fmt"
	"guardaazul/backend/internal/models"
	"guardaazul/backend/internal/vision"
	"log"
)

// Input is everything the pipeline needs about a persisted complaint.
type Input struct {
	Image       []byte
	Category    models.Category
	Description string
	Latitude    float64
	Longitude   float64
	Address     string
}

// Outcome is the result of one pipeline run. Err is set, and the verdict is
// the fallback one, when the run could not complete cleanly.
type Outcome struct {
	Verdict Verdict
	Err     error
}

// Fallback reports whether the run completed via the fallback verdict.
func (o Outcome) Fallback() bool {
	return o.Err != nil || o.Verdict.Fallback()
}

// Pipeline validates complaints: one feature extraction, four partial scores,
// one aggregation.
type Pipeline struct {
	Extractor vision.Extractor
	Scorer    *Scorer
}

// NewPipeline wires a pipeline from its collaborators.
func NewPipeline(extractor vision.Extractor, scorer *Scorer) *Pipeline {
	return &Pipeline{Extractor: extractor, Scorer: scorer}
}

// Validate runs the pipeline once. It never fails: any error is absorbed into
// the fallback verdict and reported through Outcome.Err.
func (p *Pipeline) Validate(ctx context.Context, in Input) Outcome {
	features, err := p.Extractor.Extract(ctx, in.Image)
	if err != nil {
		var extErr *vision.ExtractionError
		if !errors.As(err, &extErr) {
			err = &vision.ExtractionError{Op: "extract", Err: err}
		}
		log.Printf("ERROR: AI validation failed: %v", err)
		return Outcome{Verdict: p.Scorer.FallbackVerdict(), Err: err}
	}

	verdict, err := p.score(in, features)
	if err != nil {
		log.Printf("ERROR: AI validation failed: %v", err)
		return Outcome{Verdict: p.Scorer.FallbackVerdict(), Err: err}
	}

	return Outcome{Verdict: verdict}
}

func (p *Pipeline) score(in Input, f *vision.Features) (v Verdict, err error) {
	stage := "category"
	defer func() {
		if r := recover(); r != nil {
			err = &ScoringError{Stage: stage, Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	if f == nil {
		return Verdict{}, &ScoringError{Stage: "input", Err: errors.New("no features extracted")}
	}

	var partials Partials
	partials.Category = p.Scorer.CategoryScore(in.Category, f.Labels)
	stage = "description"
	partials.Description = p.Scorer.DescriptionScore(in.Description, f.Labels, f.Text)
	stage = "location"
	partials.Location = p.Scorer.LocationScore(in.Latitude, in.Longitude, in.Address, in.Category)
	stage = "spam"
	partials.Spam = p.Scorer.SpamScore(in.Description, f.Labels)
	stage = "aggregate"
	return p.Scorer.Aggregate(partials, f), nil
}
