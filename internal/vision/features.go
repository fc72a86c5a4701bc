// Package vision extracts semantic features from complaint photos using the
// Google Cloud Vision API.
package vision

import (
	"context"
	"strings"
)

// Extractor turns raw image bytes into the features the validation pipeline scores.
type Extractor interface {
	Extract(ctx context.Context, image []byte) (*Features, error)
}

// Features is what the labeling service saw in an image.
type Features struct {
	// Labels are lowercase semantic tags, in the order the service returned them.
	Labels []string `json:"labels"`
	// Text is all text detected in the image, possibly empty.
	Text       string     `json:"text"`
	SafeSearch SafeSearch `json:"safe_search"`
	Landmarks  []string   `json:"landmarks"`
}

// SafeSearch is the content-safety classification of an image.
type SafeSearch struct {
	Adult    Likelihood `json:"adult"`
	Violence Likelihood `json:"violence"`
}

// Unsafe reports whether adult or violent content is rated above VERY_UNLIKELY.
func (s SafeSearch) Unsafe() bool {
	return s.Adult > VeryUnlikely || s.Violence > VeryUnlikely
}

// Likelihood is the ordinal scale used by the safe-search classifier.
type Likelihood int

const (
	Unknown Likelihood = iota
	VeryUnlikely
	Unlikely
	Possible
	Likely
	VeryLikely
)

var likelihoodNames = [...]string{
	Unknown:      "UNKNOWN",
	VeryUnlikely: "VERY_UNLIKELY",
	Unlikely:     "UNLIKELY",
	Possible:     "POSSIBLE",
	Likely:       "LIKELY",
	VeryLikely:   "VERY_LIKELY",
}

func (l Likelihood) String() string {
	if l < Unknown || l > VeryLikely {
		return likelihoodNames[Unknown]
	}
	return likelihoodNames[l]
}

// MarshalText encodes the likelihood by name.
func (l Likelihood) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText decodes the API's enum names; unrecognised names map to Unknown.
func (l *Likelihood) UnmarshalText(text []byte) error {
	*l = ParseLikelihood(string(text))
	return nil
}

// ParseLikelihood maps an API enum name to a Likelihood.
func ParseLikelihood(name string) Likelihood {
	name = strings.ToUpper(strings.TrimSpace(name))
	for i, n := range likelihoodNames {
		if n == name {
			return Likelihood(i)
		}
	}
	return Unknown
}
