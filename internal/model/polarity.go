package model

import "strings"

// Polarity is the sentiment label attached to a piece of feedback.
// It is supplied by an external sentiment detector; the engine consumes
// it but never computes it.
type Polarity string

// Recognized polarity values.
const (
	PolarityPositive   Polarity = "positive"
	PolarityNegative   Polarity = "negative"
	PolarityNeutral    Polarity = "neutral"
	PolaritySuggestion Polarity = "suggestion"
)

// ParsePolarity maps a case-insensitive label to a Polarity.
func ParsePolarity(s string) (Polarity, bool) {
	p := Polarity(strings.ToLower(strings.TrimSpace(s)))
	switch p {
	case PolarityPositive, PolarityNegative, PolarityNeutral, PolaritySuggestion:
		return p, true
	}
	return "", false
}
