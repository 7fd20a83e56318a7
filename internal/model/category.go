// Package model defines the core domain types used throughout the engine.
package model

import "strings"

// CategoryTag identifies one of the fixed triage categories.
type CategoryTag string

const (
	// CategoryCritical covers brand-damage signals (counterfeits, fraud, scams).
	CategoryCritical CategoryTag = "CRITICAL"
	// CategoryStrategic covers loyalty-erosion signals (regret, boycott, warnings to others).
	CategoryStrategic CategoryTag = "STRATEGIC"
	// CategoryOperational covers usability and product-friction signals.
	CategoryOperational CategoryTag = "OPERATIONAL"
	// CategoryOpportunities covers purchase-intent and sales signals.
	CategoryOpportunities CategoryTag = "OPPORTUNITIES"
	// CategoryNone means no category accumulated a positive score.
	CategoryNone CategoryTag = "NONE"
)

// Categories lists the scoring categories in precedence order.
// On a score tie the earlier category wins.
var Categories = []CategoryTag{
	CategoryCritical,
	CategoryStrategic,
	CategoryOperational,
	CategoryOpportunities,
}

// ParseCategory maps a case-insensitive name to a scoring category.
// CategoryNone is not a valid parse target; it is only ever produced
// by the classifier.
func ParseCategory(s string) (CategoryTag, bool) {
	tag := CategoryTag(strings.ToUpper(strings.TrimSpace(s)))
	for _, c := range Categories {
		if tag == c {
			return c, true
		}
	}
	return "", false
}

// Valid reports whether the tag is one of the four scoring categories.
func (c CategoryTag) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}
