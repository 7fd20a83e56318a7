// Package priority maps classification categories and sentiment polarity
// to an integer urgency rank.
package priority

import (
	"fmt"

	"github.com/brandpulse/triage/internal/common"
	"github.com/brandpulse/triage/internal/model"
)

// Priority bounds. 1 is the most urgent.
const (
	Highest = 1
	Lowest  = 5
)

// policy is the fixed category x polarity priority table. CRITICAL plus
// negative sentiment is brand damage and always rank 1; OPPORTUNITIES
// plus positive sentiment is a fast-moving sales lead and also rank 1.
var policy = map[model.CategoryTag]map[model.Polarity]int{
	model.CategoryCritical: {
		model.PolarityNegative:   1,
		model.PolarityNeutral:    2,
		model.PolaritySuggestion: 2,
		model.PolarityPositive:   3,
	},
	model.CategoryStrategic: {
		model.PolarityNegative:   2,
		model.PolarityNeutral:    3,
		model.PolaritySuggestion: 3,
		model.PolarityPositive:   4,
	},
	model.CategoryOperational: {
		model.PolarityNegative:   3,
		model.PolarityNeutral:    3,
		model.PolaritySuggestion: 3,
		model.PolarityPositive:   4,
	},
	model.CategoryOpportunities: {
		model.PolarityNegative:   3,
		model.PolarityNeutral:    2,
		model.PolaritySuggestion: 2,
		model.PolarityPositive:   1,
	},
	model.CategoryNone: {
		model.PolarityNegative:   4,
		model.PolarityNeutral:    5,
		model.PolaritySuggestion: 5,
		model.PolarityPositive:   5,
	},
}

// Score returns the urgency rank for a classification category and
// sentiment polarity.
func Score(category model.CategoryTag, polarity model.Polarity) (int, error) {
	byPolarity, ok := policy[category]
	if !ok {
		return 0, fmt.Errorf("%w: %q", common.ErrInvalidCategory, category)
	}
	rank, ok := byPolarity[polarity]
	if !ok {
		return 0, fmt.Errorf("%w: %q", common.ErrInvalidPolarity, polarity)
	}
	return rank, nil
}
