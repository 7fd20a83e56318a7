package priority

import (
	"testing"

	"github.com/brandpulse/triage/internal/common"
	"github.com/brandpulse/triage/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScorePolicyTable(t *testing.T) {
	tests := []struct {
		name     string
		category model.CategoryTag
		polarity model.Polarity
		want     int
	}{
		{name: "critical negative is most urgent", category: model.CategoryCritical, polarity: model.PolarityNegative, want: 1},
		{name: "critical neutral", category: model.CategoryCritical, polarity: model.PolarityNeutral, want: 2},
		{name: "critical suggestion", category: model.CategoryCritical, polarity: model.PolaritySuggestion, want: 2},
		{name: "critical positive", category: model.CategoryCritical, polarity: model.PolarityPositive, want: 3},
		{name: "strategic negative", category: model.CategoryStrategic, polarity: model.PolarityNegative, want: 2},
		{name: "strategic neutral", category: model.CategoryStrategic, polarity: model.PolarityNeutral, want: 3},
		{name: "strategic positive", category: model.CategoryStrategic, polarity: model.PolarityPositive, want: 4},
		{name: "operational negative", category: model.CategoryOperational, polarity: model.PolarityNegative, want: 3},
		{name: "operational neutral", category: model.CategoryOperational, polarity: model.PolarityNeutral, want: 3},
		{name: "operational positive", category: model.CategoryOperational, polarity: model.PolarityPositive, want: 4},
		{name: "opportunities negative", category: model.CategoryOpportunities, polarity: model.PolarityNegative, want: 3},
		{name: "opportunities neutral", category: model.CategoryOpportunities, polarity: model.PolarityNeutral, want: 2},
		{name: "opportunities positive is a sales lead", category: model.CategoryOpportunities, polarity: model.PolarityPositive, want: 1},
		{name: "none negative", category: model.CategoryNone, polarity: model.PolarityNegative, want: 4},
		{name: "none neutral", category: model.CategoryNone, polarity: model.PolarityNeutral, want: 5},
		{name: "none positive", category: model.CategoryNone, polarity: model.PolarityPositive, want: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Score(tt.category, tt.polarity)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.GreaterOrEqual(t, got, Highest)
			assert.LessOrEqual(t, got, Lowest)
		})
	}
}

func TestScoreDualUrgencyPaths(t *testing.T) {
	// Brand damage and hot sales leads both route to the top rank.
	critical, err := Score(model.CategoryCritical, model.PolarityNegative)
	require.NoError(t, err)
	lead, err := Score(model.CategoryOpportunities, model.PolarityPositive)
	require.NoError(t, err)

	assert.Equal(t, Highest, critical)
	assert.Equal(t, Highest, lead)
}

func TestScoreInvalidPolarity(t *testing.T) {
	_, err := Score(model.CategoryCritical, model.Polarity("angry"))
	assert.ErrorIs(t, err, common.ErrInvalidPolarity)

	_, err = Score(model.CategoryCritical, model.Polarity(""))
	assert.ErrorIs(t, err, common.ErrInvalidPolarity)
}

func TestScoreInvalidCategory(t *testing.T) {
	_, err := Score(model.CategoryTag("OTHER"), model.PolarityNegative)
	assert.ErrorIs(t, err, common.ErrInvalidCategory)
}
