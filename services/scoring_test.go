package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScorePrediction(t *testing.T) {
	tests := []struct {
		name                 string
		predHome, predAway   int
		actualHome, actualAway int
		points               int
		description          string
	}{
		{"exact score", 2, 1, 2, 1, PointsExactScore, DescExactScore},
		{"exact scoreless draw", 0, 0, 0, 0, PointsExactScore, DescExactScore},
		{"outcome and margin", 3, 1, 2, 0, PointsOutcomeAndMargin, DescOutcomeAndMargin},
		{"different draw", 1, 1, 2, 2, PointsOutcomeAndMargin, DescOutcomeAndMargin},
		{"outcome only", 2, 0, 1, 0, PointsOutcomeOnly, DescOutcomeOnly},
		{"away win outcome only", 0, 1, 1, 3, PointsOutcomeOnly, DescOutcomeOnly},
		{"wrong outcome", 1, 0, 0, 1, 0, ""},
		{"predicted draw, home won", 1, 1, 2, 1, 0, ""},
		{"predicted home win, draw", 2, 1, 1, 1, 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			points, description := ScorePrediction(tt.predHome, tt.predAway, tt.actualHome, tt.actualAway)
			assert.Equal(t, tt.points, points)
			assert.Equal(t, tt.description, description)
		})
	}
}
