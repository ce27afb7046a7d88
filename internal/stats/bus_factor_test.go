package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateBusFactor(t *testing.T) {
	tests := []struct {
		name    string
		commits []int
		factor  int
		risk    string
	}{
		{"no commits", nil, 0, "unknown"},
		{"single author", []int{10}, 1, "high"},
		{"dominant author", []int{6, 2, 2}, 1, "high"},
		{"even pair", []int{5, 5, 5, 5}, 2, "medium"},
		{"spread", []int{1, 1, 1, 1, 1, 1, 1, 1, 1, 1}, 5, "low"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var contributors []Contributor
			for i, n := range tt.commits {
				contributors = append(contributors, Contributor{Name: string(rune('a' + i)), Commits: n})
			}

			result := CalculateBusFactor(contributors, DefaultBusFactorThreshold)
			assert.Equal(t, tt.factor, result.BusFactor)
			assert.Equal(t, tt.risk, result.RiskLevel)
			assert.Len(t, result.TopContributors, len(tt.commits))
		})
	}
}
