package review

import "math"

// MaxRiskScore is the upper bound of the risk scale.
const MaxRiskScore = 10

// severityWeights holds the per-category score contribution of each severity.
// Fractional weights are summed exactly; rounding happens once at the end.
var severityWeights = map[Category]map[Severity]float64{
	CategorySecurity: {
		SeverityCritical: 4,
		SeverityHigh:     3,
		SeverityMedium:   2,
		SeverityLow:      1,
	},
	CategoryPerformance: {
		SeverityCritical: 3,
		SeverityHigh:     2,
		SeverityMedium:   1,
		SeverityLow:      0.5,
	},
	CategoryQuality: {
		SeverityCritical: 2,
		SeverityHigh:     1,
		SeverityMedium:   0.5,
		SeverityLow:      0.25,
	},
}

// Score reduces the issue lists to an integer risk score in [0, MaxRiskScore].
// The weighted sum is order independent; unrecognized severities contribute
// nothing.
func Score(security, performance, quality []Issue) int {
	sum := weigh(CategorySecurity, security) +
		weigh(CategoryPerformance, performance) +
		weigh(CategoryQuality, quality)

	score := int(math.Round(sum))
	if score > MaxRiskScore {
		score = MaxRiskScore
	}
	return score
}

func weigh(c Category, issues []Issue) float64 {
	weights := severityWeights[c]
	var total float64
	for _, issue := range issues {
		total += weights[issue.Severity]
	}
	return total
}
