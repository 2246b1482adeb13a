package diagnosis

import "math"

// ruleDiscount derives the secondary score. There is no independent rule
// scorer yet, so ruleScore is always a fixed discount of aiScore.
const ruleDiscount = 0.92

func RuleScore(aiScore float64) float64 {
	return math.Round(clamp01(aiScore)*ruleDiscount*100) / 100
}

type ConfidenceBand string

const (
	BandHigh   ConfidenceBand = "high"
	BandMedium ConfidenceBand = "medium"
	BandLow    ConfidenceBand = "low"
)

func BandOf(score float64) ConfidenceBand {
	switch {
	case score >= 0.8:
		return BandHigh
	case score >= 0.5:
		return BandMedium
	default:
		return BandLow
	}
}
