package scoring

import (
	"math"

	"pageaudit/internal/domain"
)

// Weights is the fixed category weighting. The values sum to exactly 1.0;
// changing them changes every composite score.
var Weights = map[domain.ScoreCategory]float64{
	domain.MessagingClarity: 0.30,
	domain.TrustSignals:     0.20,
	domain.CTAStrength:      0.25,
	domain.MobileLayout:     0.15,
	domain.SEOMetadata:      0.10,
}

// Composite computes the weighted overall score from the five category
// scores. A category missing from the map contributes 0. The result is
// rounded and clamped to [0,100].
func Composite(scores map[domain.ScoreCategory]int) int {
	var sum float64
	for _, category := range domain.Categories() {
		sum += Weights[category] * float64(scores[category])
	}
	return clampScore(int(math.Round(sum)))
}

func clampScore(s int) int {
	if s < 0 {
		return 0
	}
	if s > 100 {
		return 100
	}
	return s
}
