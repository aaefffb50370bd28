package scoring

import (
	"math"

	"pageaudit/internal/domain"
)

// criteriaPerCategory is the assumed criterion count behind a raw pass-count
// score. Upstream sometimes reports "passed 6 of 8 checks" as a score of 6;
// any score at or below this value is rescaled as a count out of 8,
// regardless of how many criteria the rubric actually holds for the
// category. Preserved as-is pending product clarification.
const criteriaPerCategory = 8

// Reconcile turns the semi-trusted scoring payload into a valid AuditResult.
// Upstream mistakes are corrected deterministically rather than rejected:
// pass-count scores are rescaled to percentages, the reported overall score
// is discarded and recomputed from the fixed weights, and breakdown statuses
// are re-derived from the normalized scores. Reconciling an already
// reconciled payload is a no-op.
func Reconcile(raw domain.RawScorePayload) domain.AuditResult {
	scores := make(map[domain.ScoreCategory]int, len(Weights))
	for _, category := range domain.Categories() {
		// A missing category counts as 0 rather than failing the audit.
		scores[category] = normalizeScore(raw.Scores[string(category)])
	}

	breakdown := make([]domain.BreakdownEntry, 0, len(raw.Breakdown))
	for _, entry := range raw.Breakdown {
		score := normalizeScore(entry.Score)
		breakdown = append(breakdown, domain.BreakdownEntry{
			Category:       entry.Category,
			Score:          score,
			Status:         StatusFor(score),
			Recommendation: entry.Recommendation,
		})
	}

	// Quick wins pass through in order. The producer is expected to cap
	// them at 3; more than that is a data-quality signal, not an error.
	return domain.AuditResult{
		OverallScore: Composite(scores),
		Scores:       scores,
		Breakdown:    breakdown,
		QuickWins:    raw.QuickWins,
	}
}

// normalizeScore maps a raw upstream score to an integer percentage.
// Values at or below 8 are treated as pass-counts out of 8 criteria and
// rescaled; anything above 8 is assumed to already be a 0-100 score.
func normalizeScore(s float64) int {
	if s <= criteriaPerCategory {
		s = s / criteriaPerCategory * 100
	}
	return clampScore(int(math.Round(s)))
}

// StatusFor classifies a normalized score: >=80 pass, >=50 warning,
// otherwise fail. Status is never taken from the upstream payload.
func StatusFor(score int) string {
	switch {
	case score >= 80:
		return "pass"
	case score >= 50:
		return "warning"
	default:
		return "fail"
	}
}
