package scoring

import (
	"testing"

	"pageaudit/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeScore(t *testing.T) {
	tests := []struct {
		name string
		raw  float64
		want int
	}{
		{"zero stays zero", 0, 0},
		{"pass-count one of eight", 1, 13},
		{"pass-count four of eight", 4, 50},
		{"pass-count six of eight", 6, 75},
		{"pass-count eight of eight", 8, 100},
		{"nine is already a percentage", 9, 9},
		{"mid-range percentage unchanged", 82, 82},
		{"hundred unchanged", 100, 100},
		{"negative clamps to zero", -3, 0},
		{"above hundred clamps", 140, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizeScore(tt.raw))
		})
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		score int
		want  string
	}{
		{100, "pass"},
		{80, "pass"},
		{79, "warning"},
		{50, "warning"},
		{49, "fail"},
		{0, "fail"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, StatusFor(tt.score), "score %d", tt.score)
	}
}

func TestWeightsSumToOne(t *testing.T) {
	var sum float64
	for _, category := range domain.Categories() {
		w, ok := Weights[category]
		require.True(t, ok, "category %s missing from weight table", category)
		sum += w
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
	assert.Len(t, Weights, 5)
}

func TestComposite(t *testing.T) {
	tests := []struct {
		name   string
		scores map[domain.ScoreCategory]int
		want   int
	}{
		{
			name: "all hundred",
			scores: map[domain.ScoreCategory]int{
				domain.MessagingClarity: 100,
				domain.TrustSignals:     100,
				domain.CTAStrength:      100,
				domain.MobileLayout:     100,
				domain.SEOMetadata:      100,
			},
			want: 100,
		},
		{
			name: "weighted mix",
			scores: map[domain.ScoreCategory]int{
				domain.MessagingClarity: 80, // 24.0
				domain.TrustSignals:     60, // 12.0
				domain.CTAStrength:      90, // 22.5
				domain.MobileLayout:     40, // 6.0
				domain.SEOMetadata:      50, // 5.0
			},
			want: 70, // 69.5 rounds up
		},
		{
			name: "missing category counts as zero",
			scores: map[domain.ScoreCategory]int{
				domain.MessagingClarity: 100,
			},
			want: 30,
		},
		{
			name:   "empty map",
			scores: map[domain.ScoreCategory]int{},
			want:   0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Composite(tt.scores))
		})
	}
}

func TestReconcile_RescalesPassCounts(t *testing.T) {
	result := Reconcile(domain.RawScorePayload{
		Scores: map[string]float64{
			"messaging_clarity": 6,  // count -> 75
			"trust_signals":     8,  // count -> 100
			"cta_strength":      82, // already percentage
			"mobile_layout":     4,  // count -> 50
			"seo_metadata":      45, // already percentage
		},
	})

	assert.Equal(t, map[domain.ScoreCategory]int{
		domain.MessagingClarity: 75,
		domain.TrustSignals:     100,
		domain.CTAStrength:      82,
		domain.MobileLayout:     50,
		domain.SEOMetadata:      45,
	}, result.Scores)
	// 0.30*75 + 0.20*100 + 0.25*82 + 0.15*50 + 0.10*45 = 75.0
	assert.Equal(t, 75, result.OverallScore)
}

func TestReconcile_DiscardsUpstreamOverall(t *testing.T) {
	payload := domain.RawScorePayload{
		OverallScore: 3, // nonsense, must be ignored
		Scores: map[string]float64{
			"messaging_clarity": 90,
			"trust_signals":     90,
			"cta_strength":      90,
			"mobile_layout":     90,
			"seo_metadata":      90,
		},
	}

	result := Reconcile(payload)
	assert.Equal(t, 90, result.OverallScore)
}

func TestReconcile_Idempotent(t *testing.T) {
	first := Reconcile(domain.RawScorePayload{
		Scores: map[string]float64{
			"messaging_clarity": 7,
			"trust_signals":     55,
			"cta_strength":      2,
			"mobile_layout":     100,
			"seo_metadata":      31,
		},
		Breakdown: []domain.RawBreakdownEntry{
			{Category: "messaging_clarity", Score: 7, Status: "pass", Recommendation: "tighten the headline"},
		},
	})

	// Re-reconcile the already-normalized output.
	again := domain.RawScorePayload{
		OverallScore: float64(first.OverallScore),
		Scores:       map[string]float64{},
	}
	for category, score := range first.Scores {
		again.Scores[string(category)] = float64(score)
	}
	for _, entry := range first.Breakdown {
		again.Breakdown = append(again.Breakdown, domain.RawBreakdownEntry{
			Category:       entry.Category,
			Score:          float64(entry.Score),
			Status:         entry.Status,
			Recommendation: entry.Recommendation,
		})
	}

	second := Reconcile(again)
	assert.Equal(t, first, second)
}

func TestReconcile_MissingCategoryTreatedAsZero(t *testing.T) {
	result := Reconcile(domain.RawScorePayload{
		Scores: map[string]float64{
			"messaging_clarity": 100,
			// other four categories missing entirely
		},
	})

	require.Len(t, result.Scores, 5)
	assert.Equal(t, 100, result.Scores[domain.MessagingClarity])
	assert.Equal(t, 0, result.Scores[domain.TrustSignals])
	assert.Equal(t, 0, result.Scores[domain.CTAStrength])
	assert.Equal(t, 0, result.Scores[domain.MobileLayout])
	assert.Equal(t, 0, result.Scores[domain.SEOMetadata])
	assert.Equal(t, 30, result.OverallScore)
}

func TestReconcile_BreakdownStatusRederived(t *testing.T) {
	result := Reconcile(domain.RawScorePayload{
		Breakdown: []domain.RawBreakdownEntry{
			{Category: "messaging_clarity", Score: 85, Status: "fail", Recommendation: "keep going"},
			{Category: "trust_signals", Score: 6, Status: "pass", Recommendation: "add testimonials"},
			{Category: "cta_strength", Score: 30, Status: "pass", Recommendation: "stronger verbs"},
		},
	})

	require.Len(t, result.Breakdown, 3)
	// Upstream statuses contradict the scores and are replaced.
	assert.Equal(t, domain.BreakdownEntry{Category: "messaging_clarity", Score: 85, Status: "pass", Recommendation: "keep going"}, result.Breakdown[0])
	assert.Equal(t, domain.BreakdownEntry{Category: "trust_signals", Score: 75, Status: "warning", Recommendation: "add testimonials"}, result.Breakdown[1])
	assert.Equal(t, domain.BreakdownEntry{Category: "cta_strength", Score: 30, Status: "fail", Recommendation: "stronger verbs"}, result.Breakdown[2])
}

func TestReconcile_QuickWinsPassThrough(t *testing.T) {
	wins := []domain.QuickWin{
		{Title: "Add a headline", Description: "Say what you sell", Impact: "high"},
		{Title: "Shrink the form", Description: "Three fields max", Impact: "medium"},
		{Title: "Compress images", Description: "Lazy-load below the fold", Impact: "low"},
		{Title: "Fourth win", Description: "Producer should have capped at 3", Impact: "low"},
	}

	result := Reconcile(domain.RawScorePayload{QuickWins: wins})

	// Passed through unmodified and in order; the reconciler does not truncate.
	assert.Equal(t, wins, result.QuickWins)
}
