package domain

import "time"

// ScoreCategory is one of the five fixed audit categories.
type ScoreCategory string

const (
	MessagingClarity ScoreCategory = "messaging_clarity"
	TrustSignals     ScoreCategory = "trust_signals"
	CTAStrength      ScoreCategory = "cta_strength"
	MobileLayout     ScoreCategory = "mobile_layout"
	SEOMetadata      ScoreCategory = "seo_metadata"
)

// Categories returns the fixed category set in weight order.
func Categories() []ScoreCategory {
	return []ScoreCategory{MessagingClarity, TrustSignals, CTAStrength, MobileLayout, SEOMetadata}
}

// AuditStatus tracks an audit record through the pipeline.
// Transitions are strictly forward: scraping -> scoring -> completed.
type AuditStatus string

const (
	StatusScraping  AuditStatus = "scraping"
	StatusScoring   AuditStatus = "scoring"
	StatusCompleted AuditStatus = "completed"
)

// Header is a markdown heading of level 1-3.
type Header struct {
	Level int    `json:"level"`
	Text  string `json:"text"`
}

// OGTags carries the open-graph metadata passed through from the scrape.
type OGTags struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Image       string `json:"image"`
}

// FormElementCounts counts interactive form elements in the page HTML.
type FormElementCounts struct {
	Inputs    int `json:"inputs"`
	Selects   int `json:"selects"`
	Textareas int `json:"textareas"`
}

// ImageCounts distinguishes lazy-loaded images from the total.
type ImageCounts struct {
	Total      int `json:"total"`
	LazyLoaded int `json:"lazy_loaded"`
}

// MobileSignals holds the mobile-friendliness heuristics derived from one
// HTML document. Every field is computed independently from the same input.
type MobileSignals struct {
	ViewportMeta           *string           `json:"viewport_meta"`
	MediaQueryCount        int               `json:"media_query_count"`
	HasResponsiveFramework bool              `json:"has_responsive_framework"`
	FormElements           FormElementCounts `json:"form_elements"`
	HasStickyElements      bool              `json:"has_sticky_elements"`
	Images                 ImageCounts       `json:"images"`
	SmallFontCount         int               `json:"small_font_count"`
	FixedWidthElements     int               `json:"fixed_width_elements"`
	HasTelLinks            bool              `json:"has_tel_links"`
	HasMailtoLinks         bool              `json:"has_mailto_links"`
	HasManifest            bool              `json:"has_manifest"`
	HasAppleTouchIcon      bool              `json:"has_apple_touch_icon"`
	HasThemeColor          bool              `json:"has_theme_color"`
}

// PageSignals is the structured view of one scraped page, consumed by the
// prompt composer. Created once per scrape, never mutated.
type PageSignals struct {
	Title           string        `json:"page_title"`
	Headers         []Header      `json:"headers"`
	BodyTextExcerpt string        `json:"body_text"`
	CTACandidates   []string      `json:"cta_texts"`
	MetaDescription string        `json:"meta_description"`
	OGTags          OGTags        `json:"og_tags"`
	Mobile          MobileSignals `json:"mobile_signals"`
	ScreenshotURL   string        `json:"screenshot_url"`
}

// PageMetadata is the metadata record supplied by the fetch collaborator.
type PageMetadata struct {
	Title         string `json:"title"`
	Description   string `json:"description"`
	OGTitle       string `json:"ogTitle"`
	OGDescription string `json:"ogDescription"`
	OGImage       string `json:"ogImage"`
}

// ScrapeResult is the fetch collaborator's response for one URL.
type ScrapeResult struct {
	HTML       string       `json:"html"`
	Markdown   string       `json:"markdown"`
	Screenshot string       `json:"screenshot"`
	Metadata   PageMetadata `json:"metadata"`
}

// KnowledgeBaseEntry is one weighted rubric criterion, read from the
// externally-owned knowledge base. Weight is 1-3.
type KnowledgeBaseEntry struct {
	Category    string `json:"category"`
	Criterion   string `json:"criterion"`
	Description string `json:"description"`
	Weight      int    `json:"weight"`
}

// BusinessContext is the optional business information attached to an audit
// request, used for revenue-loss reasoning in the scoring prompt.
type BusinessContext struct {
	MonthlyAdSpend float64  `json:"monthly_ad_spend"`
	BusinessType   string   `json:"business_type"`
	TrafficSource  string   `json:"traffic_source"`
	ConversionRate *float64 `json:"conversion_rate"`
}

// QuickWin is one high-impact recommendation surfaced to the user.
type QuickWin struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Impact      string `json:"impact"` // high | medium | low
}

// BreakdownEntry is one per-category line of the reconciled audit.
type BreakdownEntry struct {
	Category       string `json:"category"`
	Score          int    `json:"score"`
	Status         string `json:"status"` // pass | warning | fail
	Recommendation string `json:"recommendation"`
}

// AuditResult is the validated, bounded outcome of score reconciliation.
// OverallScore is always recomputed from Scores, never taken upstream.
type AuditResult struct {
	OverallScore int                   `json:"overall_score"`
	Scores       map[ScoreCategory]int `json:"scores"`
	Breakdown    []BreakdownEntry      `json:"breakdown"`
	QuickWins    []QuickWin            `json:"quick_wins"`
}

// RawScorePayload is the semi-trusted payload returned by the scoring
// collaborator, before reconciliation. Scores may arrive as raw pass-counts
// instead of percentages and the reported overall score is not trusted.
type RawScorePayload struct {
	OverallScore float64             `json:"overall_score"`
	Scores       map[string]float64  `json:"scores"`
	QuickWins    []QuickWin          `json:"quick_wins"`
	Breakdown    []RawBreakdownEntry `json:"breakdown"`
}

// RawBreakdownEntry is a breakdown line as reported upstream. Score and
// status are both re-derived during reconciliation.
type RawBreakdownEntry struct {
	Category       string  `json:"category"`
	Score          float64 `json:"score"`
	Status         string  `json:"status"`
	Recommendation string  `json:"recommendation"`
}

// Audit is the persisted audit record.
type Audit struct {
	ID            string                `json:"id"`
	URL           string                `json:"url"`
	PageTitle     string                `json:"page_title"`
	Headers       []Header              `json:"headers"`
	BodyText      string                `json:"body_text"`
	CTATexts      []string              `json:"cta_texts"`
	ScreenshotURL string                `json:"screenshot_url"`
	Status        AuditStatus           `json:"status"`
	OverallScore  *int                  `json:"overall_score,omitempty"`
	Scores        map[ScoreCategory]int `json:"scores,omitempty"`
	QuickWins     []QuickWin            `json:"quick_wins,omitempty"`
	Breakdown     []BreakdownEntry      `json:"breakdown,omitempty"`
	RawAIResponse string                `json:"raw_ai_response,omitempty"`
	FailReason    string                `json:"fail_reason,omitempty"`
	CreatedAt     time.Time             `json:"created_at"`
	UpdatedAt     time.Time             `json:"updated_at"`
}

// AuditRequest is the API payload that starts an audit.
type AuditRequest struct {
	URL             string           `json:"url"`
	BusinessContext *BusinessContext `json:"business_context,omitempty"`
}
