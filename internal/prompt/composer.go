package prompt

import (
	"encoding/json"
	"fmt"
	"strings"

	"pageaudit/internal/domain"
)

// ToolName is the function the scoring collaborator is forced to call.
const ToolName = "submit_audit_results"

const systemPrompt = "You are a landing page conversion optimization expert. " +
	"Score strictly using the provided rubric. Be deterministic: identical page data " +
	"must always produce identical scores. Use binary pass/fail per criterion -- no " +
	"partial credit. Always respond with valid JSON only, no markdown fences."

// promptBodyLimit caps how much of the body excerpt is embedded in the prompt.
const promptBodyLimit = 3000

// industryConversionRates maps a business type to its industry-average
// conversion rate in percent, used when the caller supplies none. The
// selection is a deterministic lookup made before composition, so the
// scoring collaborator never sees a blank rate.
var industryConversionRates = map[string]float64{
	"ecommerce": 2.5,
	"saas":      4.0,
	"leadgen":   7.5,
	"agency":    5.0,
	"local":     6.5,
}

const defaultConversionRate = 2.5

// Request is one fully composed scoring request: system and user messages
// plus the strict output schema for the forced tool call.
type Request struct {
	System string
	User   string
	Schema map[string]any
}

// Compose assembles the rubric criteria, page signals, and business context
// into a single scoring request. Pure construction, no side effects.
func Compose(url string, sig domain.PageSignals, entries []domain.KnowledgeBaseEntry, bc *domain.BusinessContext) Request {
	var b strings.Builder

	b.WriteString("Analyze this landing page data and score it using the criteria and methodology below.\n\n")
	b.WriteString("AUDIT CRITERIA (Gold Standard):\n")
	b.WriteString(criteriaText(entries))

	b.WriteString("\n\nPAGE DATA:\n")
	fmt.Fprintf(&b, "- URL: %s\n", url)
	fmt.Fprintf(&b, "- Title: %s\n", sig.Title)
	fmt.Fprintf(&b, "- Meta Description: %s\n", orMissing(sig.MetaDescription))
	fmt.Fprintf(&b, "- OG Tags: %s\n", mustJSON(sig.OGTags))
	fmt.Fprintf(&b, "- Headers: %s\n", mustJSON(sig.Headers))
	fmt.Fprintf(&b, "- CTA Texts Found: %s\n", mustJSON(sig.CTACandidates))
	fmt.Fprintf(&b, "- Mobile Signals: %s\n", mustJSON(sig.Mobile))
	fmt.Fprintf(&b, "- Body Text (excerpt): %s\n", truncate(sig.BodyTextExcerpt, promptBodyLimit))

	if bc != nil {
		b.WriteString("\nBUSINESS CONTEXT:\n")
		fmt.Fprintf(&b, "- Business Type: %s\n", bc.BusinessType)
		if bc.MonthlyAdSpend > 0 {
			fmt.Fprintf(&b, "- Monthly Ad Spend: $%.0f\n", bc.MonthlyAdSpend)
		}
		if bc.TrafficSource != "" {
			fmt.Fprintf(&b, "- Traffic Source: %s\n", bc.TrafficSource)
		}
		rate, assumed := ResolveConversionRate(bc)
		if assumed {
			fmt.Fprintf(&b, "- Conversion Rate: %.1f%% (industry average for %s, no measured rate supplied)\n", rate, bc.BusinessType)
		} else {
			fmt.Fprintf(&b, "- Conversion Rate: %.1f%%\n", rate)
		}
		b.WriteString("Use the business context to estimate revenue lost to conversion problems where relevant.\n")
	}

	b.WriteString(`
SCORING METHODOLOGY (follow exactly):
For each category, evaluate each criterion as PASS (1) or FAIL (0).
Category score = (number of passing criteria / total criteria in category) * 100, rounded to nearest integer.
Overall score = weighted average using these weights:
  Messaging Clarity: 30%, Trust Signals: 20%, CTA Strength: 25%, Mobile Layout: 15%, SEO Meta-data: 10%

Be binary -- either evidence exists on the page or it does not. Do not use partial credit.

For each category that scores below 80, provide a specific actionable fix based on the criteria above.
Also identify the top 3 "quick wins" -- the highest-impact, easiest-to-implement changes.

LANGUAGE RULE: Detect the language of the page content (title, headers, body text). Write ALL text output (recommendations, quick_wins titles/descriptions, breakdown recommendations) in that same language. Category names stay in English.`)

	return Request{
		System: systemPrompt,
		User:   b.String(),
		Schema: AuditToolSchema(),
	}
}

// ResolveConversionRate returns the conversion rate to reason with and
// whether it was assumed from the industry average for the business type.
// Unknown business types fall back to the e-commerce average.
func ResolveConversionRate(bc *domain.BusinessContext) (rate float64, assumed bool) {
	if bc != nil && bc.ConversionRate != nil {
		return *bc.ConversionRate, false
	}
	businessType := ""
	if bc != nil {
		businessType = strings.ToLower(strings.TrimSpace(bc.BusinessType))
	}
	if r, ok := industryConversionRates[businessType]; ok {
		return r, true
	}
	return defaultConversionRate, true
}

// criteriaText renders the rubric as one line per criterion.
func criteriaText(entries []domain.KnowledgeBaseEntry) string {
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, fmt.Sprintf("[%s] %s (weight: %d): %s", e.Category, e.Criterion, e.Weight, e.Description))
	}
	return strings.Join(lines, "\n")
}

// AuditToolSchema is the strict output schema for the scoring tool call.
// Field names and enums are the contract; the reconciler depends on them.
func AuditToolSchema() map[string]any {
	categoryScores := map[string]any{}
	for _, c := range domain.Categories() {
		categoryScores[string(c)] = map[string]any{"type": "number"}
	}
	requiredCategories := make([]string, 0, len(domain.Categories()))
	for _, c := range domain.Categories() {
		requiredCategories = append(requiredCategories, string(c))
	}

	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"overall_score": map[string]any{
				"type":        "number",
				"description": "Overall weighted score 0-100",
			},
			"scores": map[string]any{
				"type":       "object",
				"properties": categoryScores,
				"required":   requiredCategories,
			},
			"quick_wins": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"title":       map[string]any{"type": "string"},
						"description": map[string]any{"type": "string"},
						"impact":      map[string]any{"type": "string", "enum": []string{"high", "medium", "low"}},
					},
					"required": []string{"title", "description", "impact"},
				},
			},
			"breakdown": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"category":       map[string]any{"type": "string"},
						"score":          map[string]any{"type": "number"},
						"status":         map[string]any{"type": "string", "enum": []string{"pass", "warning", "fail"}},
						"recommendation": map[string]any{"type": "string"},
					},
					"required": []string{"category", "score", "status", "recommendation"},
				},
			},
		},
		"required": []string{"overall_score", "scores", "quick_wins", "breakdown"},
	}
}

func orMissing(s string) string {
	if s == "" {
		return "MISSING"
	}
	return s
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

func mustJSON(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return "{}"
	}
	return string(data)
}
