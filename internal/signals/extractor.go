package signals

import (
	"pageaudit/internal/domain"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const (
	maxCTACandidates = 20
	maxBodyExcerpt   = 5000
	minCTALength     = 2
	maxCTALength     = 50
)

var (
	headerRe = regexp.MustCompile(`^(#{1,3})\s+(.+)$`)

	// Markdown link labels containing an action word are CTA candidates.
	// The word list is a behavioral contract: changing it changes audit outcomes.
	ctaLabelRe = regexp.MustCompile(`(?i)\[([^\]]*(?:start|sign|get|try|buy|join|subscribe|download|register|book|schedule|contact|learn|request|free|demo)[^\]]*)\]`)

	whitespaceRe = regexp.MustCompile(`\s+`)
)

// Extract converts raw markdown and HTML plus the scrape metadata into
// PageSignals. It never fails: malformed or empty input degrades to empty
// fields, not errors.
func Extract(markdown, html string, meta domain.PageMetadata) domain.PageSignals {
	return domain.PageSignals{
		Title:           meta.Title,
		Headers:         extractHeaders(markdown),
		BodyTextExcerpt: truncateRunes(markdown, maxBodyExcerpt),
		CTACandidates:   extractCTACandidates(markdown, html),
		MetaDescription: meta.Description,
		OGTags: domain.OGTags{
			Title:       meta.OGTitle,
			Description: meta.OGDescription,
			Image:       meta.OGImage,
		},
		Mobile: EvaluateMobile(html),
	}
}

// extractHeaders scans markdown line by line for level 1-3 headings.
// Deeper headings ("####" and beyond) are intentionally dropped.
func extractHeaders(markdown string) []domain.Header {
	headers := []domain.Header{}
	for _, line := range strings.Split(markdown, "\n") {
		line = strings.TrimRight(line, "\r")
		m := headerRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		headers = append(headers, domain.Header{
			Level: len(m[1]),
			Text:  strings.TrimSpace(m[2]),
		})
	}
	return headers
}

// extractCTACandidates runs two passes: markdown link labels with action
// words, then button/anchor text from the HTML. The combined list is
// deduplicated (case-sensitive exact match) and capped at 20 entries.
func extractCTACandidates(markdown, html string) []string {
	candidates := []string{}
	seen := make(map[string]bool)

	add := func(text string) {
		if len(candidates) >= maxCTACandidates {
			return
		}
		if text == "" || seen[text] {
			return
		}
		seen[text] = true
		candidates = append(candidates, text)
	}

	for _, m := range ctaLabelRe.FindAllStringSubmatch(markdown, -1) {
		add(strings.TrimSpace(m[1]))
	}

	for _, text := range buttonTexts(html) {
		add(text)
	}

	return candidates
}

// buttonTexts collects the inner text of button and anchor elements,
// whitespace-collapsed and 2-50 characters long after trimming.
func buttonTexts(html string) []string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}

	texts := []string{}
	doc.Find("button, a").Each(func(i int, s *goquery.Selection) {
		text := strings.TrimSpace(whitespaceRe.ReplaceAllString(s.Text(), " "))
		n := len([]rune(text))
		if n >= minCTALength && n <= maxCTALength {
			texts = append(texts, text)
		}
	})
	return texts
}

// truncateRunes hard-cuts s to at most n characters, no word-boundary logic.
func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
