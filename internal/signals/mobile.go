package signals

import (
	"pageaudit/internal/domain"
	"regexp"
	"strconv"
)

// Mobile heuristics are presence-or-count checks against the raw HTML text.
// They are deliberately approximate; the thresholds below are a behavioral
// contract (small font < 14px, fixed-wide = 4+ digit pixel width).
var (
	viewportRe       = regexp.MustCompile(`(?i)<meta[^>]*name=["']viewport["'][^>]*content=["']([^"']+)["']`)
	mediaQueryRe     = regexp.MustCompile(`(?i)@media`)
	frameworkRe      = regexp.MustCompile(`(?i)bootstrap|tailwind|foundation|bulma`)
	inputRe          = regexp.MustCompile(`(?i)<input`)
	selectRe         = regexp.MustCompile(`(?i)<select`)
	textareaRe       = regexp.MustCompile(`(?i)<textarea`)
	stickyRe         = regexp.MustCompile(`(?i)position:\s*(?:sticky|fixed)`)
	imgTagRe         = regexp.MustCompile(`(?i)<img`)
	lazyLoadRe       = regexp.MustCompile(`(?i)loading=["']lazy["']`)
	fontSizeRe       = regexp.MustCompile(`(?i)font-size:\s*(\d+)px`)
	fixedWidthRe     = regexp.MustCompile(`(?i)width:\s*\d{4,}px`)
	telLinkRe        = regexp.MustCompile(`(?i)href=["']tel:`)
	mailtoLinkRe     = regexp.MustCompile(`(?i)href=["']mailto:`)
	manifestRe       = regexp.MustCompile(`(?i)rel=["']manifest["']`)
	appleTouchIconRe = regexp.MustCompile(`(?i)apple-touch-icon`)
	themeColorRe     = regexp.MustCompile(`(?i)<meta[^>]*name=["']theme-color["']`)
)

const smallFontThresholdPx = 14

// EvaluateMobile derives mobile-friendliness signals from one HTML document.
// It is total: any input, including the empty string, yields a full record.
// Fields are independent and computed in a single pass over the same string.
func EvaluateMobile(html string) domain.MobileSignals {
	return domain.MobileSignals{
		ViewportMeta:           viewportContent(html),
		MediaQueryCount:        len(mediaQueryRe.FindAllStringIndex(html, -1)),
		HasResponsiveFramework: frameworkRe.MatchString(html),
		FormElements: domain.FormElementCounts{
			Inputs:    len(inputRe.FindAllStringIndex(html, -1)),
			Selects:   len(selectRe.FindAllStringIndex(html, -1)),
			Textareas: len(textareaRe.FindAllStringIndex(html, -1)),
		},
		HasStickyElements: stickyRe.MatchString(html),
		Images: domain.ImageCounts{
			Total:      len(imgTagRe.FindAllStringIndex(html, -1)),
			LazyLoaded: len(lazyLoadRe.FindAllStringIndex(html, -1)),
		},
		SmallFontCount:     countSmallFonts(html),
		FixedWidthElements: len(fixedWidthRe.FindAllStringIndex(html, -1)),
		HasTelLinks:        telLinkRe.MatchString(html),
		HasMailtoLinks:     mailtoLinkRe.MatchString(html),
		HasManifest:        manifestRe.MatchString(html),
		HasAppleTouchIcon:  appleTouchIconRe.MatchString(html),
		HasThemeColor:      themeColorRe.MatchString(html),
	}
}

func viewportContent(html string) *string {
	m := viewportRe.FindStringSubmatch(html)
	if m == nil {
		return nil
	}
	return &m[1]
}

// countSmallFonts counts font-size declarations strictly below 14px.
func countSmallFonts(html string) int {
	count := 0
	for _, m := range fontSizeRe.FindAllStringSubmatch(html, -1) {
		size, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if size < smallFontThresholdPx {
			count++
		}
	}
	return count
}
