package signals

import (
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"pageaudit/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractHeaders(t *testing.T) {
	tests := []struct {
		name     string
		markdown string
		want     []domain.Header
	}{
		{
			name:     "levels one to three",
			markdown: "# A\n## B\n### C",
			want: []domain.Header{
				{Level: 1, Text: "A"},
				{Level: 2, Text: "B"},
				{Level: 3, Text: "C"},
			},
		},
		{
			name:     "level four is dropped",
			markdown: "# A\n## B\n#### C\n### D",
			want: []domain.Header{
				{Level: 1, Text: "A"},
				{Level: 2, Text: "B"},
				{Level: 3, Text: "D"},
			},
		},
		{
			name:     "duplicates preserved in order",
			markdown: "# Pricing\nbody\n# Pricing",
			want: []domain.Header{
				{Level: 1, Text: "Pricing"},
				{Level: 1, Text: "Pricing"},
			},
		},
		{
			name:     "hash without space is not a header",
			markdown: "#nospace\n#  padded text  ",
			want: []domain.Header{
				{Level: 1, Text: "padded text"},
			},
		},
		{
			name:     "windows line endings",
			markdown: "# First\r\n## Second\r\n",
			want: []domain.Header{
				{Level: 1, Text: "First"},
				{Level: 2, Text: "Second"},
			},
		},
		{
			name:     "empty input",
			markdown: "",
			want:     []domain.Header{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sig := Extract(tt.markdown, "", domain.PageMetadata{})
			assert.Equal(t, tt.want, sig.Headers)
		})
	}
}

func TestExtractCTACandidates(t *testing.T) {
	tests := []struct {
		name     string
		markdown string
		html     string
		want     []string
	}{
		{
			name:     "markdown action words",
			markdown: "[Start Free Trial](/signup) and [About Us](/about) and [Get a Demo](/demo)",
			want:     []string{"Start Free Trial", "Get a Demo"},
		},
		{
			name:     "action word match is case insensitive",
			markdown: "[DOWNLOAD NOW](/dl)",
			want:     []string{"DOWNLOAD NOW"},
		},
		{
			name:     "html buttons appended after markdown",
			markdown: "[Try it free](/try)",
			html:     `<button>Subscribe</button><a href="/x">Read more</a>`,
			want:     []string{"Try it free", "Subscribe", "Read more"},
		},
		{
			name:     "html duplicates are skipped case-sensitively",
			markdown: "[Sign up today](/s)",
			html:     `<button>Sign up today</button><button>sign up today</button>`,
			want:     []string{"Sign up today", "sign up today"},
		},
		{
			name:     "html text outside 2-50 chars is ignored",
			markdown: "",
			html:     `<a href="/a">X</a><button>` + strings.Repeat("very long call to action ", 4) + `</button><button>Go now</button>`,
			want:     []string{"Go now"},
		},
		{
			name:     "html whitespace is collapsed",
			markdown: "",
			html:     "<button>  Book\n  a   call  </button>",
			want:     []string{"Book a call"},
		},
		{
			name:     "empty input yields empty list",
			markdown: "",
			html:     "",
			want:     []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sig := Extract(tt.markdown, tt.html, domain.PageMetadata{})
			assert.Equal(t, tt.want, sig.CTACandidates)
		})
	}
}

func TestExtractCTACandidates_CapAndUniqueness(t *testing.T) {
	// Far more than 20 candidates across both passes.
	var md strings.Builder
	var html strings.Builder
	for i := 0; i < 30; i++ {
		fmt.Fprintf(&md, "[Get offer %d](/o%d)\n", i, i)
		fmt.Fprintf(&html, "<button>Buy bundle %d</button>", i)
	}
	// Repeat every markdown label once more; duplicates must not count.
	mdWithDupes := md.String() + md.String()

	sig := Extract(mdWithDupes, html.String(), domain.PageMetadata{})

	require.Len(t, sig.CTACandidates, 20)
	seen := make(map[string]bool)
	for _, c := range sig.CTACandidates {
		assert.False(t, seen[c], "duplicate candidate %q", c)
		seen[c] = true
	}
	// Pass-1 results come first.
	assert.Equal(t, "Get offer 0", sig.CTACandidates[0])
}

func TestExtractBodyExcerptLength(t *testing.T) {
	tests := []struct {
		name     string
		markdown string
		wantLen  int
	}{
		{"empty", "", 0},
		{"short", "hello world", 11},
		{"exactly at limit", strings.Repeat("a", 5000), 5000},
		{"over limit", strings.Repeat("b", 12000), 5000},
		{"multibyte runes", strings.Repeat("ü", 6000), 5000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sig := Extract(tt.markdown, "", domain.PageMetadata{})
			assert.Equal(t, tt.wantLen, utf8.RuneCountInString(sig.BodyTextExcerpt))
			assert.True(t, strings.HasPrefix(tt.markdown, sig.BodyTextExcerpt))
		})
	}
}

func TestExtractMetadataPassthrough(t *testing.T) {
	meta := domain.PageMetadata{
		Title:         "Acme Landing",
		Description:   "The fastest widgets",
		OGTitle:       "Acme",
		OGDescription: "Widgets for all",
		OGImage:       "https://acme.test/og.png",
	}

	sig := Extract("# Acme", "<html></html>", meta)

	assert.Equal(t, "Acme Landing", sig.Title)
	assert.Equal(t, "The fastest widgets", sig.MetaDescription)
	assert.Equal(t, domain.OGTags{
		Title:       "Acme",
		Description: "Widgets for all",
		Image:       "https://acme.test/og.png",
	}, sig.OGTags)
}

func TestExtractToleratesEmptyInput(t *testing.T) {
	sig := Extract("", "", domain.PageMetadata{})

	assert.Empty(t, sig.Title)
	assert.Empty(t, sig.Headers)
	assert.Empty(t, sig.BodyTextExcerpt)
	assert.Empty(t, sig.CTACandidates)
	assert.Empty(t, sig.MetaDescription)
	assert.Nil(t, sig.Mobile.ViewportMeta)
}
