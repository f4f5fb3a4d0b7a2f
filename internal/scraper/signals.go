package scraper

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// GeneralTechVocabulary is the category→token table used by the
// general-purpose sources. Matching is lower-cased substring matching
// with no word-boundary requirement; recall is deliberately favored
// over precision.
var GeneralTechVocabulary = map[string][]string{
	"frameworks": {"django", "flask", "fastapi", "laravel", "spring", "react", "vue", "angular"},
	"languages":  {"python", "php", "java", "javascript", "typescript", "go", "rust"},
	"databases":  {"mysql", "postgresql", "mongodb", "redis", "elasticsearch"},
	"tools":      {"docker", "kubernetes", "git", "linux", "aws", "azure"},
}

// FrontendTechVocabulary is the table used by frontend-specialized
// sources.
var FrontendTechVocabulary = map[string][]string{
	"frameworks": {"react", "vue", "angular", "next.js", "nuxt", "svelte"},
	"languages":  {"javascript", "typescript", "html", "css"},
	"tools":      {"webpack", "vite", "babel", "eslint", "jest", "cypress"},
	"styling":    {"sass", "less", "tailwind", "styled-components", "css-in-js"},
	"state":      {"redux", "mobx", "zustand", "recoil", "vuex", "pinia"},
}

// workModeIndicators is tested in order; the first mode whose
// indicator is found anywhere in the description or title wins.
var workModeIndicators = []struct {
	mode       WorkMode
	indicators []string
}{
	{WorkModeFullyRemote, []string{"fully remote", "100% remote", "remote-first", "دورکاری", "ریموت"}},
	{WorkModeHybrid, []string{"hybrid", "flexible", "partially remote", "هیبرید", "ترکیبی"}},
	{WorkModeOnsite, []string{"on-site", "in office", "onsite", "حضوری"}},
}

var visaKeywords = []string{
	"visa sponsorship",
	"visa sponsor",
	"will sponsor",
	"willing to sponsor",
	"h1b",
	"h-1b",
	"work permit",
	"work authorization",
	"immigration",
}

var relocationKeywords = []string{
	"relocation",
	"relocation assistance",
	"relocation package",
	"relocation support",
	"moving allowance",
	"moving bonus",
	"moving assistance",
}

var currencySymbols = []struct {
	symbol string
	code   string
}{
	{"$", "USD"},
	{"€", "EUR"},
	{"£", "GBP"},
	{"تومان", "IRR"},
	{"ریال", "IRR"},
}

var periodWords = []struct {
	word   string
	period string
}{
	{"year", "yearly"},
	{"month", "monthly"},
	{"hour", "hourly"},
	{"ماه", "monthly"},
	{"ساعت", "hourly"},
}

var numberTokenRegex = regexp.MustCompile(`[\d,]+\.?\d*`)

// normalizeText NFC-normalizes text and lowercases it for matching.
// Persian sources mix composed and decomposed forms of the same
// characters, which breaks naive substring matching.
func normalizeText(text string) string {
	return strings.ToLower(norm.NFC.String(text))
}

// CategorizeTech detects technologies mentioned in a description.
// Every category of the vocabulary is present in the result, with an
// empty token list when nothing matched.
func CategorizeTech(text string, vocabulary map[string][]string) TechStack {
	found := make(TechStack, len(vocabulary))
	lower := normalizeText(text)

	for category, technologies := range vocabulary {
		tokens := []string{}
		for _, tech := range technologies {
			if strings.Contains(lower, tech) {
				tokens = append(tokens, tech)
			}
		}
		found[category] = tokens
	}

	return found
}

// ParseSalary extracts a salary range from text fragments. The first
// two number-like tokens are assigned positionally as min then max;
// whether an inverted range should be corrected is ambiguous from the
// sources, so it is preserved as-is. Fewer than two tokens leave both
// bounds nil. Currency and period are inferred from symbols and unit
// words present in the same fragments.
func ParseSalary(fragments []string) Salary {
	var info Salary
	if len(fragments) == 0 {
		return info
	}

	text := asciiDigits(strings.Join(fragments, " "))
	numbers := numberTokenRegex.FindAllString(text, -1)

	if len(numbers) >= 2 {
		if v, err := strconv.ParseFloat(strings.ReplaceAll(numbers[0], ",", ""), 64); err == nil {
			info.Min = &v
		}
		if v, err := strconv.ParseFloat(strings.ReplaceAll(numbers[1], ",", ""), 64); err == nil {
			info.Max = &v
		}
	}

	lower := normalizeText(text)
	for _, cs := range currencySymbols {
		if strings.Contains(lower, strings.ToLower(cs.symbol)) {
			info.Currency = cs.code
			break
		}
	}
	for _, pw := range periodWords {
		if strings.Contains(lower, pw.word) {
			info.Period = pw.period
			break
		}
	}

	return info
}

// ClassifyWorkMode classifies a posting from its description and
// title. Table order is the tie-break; default is unknown.
func ClassifyWorkMode(description, title string) WorkMode {
	desc := normalizeText(description)
	ttl := normalizeText(title)

	for _, wm := range workModeIndicators {
		for _, indicator := range wm.indicators {
			if strings.Contains(desc, indicator) || strings.Contains(ttl, indicator) {
				return wm.mode
			}
		}
	}
	return WorkModeUnknown
}

// HasVisaSponsorship reports whether the text mentions visa
// sponsorship. Plain keyword presence, no negation handling: a
// description saying "no visa sponsorship" still matches. That is the
// documented behavior of the detectors, not a bug to fix silently.
func HasVisaSponsorship(text string) bool {
	return containsAny(text, visaKeywords)
}

// HasRelocationSupport reports whether the text mentions relocation
// support. Same no-negation caveat as HasVisaSponsorship.
func HasRelocationSupport(text string) bool {
	return containsAny(text, relocationKeywords)
}

func containsAny(text string, keywords []string) bool {
	lower := normalizeText(text)
	for _, keyword := range keywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}

// asciiDigits rewrites Persian and Arabic-Indic digits as ASCII so
// that numeric tokens can be extracted uniformly.
func asciiDigits(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		switch {
		case r >= '۰' && r <= '۹':
			b.WriteRune('0' + (r - '۰'))
		case r >= '٠' && r <= '٩':
			b.WriteRune('0' + (r - '٠'))
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
