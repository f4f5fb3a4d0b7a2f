package scraper

import (
	"strings"
	"time"

	"sjsage522/jobworker/logger"
)

// relativeUnits maps locale-specific unit words to their duration.
// Order matters: more specific words must come before shorter ones.
// A month is approximated as 30 days, matching the source sites'
// coarse "N ماه پیش" granularity.
var relativeUnits = []struct {
	words []string
	unit  time.Duration
}{
	{[]string{"دقیقه پیش", "minute"}, time.Minute},
	{[]string{"ساعت پیش", "hour"}, time.Hour},
	{[]string{"هفته پیش", "week"}, 7 * 24 * time.Hour},
	{[]string{"روز پیش", "day"}, 24 * time.Hour},
	{[]string{"ماه پیش", "month"}, 30 * 24 * time.Hour},
}

var todayWords = []string{"امروز", "today"}

// Absolute layouts seen in the wild; LinkedIn publishes ISO-8601 in
// the <time datetime> attribute.
var absoluteLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ResolveDate converts a relative or absolute date expression into an
// absolute timestamp. Unrecognized or empty text resolves to now and
// is logged as a downgrade, never a hard failure. A resolved timestamp
// after now is clamped to now.
func ResolveDate(text string, now time.Time) time.Time {
	text = strings.Trim(text, "() \n\t")
	if text == "" {
		return now
	}

	for _, layout := range absoluteLayouts {
		if ts, err := time.Parse(layout, text); err == nil {
			if ts.After(now) {
				logger.Debug("clamping future date %q to now", text)
				return now
			}
			return ts
		}
	}

	for _, word := range todayWords {
		if strings.Contains(text, word) {
			return now
		}
	}

	for _, ru := range relativeUnits {
		for _, word := range ru.words {
			if !strings.Contains(text, word) {
				continue
			}
			magnitude, ok := extractDigits(text)
			if !ok {
				logger.Debug("no magnitude in relative date %q, using now", text)
				return now
			}
			resolved := now.Add(-time.Duration(magnitude) * ru.unit)
			if resolved.After(now) {
				return now
			}
			return resolved
		}
	}

	logger.Debug("unrecognized date expression %q, using now", text)
	return now
}

// extractDigits collects every digit rune in the text into a single
// integer, accepting ASCII, Persian and Arabic-Indic digits.
func extractDigits(text string) (int, bool) {
	value := 0
	found := false
	for _, r := range text {
		var d int
		switch {
		case r >= '0' && r <= '9':
			d = int(r - '0')
		case r >= '۰' && r <= '۹': // Persian digits
			d = int(r - '۰')
		case r >= '٠' && r <= '٩': // Arabic-Indic digits
			d = int(r - '٠')
		default:
			continue
		}
		value = value*10 + d
		found = true
	}
	return value, found
}
