package scraper

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestResolveDateRelative(t *testing.T) {
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

	testCases := []struct {
		text     string
		expected time.Time
	}{
		{"3 days ago", now.Add(-3 * 24 * time.Hour)},
		{"5 hours ago", now.Add(-5 * time.Hour)},
		{"2 weeks ago", now.Add(-14 * 24 * time.Hour)},
		{"1 month ago", now.Add(-30 * 24 * time.Hour)},
		{"۳ روز پیش", now.Add(-3 * 24 * time.Hour)},
		{"۲ هفته پیش", now.Add(-14 * 24 * time.Hour)},
		{"(4 ساعت پیش)", now.Add(-4 * time.Hour)},
		{"10 دقیقه پیش", now.Add(-10 * time.Minute)},
		{"۱ ماه پیش", now.Add(-30 * 24 * time.Hour)},
	}

	for _, tc := range testCases {
		resolved := ResolveDate(tc.text, now)
		assert.WithinDuration(t, tc.expected, resolved, time.Second, "text: %s", tc.text)
	}
}

func TestResolveDateFallsBackToNow(t *testing.T) {
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

	// Empty, unrecognized, today words, and a relative expression
	// without a digit magnitude all resolve to now
	for _, text := range []string{"", "soon", "امروز", "today", "ساعت پیش"} {
		assert.Equal(t, now, ResolveDate(text, now), "text: %q", text)
	}
}

func TestResolveDateAbsolute(t *testing.T) {
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

	resolved := ResolveDate("2024-05-01T08:30:00Z", now)
	assert.Equal(t, time.Date(2024, 5, 1, 8, 30, 0, 0, time.UTC), resolved)

	resolved = ResolveDate("2024-04-20", now)
	assert.Equal(t, time.Date(2024, 4, 20, 0, 0, 0, 0, time.UTC), resolved)
}

func TestResolveDateClampsFuture(t *testing.T) {
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

	// A posting dated after capture time is clamped to now
	resolved := ResolveDate("2024-06-01T00:00:00Z", now)
	assert.Equal(t, now, resolved)
}

func TestExtractDigits(t *testing.T) {
	testCases := []struct {
		text  string
		value int
		found bool
	}{
		{"3 days ago", 3, true},
		{"۱۲ روز پیش", 12, true},
		{"٤ أيام", 4, true},
		{"no digits here", 0, false},
	}

	for _, tc := range testCases {
		value, found := extractDigits(tc.text)
		assert.Equal(t, tc.found, found, "text: %q", tc.text)
		assert.Equal(t, tc.value, value, "text: %q", tc.text)
	}
}
