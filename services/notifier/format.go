package notifier

import (
	"fmt"
	"html"
	"sort"
	"strconv"
	"strings"

	"sjsage522/jobworker/internal/scraper"
)

const notSpecified = "Not specified"

// FormatJobMessage formats a job record into a Telegram HTML message
func FormatJobMessage(job *scraper.JobRecord) string {
	var b strings.Builder

	b.WriteString("🔍 <b>New Job Found!</b>\n\n")
	fmt.Fprintf(&b, "📋 <b>Title:</b> %s\n", html.EscapeString(job.Title))
	fmt.Fprintf(&b, "🏢 <b>Company:</b> %s\n", html.EscapeString(job.Company))
	fmt.Fprintf(&b, "📍 <b>Location:</b> %s\n", html.EscapeString(job.Location))

	if job.JobType != "" {
		fmt.Fprintf(&b, "💼 <b>Employment Type:</b> %s\n", html.EscapeString(job.JobType))
	}
	if job.ExperienceLevel != "" {
		fmt.Fprintf(&b, "⭐ <b>Experience:</b> %s\n", html.EscapeString(job.ExperienceLevel))
	}
	if job.WorkMode != "" && job.WorkMode != scraper.WorkModeUnknown {
		fmt.Fprintf(&b, "🏠 <b>Work Mode:</b> %s\n", workModeLabel(job.WorkMode))
	}
	if salary := FormatSalary(job); salary != notSpecified {
		fmt.Fprintf(&b, "💰 <b>Salary:</b> %s\n", html.EscapeString(salary))
	}
	for _, line := range techStackLines(job.TechStack) {
		fmt.Fprintf(&b, "🔧 <b>%s:</b> %s\n", html.EscapeString(line.category), html.EscapeString(line.tokens))
	}
	if !job.PostedDate.IsZero() {
		fmt.Fprintf(&b, "📅 <b>Posted:</b> %s\n", job.PostedDate.Format("2006-01-02"))
	}

	fmt.Fprintf(&b, "\n🔗 <b>Apply here:</b> %s", html.EscapeString(job.URL))
	return b.String()
}

// FormatSalary renders the salary range for display
func FormatSalary(job *scraper.JobRecord) string {
	if job.MinSalary == nil && job.MaxSalary == nil {
		return notSpecified
	}

	var parts []string
	if job.MinSalary != nil {
		parts = append(parts, strings.TrimSpace(job.Currency+" "+groupDigits(*job.MinSalary)))
	}
	if job.MaxSalary != nil {
		parts = append(parts, strings.TrimSpace(job.Currency+" "+groupDigits(*job.MaxSalary)))
	}

	salary := strings.Join(parts, " - ")
	if job.SalaryPeriod != "" {
		salary += " per " + job.SalaryPeriod
	}
	return salary
}

// FormatTechStack renders the tech stack by category, one category per
// line, in alphabetical order for deterministic output
func FormatTechStack(techStack scraper.TechStack) string {
	lines := techStackLines(techStack)
	if len(lines) == 0 {
		return notSpecified
	}

	var out []string
	for _, line := range lines {
		out = append(out, line.category+": "+line.tokens)
	}
	return strings.Join(out, "\n")
}

type techStackLine struct {
	category string
	tokens   string
}

func techStackLines(techStack scraper.TechStack) []techStackLine {
	categories := make([]string, 0, len(techStack))
	for category, tokens := range techStack {
		if len(tokens) > 0 {
			categories = append(categories, category)
		}
	}
	sort.Strings(categories)

	var lines []techStackLine
	for _, category := range categories {
		lines = append(lines, techStackLine{
			category: titleCase(category),
			tokens:   strings.Join(techStack[category], ", "),
		})
	}
	return lines
}

func workModeLabel(mode scraper.WorkMode) string {
	return titleCase(strings.ReplaceAll(string(mode), "_", " "))
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// groupDigits formats a number with thousands separators and no
// decimal places
func groupDigits(v float64) string {
	s := strconv.FormatFloat(v, 'f', 0, 64)
	negative := strings.HasPrefix(s, "-")
	if negative {
		s = s[1:]
	}

	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteRune(',')
		}
		b.WriteRune(r)
	}
	if negative {
		return "-" + b.String()
	}
	return b.String()
}
