package scraper

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"sjsage522/jobworker/helpers"

	"github.com/PuerkitoBio/goquery"
)

const (
	jobinjaBaseURL         = "https://jobinja.ir"
	jobinjaDefaultKeywords = "برنامه نویس"
	jobinjaDefaultLocation = "تهران"

	// Shown instead of a null description so downstream formatting
	// always has a displayable string. Shared by the Persian sources.
	persianDescriptionPlaceholder = "توضیحات در دسترس نیست"
)

// JobinjaAdapter extracts job postings from jobinja.ir
type JobinjaAdapter struct {
	baseAdapter
}

// NewJobinjaAdapter creates a new Jobinja adapter
func NewJobinjaAdapter(baseURL string) *JobinjaAdapter {
	if baseURL == "" {
		baseURL = jobinjaBaseURL
	}
	return &JobinjaAdapter{baseAdapter: newBaseAdapter(SourceJobinja, baseURL)}
}

// BuildSeedRequest builds the first listing-page request. Jobinja
// serves a challenge page to clients without browser-like headers and
// locale cookies, so every request carries them.
func (a *JobinjaAdapter) BuildSeedRequest(keywords, location string) *helpers.Request {
	if keywords == "" {
		keywords = jobinjaDefaultKeywords
	}
	if location == "" {
		location = jobinjaDefaultLocation
	}

	seedURL := fmt.Sprintf(
		"%s/jobs?&filters[locations][0]=%s&q=%s",
		a.baseURL,
		url.QueryEscape(location),
		url.QueryEscape(keywords),
	)

	return &helpers.Request{
		URL:     seedURL,
		Headers: a.requestHeaders(),
		Cookies: a.requestCookies(),
	}
}

// BuildDetailRequest builds a detail-page request. The challenge page
// is served on any request missing the browser headers and locale
// cookies, so detail fetches carry them too.
func (a *JobinjaAdapter) BuildDetailRequest(url string) *helpers.Request {
	return &helpers.Request{
		URL:     url,
		Headers: a.requestHeaders(),
		Cookies: a.requestCookies(),
	}
}

func (a *JobinjaAdapter) requestHeaders() map[string]string {
	return map[string]string{
		"Accept-Language": "fa-IR,fa;q=0.9,en-US;q=0.8,en;q=0.7",
		"Cache-Control":   "no-cache",
		"Referer":         a.baseURL + "/",
		"Sec-Fetch-Dest":  "document",
		"Sec-Fetch-Mode":  "navigate",
		"Sec-Fetch-Site":  "none",
		"Sec-Fetch-User":  "?1",
	}
}

func (a *JobinjaAdapter) requestCookies() map[string]string {
	return map[string]string{
		"locale":  "fa",
		"country": "IR",
	}
}

// ExtractListing extracts partial records from a listing page
func (a *JobinjaAdapter) ExtractListing(doc *goquery.Document) (*ListingPage, error) {
	page := &ListingPage{}

	items := doc.Find("div.o-listView__itemWrap.c-jobListView__itemWrap")
	items.Each(func(_ int, s *goquery.Selection) {
		info := s.Find("div.o-listView__itemInfo")

		title := firstText(info, "h2.o-listView__itemTitle a.c-jobListView__titleLink")
		href := firstAttr(info, "h2.o-listView__itemTitle a.c-jobListView__titleLink", "href")
		if title == "" || href == "" {
			a.log.Debug().Msg("skipping card without title or link")
			page.Skipped++
			return
		}

		company := firstText(info, ".c-jobListView__metaItem span")
		location := a.pickLocation(collectText(info, ".c-jobListView__metaItem span"))
		postedAt := firstText(info, "span.c-jobListView__passedDays")

		page.Partials = append(page.Partials, PartialJob{
			Title:      title,
			Company:    company,
			Location:   location,
			URL:        a.resolveURL(href),
			Source:     a.source,
			PostedDate: ResolveDate(postedAt, time.Now()),
		})
	})

	if href := firstAttr(doc.Selection, `a.c-pagination__next, a[rel="next"]`, "href"); href != "" {
		page.Next = &helpers.Request{
			URL:     a.resolveURL(href),
			Headers: a.requestHeaders(),
			Cookies: a.requestCookies(),
		}
	}

	return page, nil
}

// pickLocation returns the first meta span that looks like a city
// name, falling back to the default location.
func (a *JobinjaAdapter) pickLocation(candidates []string) string {
	for _, c := range candidates {
		if strings.Contains(c, "تهران") || strings.Contains(c, "مشهد") {
			return c
		}
	}
	return jobinjaDefaultLocation
}

// ExtractDetail completes a partial record from its detail page.
// Missing optional fields degrade to defaults; the record is always
// returned.
func (a *JobinjaAdapter) ExtractDetail(doc *goquery.Document, partial PartialJob) *JobRecord {
	description := joinedText(doc,
		"div.o-box__text",
		"div.s-jobDesc",
		".c-jobView__description",
		".o-box.c-jobView__section",
	)
	if description == "" {
		a.log.Warn().Str("url", partial.URL).Msg("no description found")
		description = persianDescriptionPlaceholder
	}

	salaryText := metaValue(doc, "div.c-jobView__metaItem", "حقوق", "span")
	var fragments []string
	if salaryText != "" {
		fragments = append(fragments, salaryText)
	}
	salary := ParseSalary(fragments)
	if salaryText != "" {
		// Jobinja lists salaries in local currency on a monthly basis
		// without spelling either out
		if salary.Currency == "" {
			salary.Currency = "IRR"
		}
		if salary.Period == "" {
			salary.Period = "monthly"
		}
	}

	return &JobRecord{
		Title:             partial.Title,
		Company:           partial.Company,
		Location:          partial.Location,
		Description:       description,
		URL:               partial.URL,
		Source:            a.source,
		JobType:           metaValue(doc, "div.c-jobView__metaItem", "نوع همکاری", "span"),
		ExperienceLevel:   metaValue(doc, "div.c-jobView__metaItem", "سابقه", "span"),
		Industry:          metaValue(doc, "div.c-jobView__metaItem", "دسته‌بندی", "a"),
		WorkMode:          ClassifyWorkMode(description, partial.Title),
		TechStack:         CategorizeTech(description, GeneralTechVocabulary),
		MinSalary:         salary.Min,
		MaxSalary:         salary.Max,
		Currency:          salary.Currency,
		SalaryPeriod:      salary.Period,
		VisaSponsorship:   HasVisaSponsorship(description),
		RelocationSupport: HasRelocationSupport(description),
		PostedDate:        partial.PostedDate,
	}
}
