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
	linkedinBaseURL         = "https://www.linkedin.com"
	linkedinDefaultKeywords = "senior frontend developer"
	linkedinDefaultLocation = "United States"

	linkedinDescriptionPlaceholder = "Description not available"
)

// LinkedInAdapter extracts job postings from the LinkedIn public job
// search. It is specialized for senior frontend roles, so detail
// extraction uses the frontend tech vocabulary.
type LinkedInAdapter struct {
	baseAdapter
}

// NewLinkedInAdapter creates a new LinkedIn adapter
func NewLinkedInAdapter(baseURL string) *LinkedInAdapter {
	if baseURL == "" {
		baseURL = linkedinBaseURL
	}
	return &LinkedInAdapter{baseAdapter: newBaseAdapter(SourceLinkedIn, baseURL)}
}

// BuildSeedRequest builds the first listing-page request. f_E=4
// filters for senior level, sortBy=DD sorts by most recent.
func (a *LinkedInAdapter) BuildSeedRequest(keywords, location string) *helpers.Request {
	if keywords == "" {
		keywords = linkedinDefaultKeywords
	}
	if location == "" {
		location = linkedinDefaultLocation
	}

	return &helpers.Request{
		URL: fmt.Sprintf(
			"%s/jobs/search/?keywords=%s&location=%s&f_E=4&sortBy=DD",
			a.baseURL,
			url.QueryEscape(keywords),
			url.QueryEscape(location),
		),
	}
}

// ExtractListing extracts partial records from a listing page.
// LinkedIn publishes absolute ISO-8601 dates in the time element's
// datetime attribute.
func (a *LinkedInAdapter) ExtractListing(doc *goquery.Document) (*ListingPage, error) {
	page := &ListingPage{}

	doc.Find("div.base-card").Each(func(_ int, s *goquery.Selection) {
		title := firstText(s, "h3.base-search-card__title")
		href := firstAttr(s, "a.base-card__full-link", "href")
		if title == "" || href == "" {
			a.log.Debug().Msg("skipping card without title or link")
			page.Skipped++
			return
		}

		page.Partials = append(page.Partials, PartialJob{
			Title:      title,
			Company:    firstText(s, "h4.base-search-card__subtitle a"),
			Location:   firstText(s, "span.job-search-card__location"),
			URL:        a.resolveURL(href),
			Source:     a.source,
			PostedDate: ResolveDate(firstAttr(s, "time", "datetime"), time.Now()),
		})
	})

	if href := firstAttr(doc.Selection, `a[aria-label="Next"]`, "href"); href != "" {
		page.Next = &helpers.Request{URL: a.resolveURL(href)}
	}

	return page, nil
}

// ExtractDetail completes a partial record from its detail page
func (a *LinkedInAdapter) ExtractDetail(doc *goquery.Document, partial PartialJob) *JobRecord {
	description := joinedText(doc, "div.show-more-less-html__markup")
	if description == "" {
		a.log.Warn().Str("url", partial.URL).Msg("no description found")
		description = linkedinDescriptionPlaceholder
	}

	salary := a.extractSalary(doc)
	companySize, industry := a.companyInfo(doc)
	benefits := strings.Join(collectText(doc.Selection, ".jobs-benefit"), "\n")

	return &JobRecord{
		Title:             partial.Title,
		Company:           partial.Company,
		Location:          partial.Location,
		Description:       description,
		URL:               partial.URL,
		Source:            a.source,
		JobType:           "frontend",
		ExperienceLevel:   "senior",
		WorkMode:          ClassifyWorkMode(description, partial.Title),
		TechStack:         CategorizeTech(description, FrontendTechVocabulary),
		MinSalary:         salary.Min,
		MaxSalary:         salary.Max,
		Currency:          salary.Currency,
		SalaryPeriod:      salary.Period,
		VisaSponsorship:   HasVisaSponsorship(description),
		RelocationSupport: HasRelocationSupport(description),
		Benefits:          benefits,
		CompanySize:       companySize,
		Industry:          industry,
		PostedDate:        partial.PostedDate,
	}
}

// extractSalary parses the compensation insight fragments. Only
// fragments that actually talk about money are considered; the job
// insights block mixes in applicant counts and seniority text.
func (a *LinkedInAdapter) extractSalary(doc *goquery.Document) Salary {
	var fragments []string
	for _, text := range collectText(doc.Selection, ".job-details-jobs-unified-top-card__job-insight span") {
		lower := strings.ToLower(text)
		if strings.ContainsAny(text, "$€£") ||
			strings.Contains(lower, "salary") ||
			strings.Contains(lower, "compensation") {
			fragments = append(fragments, text)
		}
	}
	return ParseSalary(fragments)
}

// companyInfo extracts company size and industry from the company box
func (a *LinkedInAdapter) companyInfo(doc *goquery.Document) (companySize, industry string) {
	for _, info := range collectText(doc.Selection, ".jobs-company__box div") {
		lower := strings.ToLower(info)
		switch {
		case companySize == "" && strings.Contains(lower, "employees"):
			companySize = info
		case industry == "" && strings.Contains(lower, "industry"):
			industry = strings.TrimSpace(strings.ReplaceAll(info, "Industry", ""))
		}
	}
	return companySize, industry
}
