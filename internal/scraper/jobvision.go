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
	jobvisionBaseURL         = "https://jobvision.ir"
	jobvisionDefaultKeywords = "برنامه نویس"
	jobvisionDefaultLocation = "تهران"
)

// JobvisionAdapter extracts job postings from jobvision.ir
type JobvisionAdapter struct {
	baseAdapter
}

// NewJobvisionAdapter creates a new Jobvision adapter
func NewJobvisionAdapter(baseURL string) *JobvisionAdapter {
	if baseURL == "" {
		baseURL = jobvisionBaseURL
	}
	return &JobvisionAdapter{baseAdapter: newBaseAdapter(SourceJobvision, baseURL)}
}

// BuildSeedRequest builds the first listing-page request
func (a *JobvisionAdapter) BuildSeedRequest(keywords, location string) *helpers.Request {
	if keywords == "" {
		keywords = jobvisionDefaultKeywords
	}
	if location == "" {
		location = jobvisionDefaultLocation
	}

	return &helpers.Request{
		URL: fmt.Sprintf(
			"%s/jobs?keyword=%s&city=%s",
			a.baseURL,
			url.QueryEscape(keywords),
			url.QueryEscape(location),
		),
	}
}

// ExtractListing extracts partial records from a listing page
func (a *JobvisionAdapter) ExtractListing(doc *goquery.Document) (*ListingPage, error) {
	page := &ListingPage{}

	doc.Find("div.job-card").Each(func(_ int, s *goquery.Selection) {
		title := firstText(s, "h2.job-card__title")
		href := firstAttr(s, "a.job-card__link", "href")
		if title == "" || href == "" {
			a.log.Debug().Msg("skipping card without title or link")
			page.Skipped++
			return
		}

		page.Partials = append(page.Partials, PartialJob{
			Title:      title,
			Company:    firstText(s, "span.job-card__company"),
			Location:   firstText(s, "span.job-card__location"),
			URL:        a.resolveURL(href),
			Source:     a.source,
			PostedDate: ResolveDate(firstText(s, "span.job-card__date"), time.Now()),
		})
	})

	if href := firstAttr(doc.Selection, "a.pagination__next", "href"); href != "" {
		page.Next = &helpers.Request{URL: a.resolveURL(href)}
	}

	return page, nil
}

// ExtractDetail completes a partial record from its detail page
func (a *JobvisionAdapter) ExtractDetail(doc *goquery.Document, partial PartialJob) *JobRecord {
	description := joinedText(doc, "div.job-detail__description")
	if description == "" {
		a.log.Warn().Str("url", partial.URL).Msg("no description found")
		description = persianDescriptionPlaceholder
	}

	fragments := collectText(doc.Selection, "div.job-detail__salary")
	salary := ParseSalary(fragments)
	if len(fragments) > 0 {
		if salary.Currency == "" {
			salary.Currency = "IRR"
		}
		if salary.Period == "" {
			salary.Period = "monthly"
		}
	}

	companySize, industry := a.companyInfo(doc)

	return &JobRecord{
		Title:             partial.Title,
		Company:           partial.Company,
		Location:          partial.Location,
		Description:       description,
		URL:               partial.URL,
		Source:            a.source,
		WorkMode:          ClassifyWorkMode(description, partial.Title),
		TechStack:         CategorizeTech(description, GeneralTechVocabulary),
		MinSalary:         salary.Min,
		MaxSalary:         salary.Max,
		Currency:          salary.Currency,
		SalaryPeriod:      salary.Period,
		VisaSponsorship:   HasVisaSponsorship(description),
		RelocationSupport: HasRelocationSupport(description),
		CompanySize:       companySize,
		Industry:          industry,
		PostedDate:        partial.PostedDate,
	}
}

// companyInfo extracts company size and industry from the company
// details box. "نفر" marks a headcount line, "صنعت" an industry line.
func (a *JobvisionAdapter) companyInfo(doc *goquery.Document) (companySize, industry string) {
	for _, info := range collectText(doc.Selection, "div.company-info__details") {
		switch {
		case companySize == "" && strings.Contains(info, "نفر"):
			companySize = info
		case industry == "" && strings.Contains(info, "صنعت"):
			industry = strings.TrimSpace(strings.ReplaceAll(info, "صنعت:", ""))
		}
	}
	return companySize, industry
}
