package scraper

import (
	"time"

	"sjsage522/jobworker/helpers"

	"github.com/PuerkitoBio/goquery"
)

// Source identifies a job listing site
type Source string

const (
	SourceJobinja   Source = "jobinja"
	SourceJobvision Source = "jobvision"
	SourceLinkedIn  Source = "linkedin"
)

// WorkMode classifies a posting's remote/hybrid/onsite nature
type WorkMode string

const (
	WorkModeFullyRemote WorkMode = "fully_remote"
	WorkModeHybrid      WorkMode = "hybrid"
	WorkModeOnsite      WorkMode = "onsite"
	WorkModeUnknown     WorkMode = "unknown"
)

// TechStack maps a fixed category name to the technology tokens found
// for it. Every category of the vocabulary is present as a key even
// when no token matched.
type TechStack map[string][]string

// Salary holds a parsed salary range. Nil bounds mean the value could
// not be extracted; no validation that Min <= Max is performed, the
// bounds are assigned positionally from the source text.
type Salary struct {
	Min      *float64
	Max      *float64
	Currency string
	Period   string
}

// PartialJob is a job record with only listing-page fields populated,
// pending detail-page completion.
type PartialJob struct {
	Title      string
	Company    string
	Location   string
	URL        string
	Source     Source
	PostedDate time.Time
}

// JobRecord is the canonical unit of output
type JobRecord struct {
	Title             string    `json:"title"`
	Company           string    `json:"company"`
	Location          string    `json:"location"`
	Description       string    `json:"description"`
	URL               string    `json:"url"`
	Source            Source    `json:"source"`
	JobType           string    `json:"job_type,omitempty"`
	ExperienceLevel   string    `json:"experience_level,omitempty"`
	WorkMode          WorkMode  `json:"work_mode"`
	TechStack         TechStack `json:"tech_stack"`
	MinSalary         *float64  `json:"min_salary,omitempty"`
	MaxSalary         *float64  `json:"max_salary,omitempty"`
	Currency          string    `json:"currency,omitempty"`
	SalaryPeriod      string    `json:"salary_period,omitempty"`
	VisaSponsorship   bool      `json:"visa_sponsorship"`
	RelocationSupport bool      `json:"relocation_support"`
	Benefits          string    `json:"benefits,omitempty"`
	CompanySize       string    `json:"company_size,omitempty"`
	Industry          string    `json:"industry,omitempty"`
	PostedDate        time.Time `json:"posted_date"`
	CreatedAt         time.Time `json:"created_at,omitempty"`
	UpdatedAt         time.Time `json:"updated_at,omitempty"`
}

// ListingPage is the result of extracting one listing page
type ListingPage struct {
	// Partials are the job cards extracted in document order
	Partials []PartialJob

	// Next is the request for the next listing page, nil when the
	// source reports no further pages
	Next *helpers.Request

	// Skipped counts cards dropped for missing mandatory fields
	Skipped int
}

// Adapter defines the contract for all source implementations
type Adapter interface {
	// Source returns the site identifier
	Source() Source

	// BuildSeedRequest builds the first listing-page request for a
	// seed query; empty keywords/location fall back to the source's
	// defaults
	BuildSeedRequest(keywords, location string) *helpers.Request

	// BuildDetailRequest builds the request for a detail page,
	// carrying whatever headers and cookies the source requires on
	// every request
	BuildDetailRequest(url string) *helpers.Request

	// ExtractListing extracts partial records and the next-page
	// request from a listing page document
	ExtractListing(doc *goquery.Document) (*ListingPage, error)

	// ExtractDetail completes a partial record from its detail page
	// document. It always returns a record; unobtainable fields are
	// resolved to documented defaults.
	ExtractDetail(doc *goquery.Document, partial PartialJob) *JobRecord
}
