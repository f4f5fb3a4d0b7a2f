package scraper

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

const jobinjaListingHTML = `
<html>
<body>
<div class="o-listView__itemWrap c-jobListView__itemWrap">
  <div class="o-listView__itemInfo">
    <h2 class="o-listView__itemTitle">
      <a class="c-jobListView__titleLink" href="/jobs/12345/backend-developer">برنامه نویس Backend</a>
    </h2>
    <ul>
      <li class="c-jobListView__metaItem"><span>شرکت نمونه</span></li>
      <li class="c-jobListView__metaItem"><span>تهران، ونک</span></li>
    </ul>
    <span class="c-jobListView__passedDays">(۲ روز پیش)</span>
  </div>
</div>
<div class="o-listView__itemWrap c-jobListView__itemWrap">
  <div class="o-listView__itemInfo">
    <h2 class="o-listView__itemTitle"></h2>
    <span class="c-jobListView__passedDays">(۱ روز پیش)</span>
  </div>
</div>
<a class="c-pagination__next" href="/jobs?page=2"></a>
</body>
</html>
`

const jobinjaDetailHTML = `
<html>
<body>
<div class="c-jobView__metaItem"><h4>نوع همکاری</h4><span>تمام وقت</span></div>
<div class="c-jobView__metaItem"><h4>سابقه</h4><span>سه سال</span></div>
<div class="c-jobView__metaItem"><h4>حقوق</h4><span>از ۱۵,۰۰۰,۰۰۰ تا ۲۰,۰۰۰,۰۰۰ تومان</span></div>
<div class="o-box__text">
  <p>ما به دنبال برنامه نویس Python با تجربه Django و PostgreSQL هستیم.</p>
  <p>امکان دورکاری وجود دارد.</p>
</div>
</body>
</html>
`

func TestJobinjaBuildSeedRequest(t *testing.T) {
	adapter := NewJobinjaAdapter("")

	req := adapter.BuildSeedRequest("python", "تهران")

	assert.Contains(t, req.URL, "https://jobinja.ir/jobs")
	assert.Contains(t, req.URL, "q=python")
	assert.Equal(t, "fa", req.Cookies["locale"])
	assert.Equal(t, "IR", req.Cookies["country"])
	assert.Contains(t, req.Headers["Accept-Language"], "fa-IR")
}

func TestJobinjaBuildSeedRequestDefaults(t *testing.T) {
	adapter := NewJobinjaAdapter("")

	req := adapter.BuildSeedRequest("", "")

	assert.Contains(t, req.URL, "q=%D8%A8%D8%B1%D9%86%D8%A7%D9%85%D9%87+%D9%86%D9%88%DB%8C%D8%B3")
}

func TestJobinjaExtractListing(t *testing.T) {
	adapter := NewJobinjaAdapter("")

	doc, err := NewDocument(strings.NewReader(jobinjaListingHTML))
	assert.NoError(t, err)

	page, err := adapter.ExtractListing(doc)
	assert.NoError(t, err)

	// The second card has no title link and is skipped
	assert.Len(t, page.Partials, 1)
	assert.Equal(t, 1, page.Skipped)

	partial := page.Partials[0]
	assert.Equal(t, "برنامه نویس Backend", partial.Title)
	assert.Equal(t, "شرکت نمونه", partial.Company)
	assert.Equal(t, "تهران، ونک", partial.Location)
	assert.Equal(t, "https://jobinja.ir/jobs/12345/backend-developer", partial.URL)
	assert.Equal(t, SourceJobinja, partial.Source)
	assert.WithinDuration(t, time.Now().Add(-2*24*time.Hour), partial.PostedDate, 5*time.Second)

	assert.NotNil(t, page.Next)
	assert.Equal(t, "https://jobinja.ir/jobs?page=2", page.Next.URL)
	// Follow-up pages need the same browser headers and locale cookies
	// as the seed, or the site serves its challenge page
	assert.Contains(t, page.Next.Headers["Accept-Language"], "fa-IR")
	assert.Equal(t, "fa", page.Next.Cookies["locale"])
	assert.Equal(t, "IR", page.Next.Cookies["country"])
}

func TestJobinjaBuildDetailRequest(t *testing.T) {
	adapter := NewJobinjaAdapter("")

	req := adapter.BuildDetailRequest("https://jobinja.ir/jobs/12345/backend-developer")

	assert.Equal(t, "https://jobinja.ir/jobs/12345/backend-developer", req.URL)
	assert.Contains(t, req.Headers["Accept-Language"], "fa-IR")
	assert.Equal(t, "fa", req.Cookies["locale"])
	assert.Equal(t, "IR", req.Cookies["country"])
}

func TestJobinjaExtractDetail(t *testing.T) {
	adapter := NewJobinjaAdapter("")

	doc, err := NewDocument(strings.NewReader(jobinjaDetailHTML))
	assert.NoError(t, err)

	partial := PartialJob{
		Title:      "برنامه نویس Backend",
		Company:    "شرکت نمونه",
		Location:   "تهران",
		URL:        "https://jobinja.ir/jobs/12345/backend-developer",
		Source:     SourceJobinja,
		PostedDate: time.Date(2024, 5, 8, 0, 0, 0, 0, time.UTC),
	}

	record := adapter.ExtractDetail(doc, partial)

	assert.Equal(t, partial.Title, record.Title)
	assert.Equal(t, partial.URL, record.URL)
	assert.Equal(t, "تمام وقت", record.JobType)
	assert.Equal(t, "سه سال", record.ExperienceLevel)
	assert.Contains(t, record.Description, "Python")
	assert.Contains(t, record.TechStack["languages"], "python")
	assert.Contains(t, record.TechStack["frameworks"], "django")
	assert.Contains(t, record.TechStack["databases"], "postgresql")
	assert.Equal(t, WorkModeFullyRemote, record.WorkMode)
	assert.Equal(t, partial.PostedDate, record.PostedDate)

	assert.NotNil(t, record.MinSalary)
	assert.NotNil(t, record.MaxSalary)
	assert.Equal(t, float64(15000000), *record.MinSalary)
	assert.Equal(t, float64(20000000), *record.MaxSalary)
	assert.Equal(t, "IRR", record.Currency)
	assert.Equal(t, "monthly", record.SalaryPeriod)
}

func TestJobinjaExtractDetailEmptyDocument(t *testing.T) {
	adapter := NewJobinjaAdapter("")

	doc, err := NewDocument(strings.NewReader(""))
	assert.NoError(t, err)

	partial := PartialJob{
		Title:      "برنامه نویس",
		Company:    "شرکت",
		Location:   "تهران",
		URL:        "https://jobinja.ir/jobs/1/x",
		Source:     SourceJobinja,
		PostedDate: time.Now(),
	}

	record := adapter.ExtractDetail(doc, partial)

	// Listing fields survive; everything else degrades to defaults
	assert.Equal(t, partial.Title, record.Title)
	assert.Equal(t, persianDescriptionPlaceholder, record.Description)
	assert.Nil(t, record.MinSalary)
	assert.Nil(t, record.MaxSalary)
	assert.Empty(t, record.Currency)
	assert.False(t, record.VisaSponsorship)
	assert.False(t, record.RelocationSupport)
}
