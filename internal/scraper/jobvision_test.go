package scraper

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

const jobvisionListingHTML = `
<html>
<body>
<div class="job-card">
  <h2 class="job-card__title">توسعه دهنده PHP</h2>
  <span class="job-card__company">فناوری آریا</span>
  <span class="job-card__location">تهران</span>
  <span class="job-card__date">۳ روز پیش</span>
  <a class="job-card__link" href="/jobs/987/php-developer"></a>
</div>
<div class="job-card">
  <h2 class="job-card__title">مهندس DevOps</h2>
  <span class="job-card__company">ابر سپهر</span>
</div>
<a class="pagination__next" href="/jobs?keyword=x&page=2"></a>
</body>
</html>
`

const jobvisionDetailHTML = `
<html>
<body>
<div class="job-detail__description">
  <p>توسعه دهنده Laravel با تسلط به PHP و MySQL. همکاری به صورت هیبرید.</p>
</div>
<div class="job-detail__salary">حقوق ۱۲,۰۰۰,۰۰۰ تا ۱۸,۰۰۰,۰۰۰ تومان</div>
<div class="company-info__details">۵۱ تا ۲۰۰ نفر</div>
<div class="company-info__details">صنعت: فناوری اطلاعات</div>
</body>
</html>
`

func TestJobvisionBuildSeedRequest(t *testing.T) {
	adapter := NewJobvisionAdapter("")

	req := adapter.BuildSeedRequest("laravel", "اصفهان")

	assert.Contains(t, req.URL, "https://jobvision.ir/jobs")
	assert.Contains(t, req.URL, "keyword=laravel")
}

func TestJobvisionExtractListing(t *testing.T) {
	adapter := NewJobvisionAdapter("")

	doc, err := NewDocument(strings.NewReader(jobvisionListingHTML))
	assert.NoError(t, err)

	page, err := adapter.ExtractListing(doc)
	assert.NoError(t, err)

	// The second card has no link and is skipped
	assert.Len(t, page.Partials, 1)
	assert.Equal(t, 1, page.Skipped)

	partial := page.Partials[0]
	assert.Equal(t, "توسعه دهنده PHP", partial.Title)
	assert.Equal(t, "فناوری آریا", partial.Company)
	assert.Equal(t, "تهران", partial.Location)
	assert.Equal(t, "https://jobvision.ir/jobs/987/php-developer", partial.URL)
	assert.Equal(t, SourceJobvision, partial.Source)
	assert.WithinDuration(t, time.Now().Add(-3*24*time.Hour), partial.PostedDate, 5*time.Second)

	assert.NotNil(t, page.Next)
	assert.Equal(t, "https://jobvision.ir/jobs?keyword=x&page=2", page.Next.URL)
}

func TestJobvisionExtractDetail(t *testing.T) {
	adapter := NewJobvisionAdapter("")

	doc, err := NewDocument(strings.NewReader(jobvisionDetailHTML))
	assert.NoError(t, err)

	partial := PartialJob{
		Title:      "توسعه دهنده PHP",
		Company:    "فناوری آریا",
		Location:   "تهران",
		URL:        "https://jobvision.ir/jobs/987/php-developer",
		Source:     SourceJobvision,
		PostedDate: time.Date(2024, 5, 7, 0, 0, 0, 0, time.UTC),
	}

	record := adapter.ExtractDetail(doc, partial)

	assert.Contains(t, record.Description, "Laravel")
	assert.Contains(t, record.TechStack["frameworks"], "laravel")
	assert.Contains(t, record.TechStack["languages"], "php")
	assert.Contains(t, record.TechStack["databases"], "mysql")
	assert.Equal(t, WorkModeHybrid, record.WorkMode)

	assert.Equal(t, float64(12000000), *record.MinSalary)
	assert.Equal(t, float64(18000000), *record.MaxSalary)
	assert.Equal(t, "IRR", record.Currency)
	assert.Equal(t, "monthly", record.SalaryPeriod)

	assert.Equal(t, "۵۱ تا ۲۰۰ نفر", record.CompanySize)
	assert.Equal(t, "فناوری اطلاعات", record.Industry)
}

func TestJobvisionExtractDetailNoSalary(t *testing.T) {
	adapter := NewJobvisionAdapter("")

	doc, err := NewDocument(strings.NewReader(`<div class="job-detail__description">کار خوب</div>`))
	assert.NoError(t, err)

	record := adapter.ExtractDetail(doc, PartialJob{Title: "x", URL: "https://jobvision.ir/jobs/1"})

	assert.Nil(t, record.MinSalary)
	assert.Nil(t, record.MaxSalary)
	// Currency defaults apply only when a salary line exists
	assert.Empty(t, record.Currency)
	assert.Empty(t, record.SalaryPeriod)
}
