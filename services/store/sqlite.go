package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"sjsage522/jobworker/internal/scraper"
	"sjsage522/jobworker/logger"

	apperr "sjsage522/jobworker/pkg/errors"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS jobs (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	title TEXT NOT NULL,
	company TEXT NOT NULL,
	location TEXT,
	description TEXT,
	url TEXT NOT NULL UNIQUE,
	source TEXT,
	job_type TEXT,
	experience_level TEXT,
	work_mode TEXT,
	tech_stack TEXT,
	min_salary REAL,
	max_salary REAL,
	currency TEXT,
	salary_period TEXT,
	visa_sponsorship INTEGER NOT NULL DEFAULT 0,
	relocation_support INTEGER NOT NULL DEFAULT 0,
	benefits TEXT,
	company_size TEXT,
	industry TEXT,
	posted_date TEXT,
	created_at TEXT,
	updated_at TEXT
);`

const upsertQuery = `
INSERT INTO jobs (
	title, company, location, description, url, source,
	job_type, experience_level, work_mode, tech_stack,
	min_salary, max_salary, currency, salary_period,
	visa_sponsorship, relocation_support, benefits,
	company_size, industry, posted_date, created_at, updated_at
) VALUES (
	:title, :company, :location, :description, :url, :source,
	:job_type, :experience_level, :work_mode, :tech_stack,
	:min_salary, :max_salary, :currency, :salary_period,
	:visa_sponsorship, :relocation_support, :benefits,
	:company_size, :industry, :posted_date, :created_at, :updated_at
)
ON CONFLICT(url) DO UPDATE SET
	title = excluded.title,
	company = excluded.company,
	location = excluded.location,
	description = excluded.description,
	source = excluded.source,
	job_type = excluded.job_type,
	experience_level = excluded.experience_level,
	work_mode = excluded.work_mode,
	tech_stack = excluded.tech_stack,
	min_salary = excluded.min_salary,
	max_salary = excluded.max_salary,
	currency = excluded.currency,
	salary_period = excluded.salary_period,
	visa_sponsorship = excluded.visa_sponsorship,
	relocation_support = excluded.relocation_support,
	benefits = excluded.benefits,
	company_size = excluded.company_size,
	industry = excluded.industry,
	posted_date = excluded.posted_date,
	updated_at = excluded.updated_at;`

// SQLiteStore implements Store on a local sqlite database
type SQLiteStore struct {
	db  *sqlx.DB
	log *logger.Logger
}

// jobRow is the flat database representation of a JobRecord
type jobRow struct {
	Title             string          `db:"title"`
	Company           string          `db:"company"`
	Location          string          `db:"location"`
	Description       string          `db:"description"`
	URL               string          `db:"url"`
	Source            string          `db:"source"`
	JobType           string          `db:"job_type"`
	ExperienceLevel   string          `db:"experience_level"`
	WorkMode          string          `db:"work_mode"`
	TechStack         string          `db:"tech_stack"`
	MinSalary         sql.NullFloat64 `db:"min_salary"`
	MaxSalary         sql.NullFloat64 `db:"max_salary"`
	Currency          string          `db:"currency"`
	SalaryPeriod      string          `db:"salary_period"`
	VisaSponsorship   bool            `db:"visa_sponsorship"`
	RelocationSupport bool            `db:"relocation_support"`
	Benefits          string          `db:"benefits"`
	CompanySize       string          `db:"company_size"`
	Industry          string          `db:"industry"`
	PostedDate        string          `db:"posted_date"`
	CreatedAt         string          `db:"created_at"`
	UpdatedAt         string          `db:"updated_at"`
}

// OpenSQLite opens (creating if necessary) the sqlite database at the
// given path. Use ":memory:" for an in-memory database.
func OpenSQLite(path string) (*SQLiteStore, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", path)

	db, err := sqlx.Connect("sqlite", dsn)
	if err != nil {
		return nil, apperr.NewStore("", "failed to open sqlite database", err)
	}

	// sqlite wants a single writer; serializing through one
	// connection also makes concurrent upserts from parallel seed
	// queries safe
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(5 * time.Minute)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, apperr.NewStore("", "failed to create schema", err)
	}

	return &SQLiteStore{
		db:  db,
		log: logger.ForStore(),
	}, nil
}

// Upsert creates or updates the record keyed by its URL
func (s *SQLiteStore) Upsert(ctx context.Context, job *scraper.JobRecord) error {
	now := time.Now().UTC()
	row, err := toRow(job, now)
	if err != nil {
		return apperr.NewStore(string(job.Source), "failed to encode record", err)
	}

	if _, err := s.db.NamedExecContext(ctx, upsertQuery, row); err != nil {
		return apperr.NewStore(string(job.Source), fmt.Sprintf("failed to upsert %s", job.URL), err)
	}
	return nil
}

// Query returns the records matching the filter, newest first
func (s *SQLiteStore) Query(ctx context.Context, filter Filter) ([]scraper.JobRecord, error) {
	query := `SELECT title, company, location, description, url, source,
		job_type, experience_level, work_mode, tech_stack,
		min_salary, max_salary, currency, salary_period,
		visa_sponsorship, relocation_support, benefits,
		company_size, industry, posted_date, created_at, updated_at
	FROM jobs`

	var conditions []string
	var args []interface{}
	if filter.VisaOnly {
		conditions = append(conditions, "visa_sponsorship = 1")
	}
	if filter.RelocationOnly {
		conditions = append(conditions, "relocation_support = 1")
	}
	if !filter.PostedAfter.IsZero() {
		conditions = append(conditions, "posted_date >= ?")
		args = append(args, filter.PostedAfter.UTC().Format(time.RFC3339))
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY posted_date DESC"

	var rows []jobRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, apperr.NewStore("", "failed to query records", err)
	}

	records := make([]scraper.JobRecord, 0, len(rows))
	for _, row := range rows {
		record, err := fromRow(row)
		if err != nil {
			s.log.Warn().Err(err).Str("url", row.URL).Msg("skipping undecodable row")
			continue
		}
		records = append(records, record)
	}
	return records, nil
}

// Stats returns aggregate counts over all stored records
func (s *SQLiteStore) Stats(ctx context.Context) (Stats, error) {
	var stats Stats
	err := s.db.GetContext(ctx, &stats, `
		SELECT COUNT(*) AS total,
			COALESCE(SUM(visa_sponsorship), 0) AS visa,
			COALESCE(SUM(relocation_support), 0) AS relocation,
			COALESCE(SUM(CASE WHEN work_mode = 'fully_remote' THEN 1 ELSE 0 END), 0) AS fully_remote
		FROM jobs`)
	if err != nil {
		return Stats{}, apperr.NewStore("", "failed to collect stats", err)
	}
	return stats, nil
}

// Close closes the underlying database
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func toRow(job *scraper.JobRecord, now time.Time) (*jobRow, error) {
	techStack, err := json.Marshal(job.TechStack)
	if err != nil {
		return nil, err
	}

	row := &jobRow{
		Title:             job.Title,
		Company:           job.Company,
		Location:          job.Location,
		Description:       job.Description,
		URL:               job.URL,
		Source:            string(job.Source),
		JobType:           job.JobType,
		ExperienceLevel:   job.ExperienceLevel,
		WorkMode:          string(job.WorkMode),
		TechStack:         string(techStack),
		Currency:          job.Currency,
		SalaryPeriod:      job.SalaryPeriod,
		VisaSponsorship:   job.VisaSponsorship,
		RelocationSupport: job.RelocationSupport,
		Benefits:          job.Benefits,
		CompanySize:       job.CompanySize,
		Industry:          job.Industry,
		PostedDate:        job.PostedDate.UTC().Format(time.RFC3339),
		CreatedAt:         now.Format(time.RFC3339),
		UpdatedAt:         now.Format(time.RFC3339),
	}
	if job.MinSalary != nil {
		row.MinSalary = sql.NullFloat64{Float64: *job.MinSalary, Valid: true}
	}
	if job.MaxSalary != nil {
		row.MaxSalary = sql.NullFloat64{Float64: *job.MaxSalary, Valid: true}
	}
	return row, nil
}

func fromRow(row jobRow) (scraper.JobRecord, error) {
	var techStack scraper.TechStack
	if row.TechStack != "" {
		if err := json.Unmarshal([]byte(row.TechStack), &techStack); err != nil {
			return scraper.JobRecord{}, err
		}
	}

	record := scraper.JobRecord{
		Title:             row.Title,
		Company:           row.Company,
		Location:          row.Location,
		Description:       row.Description,
		URL:               row.URL,
		Source:            scraper.Source(row.Source),
		JobType:           row.JobType,
		ExperienceLevel:   row.ExperienceLevel,
		WorkMode:          scraper.WorkMode(row.WorkMode),
		TechStack:         techStack,
		Currency:          row.Currency,
		SalaryPeriod:      row.SalaryPeriod,
		VisaSponsorship:   row.VisaSponsorship,
		RelocationSupport: row.RelocationSupport,
		Benefits:          row.Benefits,
		CompanySize:       row.CompanySize,
		Industry:          row.Industry,
	}
	if row.MinSalary.Valid {
		record.MinSalary = &row.MinSalary.Float64
	}
	if row.MaxSalary.Valid {
		record.MaxSalary = &row.MaxSalary.Float64
	}
	record.PostedDate, _ = time.Parse(time.RFC3339, row.PostedDate)
	record.CreatedAt, _ = time.Parse(time.RFC3339, row.CreatedAt)
	record.UpdatedAt, _ = time.Parse(time.RFC3339, row.UpdatedAt)
	return record, nil
}
