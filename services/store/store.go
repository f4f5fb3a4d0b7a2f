package store

import (
	"context"
	"time"

	"sjsage522/jobworker/internal/scraper"
)

// Filter selects records when querying the store. Zero values mean
// the dimension is not filtered.
type Filter struct {
	VisaOnly       bool
	RelocationOnly bool
	PostedAfter    time.Time
}

// Stats holds aggregate counts over the stored records
type Stats struct {
	Total       int `db:"total"`
	Visa        int `db:"visa"`
	Relocation  int `db:"relocation"`
	FullyRemote int `db:"fully_remote"`
}

// Store persists job records keyed by their canonical URL
type Store interface {
	// Upsert creates or updates the record with the same URL. Two
	// records with the same URL are the same posting; later writes
	// update, never duplicate.
	Upsert(ctx context.Context, job *scraper.JobRecord) error

	// Query returns the records matching the filter
	Query(ctx context.Context, filter Filter) ([]scraper.JobRecord, error)

	// Stats returns aggregate counts over all stored records
	Stats(ctx context.Context) (Stats, error)

	// Close closes the underlying database
	Close() error
}
