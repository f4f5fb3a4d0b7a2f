package notifier

import (
	"sjsage522/jobworker/internal/scraper"
)

// Notifier fans a persisted job record out to subscribers. A delivery
// failure for one subscriber must not block delivery to the others.
type Notifier interface {
	// Notify formats and delivers a notification for the record
	Notify(job *scraper.JobRecord) error

	// Close releases the underlying transport
	Close() error
}
