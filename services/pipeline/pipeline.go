package pipeline

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"sjsage522/jobworker/helpers"
	"sjsage522/jobworker/internal/scraper"
	"sjsage522/jobworker/logger"
	"sjsage522/jobworker/services/cache"
	"sjsage522/jobworker/services/notifier"
	"sjsage522/jobworker/services/publisher"
	"sjsage522/jobworker/services/store"
)

// Seed parameterizes one crawl run against one source. Empty
// keywords/location fall back to the source's defaults.
type Seed struct {
	Source   scraper.Source
	Keywords string
	Location string
	MaxPages int
}

// Stats aggregates the outcome of one crawl run
type Stats struct {
	Pages     int `json:"pages"`
	Seen      int `json:"seen"`
	Skipped   int `json:"skipped"`
	Persisted int `json:"persisted"`
	Published int `json:"published"`
	Notified  int `json:"notified"`
}

// Config holds the pipeline's collaborators. Store, Adapter and
// Fetcher are required; Cache, Publisher and Notifier are optional.
type Config struct {
	Adapter   scraper.Adapter
	Fetcher   helpers.Fetcher
	Store     store.Store
	Cache     cache.CacheService
	Publisher publisher.Publisher
	Notifier  notifier.Notifier
	SeenTTL   time.Duration
}

// Pipeline orchestrates one source's crawl: fetch listing page,
// extract partials, fetch and extract each detail page, upsert into
// the store and fan out notifications. Item-level failures are
// isolated; a crawl run always completes subject to the page budget.
type Pipeline struct {
	adapter   scraper.Adapter
	fetcher   helpers.Fetcher
	store     store.Store
	cache     cache.CacheService
	publisher publisher.Publisher
	notifier  notifier.Notifier
	seenTTL   time.Duration
	log       *logger.Logger
}

// New creates a new pipeline
func New(cfg Config) *Pipeline {
	seenTTL := cfg.SeenTTL
	if seenTTL <= 0 {
		seenTTL = 30 * time.Minute
	}
	return &Pipeline{
		adapter:   cfg.Adapter,
		fetcher:   cfg.Fetcher,
		store:     cfg.Store,
		cache:     cfg.Cache,
		publisher: cfg.Publisher,
		notifier:  cfg.Notifier,
		seenTTL:   seenTTL,
		log:       logger.ForPipeline().WithField("source", string(cfg.Adapter.Source())),
	}
}

// Run crawls one seed query. Listing pages are processed strictly in
// pagination order and items in document order; the only suspension
// points are the page fetches. Run returns the aggregate stats; the
// error is non-nil only on cancellation.
func (p *Pipeline) Run(ctx context.Context, seed Seed) (Stats, error) {
	var stats Stats

	req := p.adapter.BuildSeedRequest(seed.Keywords, seed.Location)
	pager := scraper.NewPager(seed.MaxPages)

	for {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		listing, ok := p.processListingPage(ctx, req, &stats)
		if !ok {
			break
		}

		for _, partial := range listing.Partials {
			if err := ctx.Err(); err != nil {
				return stats, err
			}
			stats.Seen++
			p.processItem(ctx, partial, &stats)
		}

		next, more := pager.Advance(listing.Next)
		if !more {
			p.log.Debug().Int("pages", pager.Page()).Msg("pagination finished")
			break
		}
		req = next
	}

	p.log.Info().
		Int("pages", stats.Pages).
		Int("seen", stats.Seen).
		Int("skipped", stats.Skipped).
		Int("persisted", stats.Persisted).
		Msg("crawl run finished")

	return stats, nil
}

// processListingPage fetches and extracts one listing page. A page
// fetch or parse failure ends the crawl of this seed query; items
// already processed stand.
func (p *Pipeline) processListingPage(ctx context.Context, req *helpers.Request, stats *Stats) (*scraper.ListingPage, bool) {
	body, err := p.fetcher.Fetch(ctx, req)
	if err != nil {
		p.log.Error().Err(err).Str("url", req.URL).Msg("listing page fetch failed")
		return nil, false
	}

	doc, err := scraper.NewDocument(body)
	if err != nil {
		p.log.Error().Err(err).Str("url", req.URL).Msg("listing page parse failed")
		return nil, false
	}

	listing, err := p.adapter.ExtractListing(doc)
	if err != nil {
		p.log.Error().Err(err).Str("url", req.URL).Msg("listing extraction failed")
		return nil, false
	}

	stats.Pages++
	stats.Skipped += listing.Skipped
	if len(listing.Partials) == 0 {
		p.log.Debug().Str("url", req.URL).Msg("listing page yielded no cards")
	}

	return listing, true
}

// processItem completes, persists and fans out one partial record.
// Every failure here is isolated to the item: it is logged and the
// pipeline proceeds to the next one.
func (p *Pipeline) processItem(ctx context.Context, partial scraper.PartialJob, stats *Stats) {
	if p.alreadySeen(partial.URL) {
		p.log.Debug().Str("url", partial.URL).Msg("recently processed, skipping")
		stats.Skipped++
		return
	}

	body, err := p.fetcher.Fetch(ctx, p.adapter.BuildDetailRequest(partial.URL))
	if err != nil {
		p.log.Error().Err(err).Str("url", partial.URL).Msg("detail fetch failed, skipping item")
		stats.Skipped++
		return
	}

	doc, err := scraper.NewDocument(body)
	if err != nil {
		// A malformed detail document degrades the record instead of
		// dropping it: extraction against an empty document keeps the
		// listing-page fields and resolves the rest to defaults.
		p.log.Warn().Err(err).Str("url", partial.URL).Msg("detail parse failed, degrading record")
		doc, _ = scraper.NewDocument(strings.NewReader(""))
	}

	job := p.adapter.ExtractDetail(doc, partial)

	if err := p.store.Upsert(ctx, job); err != nil {
		p.log.Error().Err(err).Str("url", job.URL).Msg("upsert failed")
		return
	}
	stats.Persisted++
	p.markSeen(job.URL)

	// Fan-out happens only after successful persistence
	if p.publisher != nil {
		if data, err := json.Marshal(job); err != nil {
			p.log.Error().Err(err).Str("url", job.URL).Msg("failed to encode record")
		} else if err := p.publisher.Publish(string(job.Source), data); err != nil {
			p.log.Error().Err(err).Str("url", job.URL).Msg("publish failed")
		} else {
			stats.Published++
		}
	}

	if p.notifier != nil {
		if err := p.notifier.Notify(job); err != nil {
			p.log.Error().Err(err).Str("url", job.URL).Msg("notification failed")
		} else {
			stats.Notified++
		}
	}
}

// alreadySeen reports whether the URL was processed within the seen
// TTL. Cache errors (including a miss) never block processing.
func (p *Pipeline) alreadySeen(url string) bool {
	if p.cache == nil {
		return false
	}
	_, err := p.cache.Get(seenKey(url))
	return err == nil
}

func (p *Pipeline) markSeen(url string) {
	if p.cache == nil {
		return
	}
	if err := p.cache.Set(seenKey(url), []byte("1"), p.seenTTL); err != nil {
		p.log.Debug().Err(err).Str("url", url).Msg("failed to mark URL as seen")
	}
}

func seenKey(url string) string {
	return "seen:" + url
}
