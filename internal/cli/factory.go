package cli

import (
	"fmt"

	"jobradar/internal/config"
	"jobradar/internal/domain"
	"jobradar/internal/orchestrator"
	"jobradar/internal/scrape"
	"jobradar/internal/scrape/indeed"
	"jobradar/internal/scrape/linkedin"
	"jobradar/internal/storage/postgres"
)

// scraperFactory builds a fresh adapter and runner per orchestration
// attempt. Adapters carry per-call HTTP state; reusing one across retries
// would leak a previous attempt's cursor.
type scraperFactory struct {
	postings *postgres.RawPostingStore
	sessions *postgres.ScrapingSessionStore
	cfg      config.ScrapeConfig
}

func newScraperFactory() *scraperFactory {
	return &scraperFactory{
		postings: postgres.NewRawPostingStore(db),
		sessions: postgres.NewScrapingSessionStore(db),
		cfg:      cfg.Scrape,
	}
}

func (f *scraperFactory) NewScraper(site domain.Site) (orchestrator.Scraper, error) {
	var adapter scrape.Adapter
	switch site {
	case domain.SiteLinkedIn:
		adapter = linkedin.New(linkedin.Config{Timeout: f.cfg.HTTPTimeout}, logger)
	case domain.SiteIndeed:
		adapter = indeed.New(indeed.Config{Timeout: f.cfg.HTTPTimeout}, logger)
	default:
		return nil, fmt.Errorf("unsupported site: %s", site)
	}

	return scrape.NewRunner(adapter, f.postings, f.sessions, f.cfg, logger), nil
}

func orchestrationConfig(c config.OrchestrationConfig) domain.OrchestrationConfig {
	return domain.OrchestrationConfig{
		DelayBetweenTasks:  c.DelayBetweenTasks,
		MaxRetries:         c.MaxRetries,
		RetryDelay:         c.RetryDelay,
		MaxConcurrentTasks: c.MaxConcurrentTasks,
		ProcessImmediately: c.ProcessImmediately,
		TimeoutPerTask:     c.TimeoutPerTask,
	}
}

// buildTasks expands the term x site cross product into scraping tasks.
func buildTasks(terms, sites []string, location string, maxPostings int) ([]domain.ScrapingTask, error) {
	var tasks []domain.ScrapingTask
	for _, name := range sites {
		site, ok := domain.ParseSite(name)
		if !ok {
			return nil, fmt.Errorf("unknown site: %q", name)
		}
		for _, term := range terms {
			tasks = append(tasks, domain.ScrapingTask{
				Site:        site,
				SearchTerm:  term,
				Location:    location,
				MaxPostings: maxPostings,
			})
		}
	}
	return tasks, nil
}
