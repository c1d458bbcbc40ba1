package enrich

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/lysyi3m/bookmark-comb/app/bookmark"
	"github.com/lysyi3m/bookmark-comb/app/database"
	"golang.org/x/time/rate"
)

const maxRetryDelay = 30 * time.Second

type Options struct {
	Concurrent        int
	Retries           int
	Timeout           time.Duration
	UserAgent         string
	MaxContentChars   int
	RequestsPerSecond float64 // 0 means unlimited
}

type Stats struct {
	Fetched int
	Cached  int
	Failed  int
}

// Enricher fills ContentSnippet for bookmarks by fetching their pages over a
// bounded pool of workers. Results are cached per URL; failed URLs keep an
// empty snippet.
type Enricher struct {
	fetcher   *Fetcher
	extractor *Extractor
	cache     database.FetchCacheStore // may be nil
	opts      Options
	retryBase time.Duration
}

func NewEnricher(cache database.FetchCacheStore, opts Options) *Enricher {
	opts.Concurrent = max(1, opts.Concurrent)
	opts.Retries = max(0, opts.Retries)

	var limiter *rate.Limiter
	if opts.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), 1)
	}

	return &Enricher{
		fetcher:   NewFetcher(&http.Client{Timeout: opts.Timeout}, opts.UserAgent, limiter),
		extractor: NewExtractor(opts.MaxContentChars),
		cache:     cache,
		opts:      opts,
		retryBase: time.Second,
	}
}

type job struct {
	url string
}

type outcome struct {
	url     string
	snippet string
	err     error
}

func (e *Enricher) Run(ctx context.Context, items []*bookmark.Bookmark) (Stats, error) {
	start := time.Now()
	var stats Stats

	snippets := make(map[string]string)
	var pending []string

	for _, b := range items {
		url := b.Href()
		if url == "" {
			continue
		}
		if _, seen := snippets[url]; seen {
			continue
		}
		snippets[url] = ""

		if snippet, ok := e.cached(url); ok {
			snippets[url] = snippet
			stats.Cached++
			continue
		}
		pending = append(pending, url)
	}

	jobs := make(chan job)
	results := make(chan outcome, len(pending))

	var wg sync.WaitGroup
	for i := 0; i < min(e.opts.Concurrent, len(pending)); i++ {
		wg.Add(1)
		go e.worker(ctx, i, jobs, results, &wg)
	}

	go func() {
		defer close(jobs)
		for _, url := range pending {
			select {
			case jobs <- job{url: url}:
			case <-ctx.Done():
				return
			}
		}
	}()

	wg.Wait()
	close(results)

	for r := range results {
		entry := database.FetchCacheEntry{URL: r.url, CheckedAt: time.Now().UTC()}
		if r.err != nil {
			stats.Failed++
			entry.Status = database.FetchStatusError
			entry.Error = r.err.Error()
		} else {
			stats.Fetched++
			snippets[r.url] = r.snippet
			entry.Status = database.FetchStatusOK
			entry.ContentSnippet = r.snippet
		}
		if e.cache != nil {
			if err := e.cache.Upsert(entry); err != nil {
				slog.Warn("Failed to update fetch cache", "url", r.url, "error", err)
			}
		}
	}

	for _, b := range items {
		if snippet := snippets[b.Href()]; snippet != "" {
			b.ContentSnippet = snippet
		}
	}

	slog.Info("Enrichment completed",
		"duration", time.Since(start),
		"fetched", stats.Fetched,
		"cached", stats.Cached,
		"failed", stats.Failed)

	return stats, ctx.Err()
}

func (e *Enricher) cached(url string) (string, bool) {
	if e.cache == nil {
		return "", false
	}
	entry, err := e.cache.Get(url)
	if err != nil {
		if !errors.Is(err, database.ErrNotFound) {
			slog.Warn("Failed to read fetch cache", "url", url, "error", err)
		}
		return "", false
	}
	if entry.Status != database.FetchStatusOK {
		return "", false
	}
	return entry.ContentSnippet, true
}

func (e *Enricher) worker(ctx context.Context, id int, jobs <-chan job, results chan<- outcome, wg *sync.WaitGroup) {
	defer wg.Done()

	for j := range jobs {
		snippet, err := e.process(ctx, id, j.url)
		results <- outcome{url: j.url, snippet: snippet, err: err}
	}
}

// process fetches and extracts one page, retrying with exponential backoff
// capped at maxRetryDelay.
func (e *Enricher) process(ctx context.Context, workerID int, url string) (string, error) {
	var err error
	for attempt := 0; ; attempt++ {
		var data []byte
		data, err = e.fetcher.Fetch(ctx, url)
		if err == nil {
			var snippet string
			snippet, err = e.extractor.Run(data)
			if err == nil {
				slog.Debug("Page enriched", "worker_id", workerID, "url", url, "content_length", len(snippet))
				return snippet, nil
			}
			// extraction failures are not transient
			break
		}

		if attempt >= e.opts.Retries || ctx.Err() != nil {
			break
		}

		retryDelay := min(e.retryBase*time.Duration(1<<uint(attempt)), maxRetryDelay)
		slog.Debug("Fetch retry scheduled", "worker_id", workerID, "url", url, "retry_count", attempt+1, "max_retries", e.opts.Retries, "delay", retryDelay.String())

		select {
		case <-time.After(retryDelay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	slog.Debug("Failed to enrich page", "worker_id", workerID, "url", url, "error", err)
	return "", err
}
