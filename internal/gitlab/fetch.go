package gitlab

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/heaths/gitlab-compare/internal/models"
	"github.com/heaths/gitlab-compare/internal/utils"
)

const (
	DefaultMaxRetries = 5
	DefaultBackoff    = 1.5
)

// ProjectLister returns one page of projects. An empty page marks the end of the listing.
type ProjectLister interface {
	ListProjects(ctx context.Context, page, perPage int) ([]models.RawProject, error)
}

type Logger interface {
	Printf(format string, args ...interface{})
}

type FetchOptions struct {
	// Name identifies the instance in log lines.
	Name string

	PageSize   int
	MaxRetries int
	Backoff    float64
}

// ClampPageSize coerces n into the range the API accepts.
func ClampPageSize(n int) int {
	if n <= 0 || n > MaxPageSize {
		return MaxPageSize
	}
	return n
}

type Fetcher struct {
	lister ProjectLister
	log    Logger
	opts   FetchOptions

	sleep func(time.Duration)
}

func NewFetcher(lister ProjectLister, log Logger, opts FetchOptions) *Fetcher {
	opts.PageSize = ClampPageSize(opts.PageSize)
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}

	return &Fetcher{
		lister: lister,
		log:    log,
		opts:   opts,
		sleep:  time.Sleep,
	}
}

// Fetch walks pages starting at 1 until an empty page is returned.
// Transient failures are retried with exponential backoff; any other failure,
// or running out of retries, returns the error and discards what was fetched.
// There is no upper bound on the number of pages.
func (f *Fetcher) Fetch(ctx context.Context) ([]models.ProjectRecord, error) {
	records := []models.ProjectRecord{}
	page, attempt := 1, 0

	for {
		projects, err := f.lister.ListProjects(ctx, page, f.opts.PageSize)
		if err != nil {
			var apiErr *APIError
			if !errors.As(err, &apiErr) || !apiErr.Transient() {
				return nil, fmt.Errorf("fetching page %d: %w", page, err)
			}

			if attempt >= f.opts.MaxRetries {
				return nil, fmt.Errorf("fetching page %d: giving up after %s: %w", page, utils.Pluralize(attempt+1, "attempt"), err)
			}

			attempt++
			delay := f.delay(attempt)
			f.log.Printf("[%s] page %d: HTTP %d, retrying in %s (retry %d of %d)", f.opts.Name, page, apiErr.StatusCode, delay, attempt, f.opts.MaxRetries)
			f.sleep(delay)
			continue
		}

		if len(projects) == 0 {
			break
		}

		for _, project := range projects {
			records = append(records, models.Normalize(project))
		}

		f.log.Printf("[%s] page %d: %s (total %d)", f.opts.Name, page, utils.Pluralize(len(projects), "project"), len(records))

		page++
		attempt = 0
	}

	f.log.Printf("[%s] finished: %s", f.opts.Name, utils.Pluralize(len(records), "project"))
	return records, nil
}

// delay returns Backoff^attempt seconds.
func (f *Fetcher) delay(attempt int) time.Duration {
	return time.Duration(math.Pow(f.opts.Backoff, float64(attempt)) * float64(time.Second))
}

// FetchInstance authenticates against client and fetches every project it can see.
func FetchInstance(ctx context.Context, client *Client, log Logger, opts FetchOptions) ([]models.ProjectRecord, error) {
	user, err := client.Authenticate(ctx)
	if err != nil {
		return nil, err
	}
	log.Printf("[%s] authenticated to %s as %s", opts.Name, client.URL(), user)

	return NewFetcher(client, log, opts).Fetch(ctx)
}
