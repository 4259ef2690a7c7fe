// Package pipeline drives the paginated retrieval loop: fetch a page, fold it
// into the session aggregate, and decide whether to keep going.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"github.com/bimmerbailey/chatscrub/internal/kore"
	"github.com/bimmerbailey/chatscrub/internal/session"
)

// DefaultPageSize matches the getMessagesV2 maximum.
const DefaultPageSize = 10000

// DefaultBackoff is the pause between full pages, to stay under the API's
// rate limits.
const DefaultBackoff = 5 * time.Second

// Fetcher retrieves one page of chat history. *kore.Client satisfies this;
// tests substitute fakes.
type Fetcher interface {
	FetchPage(ctx context.Context, dateFrom, dateTo string, skip, limit int) (*kore.MessagesPage, error)
}

// Options configures a Driver.
type Options struct {
	PageSize int
	// Limiter paces successive fetches. Defaults to one request per
	// DefaultBackoff; tests pass rate.NewLimiter(rate.Inf, 1) to run
	// without delays.
	Limiter *rate.Limiter
	Logger  *slog.Logger
}

// Result is the outcome of a retrieval run.
//
// A degraded result means paging stopped on a fetch failure: everything
// aggregated before the failure is still present and should still be emitted.
type Result struct {
	Conversations []session.Conversation
	Pages         int
	Messages      int
	Degraded      bool
	Cause         error
}

// Driver runs the retrieval state machine. It is strictly sequential: one
// fetch at a time, one fold per page.
type Driver struct {
	fetcher  Fetcher
	pageSize int
	limiter  *rate.Limiter
	logger   *slog.Logger
}

// New creates a Driver around the given fetcher.
func New(fetcher Fetcher, opts Options) *Driver {
	if opts.PageSize <= 0 {
		opts.PageSize = DefaultPageSize
	}
	if opts.Limiter == nil {
		opts.Limiter = rate.NewLimiter(rate.Every(DefaultBackoff), 1)
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Driver{
		fetcher:  fetcher,
		pageSize: opts.PageSize,
		limiter:  opts.Limiter,
		logger:   opts.Logger,
	}
}

// Run pages through the date range until the data is exhausted or a fetch
// fails, then finalizes the aggregate.
//
// Termination: an empty page means no more data; a short page is folded in
// and also ends the run. A fetch failure stops paging but keeps everything
// aggregated so far, marking the result degraded. Context cancellation aborts
// the whole run with no result.
func (d *Driver) Run(ctx context.Context, dateFrom, dateTo string) (*Result, error) {
	agg := session.NewAggregator()
	result := &Result{}

	skip := 0
	for {
		if err := d.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		page, err := d.fetcher.FetchPage(ctx, dateFrom, dateTo, skip, d.pageSize)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			d.logger.Error("fetch failed, keeping partial results", "skip", skip, "error", err)
			result.Degraded = true
			result.Cause = fmt.Errorf("fetch at skip=%d: %w", skip, err)
			break
		}
		result.Pages++

		if len(page.Messages) == 0 {
			d.logger.Debug("empty page, retrieval complete", "skip", skip)
			break
		}

		agg.Fold(page.Messages)
		d.logger.Info("page folded",
			"messages", len(page.Messages),
			"total_messages", agg.Messages(),
			"sessions", agg.Sessions())

		if len(page.Messages) < d.pageSize {
			// Short page: the data is exhausted, don't ask again.
			break
		}
		skip += len(page.Messages)
	}

	result.Conversations = agg.Finalize()
	result.Messages = agg.Messages()

	d.logger.Info("retrieval finished",
		"pages", result.Pages,
		"messages", result.Messages,
		"sessions", len(result.Conversations),
		"degraded", result.Degraded)

	return result, nil
}
