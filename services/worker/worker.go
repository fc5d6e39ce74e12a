package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"tnu/pricetracker/internal/browser"
	"tnu/pricetracker/internal/checker"
	"tnu/pricetracker/internal/digest"
	"tnu/pricetracker/internal/domain"
	"tnu/pricetracker/internal/storage"
	"tnu/pricetracker/logger"
	"tnu/pricetracker/pkg/errors"
	"tnu/pricetracker/services/cache"
	"tnu/pricetracker/services/messenger"
	"tnu/pricetracker/services/publisher"
)

// Error text recorded when a page renders without a product title. A missing
// title means the page content cannot be trusted, whatever else was scraped.
const missingTitleError = "missing-title"

// ProductChecker is the slice of the checker the worker needs.
type ProductChecker interface {
	Check(ctx context.Context, item domain.WatchItem) (checker.CheckOutcome, error)
	ProductURL(id string) string
}

// Deps carries the worker's collaborators. Publisher and Guard are optional;
// a nil value disables that concern.
type Deps struct {
	Client    browser.Client
	Checker   ProductChecker
	Products  storage.ProductStore
	Checks    storage.CheckStore
	Digest    *digest.Builder
	Messenger messenger.Messenger
	Publisher publisher.Publisher
	Guard     *cache.Guard
}

// Worker runs the check pipeline over the watchlist: one shared browser
// session, one product at a time, every outcome recorded before the digest
// is composed and delivered.
type Worker struct {
	deps     Deps
	runLabel string
	items    []domain.WatchItem

	location            *time.Location
	crossRefURLTemplate string
	messageChannel      string
	messageTarget       string
	dryRun              bool
	runInterval         time.Duration

	log *logger.Logger
	now func() time.Time
}

// Options holds the run-level settings the worker reads from configuration.
type Options struct {
	RunLabel            string
	Location            *time.Location
	CrossRefURLTemplate string
	MessageChannel      string
	MessageTarget       string
	DryRun              bool
	RunInterval         time.Duration
}

// NewWorker creates a worker over the given watchlist.
func NewWorker(deps Deps, items []domain.WatchItem, opts Options) *Worker {
	return &Worker{
		deps:                deps,
		runLabel:            opts.RunLabel,
		items:               items,
		location:            opts.Location,
		crossRefURLTemplate: opts.CrossRefURLTemplate,
		messageChannel:      opts.MessageChannel,
		messageTarget:       opts.MessageTarget,
		dryRun:              opts.DryRun,
		runInterval:         opts.RunInterval,
		log:                 logger.ForComponent("worker"),
		now:                 time.Now,
	}
}

// Start runs the pipeline once, or repeatedly when an interval is set.
// A failed run in interval mode is logged and the next run still happens.
func (w *Worker) Start(ctx context.Context) error {
	if w.runInterval <= 0 {
		_, err := w.RunOnce(ctx)
		return err
	}

	for {
		if _, err := w.RunOnce(ctx); err != nil {
			w.log.Error().Err(err).Msg("run failed")
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(w.runInterval):
		}
	}
}

// RunOnce checks every watchlist item, records the outcomes, and delivers
// the digest. It returns the digest text alongside any run-fatal error.
func (w *Worker) RunOnce(ctx context.Context) (string, error) {
	runID := uuid.NewString()
	runDay := domain.DayOf(w.now().Unix(), w.location)
	log := w.log.WithField("run", runID)

	log.Info().
		Str("day", runDay).
		Int("items", len(w.items)).
		Msg("starting run")

	if err := w.deps.Client.Start(ctx); err != nil {
		return "", errors.NewAutomation("", "start browser session", err)
	}

	results := make([]domain.RunResult, 0, len(w.items))
	for _, item := range w.items {
		if w.deps.Guard.Blocked(item.ID) {
			log.Info().Str("product", item.ID).Msg("cooldown active, skipping")
			results = append(results, domain.RunResult{
				Item: item,
				URL:  w.deps.Checker.ProductURL(item.ID),
				Err:  "cooldown active",
			})
			continue
		}

		result, err := w.checkOne(ctx, runID, item)
		if err != nil {
			return "", err
		}
		results = append(results, result)
	}

	if w.deps.Publisher != nil {
		if err := w.deps.Publisher.TrimStreams(); err != nil {
			logger.LogError("worker", err, "trimming check streams")
		}
	}

	text, err := w.deps.Digest.Build(ctx, w.runLabel, runDay, results)
	if err != nil {
		return "", err
	}

	if err := w.deliver(ctx, text); err != nil {
		return text, err
	}

	log.Info().Msg("run finished")
	return text, nil
}

// checkOne runs a single product check and records it. Only storage failures
// are run-fatal; a failed check becomes an error row and the run moves on.
func (w *Worker) checkOne(ctx context.Context, runID string, item domain.WatchItem) (domain.RunResult, error) {
	ts := w.now().Unix()
	day := domain.DayOf(ts, w.location)

	if err := w.deps.Products.Upsert(ctx, &domain.Product{
		ID:        item.ID,
		Label:     item.Label,
		FirstSeen: ts,
	}); err != nil {
		return domain.RunResult{}, errors.NewStorage(item.ID, "upsert product", err)
	}

	check := domain.PriceCheck{
		RunID:     runID,
		Timestamp: ts,
		Day:       day,
		ProductID: item.ID,
		Label:     item.Label,
	}

	outcome, err := w.deps.Checker.Check(ctx, item)
	if err != nil {
		check.URL = w.deps.Checker.ProductURL(item.ID)
		check.ResolvedSource = domain.SourceError
		check.Error = errors.Truncate(err, 300)
		logger.LogError("worker", err, "checking %s", item.ID)
	} else {
		check.Title = outcome.Title
		check.URL = outcome.URL
		check.ResolvedRaw = outcome.ResolvedRaw
		check.ResolvedAmount = outcome.ResolvedAmount
		check.ResolvedSource = outcome.Source
		check.BuyboxRaw = outcome.BuyboxRaw
		check.BuyboxAmount = outcome.BuyboxAmount
		check.LowestNewRaw = outcome.LowestNewRaw
		check.LowestNewAmount = outcome.LowestNewAmount

		if outcome.Title != "" {
			check.Success = true
		} else {
			check.Error = missingTitleError
		}
	}

	if err := w.deps.Checks.Insert(ctx, &check); err != nil {
		return domain.RunResult{}, errors.NewStorage(item.ID, "insert price check", err)
	}

	w.publish(&check)
	w.deps.Guard.Mark(item.ID)

	w.log.Info().
		Str("product", item.ID).
		Str("source", string(check.ResolvedSource)).
		Str("price", check.ResolvedRaw).
		Bool("success", check.Success).
		Msg("recorded check")

	return domain.RunResult{
		Item:        item,
		Title:       check.Title,
		URL:         check.URL,
		CrossRefURL: fmt.Sprintf(w.crossRefURLTemplate, item.ID),
		Raw:         check.ResolvedRaw,
		Amount:      check.ResolvedAmount,
		Source:      check.ResolvedSource,
		Err:         check.Error,
	}, nil
}

// publish pushes the recorded check downstream. Publishing never fails a run.
func (w *Worker) publish(check *domain.PriceCheck) {
	if w.deps.Publisher == nil {
		return
	}
	if err := w.deps.Publisher.PublishCheck(check); err != nil {
		logger.LogError("worker", err, "publishing check for %s", check.ProductID)
	}
}

// deliver prints the digest in dry-run mode, otherwise sends it.
func (w *Worker) deliver(ctx context.Context, text string) error {
	if w.dryRun {
		fmt.Println(text)
		return nil
	}

	if err := w.deps.Messenger.Send(ctx, w.messageChannel, w.messageTarget, text); err != nil {
		return errors.NewPublisher("", "deliver digest", err)
	}
	return nil
}
