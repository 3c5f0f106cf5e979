// Package engine runs the synchronization cycle: import both feeds,
// match, age, match again. One cycle runs to completion before the
// next may start.
package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ebb-dev/ebb/internal/aging"
	"github.com/ebb-dev/ebb/internal/bankfeed"
	"github.com/ebb-dev/ebb/internal/config"
	"github.com/ebb-dev/ebb/internal/forecast"
	"github.com/ebb-dev/ebb/internal/ledger"
	"github.com/ebb-dev/ebb/internal/match"
	"github.com/ebb-dev/ebb/internal/model"
	"github.com/ebb-dev/ebb/internal/schedule"
	"github.com/ebb-dev/ebb/internal/store"
)

// ErrCycleInProgress is returned when a cycle request arrives while
// another cycle is still running; overlapping cycles are dropped, not
// interleaved.
var ErrCycleInProgress = errors.New("synchronization cycle already in progress")

// Engine wires the importers, matcher, bubbler, and forecaster over
// one store and the two external feeds.
type Engine struct {
	store      *store.Store
	feed       bankfeed.Feed
	remote     schedule.Store
	ledger     *ledger.Importer
	schedule   *schedule.Importer
	matcher    *match.Matcher
	bubbler    *aging.Bubbler
	forecaster *forecast.Forecaster
	cfg        *config.Config

	mu  sync.Mutex
	now func() time.Time
}

// New creates an Engine from its collaborators and configuration.
func New(st *store.Store, feed bankfeed.Feed, remote schedule.Store, cfg *config.Config) *Engine {
	schedImp := schedule.NewImporter(st, cfg.DefaultAccount)
	return &Engine{
		store:      st,
		feed:       feed,
		remote:     remote,
		ledger:     ledger.NewImporter(st),
		schedule:   schedImp,
		matcher:    match.NewMatcher(st, remote),
		bubbler:    aging.NewBubbler(st, remote, schedImp, cfg.GraceDays),
		forecaster: forecast.NewForecaster(st),
		cfg:        cfg,
		now:        time.Now,
	}
}

// CycleReport summarizes one synchronization cycle for the caller.
// Push failures and integrity violations are collected, never fatal.
type CycleReport struct {
	CycleID         string
	LedgerOK        bool
	ScheduleOK      bool
	PushFailures    []schedule.PushFailure
	IntegrityErrors []schedule.IntegrityError
}

// RunCycle executes one full cycle. The two feeds are fetched
// concurrently; every local step then runs sequentially because each
// depends on the committed state of the one before (accounts before
// schedule resolution, first match before aging, aging before the
// second match that catches items just bubbled onto today). A feed
// failure degrades that step to a health event and the cycle carries
// on with the data it already has.
func (e *Engine) RunCycle(ctx context.Context) (*CycleReport, error) {
	if !e.mu.TryLock() {
		return nil, ErrCycleInProgress
	}
	defer e.mu.Unlock()

	today := model.DateOnly(e.now())
	windowStart := today.Add(-model.Days(e.cfg.LookBehindDays))
	windowEnd := today.Add(model.Days(e.cfg.LookAheadDays))

	report := &CycleReport{CycleID: uuid.NewString()}

	var (
		wg      sync.WaitGroup
		stmt    model.Statement
		stmtErr error
		recs    []schedule.Record
		recsErr error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		stmt, stmtErr = e.feed.Fetch(ctx)
	}()
	go func() {
		defer wg.Done()
		recs, recsErr = e.remote.Fetch(ctx, windowStart, windowEnd)
	}()
	wg.Wait()

	// Ledger import first: scheduled items may reference accounts the
	// statement just introduced.
	if stmtErr == nil {
		stmtErr = e.ledger.ImportStatement(ctx, stmt)
	}
	if err := e.logFeed(ctx, report.CycleID, model.FeedLedger, stmtErr); err != nil {
		return report, err
	}
	report.LedgerOK = stmtErr == nil

	if err := ctx.Err(); err != nil {
		return report, err
	}

	if recsErr == nil {
		var violations []schedule.IntegrityError
		violations, recsErr = e.schedule.Sync(ctx, windowStart, windowEnd, recs)
		report.IntegrityErrors = violations
	}
	if err := e.logFeed(ctx, report.CycleID, model.FeedSchedule, recsErr); err != nil {
		return report, err
	}
	report.ScheduleOK = recsErr == nil

	if err := ctx.Err(); err != nil {
		return report, err
	}

	failures, err := e.matcher.Run(ctx)
	if err != nil {
		return report, fmt.Errorf("match pass: %w", err)
	}
	report.PushFailures = append(report.PushFailures, failures...)

	failures, err = e.bubbler.Run(ctx, today)
	if err != nil {
		return report, fmt.Errorf("aging pass: %w", err)
	}
	report.PushFailures = append(report.PushFailures, failures...)

	failures, err = e.matcher.Run(ctx)
	if err != nil {
		return report, fmt.Errorf("second match pass: %w", err)
	}
	report.PushFailures = append(report.PushFailures, failures...)

	return report, nil
}

// Forecast projects the account's balance over the configured windows.
func (e *Engine) Forecast(ctx context.Context, account string) ([]model.BalanceDay, error) {
	return e.forecaster.Forecast(ctx, account, e.now(),
		e.cfg.LookBehindDays, e.cfg.LookAheadDays)
}

// Reschedule clears an item's late flag and moves it to newDate.
func (e *Engine) Reschedule(ctx context.Context, ref string, newDate time.Time) error {
	return e.bubbler.Reschedule(ctx, ref, newDate)
}

// Forget removes a late item everywhere.
func (e *Engine) Forget(ctx context.Context, ref string) error {
	return e.bubbler.Forget(ctx, ref)
}

// QuickAdd creates a calendar item from free text. The item enters the
// local store on the next cycle's schedule pull.
func (e *Engine) QuickAdd(ctx context.Context, text string) (string, error) {
	ref, err := e.remote.CreateQuickItem(ctx, text)
	if err != nil {
		return "", fmt.Errorf("creating quick item: %w", err)
	}
	return ref, nil
}

// logFeed writes the per-feed health event for this cycle.
func (e *Engine) logFeed(ctx context.Context, cycleID, feed string, feedErr error) error {
	ev := model.HealthEvent{
		Timestamp:   e.now(),
		CycleID:     cycleID,
		Feed:        feed,
		Severity:    model.SeverityOK,
		Description: "synchronized",
	}
	if feedErr != nil {
		ev.Severity = model.SeverityError
		ev.Description = feedErr.Error()
	}
	if err := e.store.AppendHealthEvent(ctx, ev); err != nil {
		return fmt.Errorf("recording %s health event: %w", feed, err)
	}
	return nil
}
