// Package sync drives one incremental run: mirror accounts, fetch and
// classify each year's transactions, reconcile internal transfers, post to
// the ledger, and advance the checkpoint.
package sync

import (
	"context"
	"fmt"
	"time"

	"github.com/banksync-dev/banksync/internal/checkpoint"
	"github.com/banksync-dev/banksync/internal/classify"
	"github.com/banksync-dev/banksync/internal/logging"
	"github.com/banksync-dev/banksync/internal/mirror"
	"github.com/banksync-dev/banksync/internal/model"
	"github.com/banksync-dev/banksync/internal/runlog"
	"github.com/banksync-dev/banksync/internal/transfer"
)

// SourceClient is the banking-API surface the sync consumes.
type SourceClient interface {
	ListAccounts(ctx context.Context) ([]model.SourceAccount, error)
	ListTransactions(ctx context.Context, accountExternalID string, from, to time.Time, pageSize int) ([]model.SourceTransaction, error)
}

// LedgerClient is the ledger-API surface the sync consumes.
type LedgerClient interface {
	ListAssetAccounts(ctx context.Context) ([]model.LedgerAccount, error)
	CreateAccount(ctx context.Context, acc model.NewLedgerAccount) (model.LedgerAccount, error)
	CreateTransaction(ctx context.Context, p model.Posting) error
}

// Options tune one sync run.
type Options struct {
	// DelayDays keeps the window clear of the bank's reporting lag.
	DelayDays int
	// FirstYear bounds the initial backfill when no checkpoint exists.
	FirstYear int
	PageSize  int
	// DryRun fetches, classifies, and reconciles without writing postings or
	// advancing the checkpoint.
	DryRun bool
	// Now overrides the clock in tests.
	Now func() time.Time
}

// Syncer runs the incremental sync.
type Syncer struct {
	source SourceClient
	ledger LedgerClient
	store  checkpoint.Store
	runLog *runlog.Log
	opts   Options
}

// New creates a Syncer. runLog may be nil.
func New(source SourceClient, ledger LedgerClient, store checkpoint.Store, runLog *runlog.Log, opts Options) *Syncer {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Syncer{source: source, ledger: ledger, store: store, runLog: runLog, opts: opts}
}

// Run performs one sync. It returns an error only for fatal conditions
// (unreadable checkpoint, account listing failures, unsupported account
// types, ambiguous account joins); per-account fetch and per-posting errors
// are logged and skipped.
//
// The checkpoint advances only when every account's fetch succeeded for every
// year, so a partially failed window is retried whole on the next run. The
// ledger's duplicate-hash rejection absorbs the resulting resubmissions.
func (s *Syncer) Run(ctx context.Context) error {
	log := logging.FromContext(ctx)

	lastSync, haveCheckpoint, err := s.store.Load()
	if err != nil {
		return err
	}

	now := s.opts.Now()
	upper := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).
		AddDate(0, 0, -s.opts.DelayDays)

	if haveCheckpoint && lastSync.Equal(upper) {
		log.Info().Str("until", upper.Format(checkpoint.DateFormat)).Msg("already up to date, nothing to sync")
		return nil
	}

	sourceAccounts, err := s.source.ListAccounts(ctx)
	if err != nil {
		return fmt.Errorf("fetching bank accounts: %w", err)
	}

	ledgerAccounts, err := s.ledger.ListAssetAccounts(ctx)
	if err != nil {
		return fmt.Errorf("fetching ledger accounts: %w", err)
	}

	created, err := mirror.EnsureAccounts(ctx, s.ledger, sourceAccounts, ledgerAccounts)
	if err != nil {
		return err
	}
	for _, acc := range created {
		if err := s.runLog.Append(runlog.Record{Action: runlog.ActionAccountCreated, Account: acc.Name}); err != nil {
			log.Warn().Err(err).Msg("unable to write sync log record")
		}
	}
	if len(created) > 0 {
		// Later joins need the new accounts with their assigned ids.
		ledgerAccounts, err = s.ledger.ListAssetAccounts(ctx)
		if err != nil {
			return fmt.Errorf("refetching ledger accounts: %w", err)
		}
	}

	index, err := mirror.NewIndex(ledgerAccounts)
	if err != nil {
		return fmt.Errorf("joining accounts: %w", err)
	}

	firstYear := s.opts.FirstYear
	if haveCheckpoint {
		firstYear = lastSync.Year()
	}
	lastYear := upper.Year()

	writer := NewWriter(s.ledger, s.runLog, s.opts.DryRun)
	fetchFailures := 0

	for year := firstYear; year <= lastYear; year++ {
		from, to := yearWindow(year, firstYear, lastYear, lastSync, haveCheckpoint, upper)
		log.Info().
			Int("year", year).
			Str("from", from.Format(checkpoint.DateFormat)).
			Str("to", to.Format(checkpoint.DateFormat)).
			Msg("syncing window")

		// Transfer halves from all accounts collect here and are merged once
		// the whole year is in.
		var candidates []model.SourceTransaction

		for _, src := range sourceAccounts {
			account, ok := index.Lookup(src.ExternalID)
			if !ok {
				log.Warn().Str("account", src.Name).Msg("bank account has no ledger mirror, skipping")
				continue
			}

			txs, err := s.source.ListTransactions(ctx, src.ExternalID, from, to, s.opts.PageSize)
			if err != nil {
				fetchFailures++
				log.Warn().Err(err).Str("account", src.Name).Msg("unable to fetch transactions, skipping account for this window")
				continue
			}
			log.Info().Int("count", len(txs)).Str("account", src.Name).Msg("fetched transactions")

			for _, tx := range txs {
				switch classify.Classify(tx) {
				case classify.TransferCandidate:
					log.Debug().
						Str("date", tx.Date.Format(checkpoint.DateFormat)).
						Str("type", tx.TypeCode).
						Str("account", account.Name).
						Str("amount", tx.Amount.StringFixed(2)).
						Str("text", tx.Text).
						Msg("internal transfer candidate")
					candidates = append(candidates, tx)
				default:
					writer.WriteDirect(ctx, account, tx)
				}
			}
		}

		result := transfer.Reconcile(candidates)
		for _, pair := range result.Pairs {
			debitAcc, ok := index.Lookup(pair.Debit.AccountExternalID)
			creditAcc, ok2 := index.Lookup(pair.Credit.AccountExternalID)
			if !ok || !ok2 {
				log.Warn().Msg("transfer pair references unmirrored account, skipping")
				continue
			}
			writer.WriteTransfer(ctx, pair, debitAcc, creditAcc)
		}
		for _, leftover := range result.Leftovers {
			log.Warn().
				Str("date", leftover.Date.Format(checkpoint.DateFormat)).
				Str("account", leftover.AccountExternalID).
				Str("amount", leftover.Amount.StringFixed(2)).
				Str("text", leftover.Text).
				Msg("unmatched internal transfer candidate, not posted")
			if err := s.runLog.Append(runlog.Record{
				Action:  runlog.ActionLeftover,
				Account: leftover.AccountExternalID,
				Date:    leftover.Date.Format(checkpoint.DateFormat),
				Amount:  leftover.Amount.StringFixed(2),
				Details: leftover.Text,
			}); err != nil {
				log.Warn().Err(err).Msg("unable to write sync log record")
			}
		}
	}

	stored, duplicates, failed := writer.Stats()
	log.Info().Int("stored", stored).Int("duplicates", duplicates).Int("failed", failed).Msg("sync finished")

	if fetchFailures > 0 {
		log.Warn().Int("failures", fetchFailures).Msg("some accounts failed to fetch, leaving checkpoint untouched so the window retries")
		return nil
	}
	if s.opts.DryRun {
		return nil
	}
	if err := s.store.Save(upper); err != nil {
		return fmt.Errorf("saving checkpoint: %w", err)
	}
	return nil
}

// yearWindow returns the fetch bounds for one calendar year of the sync
// window. The first year starts at the checkpoint (or Jan 1 without one) and
// the last year ends at the delayed upper bound.
func yearWindow(year, firstYear, lastYear int, lastSync time.Time, haveCheckpoint bool, upper time.Time) (from, to time.Time) {
	from = time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	if year == firstYear && haveCheckpoint {
		from = lastSync
	}

	to = time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)
	if year == lastYear {
		to = upper
	}
	return from, to
}
