package sync

import (
	"context"
	"errors"

	"github.com/banksync-dev/banksync/internal/checkpoint"
	"github.com/banksync-dev/banksync/internal/describe"
	"github.com/banksync-dev/banksync/internal/firefly"
	"github.com/banksync-dev/banksync/internal/logging"
	"github.com/banksync-dev/banksync/internal/model"
	"github.com/banksync-dev/banksync/internal/runlog"
	"github.com/banksync-dev/banksync/internal/transfer"
)

// Writer converts classified transactions into ledger postings and submits
// them. Submission failures, duplicate rejections included, are logged and
// skipped; they never stop the run.
type Writer struct {
	ledger LedgerClient
	runLog *runlog.Log
	dryRun bool

	stored     int
	duplicates int
	failed     int
}

// NewWriter creates a Writer. runLog may be nil.
func NewWriter(ledger LedgerClient, runLog *runlog.Log, dryRun bool) *Writer {
	return &Writer{ledger: ledger, runLog: runLog, dryRun: dryRun}
}

// WriteDirect posts a non-transfer transaction against its ledger account.
// The counterparty side gets the normalized description; the posting keeps the
// raw bank text as its description.
func (w *Writer) WriteDirect(ctx context.Context, account model.LedgerAccount, tx model.SourceTransaction) {
	p := model.Posting{
		Date:        tx.Date,
		Amount:      tx.Amount.Abs(),
		Description: tx.Text,
		Category:    tx.TypeCode,
	}
	if tx.Amount.IsNegative() {
		p.Kind = model.KindWithdrawal
		p.Source = model.PostingSide{AccountID: account.ID}
		p.Destination = model.PostingSide{Name: describe.Normalize(tx.Text)}
	} else {
		p.Kind = model.KindDeposit
		p.Source = model.PostingSide{Name: describe.Normalize(tx.Text)}
		p.Destination = model.PostingSide{AccountID: account.ID}
	}

	w.submit(ctx, account.Name, p)
}

// WriteTransfer posts one reconciled pair as a single transfer from the debit
// account to the credit account. Date and text are identical on both sides by
// construction, so either works for the posting.
func (w *Writer) WriteTransfer(ctx context.Context, pair transfer.Pair, from, to model.LedgerAccount) {
	p := model.Posting{
		Date:        pair.Debit.Date,
		Amount:      pair.Debit.Amount.Abs(),
		Description: pair.Debit.Text,
		Kind:        model.KindTransfer,
		Category:    pair.Debit.TypeCode,
		Source:      model.PostingSide{AccountID: from.ID},
		Destination: model.PostingSide{AccountID: to.ID},
	}

	w.submit(ctx, from.Name+" -> "+to.Name, p)
}

func (w *Writer) submit(ctx context.Context, account string, p model.Posting) {
	log := logging.FromContext(ctx)
	log.Info().
		Str("date", p.Date.Format(checkpoint.DateFormat)).
		Str("kind", string(p.Kind)).
		Str("category", p.Category).
		Str("account", account).
		Str("amount", p.Amount.StringFixed(2)).
		Str("source", sideString(p.Source)).
		Str("destination", sideString(p.Destination)).
		Msg("posting")

	if w.dryRun {
		return
	}

	rec := runlog.Record{
		Account: account,
		Date:    p.Date.Format(checkpoint.DateFormat),
		Amount:  p.Amount.StringFixed(2),
		Details: p.Description,
	}

	err := w.ledger.CreateTransaction(ctx, p)
	switch {
	case err == nil:
		w.stored++
		rec.Action = runlog.ActionPostingStored
	case errors.Is(err, firefly.ErrDuplicate):
		w.duplicates++
		rec.Action = runlog.ActionPostingDuplicate
		log.Debug().Err(err).Msg("ledger already has this transaction, skipping")
	default:
		w.failed++
		rec.Action = runlog.ActionPostingFailed
		rec.Details = err.Error()
		log.Warn().Err(err).Msg("unable to store transaction, skipping")
	}

	if err := w.runLog.Append(rec); err != nil {
		log.Warn().Err(err).Msg("unable to write sync log record")
	}
}

// Stats returns how many postings were stored, rejected as duplicates, and
// failed outright.
func (w *Writer) Stats() (stored, duplicates, failed int) {
	return w.stored, w.duplicates, w.failed
}

func sideString(s model.PostingSide) string {
	if s.AccountID != "" {
		return "<account " + s.AccountID + ">"
	}
	if s.Name != "" {
		return s.Name
	}
	return "<missing>"
}
