package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// SourceTransaction is one transaction fetched from the banking API.
type SourceTransaction struct {
	AccountExternalID string
	Date              time.Time       // accounting date, no time component
	Amount            decimal.Decimal // negative = money out, positive = money in
	Text              string
	TypeCode          string // bank transaction type (OVFNETTB, VISA VARE, etc.)
}

// PostingKind is the ledger-side transaction type.
type PostingKind string

const (
	KindDeposit    PostingKind = "deposit"
	KindWithdrawal PostingKind = "withdrawal"
	KindTransfer   PostingKind = "transfer"
)

// PostingSide identifies one end of a posting: a ledger account for the known
// side, or a free-text counterparty name for the other. Exactly one of the two
// fields is set.
type PostingSide struct {
	AccountID string
	Name      string
}

// Posting is a transaction to be written to the ledger.
type Posting struct {
	Date        time.Time
	Amount      decimal.Decimal // absolute value
	Description string
	Kind        PostingKind
	Category    string // the bank's transaction type code
	Source      PostingSide
	Destination PostingSide
}
