// Package classify labels source transactions for the sync pipeline.
package classify

import "github.com/banksync-dev/banksync/internal/model"

// Kind is the pipeline-level label of a source transaction.
type Kind int

const (
	// Deposit is money in from an external counterparty.
	Deposit Kind = iota
	// Withdrawal is money out to an external counterparty.
	Withdrawal
	// TransferCandidate is one half of a transfer between the user's own
	// accounts. The bank reports these as two independent rows; they are
	// merged downstream instead of being posted directly.
	TransferCandidate
)

// String returns the label name.
func (k Kind) String() string {
	switch k {
	case Deposit:
		return "deposit"
	case Withdrawal:
		return "withdrawal"
	case TransferCandidate:
		return "transfer-candidate"
	}
	return "unknown"
}

// transferTypeCodes are the bank's own-account transfer type codes.
var transferTypeCodes = map[string]bool{
	"OVFNETTB":  true,
	"MOB.B.OVF": true,
	"TILBAKEF.": true,
}

// Classify labels a source transaction. Transfer type codes win regardless of
// sign; otherwise the sign decides, with zero treated as a deposit.
func Classify(tx model.SourceTransaction) Kind {
	if transferTypeCodes[tx.TypeCode] {
		return TransferCandidate
	}
	if tx.Amount.IsNegative() {
		return Withdrawal
	}
	return Deposit
}
