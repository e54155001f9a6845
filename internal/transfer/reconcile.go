// Package transfer reconciles internal bank transfers.
//
// A transfer between two of the user's own accounts arrives from the bank as
// two independent rows carrying no shared identifier: a negative amount on the
// sending account and a positive amount on the receiving account, with the
// same date and text. Posting both rows directly would double-count the
// movement, so candidates are collected per sync year and merged here.
package transfer

import (
	"github.com/banksync-dev/banksync/internal/checkpoint"
	"github.com/banksync-dev/banksync/internal/model"
)

// Pair is one reconciled internal transfer: the debit row from the sending
// account matched with the credit row from the receiving account. Amounts sum
// to exactly zero and date and text are identical by construction.
type Pair struct {
	Debit  model.SourceTransaction // negative amount
	Credit model.SourceTransaction // positive amount
}

// Result holds the outcome of reconciling one year's candidates. Every
// candidate ends up in exactly one pair or in Leftovers.
type Result struct {
	Pairs     []Pair
	Leftovers []model.SourceTransaction
}

// groupKey fields are strings so that map equality matches value equality:
// a time.Time key would compare location and monotonic-clock fields too.
type groupKey struct {
	amount string // absolute amount, two decimals
	date   string // YYYY-MM-DD
	text   string
}

type group struct {
	neg []model.SourceTransaction
	pos []model.SourceTransaction
}

// Reconcile partitions candidates by (absolute amount, date, text) and, within
// each group, pairs the i-th negative with the i-th positive in fetch order.
// Candidates on the longer side of an unbalanced group become leftovers.
func Reconcile(candidates []model.SourceTransaction) Result {
	groups := make(map[groupKey]*group)
	var order []groupKey

	for _, c := range candidates {
		k := groupKey{
			amount: c.Amount.Abs().StringFixed(2),
			date:   c.Date.Format(checkpoint.DateFormat),
			text:   c.Text,
		}
		g, ok := groups[k]
		if !ok {
			g = &group{}
			groups[k] = g
			order = append(order, k)
		}
		if c.Amount.IsNegative() {
			g.neg = append(g.neg, c)
		} else {
			g.pos = append(g.pos, c)
		}
	}

	var res Result
	for _, k := range order {
		g := groups[k]
		n := min(len(g.neg), len(g.pos))
		for i := 0; i < n; i++ {
			res.Pairs = append(res.Pairs, Pair{Debit: g.neg[i], Credit: g.pos[i]})
		}
		res.Leftovers = append(res.Leftovers, g.neg[n:]...)
		res.Leftovers = append(res.Leftovers, g.pos[n:]...)
	}
	return res
}
