package transfer

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banksync-dev/banksync/internal/model"
)

func candidate(acct, amount string, day time.Time, text string) model.SourceTransaction {
	return model.SourceTransaction{
		AccountExternalID: acct,
		Amount:            decimal.RequireFromString(amount),
		Date:              day,
		Text:              text,
		TypeCode:          "OVFNETTB",
	}
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestReconcileSimplePair(t *testing.T) {
	day := date(2021, 3, 1)
	res := Reconcile([]model.SourceTransaction{
		candidate("A", "-500", day, "Til: Savings"),
		candidate("B", "500", day, "Til: Savings"),
	})

	require.Len(t, res.Pairs, 1)
	assert.Empty(t, res.Leftovers)
	assert.Equal(t, "A", res.Pairs[0].Debit.AccountExternalID)
	assert.Equal(t, "B", res.Pairs[0].Credit.AccountExternalID)
	assert.True(t, res.Pairs[0].Debit.Amount.Add(res.Pairs[0].Credit.Amount).IsZero())
}

func TestReconcileUnbalancedGroup(t *testing.T) {
	day := date(2021, 5, 10)
	res := Reconcile([]model.SourceTransaction{
		candidate("A", "-300", day, "Sparing"),
		candidate("B", "300", day, "Sparing"),
		candidate("C", "300", day, "Sparing"),
	})

	require.Len(t, res.Pairs, 1)
	require.Len(t, res.Leftovers, 1)
	assert.Equal(t, "C", res.Leftovers[0].AccountExternalID)
}

// Three same-valued transfers on one day must pair by position, not collide.
func TestReconcileRepeatedIdenticalTransfers(t *testing.T) {
	day := date(2021, 8, 15)
	res := Reconcile([]model.SourceTransaction{
		candidate("A", "-100", day, "Overføring"),
		candidate("A", "-100", day, "Overføring"),
		candidate("A", "-100", day, "Overføring"),
		candidate("B", "100", day, "Overføring"),
		candidate("B", "100", day, "Overføring"),
		candidate("B", "100", day, "Overføring"),
	})

	require.Len(t, res.Pairs, 3)
	assert.Empty(t, res.Leftovers)
	for _, p := range res.Pairs {
		assert.Equal(t, "A", p.Debit.AccountExternalID)
		assert.Equal(t, "B", p.Credit.AccountExternalID)
	}
}

func TestReconcileSeparatesGroups(t *testing.T) {
	// Same amount and text, different dates: never paired across groups.
	res := Reconcile([]model.SourceTransaction{
		candidate("A", "-250", date(2021, 1, 2), "Sparing"),
		candidate("B", "250", date(2021, 1, 3), "Sparing"),
	})
	assert.Empty(t, res.Pairs)
	assert.Len(t, res.Leftovers, 2)

	// Same date and amount, different text.
	res = Reconcile([]model.SourceTransaction{
		candidate("A", "-250", date(2021, 1, 2), "Sparing"),
		candidate("B", "250", date(2021, 1, 2), "Ferie"),
	})
	assert.Empty(t, res.Pairs)
	assert.Len(t, res.Leftovers, 2)
}

// Dates carrying different locations still group when they fall on the same
// calendar day.
func TestReconcileIgnoresDateLocation(t *testing.T) {
	utc := date(2021, 3, 1)
	oslo := time.Date(2021, 3, 1, 1, 0, 0, 0, time.FixedZone("CET", 3600))

	res := Reconcile([]model.SourceTransaction{
		candidate("A", "-500", utc, "Til: Savings"),
		candidate("B", "500", oslo, "Til: Savings"),
	})
	require.Len(t, res.Pairs, 1)
	assert.Empty(t, res.Leftovers)
}

func TestReconcileEmpty(t *testing.T) {
	res := Reconcile(nil)
	assert.Empty(t, res.Pairs)
	assert.Empty(t, res.Leftovers)
}

// Every candidate lands in exactly one pair or in the leftover list, and the
// pair count per group is min(#negative, #positive).
func TestReconcileCompleteness(t *testing.T) {
	day := date(2021, 6, 1)
	candidates := []model.SourceTransaction{
		candidate("A", "-500", day, "Til: Savings"),
		candidate("B", "500", day, "Til: Savings"),
		candidate("A", "-300", day, "Sparing"),
		candidate("B", "300", day, "Sparing"),
		candidate("C", "300", day, "Sparing"),
		candidate("A", "-75.25", day, "Ferie"),
		candidate("B", "42.00", date(2021, 6, 2), "Ferie"),
	}

	res := Reconcile(candidates)
	assert.Len(t, candidates, 2*len(res.Pairs)+len(res.Leftovers))

	for _, p := range res.Pairs {
		assert.True(t, p.Debit.Amount.IsNegative())
		assert.True(t, p.Debit.Amount.Add(p.Credit.Amount).IsZero())
		assert.Equal(t, p.Debit.Date, p.Credit.Date)
		assert.Equal(t, p.Debit.Text, p.Credit.Text)
	}
}
