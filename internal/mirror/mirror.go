// Package mirror keeps the ledger's asset accounts in step with the bank's.
package mirror

import (
	"context"
	"fmt"

	"github.com/banksync-dev/banksync/internal/logging"
	"github.com/banksync-dev/banksync/internal/model"
)

// roleForType maps the bank's account type to a ledger asset role.
var roleForType = map[string]model.AccountRole{
	"High interest account": model.RoleSavingAsset,
	"Standard account":      model.RoleDefaultAsset,
	"BSU account":           model.RoleSavingAsset,
}

// UnsupportedAccountTypeError reports a bank account type with no ledger role
// mapping. The run aborts rather than mirror the account wrong.
type UnsupportedAccountTypeError struct {
	AccountType string
}

func (e UnsupportedAccountTypeError) Error() string {
	return fmt.Sprintf("no ledger role mapping for account type %q", e.AccountType)
}

// Convert builds the ledger account to create for a source account. The
// source external id goes into the notes field, which later runs use to join
// the two systems.
func Convert(acc model.SourceAccount) (model.NewLedgerAccount, error) {
	role, ok := roleForType[acc.AccountType]
	if !ok {
		return model.NewLedgerAccount{}, UnsupportedAccountTypeError{AccountType: acc.AccountType}
	}
	return model.NewLedgerAccount{
		Name:          acc.Name,
		Role:          role,
		AccountNumber: acc.AccountNumber,
		ExternalNote:  acc.ExternalID,
	}, nil
}

// Creator is the ledger-side surface account creation needs.
type Creator interface {
	CreateAccount(ctx context.Context, acc model.NewLedgerAccount) (model.LedgerAccount, error)
}

// EnsureAccounts creates a ledger account for every source account whose
// external id has no match among existing. Returns the accounts created.
// After a non-empty return the caller must re-fetch the ledger's accounts
// before building an Index, since later joins depend on the new entries.
func EnsureAccounts(ctx context.Context, creator Creator, source []model.SourceAccount, existing []model.LedgerAccount) ([]model.LedgerAccount, error) {
	log := logging.FromContext(ctx)

	known := make(map[string]bool, len(existing))
	for _, acc := range existing {
		if acc.ExternalNote != "" {
			known[acc.ExternalNote] = true
		}
	}

	var created []model.LedgerAccount
	for _, src := range source {
		if known[src.ExternalID] {
			continue
		}

		newAcc, err := Convert(src)
		if err != nil {
			return created, fmt.Errorf("converting account %q: %w", src.Name, err)
		}

		log.Info().Str("account", src.Name).Msg("account does not exist in ledger, creating")
		acc, err := creator.CreateAccount(ctx, newAcc)
		if err != nil {
			return created, fmt.Errorf("creating account %q: %w", src.Name, err)
		}
		created = append(created, acc)
	}
	return created, nil
}
