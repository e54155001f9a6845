package mirror

import (
	"fmt"

	"github.com/banksync-dev/banksync/internal/model"
)

// Index joins source external ids to ledger accounts. The ledger enforces no
// uniqueness on the notes field, so the index is validated at build time and
// a duplicate external note fails the run instead of silently picking the
// first match.
type Index struct {
	byExternal map[string]model.LedgerAccount
}

// NewIndex builds an Index from the ledger's asset accounts. Accounts without
// an external note are not part of the mirror and are skipped.
func NewIndex(accounts []model.LedgerAccount) (*Index, error) {
	byExternal := make(map[string]model.LedgerAccount, len(accounts))
	for _, acc := range accounts {
		if acc.ExternalNote == "" {
			continue
		}
		if prev, ok := byExternal[acc.ExternalNote]; ok {
			return nil, fmt.Errorf("ledger accounts %q and %q share external id %q", prev.Name, acc.Name, acc.ExternalNote)
		}
		byExternal[acc.ExternalNote] = acc
	}
	return &Index{byExternal: byExternal}, nil
}

// Lookup returns the ledger account mirroring the given external id.
func (ix *Index) Lookup(externalID string) (model.LedgerAccount, bool) {
	acc, ok := ix.byExternal[externalID]
	return acc, ok
}
