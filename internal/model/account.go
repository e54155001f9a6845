package model

// AccountRole classifies how an asset account is used in the ledger.
type AccountRole string

const (
	RoleDefaultAsset AccountRole = "defaultAsset"
	RoleSavingAsset  AccountRole = "savingAsset"
)

// SourceAccount is one bank account as reported by the banking API.
type SourceAccount struct {
	ExternalID    string
	Name          string
	AccountType   string // bank account type ("Standard account", etc.)
	AccountNumber string
}

// LedgerAccount is an existing asset account in the ledger.
// ExternalNote carries the source account's external id for mirrored accounts;
// it is the join key between the two systems.
type LedgerAccount struct {
	ID           string
	Name         string
	Role         AccountRole
	ExternalNote string
}

// NewLedgerAccount describes an asset account to be created in the ledger.
type NewLedgerAccount struct {
	Name          string
	Role          AccountRole
	AccountNumber string
	ExternalNote  string
}
