// Package firefly is a client for the personal-finance ledger's JSON API,
// covering asset accounts and transaction creation.
package firefly

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/banksync-dev/banksync/internal/checkpoint"
	"github.com/banksync-dev/banksync/internal/model"
)

// ErrDuplicate marks a transaction the ledger rejected as a duplicate of one
// it already holds. Expected during window reprocessing, not a failure.
var ErrDuplicate = errors.New("duplicate transaction")

// Client talks to one ledger instance.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// New creates a Client authenticating with a personal access token.
func New(baseURL, token string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{},
	}
}

// ListAssetAccounts fetches every asset account, following pagination.
func (c *Client) ListAssetAccounts(ctx context.Context) ([]model.LedgerAccount, error) {
	var accounts []model.LedgerAccount
	for page := 1; ; page++ {
		query := url.Values{
			"type": {"asset"},
			"page": {strconv.Itoa(page)},
		}

		var resp accountsPage
		if err := c.do(ctx, http.MethodGet, "/api/v1/accounts?"+query.Encode(), nil, &resp); err != nil {
			return nil, fmt.Errorf("listing asset accounts: %w", err)
		}
		for _, a := range resp.Data {
			accounts = append(accounts, convertAccount(a))
		}
		if page >= resp.Meta.Pagination.TotalPages {
			break
		}
	}
	return accounts, nil
}

// CreateAccount creates an asset account and returns it with its assigned id.
func (c *Client) CreateAccount(ctx context.Context, acc model.NewLedgerAccount) (model.LedgerAccount, error) {
	payload := accountAttributes{
		Name:          acc.Name,
		Type:          "asset",
		AccountRole:   string(acc.Role),
		AccountNumber: acc.AccountNumber,
		Notes:         acc.ExternalNote,
	}

	var resp accountResponse
	if err := c.do(ctx, http.MethodPost, "/api/v1/accounts", payload, &resp); err != nil {
		return model.LedgerAccount{}, fmt.Errorf("creating account %q: %w", acc.Name, err)
	}
	return convertAccount(resp.Data), nil
}

// CreateTransaction submits one posting. Duplicate-hash rejection comes back
// as ErrDuplicate.
func (c *Client) CreateTransaction(ctx context.Context, p model.Posting) error {
	split := transactionSplit{
		Type:         string(p.Kind),
		Date:         p.Date.Format(checkpoint.DateFormat),
		Amount:       p.Amount.StringFixed(2),
		Description:  p.Description,
		CategoryName: p.Category,
	}
	split.SourceID = p.Source.AccountID
	split.SourceName = p.Source.Name
	split.DestinationID = p.Destination.AccountID
	split.DestinationName = p.Destination.Name

	payload := transactionPayload{
		ErrorIfDuplicateHash: true,
		Transactions:         []transactionSplit{split},
	}
	if err := c.do(ctx, http.MethodPost, "/api/v1/transactions", payload, nil); err != nil {
		return fmt.Errorf("creating transaction: %w", err)
	}
	return nil
}

func convertAccount(a accountRead) model.LedgerAccount {
	return model.LedgerAccount{
		ID:           a.ID,
		Name:         a.Attributes.Name,
		Role:         model.AccountRole(a.Attributes.AccountRole),
		ExternalNote: a.Attributes.Notes,
	}
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return c.apiError(resp)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}
	return nil
}

func (c *Client) apiError(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))

	var apiErr errorResponse
	if json.Unmarshal(data, &apiErr) == nil && apiErr.Message != "" {
		if resp.StatusCode == http.StatusUnprocessableEntity && strings.Contains(apiErr.Message, "Duplicate of transaction") {
			return fmt.Errorf("%w: %s", ErrDuplicate, apiErr.Message)
		}
		return fmt.Errorf("api error (%s): %s", resp.Status, apiErr.Message)
	}
	return fmt.Errorf("unexpected status %s", resp.Status)
}
