// Package sbanken is a minimal client for the bank's customer API, covering
// the account and transaction listing the sync needs.
package sbanken

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/banksync-dev/banksync/internal/checkpoint"
	"github.com/banksync-dev/banksync/internal/model"
)

// Client talks to the banking API on behalf of one customer.
type Client struct {
	baseURL    string
	customerID string
	httpClient *http.Client
}

// New creates a Client using the given HTTP client, which is expected to
// carry authentication. Used directly in tests.
func New(baseURL, customerID string, httpClient *http.Client) *Client {
	return &Client{baseURL: baseURL, customerID: customerID, httpClient: httpClient}
}

// NewWithAuth creates a Client whose transport obtains and refreshes OAuth2
// client-credentials tokens. The auth endpoint requires percent-encoded
// credentials in the basic-auth header; oauth2 escapes them itself, so id and
// secret are passed through raw.
func NewWithAuth(ctx context.Context, baseURL, authURL, clientID, clientSecret, customerID string) *Client {
	cc := clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     authURL,
		AuthStyle:    oauth2.AuthStyleInHeader,
	}
	return New(baseURL, customerID, cc.Client(ctx))
}

type accountItem struct {
	AccountID     string `json:"accountId"`
	Name          string `json:"name"`
	AccountType   string `json:"accountType"`
	AccountNumber string `json:"accountNumber"`
}

type accountsResponse struct {
	AvailableItems int           `json:"availableItems"`
	Items          []accountItem `json:"items"`
	IsError        *bool         `json:"isError"`
	ErrorMessage   string        `json:"errorMessage"`
}

type transactionItem struct {
	AccountingDate  string      `json:"accountingDate"`
	Amount          json.Number `json:"amount"`
	Text            string      `json:"text"`
	TransactionType string      `json:"transactionType"`
}

type transactionsResponse struct {
	AvailableItems int               `json:"availableItems"`
	Items          []transactionItem `json:"items"`
	IsError        *bool             `json:"isError"`
	ErrorMessage   string            `json:"errorMessage"`
}

// ListAccounts fetches all of the customer's accounts.
func (c *Client) ListAccounts(ctx context.Context) ([]model.SourceAccount, error) {
	var resp accountsResponse
	if err := c.get(ctx, "/api/v1/Accounts", nil, &resp); err != nil {
		return nil, fmt.Errorf("listing accounts: %w", err)
	}
	if resp.IsError == nil || *resp.IsError {
		return nil, fmt.Errorf("listing accounts: api reported error: %s", resp.ErrorMessage)
	}

	accounts := make([]model.SourceAccount, 0, len(resp.Items))
	for _, item := range resp.Items {
		accounts = append(accounts, model.SourceAccount{
			ExternalID:    item.AccountID,
			Name:          item.Name,
			AccountType:   item.AccountType,
			AccountNumber: item.AccountNumber,
		})
	}
	return accounts, nil
}

// ListTransactions fetches the account's transactions with accounting dates in
// [from, to]. The API timestamps accounting dates; only the date part is kept.
func (c *Client) ListTransactions(ctx context.Context, accountID string, from, to time.Time, pageSize int) ([]model.SourceTransaction, error) {
	query := url.Values{
		"startDate": {from.Format(checkpoint.DateFormat)},
		"endDate":   {to.Format(checkpoint.DateFormat)},
		"length":    {strconv.Itoa(pageSize)},
	}

	var resp transactionsResponse
	if err := c.get(ctx, "/api/v1/Transactions/"+url.PathEscape(accountID), query, &resp); err != nil {
		return nil, fmt.Errorf("listing transactions for account %s: %w", accountID, err)
	}
	if resp.IsError == nil || *resp.IsError {
		return nil, fmt.Errorf("listing transactions for account %s: api reported error: %s", accountID, resp.ErrorMessage)
	}

	txs := make([]model.SourceTransaction, 0, len(resp.Items))
	for _, item := range resp.Items {
		tx, err := convertTransaction(accountID, item)
		if err != nil {
			return nil, fmt.Errorf("account %s: %w", accountID, err)
		}
		txs = append(txs, tx)
	}
	return txs, nil
}

func convertTransaction(accountID string, item transactionItem) (model.SourceTransaction, error) {
	raw := item.AccountingDate
	if len(raw) < len(checkpoint.DateFormat) {
		return model.SourceTransaction{}, fmt.Errorf("short accounting date %q", raw)
	}
	day, err := time.Parse(checkpoint.DateFormat, raw[:len(checkpoint.DateFormat)])
	if err != nil {
		return model.SourceTransaction{}, fmt.Errorf("parsing accounting date %q: %w", raw, err)
	}

	amount, err := decimal.NewFromString(item.Amount.String())
	if err != nil {
		return model.SourceTransaction{}, fmt.Errorf("parsing amount %q: %w", item.Amount, err)
	}

	return model.SourceTransaction{
		AccountExternalID: accountID,
		Date:              day,
		Amount:            amount,
		Text:              item.Text,
		TypeCode:          item.TransactionType,
	}, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("customerId", c.customerID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}

	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
