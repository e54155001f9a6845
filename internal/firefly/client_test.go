package firefly

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banksync-dev/banksync/internal/model"
)

func newTestClient(srv *httptest.Server) *Client {
	c := New(srv.URL, "test-token")
	c.httpClient = srv.Client()
	return c
}

func TestListAssetAccountsPaginated(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		assert.Equal(t, "asset", r.URL.Query().Get("type"))

		page := r.URL.Query().Get("page")
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{
			"data": [{"id": "%s0", "attributes": {"name": "Account %s", "type": "asset", "notes": "ext-%s"}}],
			"meta": {"pagination": {"current_page": %s, "total_pages": 2}}
		}`, page, page, page, page)
	}))
	defer srv.Close()

	accounts, err := newTestClient(srv).ListAssetAccounts(context.Background())
	require.NoError(t, err)
	require.Len(t, accounts, 2)
	assert.Equal(t, "10", accounts[0].ID)
	assert.Equal(t, "ext-1", accounts[0].ExternalNote)
	assert.Equal(t, "20", accounts[1].ID)
}

func TestCreateAccount(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/v1/accounts", r.URL.Path)

		var attrs accountAttributes
		require.NoError(t, json.NewDecoder(r.Body).Decode(&attrs))
		assert.Equal(t, "Sparekonto", attrs.Name)
		assert.Equal(t, "asset", attrs.Type)
		assert.Equal(t, "savingAsset", attrs.AccountRole)
		assert.Equal(t, "ext-2", attrs.Notes)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data": {"id": "42", "attributes": {"name": "Sparekonto", "type": "asset", "account_role": "savingAsset", "notes": "ext-2"}}}`))
	}))
	defer srv.Close()

	acc, err := newTestClient(srv).CreateAccount(context.Background(), model.NewLedgerAccount{
		Name:         "Sparekonto",
		Role:         model.RoleSavingAsset,
		ExternalNote: "ext-2",
	})
	require.NoError(t, err)
	assert.Equal(t, "42", acc.ID)
	assert.Equal(t, model.RoleSavingAsset, acc.Role)
}

func TestCreateTransaction(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/transactions", r.URL.Path)

		var payload transactionPayload
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.True(t, payload.ErrorIfDuplicateHash)
		require.Len(t, payload.Transactions, 1)

		split := payload.Transactions[0]
		assert.Equal(t, "withdrawal", split.Type)
		assert.Equal(t, "2021-03-01", split.Date)
		assert.Equal(t, "42.50", split.Amount)
		assert.Equal(t, "10", split.SourceID)
		assert.Empty(t, split.SourceName)
		assert.Equal(t, "KIWI OSLO", split.DestinationName)
		assert.Equal(t, "VISA VARE", split.CategoryName)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data": {"id": "100"}}`))
	}))
	defer srv.Close()

	err := newTestClient(srv).CreateTransaction(context.Background(), model.Posting{
		Date:        time.Date(2021, 3, 1, 0, 0, 0, 0, time.UTC),
		Amount:      decimal.RequireFromString("42.5"),
		Description: "12.02 KIWI OSLO",
		Kind:        model.KindWithdrawal,
		Category:    "VISA VARE",
		Source:      model.PostingSide{AccountID: "10"},
		Destination: model.PostingSide{Name: "KIWI OSLO"},
	})
	require.NoError(t, err)
}

func TestCreateTransactionDuplicate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"message": "Duplicate of transaction #100."}`))
	}))
	defer srv.Close()

	err := newTestClient(srv).CreateTransaction(context.Background(), model.Posting{
		Kind:   model.KindDeposit,
		Amount: decimal.New(1, 0),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestCreateTransactionOtherError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"message": "The source account is invalid."}`))
	}))
	defer srv.Close()

	err := newTestClient(srv).CreateTransaction(context.Background(), model.Posting{
		Kind:   model.KindDeposit,
		Amount: decimal.New(1, 0),
	})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrDuplicate)
	assert.Contains(t, err.Error(), "source account is invalid")
}
