package handlers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mockbank/bank/internal/config"
	"github.com/mockbank/bank/internal/models"
	"github.com/mockbank/bank/internal/repository"
	"github.com/mockbank/bank/internal/service"
)

type okHealthChecker struct{}

func (okHealthChecker) PingContext(context.Context) error { return nil }

type downHealthChecker struct{}

func (downHealthChecker) PingContext(context.Context) error {
	return context.DeadlineExceeded
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// newTestServer wires the real service over an in-memory gateway and returns
// the routed mux plus the gateway for seeding fixtures.
func newTestServer(t *testing.T) (*http.ServeMux, *repository.MemoryGateway) {
	t.Helper()

	gw := repository.NewMemoryGateway()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ledger := service.NewLedgerService(gw, &config.LedgerConfig{
		GatewayTimeout: time.Second,
		ReversalPolicy: config.ReversalPolicyReject,
	}, logger)

	handler := NewHandler(ledger, ledger, ledger, ledger, okHealthChecker{}, logger)
	mux := http.NewServeMux()
	registerRoutes(mux, handler)
	return mux, gw
}

func seedOwner(t *testing.T, gw *repository.MemoryGateway, owner *models.Owner) {
	t.Helper()
	require.NoError(t, gw.SaveOwner(context.Background(), owner))
}

func checkingOwner(id, balance string) *models.Owner {
	acct := &models.Account{
		OwnerID: id,
		ID:      models.AccountID(id, models.AccountTypeChecking),
		Type:    models.AccountTypeChecking,
		Balance: dec(balance),
		Terms: models.AccountTerms{
			OverdraftLimit: dec("100"),
			MinBalance:     dec("-100"),
			MonthlyFee:     dec("10"),
		},
	}
	return &models.Owner{ID: id, Username: id, Accounts: []*models.Account{acct}}
}

func savingsOwner(id, balance string) *models.Owner {
	acct := &models.Account{
		OwnerID: id,
		ID:      models.AccountID(id, models.AccountTypeSavings),
		Type:    models.AccountTypeSavings,
		Balance: dec(balance),
		Terms: models.AccountTerms{
			MinimumBalance: dec("0"),
			InterestRate:   dec("0.05"),
		},
	}
	return &models.Owner{ID: id, Username: id, Accounts: []*models.Account{acct}}
}

func doJSON(t *testing.T, mux *http.ServeMux, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestCreateDeposit(t *testing.T) {
	mux, gw := newTestServer(t)
	seedOwner(t, gw, checkingOwner("alice", "100"))

	rec := doJSON(t, mux, http.MethodPost, "/api/v1/accounts/alice-CHECKING/deposits", `{"amount":"50"}`)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	body := decodeBody(t, rec)
	assert.Equal(t, "DEPOSIT", body["type"])
	assert.Equal(t, "COMPLETED", body["status"])
	assert.Equal(t, "alice-CHECKING", body["source_account_id"])
	assert.NotContains(t, body, "receiver_account_id")

	get := doJSON(t, mux, http.MethodGet, "/api/v1/accounts/alice-CHECKING", "")
	require.Equal(t, http.StatusOK, get.Code)
	assert.Equal(t, "150", decodeBody(t, get)["balance"])
}

func TestCreateDeposit_InvalidBody(t *testing.T) {
	mux, gw := newTestServer(t)
	seedOwner(t, gw, checkingOwner("alice", "100"))

	rec := doJSON(t, mux, http.MethodPost, "/api/v1/accounts/alice-CHECKING/deposits", `{"amount":"50","extra":true}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_amount", decodeBody(t, rec)["error"])
}

func TestCreateDeposit_NegativeAmount(t *testing.T) {
	mux, gw := newTestServer(t)
	seedOwner(t, gw, checkingOwner("alice", "100"))

	rec := doJSON(t, mux, http.MethodPost, "/api/v1/accounts/alice-CHECKING/deposits", `{"amount":"-5"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_amount", decodeBody(t, rec)["error"])
}

func TestCreateWithdrawal_InsufficientFunds(t *testing.T) {
	mux, gw := newTestServer(t)
	seedOwner(t, gw, savingsOwner("bob", "30"))

	rec := doJSON(t, mux, http.MethodPost, "/api/v1/accounts/bob-SAVINGS/withdrawals", `{"amount":"50"}`)

	assert.Equal(t, http.StatusPaymentRequired, rec.Code)
	assert.Equal(t, "insufficient_funds", decodeBody(t, rec)["error"])
}

func TestCreateWithdrawal_AccountNotFound(t *testing.T) {
	mux, _ := newTestServer(t)

	rec := doJSON(t, mux, http.MethodPost, "/api/v1/accounts/ghost-SAVINGS/withdrawals", `{"amount":"50"}`)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "account_not_found", decodeBody(t, rec)["error"])
}

func TestCreateTransfer(t *testing.T) {
	mux, gw := newTestServer(t)
	seedOwner(t, gw, checkingOwner("alice", "200"))
	seedOwner(t, gw, savingsOwner("bob", "10"))

	rec := doJSON(t, mux, http.MethodPost, "/api/v1/transfers",
		`{"source_account_id":"alice-CHECKING","receiver_account_id":"bob-SAVINGS","amount":"75"}`)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	body := decodeBody(t, rec)
	assert.Equal(t, "TRANSFER", body["type"])
	assert.Equal(t, "COMPLETED", body["status"])
	assert.Equal(t, "bob-SAVINGS", body["receiver_account_id"])

	src := decodeBody(t, doJSON(t, mux, http.MethodGet, "/api/v1/accounts/alice-CHECKING", ""))
	dst := decodeBody(t, doJSON(t, mux, http.MethodGet, "/api/v1/accounts/bob-SAVINGS", ""))
	assert.Equal(t, "125", src["balance"])
	assert.Equal(t, "85", dst["balance"])
}

func TestCreateTransfer_SameAccount(t *testing.T) {
	mux, gw := newTestServer(t)
	seedOwner(t, gw, checkingOwner("alice", "200"))

	rec := doJSON(t, mux, http.MethodPost, "/api/v1/transfers",
		`{"source_account_id":"alice-CHECKING","receiver_account_id":"alice-CHECKING","amount":"75"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "same_account", decodeBody(t, rec)["error"])
}

func TestCreateReversal(t *testing.T) {
	mux, gw := newTestServer(t)
	seedOwner(t, gw, checkingOwner("alice", "100"))

	dep := doJSON(t, mux, http.MethodPost, "/api/v1/accounts/alice-CHECKING/deposits", `{"amount":"40"}`)
	require.Equal(t, http.StatusCreated, dep.Code)
	txnID := decodeBody(t, dep)["transaction_id"].(string)

	rec := doJSON(t, mux, http.MethodPost, "/api/v1/transactions/"+txnID+"/reversal", "")

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "REVERSED", decodeBody(t, rec)["status"])

	get := doJSON(t, mux, http.MethodGet, "/api/v1/accounts/alice-CHECKING", "")
	assert.Equal(t, "100", decodeBody(t, get)["balance"])
}

func TestCreateReversal_Twice(t *testing.T) {
	mux, gw := newTestServer(t)
	seedOwner(t, gw, checkingOwner("alice", "100"))

	dep := doJSON(t, mux, http.MethodPost, "/api/v1/accounts/alice-CHECKING/deposits", `{"amount":"40"}`)
	txnID := decodeBody(t, dep)["transaction_id"].(string)

	first := doJSON(t, mux, http.MethodPost, "/api/v1/transactions/"+txnID+"/reversal", "")
	require.Equal(t, http.StatusOK, first.Code)

	second := doJSON(t, mux, http.MethodPost, "/api/v1/transactions/"+txnID+"/reversal", "")
	assert.Equal(t, http.StatusConflict, second.Code)
	assert.Equal(t, "already_reversed", decodeBody(t, second)["error"])
}

func TestCreateReversal_TransactionNotFound(t *testing.T) {
	mux, _ := newTestServer(t)

	rec := doJSON(t, mux, http.MethodPost, "/api/v1/transactions/TXN_missing/reversal", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "transaction_not_found", decodeBody(t, rec)["error"])
}

func TestGetAccountHistory(t *testing.T) {
	mux, gw := newTestServer(t)
	seedOwner(t, gw, checkingOwner("alice", "100"))

	doJSON(t, mux, http.MethodPost, "/api/v1/accounts/alice-CHECKING/deposits", `{"amount":"40"}`)
	doJSON(t, mux, http.MethodPost, "/api/v1/accounts/alice-CHECKING/withdrawals", `{"amount":"15"}`)

	rec := doJSON(t, mux, http.MethodGet, "/api/v1/accounts/alice-CHECKING/transactions", "")

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "alice-CHECKING", body["account_id"])
	txns := body["transactions"].([]any)
	require.Len(t, txns, 2)
	assert.Equal(t, "DEPOSIT", txns[0].(map[string]any)["type"])
	assert.Equal(t, "WITHDRAW", txns[1].(map[string]any)["type"])
}

func TestGetTransaction(t *testing.T) {
	mux, gw := newTestServer(t)
	seedOwner(t, gw, checkingOwner("alice", "100"))

	dep := doJSON(t, mux, http.MethodPost, "/api/v1/accounts/alice-CHECKING/deposits", `{"amount":"40"}`)
	txnID := decodeBody(t, dep)["transaction_id"].(string)

	rec := doJSON(t, mux, http.MethodGet, "/api/v1/transactions/"+txnID, "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, txnID, decodeBody(t, rec)["transaction_id"])
}

func TestCreateInterestPayment(t *testing.T) {
	mux, gw := newTestServer(t)
	seedOwner(t, gw, savingsOwner("carol", "1000"))

	rec := doJSON(t, mux, http.MethodPost, "/api/v1/accounts/carol-SAVINGS/interest", "")

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	body := decodeBody(t, rec)
	assert.Equal(t, "50", body["amount"])

	get := doJSON(t, mux, http.MethodGet, "/api/v1/accounts/carol-SAVINGS", "")
	assert.Equal(t, "1050", decodeBody(t, get)["balance"])
}

func TestCreateInterestPayment_WrongAccountType(t *testing.T) {
	mux, gw := newTestServer(t)
	seedOwner(t, gw, checkingOwner("alice", "100"))

	rec := doJSON(t, mux, http.MethodPost, "/api/v1/accounts/alice-CHECKING/interest", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "wrong_account_type", decodeBody(t, rec)["error"])
}

func TestCreateFeeCharge_Checking(t *testing.T) {
	mux, gw := newTestServer(t)
	seedOwner(t, gw, checkingOwner("alice", "100"))

	rec := doJSON(t, mux, http.MethodPost, "/api/v1/accounts/alice-CHECKING/fees", "")

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "10", decodeBody(t, rec)["amount"])

	get := doJSON(t, mux, http.MethodGet, "/api/v1/accounts/alice-CHECKING", "")
	assert.Equal(t, "90", decodeBody(t, get)["balance"])
}

func TestCreateFeeCharge_SavingsRejected(t *testing.T) {
	mux, gw := newTestServer(t)
	seedOwner(t, gw, savingsOwner("carol", "1000"))

	rec := doJSON(t, mux, http.MethodPost, "/api/v1/accounts/carol-SAVINGS/fees", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "wrong_account_type", decodeBody(t, rec)["error"])
}

func TestGetHealth(t *testing.T) {
	mux, _ := newTestServer(t)

	rec := doJSON(t, mux, http.MethodGet, "/health", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "healthy", decodeBody(t, rec)["status"])
}

func TestGetHealth_Unhealthy(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	gw := repository.NewMemoryGateway()
	ledger := service.NewLedgerService(gw, &config.LedgerConfig{
		GatewayTimeout: time.Second,
		ReversalPolicy: config.ReversalPolicyReject,
	}, logger)

	handler := NewHandler(ledger, ledger, ledger, ledger, downHealthChecker{}, logger)
	mux := http.NewServeMux()
	registerRoutes(mux, handler)

	rec := doJSON(t, mux, http.MethodGet, "/health", "")

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "unhealthy", decodeBody(t, rec)["status"])
}
