package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/angelmondragon/labstock-backend/api/middleware"
	"github.com/angelmondragon/labstock-backend/internal/stock"
	"github.com/angelmondragon/labstock-backend/pkg/enums"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubStockService struct {
	lastInput    stock.MovementInput
	lastUser     string
	lastCode     string
	lastLimit    int
	moveErr      error
	outstanding  stock.Outstanding
	transactions []stock.TransactionDTO
}

func (s *stubStockService) Checkout(ctx context.Context, input stock.MovementInput) (*stock.TransactionDTO, error) {
	s.lastInput = input
	if s.moveErr != nil {
		return nil, s.moveErr
	}
	return &stock.TransactionDTO{Username: input.Username, ItemCode: input.MaterialCode, Action: enums.TransactionActionCheckout, Quantity: input.Quantity}, nil
}

func (s *stubStockService) Checkin(ctx context.Context, input stock.MovementInput) (*stock.TransactionDTO, error) {
	s.lastInput = input
	if s.moveErr != nil {
		return nil, s.moveErr
	}
	return &stock.TransactionDTO{Username: input.Username, ItemCode: input.MaterialCode, Action: enums.TransactionActionCheckin, Quantity: input.Quantity}, nil
}

func (s *stubStockService) GetOutstanding(ctx context.Context, username, code string) (stock.Outstanding, error) {
	s.lastUser = username
	s.lastCode = code
	return s.outstanding, nil
}

func (s *stubStockService) ListTransactions(ctx context.Context, limit int) ([]stock.TransactionDTO, error) {
	s.lastLimit = limit
	return s.transactions, nil
}

func asActor(req *http.Request, username string, role enums.UserRole) *http.Request {
	return req.WithContext(middleware.WithActor(req.Context(), 1, username, role))
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	envelope := struct {
		Data json.RawMessage `json:"data"`
	}{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.NoError(t, json.Unmarshal(envelope.Data, out))
}

func decodeErrorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	envelope := struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	return envelope.Error.Code
}

func TestStockCheckoutDefaultsToCaller(t *testing.T) {
	svc := &stubStockService{}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/stock/checkout", strings.NewReader(`{"material_code":"RES-10K","quantity":3}`))
	req = asActor(req, "asha", enums.UserRoleUser)
	rec := httptest.NewRecorder()

	StockCheckout(svc, nil).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "asha", svc.lastInput.Username)
	assert.Equal(t, "RES-10K", svc.lastInput.MaterialCode)
	assert.Equal(t, 3, svc.lastInput.Quantity)

	var body struct {
		Message string `json:"message"`
	}
	decodeData(t, rec, &body)
	assert.Equal(t, "Checkout successful", body.Message)
}

func TestStockCheckoutRejectsOtherUserForMember(t *testing.T) {
	svc := &stubStockService{}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/stock/checkout", strings.NewReader(`{"username":"ravi","material_code":"RES-10K","quantity":1}`))
	req = asActor(req, "asha", enums.UserRoleUser)
	rec := httptest.NewRecorder()

	StockCheckout(svc, nil).ServeHTTP(rec, req)

	require.Equal(t, http.StatusForbidden, rec.Code)
	assert.Empty(t, svc.lastInput.Username)
}

func TestStockCheckinAdminActsForMember(t *testing.T) {
	svc := &stubStockService{}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/stock/checkin", strings.NewReader(`{"username":"ravi","material_code":"CAP-1U","quantity":2}`))
	req = asActor(req, "admin", enums.UserRoleAdmin)
	rec := httptest.NewRecorder()

	StockCheckin(svc, nil).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ravi", svc.lastInput.Username)

	var body struct {
		Message string `json:"message"`
	}
	decodeData(t, rec, &body)
	assert.Equal(t, "Checkin successful", body.Message)
}

func TestStockCheckoutInsufficientStock(t *testing.T) {
	svc := &stubStockService{moveErr: stock.ErrInsufficientStock}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/stock/checkout", strings.NewReader(`{"material_code":"RES-10K","quantity":50}`))
	req = asActor(req, "asha", enums.UserRoleUser)
	rec := httptest.NewRecorder()

	StockCheckout(svc, nil).ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INSUFFICIENT_STOCK", decodeErrorCode(t, rec))
}

func TestStockCheckoutCoercesNumericQuantity(t *testing.T) {
	svc := &stubStockService{}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/stock/checkout", strings.NewReader(`{"material_code":"RES-10K","quantity":"2"}`))
	req = asActor(req, "asha", enums.UserRoleUser)
	rec := httptest.NewRecorder()

	StockCheckout(svc, nil).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, svc.lastInput.Quantity)

	svc = &stubStockService{}
	req = httptest.NewRequest(http.MethodPost, "/api/v1/stock/checkout", strings.NewReader(`{"material_code":"RES-10K","quantity":"lots"}`))
	req = asActor(req, "asha", enums.UserRoleUser)
	rec = httptest.NewRecorder()

	StockCheckout(svc, nil).ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_ERROR", decodeErrorCode(t, rec))
	assert.Empty(t, svc.lastInput.MaterialCode)
}

func TestStockCheckoutRejectsUnknownFields(t *testing.T) {
	svc := &stubStockService{}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/stock/checkout", strings.NewReader(`{"material_code":"RES-10K","quantity":1,"extra":true}`))
	req = asActor(req, "asha", enums.UserRoleUser)
	rec := httptest.NewRecorder()

	StockCheckout(svc, nil).ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStockOutstanding(t *testing.T) {
	svc := &stubStockService{outstanding: stock.Outstanding{Borrowed: 5, Returned: 2, Outstanding: 3}}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/stock/outstanding?material_code=RES-10K", nil)
	req = asActor(req, "asha", enums.UserRoleUser)
	rec := httptest.NewRecorder()

	StockOutstanding(svc, nil).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "asha", svc.lastUser)
	assert.Equal(t, "RES-10K", svc.lastCode)

	var out stock.Outstanding
	decodeData(t, rec, &out)
	assert.Equal(t, stock.Outstanding{Borrowed: 5, Returned: 2, Outstanding: 3}, out)
}

func TestStockOutstandingForbiddenForOtherMember(t *testing.T) {
	svc := &stubStockService{}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/stock/outstanding?username=ravi&material_code=RES-10K", nil)
	req = asActor(req, "asha", enums.UserRoleUser)
	rec := httptest.NewRecorder()

	StockOutstanding(svc, nil).ServeHTTP(rec, req)

	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAdminListTransactionsLimit(t *testing.T) {
	svc := &stubStockService{transactions: []stock.TransactionDTO{{ID: 1, Username: "asha"}}}

	rec := httptest.NewRecorder()
	AdminListTransactions(svc, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/admin/v1/transactions?limit=20", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 20, svc.lastLimit)

	var rows []stock.TransactionDTO
	decodeData(t, rec, &rows)
	require.Len(t, rows, 1)

	rec = httptest.NewRecorder()
	AdminListTransactions(svc, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/admin/v1/transactions?limit=abc", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
