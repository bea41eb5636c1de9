package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"eurofx/internal/domain"
	"eurofx/internal/rate"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockRateService struct{ mock.Mock }

func (m *MockRateService) GetRatesOnDate(ctx context.Context, date time.Time) ([]domain.Rate, error) {
	args := m.Called(ctx, date)
	rates, _ := args.Get(0).([]domain.Rate)
	return rates, args.Error(1)
}

func (m *MockRateService) Convert(ctx context.Context, code string, date time.Time, amount decimal.Decimal) (domain.Conversion, error) {
	args := m.Called(ctx, code, date, amount)
	conv, _ := args.Get(0).(domain.Conversion)
	return conv, args.Error(1)
}

func (m *MockRateService) ListRates(ctx context.Context, page, size int) (domain.RatePage, error) {
	args := m.Called(ctx, page, size)
	res, _ := args.Get(0).(domain.RatePage)
	return res, args.Error(1)
}

type MockCurrencyService struct{ mock.Mock }

func (m *MockCurrencyService) ListCurrencies(ctx context.Context) ([]domain.Currency, error) {
	args := m.Called(ctx)
	currencies, _ := args.Get(0).([]domain.Currency)
	return currencies, args.Error(1)
}

type MockRefreshTrigger struct{ mock.Mock }

func (m *MockRefreshTrigger) StartRefresh(ctx context.Context) bool {
	return m.Called(ctx).Bool(0)
}

func (m *MockRefreshTrigger) IsRefreshing() bool {
	return m.Called().Bool(0)
}

type errorJSON struct {
	Error string `json:"error"`
}

var jan2 = time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

func newTestHandler() (*Handler, *MockRateService, *MockCurrencyService, *MockRefreshTrigger) {
	rates := new(MockRateService)
	currencies := new(MockCurrencyService)
	refresher := new(MockRefreshTrigger)
	return NewRateHandler(rate.NewValidator(), rates, currencies, refresher), rates, currencies, refresher
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	require.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	var ej errorJSON
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &ej))
	return ej.Error
}

// --- GetCurrencies ---

func TestHandler_GetCurrencies_Success(t *testing.T) {
	h, _, currencies, _ := newTestHandler()
	currencies.On("ListCurrencies", mock.Anything).
		Return([]domain.Currency{{Code: "AUD", Name: "Australian dollar"}}, nil).Once()

	rr := httptest.NewRecorder()
	h.GetCurrencies(rr, httptest.NewRequest(http.MethodGet, "/api/v1/currencies", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	var res []CurrencyResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &res))
	require.Equal(t, []CurrencyResponse{{Code: "AUD", Name: "Australian dollar"}}, res)
}

func TestHandler_GetCurrencies_Upstream(t *testing.T) {
	h, _, currencies, _ := newTestHandler()
	currencies.On("ListCurrencies", mock.Anything).Return(nil, domain.ErrUpstreamUnavailable).Once()

	rr := httptest.NewRecorder()
	h.GetCurrencies(rr, httptest.NewRequest(http.MethodGet, "/api/v1/currencies", nil))

	require.Equal(t, http.StatusBadGateway, rr.Code)
	require.Equal(t, "exchange rate provider is unavailable", decodeError(t, rr))
}

// --- GetRatesOnDate ---

func TestHandler_GetRatesOnDate_InvalidDate(t *testing.T) {
	h, rates, _, _ := newTestHandler()

	for _, url := range []string{"/api/v1/fx-exchange", "/api/v1/fx-exchange?date=02-01-2024"} {
		rr := httptest.NewRecorder()
		h.GetRatesOnDate(rr, httptest.NewRequest(http.MethodGet, url, nil))

		require.Equal(t, http.StatusBadRequest, rr.Code, url)
		require.NotEmpty(t, decodeError(t, rr))
	}
	rates.AssertNotCalled(t, "GetRatesOnDate", mock.Anything, mock.Anything)
}

func TestHandler_GetRatesOnDate_Success(t *testing.T) {
	h, rates, _, _ := newTestHandler()
	rates.On("GetRatesOnDate", mock.Anything, jan2).Return([]domain.Rate{
		{CurrencyCode: "USD", BaseCurrency: "EUR", Date: jan2, Value: decimal.RequireFromString("1.1036")},
	}, nil).Once()

	rr := httptest.NewRecorder()
	h.GetRatesOnDate(rr, httptest.NewRequest(http.MethodGet, "/api/v1/fx-exchange?date=2024-01-02", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	require.JSONEq(t, `{"date":"2024-01-02","base_currency":"EUR","rates":[{"currency_code":"USD","rate":1.1036}]}`, rr.Body.String())
}

func TestHandler_GetRatesOnDate_ErrorMapping(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{name: "not found", err: domain.ErrRatesNotFound, wantStatus: http.StatusNotFound},
		{name: "busy", err: domain.ErrRefreshInProgress, wantStatus: http.StatusServiceUnavailable},
		{name: "upstream", err: domain.ErrUpstreamUnavailable, wantStatus: http.StatusBadGateway},
		{name: "internal", err: errors.New("boom"), wantStatus: http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h, rates, _, _ := newTestHandler()
			rates.On("GetRatesOnDate", mock.Anything, jan2).Return(nil, tc.err).Once()

			rr := httptest.NewRecorder()
			h.GetRatesOnDate(rr, httptest.NewRequest(http.MethodGet, "/api/v1/fx-exchange?date=2024-01-02", nil))

			require.Equal(t, tc.wantStatus, rr.Code)
			require.NotEmpty(t, decodeError(t, rr))
		})
	}
}

func TestHandler_Busy_SetsRetryAfter(t *testing.T) {
	h, rates, _, _ := newTestHandler()
	rates.On("GetRatesOnDate", mock.Anything, jan2).Return(nil, domain.ErrRefreshInProgress).Once()

	rr := httptest.NewRecorder()
	h.GetRatesOnDate(rr, httptest.NewRequest(http.MethodGet, "/api/v1/fx-exchange?date=2024-01-02", nil))

	require.Equal(t, http.StatusServiceUnavailable, rr.Code)
	require.Equal(t, "30", rr.Header().Get("Retry-After"))
}

func TestHandler_InternalError_HidesDetails(t *testing.T) {
	h, rates, _, _ := newTestHandler()
	rates.On("GetRatesOnDate", mock.Anything, jan2).Return(nil, errors.New("pq: password leaked")).Once()

	rr := httptest.NewRecorder()
	h.GetRatesOnDate(rr, httptest.NewRequest(http.MethodGet, "/api/v1/fx-exchange?date=2024-01-02", nil))

	require.Equal(t, "ups, couldn't get rates on date this time", decodeError(t, rr))
}

// --- ConvertToEuro ---

func TestHandler_ConvertToEuro_ValidationErrors(t *testing.T) {
	urls := []string{
		"/api/v1/currency-exchange-euro?date=2024-01-02&amount=1",
		"/api/v1/currency-exchange-euro?currency=US&date=2024-01-02&amount=1",
		"/api/v1/currency-exchange-euro?currency=USD&date=bad&amount=1",
		"/api/v1/currency-exchange-euro?currency=USD&date=2024-01-02",
		"/api/v1/currency-exchange-euro?currency=USD&date=2024-01-02&amount=-5",
		"/api/v1/currency-exchange-euro?currency=EUR&date=2024-01-02&amount=1e20000000",
		"/api/v1/currency-exchange-euro?currency=USD&date=2024-01-02&amount=1e-20000000",
	}
	for _, url := range urls {
		h, rates, _, _ := newTestHandler()

		rr := httptest.NewRecorder()
		h.ConvertToEuro(rr, httptest.NewRequest(http.MethodGet, url, nil))

		require.Equal(t, http.StatusBadRequest, rr.Code, url)
		rates.AssertNotCalled(t, "Convert", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	}
}

func TestHandler_ConvertToEuro_Success(t *testing.T) {
	h, rates, _, _ := newTestHandler()
	amount := decimal.NewFromInt(100)
	rates.On("Convert", mock.Anything, "USD", jan2, mock.MatchedBy(func(d decimal.Decimal) bool { return d.Equal(amount) })).Return(domain.Conversion{
		CurrencyCode:    "USD",
		Date:            jan2,
		OriginalAmount:  amount,
		Rate:            decimal.RequireFromString("1.1"),
		ConvertedAmount: decimal.RequireFromString("90.91"),
	}, nil).Once()

	rr := httptest.NewRecorder()
	h.ConvertToEuro(rr, httptest.NewRequest(http.MethodGet, "/api/v1/currency-exchange-euro?currency=usd&date=2024-01-02&amount=100", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	require.JSONEq(t, `{"currency_code":"USD","date":"2024-01-02","original_amount":100,"rate":1.1,"converted_amount":90.91}`, rr.Body.String())
	rates.AssertExpectations(t)
}

func TestHandler_ConvertToEuro_NotFound(t *testing.T) {
	h, rates, _, _ := newTestHandler()
	rates.On("Convert", mock.Anything, "USD", jan2, mock.Anything).Return(nil, domain.ErrRateNotFound).Once()

	rr := httptest.NewRecorder()
	h.ConvertToEuro(rr, httptest.NewRequest(http.MethodGet, "/api/v1/currency-exchange-euro?currency=USD&date=2024-01-02&amount=1", nil))

	require.Equal(t, http.StatusNotFound, rr.Code)
	require.Equal(t, domain.ErrRateNotFound.Error(), decodeError(t, rr))
}

// --- GetDataset ---

func TestHandler_GetDataset_DefaultsAndSuccess(t *testing.T) {
	h, rates, _, _ := newTestHandler()
	rates.On("ListRates", mock.Anything, rate.DefaultPage, rate.DefaultPageSize).Return(domain.RatePage{
		Items:      []domain.Rate{{CurrencyCode: "USD", BaseCurrency: "EUR", Date: jan2, Value: decimal.RequireFromString("1.1036")}},
		Page:       0,
		Size:       200,
		TotalItems: 1,
		TotalPages: 1,
	}, nil).Once()

	rr := httptest.NewRecorder()
	h.GetDataset(rr, httptest.NewRequest(http.MethodGet, "/api/v1/fx-exchange-dataset", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	require.JSONEq(t, `{"items":[{"currency_code":"USD","base_currency":"EUR","date":"2024-01-02","rate":1.1036}],"page":0,"size":200,"total_items":1,"total_pages":1}`, rr.Body.String())
}

func TestHandler_GetDataset_InvalidPaging(t *testing.T) {
	h, rates, _, _ := newTestHandler()

	rr := httptest.NewRecorder()
	h.GetDataset(rr, httptest.NewRequest(http.MethodGet, "/api/v1/fx-exchange-dataset?page=-1", nil))

	require.Equal(t, http.StatusBadRequest, rr.Code)
	rates.AssertNotCalled(t, "ListRates", mock.Anything, mock.Anything, mock.Anything)
}

func TestHandler_GetDataset_OutOfRange(t *testing.T) {
	h, rates, _, _ := newTestHandler()
	rates.On("ListRates", mock.Anything, 9, 10).Return(nil, domain.ErrPageOutOfRange).Once()

	rr := httptest.NewRecorder()
	h.GetDataset(rr, httptest.NewRequest(http.MethodGet, "/api/v1/fx-exchange-dataset?page=9&size=10", nil))

	require.Equal(t, http.StatusBadRequest, rr.Code)
}

// --- Refresh ---

func TestHandler_StartRefresh(t *testing.T) {
	h, _, _, refresher := newTestHandler()
	refresher.On("StartRefresh", mock.Anything).Return(true).Once()
	refresher.On("StartRefresh", mock.Anything).Return(false).Once()

	rr := httptest.NewRecorder()
	h.StartRefresh(rr, httptest.NewRequest(http.MethodPost, "/api/v1/refresh", nil))
	require.Equal(t, http.StatusAccepted, rr.Code)

	rr = httptest.NewRecorder()
	h.StartRefresh(rr, httptest.NewRequest(http.MethodPost, "/api/v1/refresh", nil))
	require.Equal(t, http.StatusConflict, rr.Code)
	require.Equal(t, "refresh already in progress", decodeError(t, rr))
}

func TestHandler_GetRefreshStatus(t *testing.T) {
	h, _, _, refresher := newTestHandler()
	refresher.On("IsRefreshing").Return(true).Once()

	rr := httptest.NewRecorder()
	h.GetRefreshStatus(rr, httptest.NewRequest(http.MethodGet, "/api/v1/refresh/status", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	require.JSONEq(t, `{"refreshing":true}`, rr.Body.String())
}
