package handler

import (
	"context"
	"encoding/json"
	"errors"
	"eurofx/internal/domain"
	"eurofx/internal/rate"
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// retryAfterSeconds is sent with 503 while the rate history is being reloaded.
const retryAfterSeconds = 30

type RateService interface {
	GetRatesOnDate(ctx context.Context, date time.Time) ([]domain.Rate, error)
	Convert(ctx context.Context, currencyCode string, date time.Time, amount decimal.Decimal) (domain.Conversion, error)
	ListRates(ctx context.Context, page, size int) (domain.RatePage, error)
}

type CurrencyService interface {
	ListCurrencies(ctx context.Context) ([]domain.Currency, error)
}

type RefreshTrigger interface {
	StartRefresh(ctx context.Context) bool
	IsRefreshing() bool
}

type Handler struct {
	validator  *rate.Validator
	rates      RateService
	currencies CurrencyService
	refresher  RefreshTrigger
}

func NewRateHandler(validator *rate.Validator, rates RateService, currencies CurrencyService, refresher RefreshTrigger) *Handler {
	return &Handler{validator: validator, rates: rates, currencies: currencies, refresher: refresher}
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, statusCode int, errorMsg string) {
	writeJSON(w, statusCode, errorResponse{
		Error: errorMsg,
	})
}

func writeJSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(body)
}

// writeServiceError maps domain errors to statuses; anything unknown is logged and hidden behind fallbackMsg.
func writeServiceError(w http.ResponseWriter, err error, fallbackMsg string, fields logrus.Fields) {
	switch {
	case errors.Is(err, domain.ErrRefreshInProgress):
		w.Header().Set("Retry-After", strconv.Itoa(retryAfterSeconds))
		writeError(w, http.StatusServiceUnavailable, "exchange rates are being refreshed, try again later")
	case errors.Is(err, domain.ErrRateNotFound), errors.Is(err, domain.ErrRatesNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrInvalidDate),
		errors.Is(err, domain.ErrInvalidCurrency),
		errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrInvalidPage),
		errors.Is(err, domain.ErrPageOutOfRange):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrUpstreamUnavailable):
		logrus.WithError(err).WithFields(fields).Warn("upstream unavailable")
		writeError(w, http.StatusBadGateway, "exchange rate provider is unavailable")
	default:
		logrus.WithError(err).WithFields(fields).Error(fallbackMsg)
		writeError(w, http.StatusInternalServerError, fallbackMsg)
	}
}

// number renders a decimal as a JSON number without losing digits.
func number(d decimal.Decimal) json.Number {
	return json.Number(d.String())
}
