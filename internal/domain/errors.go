package domain

import "errors"

var (
	ErrRateNotFound        = errors.New("rate not found")
	ErrRatesNotFound       = errors.New("no rates available for date")
	ErrRefreshInProgress   = errors.New("rates refresh in progress")
	ErrUpstreamUnavailable = errors.New("upstream rates api unavailable")

	ErrInvalidDate     = errors.New("date must be in YYYY-MM-DD format")
	ErrInvalidCurrency = errors.New("currency must be a 3-letter ISO code")
	ErrInvalidAmount   = errors.New("amount must be a non-negative number")
	ErrInvalidPage     = errors.New("invalid page parameters")
	ErrPageOutOfRange  = errors.New("page number exceeds available pages")
)
