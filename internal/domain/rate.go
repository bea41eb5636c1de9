package domain

import (
	"regexp"
	"time"

	"github.com/shopspring/decimal"
)

const (
	BaseCurrency = "EUR"
	DateLayout   = "2006-01-02"
)

var currencyCodePattern = regexp.MustCompile(`^[A-Z]{3}$`)

// IsCurrencyCode reports whether code is a 3-uppercase-letter ISO code.
func IsCurrencyCode(code string) bool {
	return currencyCodePattern.MatchString(code)
}

// Rate is a EUR-denominated daily reference rate: 1 EUR = Value units of CurrencyCode.
type Rate struct {
	CurrencyCode string
	BaseCurrency string
	Date         time.Time
	Value        decimal.Decimal
}

func (r Rate) Key() RateKey {
	return RateKey{CurrencyCode: r.CurrencyCode, Date: r.Date}
}

// RateKey identifies at most one stored rate.
type RateKey struct {
	CurrencyCode string
	Date         time.Time
}

// NewDate truncates t to a UTC calendar date.
func NewDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDate parses an ISO 8601 calendar date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	return NewDate(t), nil
}

type RatePage struct {
	Items      []Rate
	Page       int
	Size       int
	TotalItems int64
	TotalPages int
}

type Conversion struct {
	CurrencyCode    string
	Date            time.Time
	OriginalAmount  decimal.Decimal
	Rate            decimal.Decimal
	ConvertedAmount decimal.Decimal
}
