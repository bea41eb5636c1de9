package rate

import (
	"eurofx/internal/domain"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	feedFieldCount    = 9
	feedCurrencyField = 2
	feedBaseField     = 3
	feedDateField     = 7
	feedRateField     = 8

	// feedMissingValue marks a day without a published rate.
	feedMissingValue = "."
)

// ParseFeedLine decodes one data line of the bulk CSV dump.
// It reports false for short lines, missing values, foreign bases and anything that does not parse.
func ParseFeedLine(line string) (domain.Rate, bool) {
	fields := strings.Split(line, ";")
	if len(fields) < feedFieldCount {
		return domain.Rate{}, false
	}

	code := strings.TrimSpace(fields[feedCurrencyField])
	if !domain.IsCurrencyCode(code) {
		return domain.Rate{}, false
	}
	if strings.TrimSpace(fields[feedBaseField]) != domain.BaseCurrency {
		return domain.Rate{}, false
	}

	date, err := domain.ParseDate(strings.TrimSpace(fields[feedDateField]))
	if err != nil {
		return domain.Rate{}, false
	}

	raw := strings.TrimSpace(fields[feedRateField])
	if raw == feedMissingValue {
		return domain.Rate{}, false
	}
	value, err := decimal.NewFromString(raw)
	if err != nil || !value.IsPositive() {
		return domain.Rate{}, false
	}

	return domain.Rate{
		CurrencyCode: code,
		BaseCurrency: domain.BaseCurrency,
		Date:         date,
		Value:        value,
	}, true
}
