package rate

import (
	"errors"
	"eurofx/internal/domain"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	DefaultPage     = 0
	DefaultPageSize = 200
	MaxPageSize     = 1000

	// MaxAmountScale bounds the fractional digits of an amount, MaxAmountDigits its integer part.
	MaxAmountScale  = 10
	MaxAmountDigits = 15
)

var maxAmount = decimal.New(1, MaxAmountDigits)

var (
	ErrDateRequired     = errors.New("date is required")
	ErrCurrencyRequired = errors.New("currency is required")
	ErrAmountRequired   = errors.New("amount is required")
)

// Validator turns raw query parameters into typed values.
type Validator struct {
	defaultPageSize int
	maxPageSize     int
}

func (v *Validator) ParseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, fmt.Errorf("%w: %w", domain.ErrInvalidDate, ErrDateRequired)
	}
	date, err := domain.ParseDate(raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: got %q", domain.ErrInvalidDate, raw)
	}
	return date, nil
}

func (v *Validator) ParseCurrency(raw string) (string, error) {
	code := strings.ToUpper(strings.TrimSpace(raw))
	if code == "" {
		return "", fmt.Errorf("%w: %w", domain.ErrInvalidCurrency, ErrCurrencyRequired)
	}
	if !domain.IsCurrencyCode(code) {
		return "", fmt.Errorf("%w: got %q", domain.ErrInvalidCurrency, raw)
	}
	return code, nil
}

func (v *Validator) ParseAmount(raw string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Decimal{}, fmt.Errorf("%w: %w", domain.ErrInvalidAmount, ErrAmountRequired)
	}
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: got %q", domain.ErrInvalidAmount, raw)
	}
	if amount.IsNegative() {
		return decimal.Decimal{}, fmt.Errorf("%w: got %s", domain.ErrInvalidAmount, raw)
	}
	// exponent first: comparing against maxAmount rescales both operands
	if exp := amount.Exponent(); exp < -MaxAmountScale || exp > MaxAmountDigits || !amount.LessThan(maxAmount) {
		return decimal.Decimal{}, fmt.Errorf("%w: must be below 1e%d with at most %d decimal places", domain.ErrInvalidAmount, MaxAmountDigits, MaxAmountScale)
	}
	return amount, nil
}

// ParsePage applies defaults for absent values.
func (v *Validator) ParsePage(rawPage, rawSize string) (int, int, error) {
	page, size := DefaultPage, v.defaultPageSize

	if rawPage = strings.TrimSpace(rawPage); rawPage != "" {
		p, err := strconv.Atoi(rawPage)
		if err != nil || p < 0 {
			return 0, 0, fmt.Errorf("%w: page must be a non-negative integer", domain.ErrInvalidPage)
		}
		page = p
	}
	if rawSize = strings.TrimSpace(rawSize); rawSize != "" {
		s, err := strconv.Atoi(rawSize)
		if err != nil || s < 1 || s > v.maxPageSize {
			return 0, 0, fmt.Errorf("%w: size must be between 1 and %d", domain.ErrInvalidPage, v.maxPageSize)
		}
		size = s
	}
	return page, size, nil
}

func NewValidator() *Validator {
	return &Validator{defaultPageSize: DefaultPageSize, maxPageSize: MaxPageSize}
}
