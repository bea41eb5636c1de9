package adapters

import (
	"context"
	"eurofx/internal/domain"
	"io"
	"time"
)

type RatesClient interface {
	FetchCurrencies(ctx context.Context) ([]domain.Currency, error)
	FetchRatesOnDate(ctx context.Context, date time.Time) ([]domain.Rate, error)
	// FetchBulkFeed streams the full historical CSV dump; the caller closes it.
	FetchBulkFeed(ctx context.Context) (io.ReadCloser, error)
}

type RateRepository interface {
	ExistsByKey(ctx context.Context, currencyCode string, date time.Time) (bool, error)
	FindByDate(ctx context.Context, date time.Time) ([]domain.Rate, error)
	FindOne(ctx context.Context, currencyCode string, date time.Time) (domain.Rate, error)
	UpsertAll(ctx context.Context, rates []domain.Rate) error
	FindPage(ctx context.Context, page, size int) (domain.RatePage, error)
}

type CurrencyRepository interface {
	Count(ctx context.Context) (int64, error)
	FindAll(ctx context.Context) ([]domain.Currency, error)
	ExistsByCode(ctx context.Context, code string) (bool, error)
	SaveAll(ctx context.Context, currencies []domain.Currency) error
}

type RateCache interface {
	Get(date time.Time) ([]domain.Rate, bool)
	Set(date time.Time, rates []domain.Rate)
	Clear()
}
