package rate

import (
	"context"
	"errors"
	"eurofx/internal/adapters"
	"eurofx/internal/domain"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

const (
	conversionScale = 2
	// sharedFetchTimeout bounds a coalesced upstream fetch.
	sharedFetchTimeout = 30 * time.Second
)

type RefreshState interface {
	IsRefreshing() bool
}

type Service struct {
	client adapters.RatesClient
	repo   adapters.RateRepository
	cache  adapters.RateCache
	state  RefreshState

	// concurrent misses for the same date share one upstream call
	fetches singleflight.Group
}

// GetRatesOnDate looks in the cache, then in the store, and asks upstream only when both are empty.
func (s *Service) GetRatesOnDate(ctx context.Context, date time.Time) ([]domain.Rate, error) {
	if err := s.ensureNotRefreshing(); err != nil {
		return nil, err
	}
	date = domain.NewDate(date)

	if rates, ok := s.cache.Get(date); ok {
		return rates, nil
	}

	stored, err := s.repo.FindByDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("failed to get stored rates: %w", err)
	}
	if len(stored) > 0 {
		s.cacheRates(date, stored)
		return stored, nil
	}

	// the shared fetch outlives a single caller; each caller still stops waiting on its own ctx
	ch := s.fetches.DoChan(date.Format(domain.DateLayout), func() (any, error) {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sharedFetchTimeout)
		defer cancel()
		return s.fetchAndStore(fetchCtx, date)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]domain.Rate), nil
	}
}

func (s *Service) fetchAndStore(ctx context.Context, date time.Time) ([]domain.Rate, error) {
	day := date.Format(domain.DateLayout)

	fetched, err := s.client.FetchRatesOnDate(ctx, date)
	if err != nil {
		return nil, err
	}
	if len(fetched) == 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrRatesNotFound, day)
	}

	if err = s.repo.UpsertAll(ctx, fetched); err != nil {
		return nil, fmt.Errorf("failed to save fetched rates: %w", err)
	}
	s.cacheRates(date, fetched)

	logrus.WithFields(logrus.Fields{"date": day, "count": len(fetched)}).Info("Stored rates fetched from upstream")
	return fetched, nil
}

// Convert turns amount of currencyCode into EUR using the rate published on date.
// EUR converts to itself without touching the store.
func (s *Service) Convert(ctx context.Context, currencyCode string, date time.Time, amount decimal.Decimal) (domain.Conversion, error) {
	code := strings.ToUpper(strings.TrimSpace(currencyCode))
	date = domain.NewDate(date)

	if code == domain.BaseCurrency {
		return domain.Conversion{
			CurrencyCode:    code,
			Date:            date,
			OriginalAmount:  amount,
			Rate:            decimal.NewFromInt(1),
			ConvertedAmount: amount,
		}, nil
	}

	if err := s.ensureNotRefreshing(); err != nil {
		return domain.Conversion{}, err
	}

	rate, err := s.repo.FindOne(ctx, code, date)
	if err != nil {
		if errors.Is(err, domain.ErrRateNotFound) {
			return domain.Conversion{}, fmt.Errorf("%w: %s on %s", err, code, date.Format(domain.DateLayout))
		}
		return domain.Conversion{}, fmt.Errorf("failed to get rate: %w", err)
	}

	return domain.Conversion{
		CurrencyCode:    code,
		Date:            date,
		OriginalAmount:  amount,
		Rate:            rate.Value,
		ConvertedAmount: amount.Div(rate.Value).Round(conversionScale),
	}, nil
}

// ListRates pages through every stored rate ordered by date and currency.
func (s *Service) ListRates(ctx context.Context, page, size int) (domain.RatePage, error) {
	if page < 0 || size < 1 {
		return domain.RatePage{}, domain.ErrInvalidPage
	}
	if err := s.ensureNotRefreshing(); err != nil {
		return domain.RatePage{}, err
	}

	res, err := s.repo.FindPage(ctx, page, size)
	if err != nil {
		return domain.RatePage{}, fmt.Errorf("failed to get rates page: %w", err)
	}
	if res.TotalPages > 0 && page >= res.TotalPages {
		return domain.RatePage{}, fmt.Errorf("%w: page %d of %d", domain.ErrPageOutOfRange, page, res.TotalPages)
	}
	return res, nil
}

// cacheRates skips the cache while a refresh runs: a refresh clears the cache when it finishes,
// and an entry written after that clear would hide the dates it ingested.
func (s *Service) cacheRates(date time.Time, rates []domain.Rate) {
	if s.state.IsRefreshing() {
		return
	}
	s.cache.Set(date, rates)
	if s.state.IsRefreshing() {
		s.cache.Clear()
	}
}

func (s *Service) ensureNotRefreshing() error {
	if s.state.IsRefreshing() {
		return domain.ErrRefreshInProgress
	}
	return nil
}

func NewService(client adapters.RatesClient, repo adapters.RateRepository, cache adapters.RateCache, state RefreshState) *Service {
	return &Service{client: client, repo: repo, cache: cache, state: state}
}
