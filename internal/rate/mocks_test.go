package rate

import (
	"context"
	"eurofx/internal/domain"
	"io"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"
)

type MockRatesClient struct{ mock.Mock }

func (m *MockRatesClient) FetchCurrencies(ctx context.Context) ([]domain.Currency, error) {
	args := m.Called(ctx)
	currencies, _ := args.Get(0).([]domain.Currency)
	return currencies, args.Error(1)
}

func (m *MockRatesClient) FetchRatesOnDate(ctx context.Context, date time.Time) ([]domain.Rate, error) {
	args := m.Called(ctx, date)
	rates, _ := args.Get(0).([]domain.Rate)
	return rates, args.Error(1)
}

func (m *MockRatesClient) FetchBulkFeed(ctx context.Context) (io.ReadCloser, error) {
	args := m.Called(ctx)
	body, _ := args.Get(0).(io.ReadCloser)
	return body, args.Error(1)
}

type MockRateRepository struct{ mock.Mock }

func (m *MockRateRepository) ExistsByKey(ctx context.Context, currencyCode string, date time.Time) (bool, error) {
	args := m.Called(ctx, currencyCode, date)
	return args.Bool(0), args.Error(1)
}

func (m *MockRateRepository) FindByDate(ctx context.Context, date time.Time) ([]domain.Rate, error) {
	args := m.Called(ctx, date)
	rates, _ := args.Get(0).([]domain.Rate)
	return rates, args.Error(1)
}

func (m *MockRateRepository) FindOne(ctx context.Context, currencyCode string, date time.Time) (domain.Rate, error) {
	args := m.Called(ctx, currencyCode, date)
	rate, _ := args.Get(0).(domain.Rate)
	return rate, args.Error(1)
}

func (m *MockRateRepository) UpsertAll(ctx context.Context, rates []domain.Rate) error {
	args := m.Called(ctx, rates)
	return args.Error(0)
}

func (m *MockRateRepository) FindPage(ctx context.Context, page, size int) (domain.RatePage, error) {
	args := m.Called(ctx, page, size)
	res, _ := args.Get(0).(domain.RatePage)
	return res, args.Error(1)
}

type MockCurrencyRepository struct{ mock.Mock }

func (m *MockCurrencyRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	n, _ := args.Get(0).(int64)
	return n, args.Error(1)
}

func (m *MockCurrencyRepository) FindAll(ctx context.Context) ([]domain.Currency, error) {
	args := m.Called(ctx)
	currencies, _ := args.Get(0).([]domain.Currency)
	return currencies, args.Error(1)
}

func (m *MockCurrencyRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockCurrencyRepository) SaveAll(ctx context.Context, currencies []domain.Currency) error {
	args := m.Called(ctx, currencies)
	return args.Error(0)
}

// memRateCache is a synchronous stand-in for the ristretto cache.
type memRateCache struct {
	mu     sync.Mutex
	data   map[string][]domain.Rate
	clears int
}

func newMemRateCache() *memRateCache {
	return &memRateCache{data: make(map[string][]domain.Rate)}
}

func (c *memRateCache) Get(date time.Time) ([]domain.Rate, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	rates, ok := c.data[date.Format(domain.DateLayout)]
	return rates, ok
}

func (c *memRateCache) Set(date time.Time, rates []domain.Rate) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[date.Format(domain.DateLayout)] = rates
}

func (c *memRateCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = make(map[string][]domain.Rate)
	c.clears++
}

func (c *memRateCache) clearCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.clears
}

// memRateRepository keeps rates in insertion order, keyed like the real table.
type memRateRepository struct {
	mu          sync.Mutex
	rates       map[domain.RateKey]domain.Rate
	order       []domain.RateKey
	upsertCalls int
	existsErr   error
	upsertErr   error
}

func newMemRateRepository() *memRateRepository {
	return &memRateRepository{rates: make(map[domain.RateKey]domain.Rate)}
}

func (r *memRateRepository) ExistsByKey(_ context.Context, currencyCode string, date time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.existsErr != nil {
		return false, r.existsErr
	}
	_, ok := r.rates[domain.RateKey{CurrencyCode: currencyCode, Date: date}]
	return ok, nil
}

func (r *memRateRepository) FindByDate(_ context.Context, date time.Time) ([]domain.Rate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Rate
	for _, k := range r.order {
		if k.Date.Equal(date) {
			out = append(out, r.rates[k])
		}
	}
	return out, nil
}

func (r *memRateRepository) FindOne(_ context.Context, currencyCode string, date time.Time) (domain.Rate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rate, ok := r.rates[domain.RateKey{CurrencyCode: currencyCode, Date: date}]
	if !ok {
		return domain.Rate{}, domain.ErrRateNotFound
	}
	return rate, nil
}

func (r *memRateRepository) UpsertAll(_ context.Context, rates []domain.Rate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.upsertErr != nil {
		return r.upsertErr
	}
	r.upsertCalls++
	for _, rate := range rates {
		if _, ok := r.rates[rate.Key()]; !ok {
			r.order = append(r.order, rate.Key())
		}
		r.rates[rate.Key()] = rate
	}
	return nil
}

func (r *memRateRepository) FindPage(_ context.Context, page, size int) (domain.RatePage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	total := len(r.order)
	res := domain.RatePage{Page: page, Size: size, TotalItems: int64(total), TotalPages: (total + size - 1) / size}
	for i := page * size; i < total && i < (page+1)*size; i++ {
		res.Items = append(res.Items, r.rates[r.order[i]])
	}
	return res, nil
}

func (r *memRateRepository) stored() []domain.Rate {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Rate, 0, len(r.order))
	for _, k := range r.order {
		out = append(out, r.rates[k])
	}
	return out
}

type refreshFlag bool

func (f refreshFlag) IsRefreshing() bool { return bool(f) }
