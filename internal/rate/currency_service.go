package rate

import (
	"context"
	"eurofx/internal/adapters"
	"eurofx/internal/domain"
	"fmt"

	"github.com/sirupsen/logrus"
)

type CurrencyService struct {
	client adapters.RatesClient
	repo   adapters.CurrencyRepository
}

// LoadAtStartup stores upstream currencies that are not known yet.
func (s *CurrencyService) LoadAtStartup(ctx context.Context) error {
	fetched, err := s.client.FetchCurrencies(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch currencies: %w", err)
	}
	saved, err := s.saveMissing(ctx, fetched)
	if err != nil {
		return err
	}
	logrus.WithFields(logrus.Fields{"fetched": len(fetched), "saved": saved}).Info("Currencies loaded")
	return nil
}

// ListCurrencies serves the stored catalog and falls back to upstream while it is empty.
func (s *CurrencyService) ListCurrencies(ctx context.Context) ([]domain.Currency, error) {
	stored, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get stored currencies: %w", err)
	}
	if len(stored) > 0 {
		return stored, nil
	}

	fetched, err := s.client.FetchCurrencies(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch currencies: %w", err)
	}
	if _, err = s.saveMissing(ctx, fetched); err != nil {
		return nil, err
	}
	return fetched, nil
}

func (s *CurrencyService) saveMissing(ctx context.Context, currencies []domain.Currency) (int, error) {
	missing := make([]domain.Currency, 0, len(currencies))
	for _, c := range currencies {
		exists, err := s.repo.ExistsByCode(ctx, c.Code)
		if err != nil {
			return 0, fmt.Errorf("failed to check currency %s: %w", c.Code, err)
		}
		if !exists {
			missing = append(missing, c)
		}
	}
	if len(missing) == 0 {
		return 0, nil
	}
	if err := s.repo.SaveAll(ctx, missing); err != nil {
		return 0, fmt.Errorf("failed to save currencies: %w", err)
	}
	return len(missing), nil
}

func NewCurrencyService(client adapters.RatesClient, repo adapters.CurrencyRepository) *CurrencyService {
	return &CurrencyService{client: client, repo: repo}
}
