package postgres

import (
	"context"
	"eurofx/internal/domain"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgxpool"
)

type currencyRow struct {
	Code string `db:"code"`
	Name string `db:"name"`
}

type CurrencyRepository struct {
	pool *pgxpool.Pool
}

func (r *CurrencyRepository) Count(ctx context.Context) (int64, error) {
	sql, args, err := psql.Select("count(*)").From(currenciesTable).ToSql()
	if err != nil {
		return 0, fmt.Errorf("build query: %w", err)
	}
	var n int64
	if err = r.pool.QueryRow(ctx, sql, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count currencies: %w", err)
	}
	return n, nil
}

func (r *CurrencyRepository) FindAll(ctx context.Context) ([]domain.Currency, error) {
	sql, args, err := psql.Select("code", "name").From(currenciesTable).OrderBy("code").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rows []currencyRow
	if err = pgxscan.Select(ctx, r.pool, &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("failed to select currencies: %w", err)
	}

	currencies := make([]domain.Currency, 0, len(rows))
	for _, row := range rows {
		currencies = append(currencies, domain.Currency{Code: strings.TrimSpace(row.Code), Name: row.Name})
	}
	return currencies, nil
}

func (r *CurrencyRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	sql, args, err := psql.Select("1").
		From(currenciesTable).
		Where(squirrel.Eq{"code": code}).
		Prefix("select exists (").
		Suffix(")").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build query: %w", err)
	}
	var exists bool
	if err = r.pool.QueryRow(ctx, sql, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check currency %s: %w", code, err)
	}
	return exists, nil
}

// SaveAll inserts currencies, refreshing names of codes that already exist.
func (r *CurrencyRepository) SaveAll(ctx context.Context, currencies []domain.Currency) error {
	if len(currencies) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(currencies))
	q := psql.Insert(currenciesTable).Columns("code", "name")
	for _, c := range currencies {
		if _, ok := seen[c.Code]; ok {
			continue
		}
		seen[c.Code] = struct{}{}
		q = q.Values(c.Code, c.Name)
	}

	sql, args, err := q.Suffix("on conflict (code) do update set name = excluded.name").ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}
	if _, err = r.pool.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("failed to save %d currencies: %w", len(seen), err)
	}
	return nil
}

func NewCurrencyRepository(pool *pgxpool.Pool) *CurrencyRepository {
	return &CurrencyRepository{pool: pool}
}
