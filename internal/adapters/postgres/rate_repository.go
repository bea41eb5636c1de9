package postgres

import (
	"context"
	"encoding/json"
	"eurofx/internal/domain"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

var rateColumns = []string{"currency_code", "base_currency", "rate_date", "rate::text as rate"}

type rateRow struct {
	CurrencyCode string    `db:"currency_code"`
	BaseCurrency string    `db:"base_currency"`
	RateDate     time.Time `db:"rate_date"`
	Rate         string    `db:"rate"`
}

func (r rateRow) toDomain() (domain.Rate, error) {
	value, err := decimal.NewFromString(strings.TrimSpace(r.Rate))
	if err != nil {
		return domain.Rate{}, fmt.Errorf("failed to parse rate %s@%s=%q: %w", r.CurrencyCode, r.RateDate.Format(domain.DateLayout), r.Rate, err)
	}
	return domain.Rate{
		CurrencyCode: strings.TrimSpace(r.CurrencyCode),
		BaseCurrency: strings.TrimSpace(r.BaseCurrency),
		Date:         domain.NewDate(r.RateDate),
		Value:        value,
	}, nil
}

type RateRepository struct {
	pool *pgxpool.Pool
}

func (r *RateRepository) ExistsByKey(ctx context.Context, currencyCode string, date time.Time) (bool, error) {
	sql, args, err := psql.Select("1").
		From(ratesTable).
		Where(squirrel.Eq{"currency_code": currencyCode, "rate_date": date}).
		Prefix("select exists (").
		Suffix(")").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build query: %w", err)
	}

	var exists bool
	if err = r.pool.QueryRow(ctx, sql, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check rate %s@%s: %w", currencyCode, date.Format(domain.DateLayout), err)
	}
	return exists, nil
}

func (r *RateRepository) FindByDate(ctx context.Context, date time.Time) ([]domain.Rate, error) {
	sql, args, err := psql.Select(rateColumns...).
		From(ratesTable).
		Where(squirrel.Eq{"rate_date": date}).
		OrderBy("currency_code").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rows []rateRow
	if err = pgxscan.Select(ctx, r.pool, &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("failed to select rates for %s: %w", date.Format(domain.DateLayout), err)
	}
	return toRates(rows)
}

func (r *RateRepository) FindOne(ctx context.Context, currencyCode string, date time.Time) (domain.Rate, error) {
	sql, args, err := psql.Select(rateColumns...).
		From(ratesTable).
		Where(squirrel.Eq{"currency_code": currencyCode, "rate_date": date}).
		Limit(1).
		ToSql()
	if err != nil {
		return domain.Rate{}, fmt.Errorf("build query: %w", err)
	}

	var row rateRow
	if err = pgxscan.Get(ctx, r.pool, &row, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return domain.Rate{}, domain.ErrRateNotFound
		}
		return domain.Rate{}, fmt.Errorf("failed to select rate %s@%s: %w", currencyCode, date.Format(domain.DateLayout), err)
	}
	return row.toDomain()
}

type upsertRow struct {
	CurrencyCode string `json:"currency_code"`
	BaseCurrency string `json:"base_currency"`
	RateDate     string `json:"rate_date"`
	Rate         string `json:"rate"`
}

// UpsertAll writes rates keyed by (currency_code, rate_date); on conflict the incoming value wins.
// Duplicate keys inside one call keep their first occurrence.
func (r *RateRepository) UpsertAll(ctx context.Context, rates []domain.Rate) error {
	if len(rates) == 0 {
		return nil
	}

	seen := make(map[domain.RateKey]struct{}, len(rates))
	payload := make([]upsertRow, 0, len(rates))
	for _, rate := range rates {
		if _, ok := seen[rate.Key()]; ok {
			continue
		}
		seen[rate.Key()] = struct{}{}
		payload = append(payload, upsertRow{
			CurrencyCode: rate.CurrencyCode,
			BaseCurrency: rate.BaseCurrency,
			RateDate:     rate.Date.Format(domain.DateLayout),
			Rate:         rate.Value.String(),
		})
	}

	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal rates: %w", err)
	}

	const q = `
		with input_rows as (
		  select * from json_to_recordset($1::json)
		    as r(currency_code text, base_currency text, rate_date date, rate numeric)
		)
		insert into exchange_rates (currency_code, base_currency, rate_date, rate)
		select currency_code, base_currency, rate_date, rate from input_rows
		on conflict (currency_code, rate_date) do update
		  set rate = excluded.rate, base_currency = excluded.base_currency, updated_at = now();
	`

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err = tx.Exec(ctx, q, json.RawMessage(payloadJSON)); err != nil {
		return fmt.Errorf("failed to upsert %d rates: %w", len(payload), err)
	}
	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (r *RateRepository) FindPage(ctx context.Context, page, size int) (domain.RatePage, error) {
	countSQL, countArgs, err := psql.Select("count(*)").From(ratesTable).ToSql()
	if err != nil {
		return domain.RatePage{}, fmt.Errorf("build count query: %w", err)
	}
	var total int64
	if err = r.pool.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return domain.RatePage{}, fmt.Errorf("failed to count rates: %w", err)
	}

	sql, args, err := psql.Select(rateColumns...).
		From(ratesTable).
		OrderBy("rate_date", "currency_code").
		Limit(uint64(size)).
		Offset(uint64(page) * uint64(size)).
		ToSql()
	if err != nil {
		return domain.RatePage{}, fmt.Errorf("build query: %w", err)
	}

	var rows []rateRow
	if err = pgxscan.Select(ctx, r.pool, &rows, sql, args...); err != nil {
		return domain.RatePage{}, fmt.Errorf("failed to select rates page %d: %w", page, err)
	}
	items, err := toRates(rows)
	if err != nil {
		return domain.RatePage{}, err
	}

	return domain.RatePage{
		Items:      items,
		Page:       page,
		Size:       size,
		TotalItems: total,
		TotalPages: int((total + int64(size) - 1) / int64(size)),
	}, nil
}

func toRates(rows []rateRow) ([]domain.Rate, error) {
	rates := make([]domain.Rate, 0, len(rows))
	for _, row := range rows {
		rate, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		rates = append(rates, rate)
	}
	return rates, nil
}

func NewRateRepository(pool *pgxpool.Pool) *RateRepository {
	return &RateRepository{pool: pool}
}
