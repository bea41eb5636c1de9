package postgres

import "github.com/Masterminds/squirrel"

const (
	ratesTable      = "exchange_rates"
	currenciesTable = "currencies"
)

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
