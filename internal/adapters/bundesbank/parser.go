package bundesbank

import (
	"errors"
	"eurofx/internal/domain"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
)

// CurrencyDimensionKey is the series dimension holding the quoted currency.
const CurrencyDimensionKey = "BBK_STD_CURRENCY"

const (
	pathCodes            = "data.codeLists.0.codes"
	pathCodeLists        = "data.codeLists"
	pathSeriesDimensions = "data.structure.dimensions.series"
	pathTimePeriods      = "data.structure.dimensions.observation.0.values"
	pathSeries           = "data.dataSets.0.series"
)

var errMalformed = errors.New("malformed sdmx document")

// ParseCurrencies extracts ISO currencies from an SDMX-JSON code list.
// Codes that are not 3 uppercase letters are dropped. A malformed document yields nil.
func ParseCurrencies(body []byte, language string) []domain.Currency {
	currencies, err := parseCurrencies(body, language)
	if err != nil {
		logrus.WithError(err).Warn("Currency list degraded to empty result")
		return nil
	}
	return currencies
}

func parseCurrencies(body []byte, language string) ([]domain.Currency, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: invalid json", errMalformed)
	}
	codeLists := gjson.GetBytes(body, pathCodeLists)
	if !codeLists.IsArray() {
		return nil, fmt.Errorf("%w: %s is not an array", errMalformed, pathCodeLists)
	}
	if len(codeLists.Array()) == 0 {
		return nil, nil
	}
	codes := gjson.GetBytes(body, pathCodes)
	if !codes.IsArray() {
		return nil, fmt.Errorf("%w: %s is not an array", errMalformed, pathCodes)
	}

	namePath := "names." + language
	currencies := make([]domain.Currency, 0, len(codes.Array()))
	for i, code := range codes.Array() {
		id := code.Get("id")
		name := code.Get(namePath)
		if id.Type != gjson.String || name.Type != gjson.String {
			return nil, fmt.Errorf("%w: code entry %d lacks id or %q name", errMalformed, i, language)
		}
		if !domain.IsCurrencyCode(id.Str) {
			continue // aggregates and historical codes share the list
		}
		currencies = append(currencies, domain.Currency{Code: id.Str, Name: name.Str})
	}
	return currencies, nil
}

// ParseExchangeRates extracts EUR reference rates from an SDMX-JSON data message.
// Bad observations are skipped; a malformed document yields nil.
func ParseExchangeRates(body []byte) []domain.Rate {
	rates, err := parseExchangeRates(body)
	if err != nil {
		logrus.WithError(err).Warn("Exchange rates degraded to empty result")
		return nil
	}
	return rates
}

func parseExchangeRates(body []byte) ([]domain.Rate, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: invalid json", errMalformed)
	}
	root := gjson.ParseBytes(body)

	currencyIndex, err := buildCurrencyIndex(root)
	if err != nil {
		return nil, err
	}

	periods := root.Get(pathTimePeriods)
	if !periods.IsArray() {
		return nil, fmt.Errorf("%w: %s is not an array", errMalformed, pathTimePeriods)
	}
	dates := make([]string, 0, len(periods.Array()))
	for i, p := range periods.Array() {
		id := p.Get("id")
		if id.Type != gjson.String {
			return nil, fmt.Errorf("%w: time period %d has no id", errMalformed, i)
		}
		dates = append(dates, id.Str)
	}

	series := root.Get(pathSeries)
	if !series.IsObject() {
		return nil, fmt.Errorf("%w: %s is not an object", errMalformed, pathSeries)
	}

	var (
		rates    []domain.Rate
		rejected int
		walkErr  error
	)
	series.ForEach(func(key, value gjson.Result) bool {
		observations := value.Get("observations")
		if !observations.Exists() {
			return true
		}
		if !observations.IsObject() {
			walkErr = fmt.Errorf("%w: observations of series %q is not an object", errMalformed, key.String())
			return false
		}

		code := seriesCurrency(key.String(), currencyIndex)
		for i, rawDate := range dates {
			slot := observations.Get(strconv.Itoa(i))
			if !slot.Exists() {
				continue
			}
			rate, ok := parseObservation(code, rawDate, slot.Get("0"))
			if !ok {
				rejected++
				continue
			}
			rates = append(rates, rate)
		}
		return true
	})
	if walkErr != nil {
		return nil, walkErr
	}

	if rejected > 0 {
		logrus.WithField("rejected", rejected).Debug("Skipped unusable observations")
	}
	return rates, nil
}

// buildCurrencyIndex maps the stringified position of each currency dimension value to its ISO code.
func buildCurrencyIndex(root gjson.Result) (map[string]string, error) {
	dimensions := root.Get(pathSeriesDimensions)
	if !dimensions.IsArray() {
		return nil, fmt.Errorf("%w: %s is not an array", errMalformed, pathSeriesDimensions)
	}

	index := make(map[string]string)
	for _, dim := range dimensions.Array() {
		if dim.Get("id").String() != CurrencyDimensionKey {
			continue
		}
		for j, v := range dim.Get("values").Array() {
			index[strconv.Itoa(j)] = v.Get("id").String()
		}
		break
	}
	return index, nil
}

func seriesCurrency(seriesKey string, index map[string]string) string {
	parts := strings.Split(seriesKey, ":")
	if len(parts) < 2 {
		return seriesKey
	}
	if code, ok := index[parts[1]]; ok {
		return code
	}
	return parts[1]
}

func parseObservation(code, rawDate string, value gjson.Result) (domain.Rate, bool) {
	if !value.Exists() || value.Type == gjson.Null {
		return domain.Rate{}, false
	}
	date, err := domain.ParseDate(rawDate)
	if err != nil {
		logrus.WithFields(logrus.Fields{"currency": code, "date": rawDate}).Warn("Invalid observation date")
		return domain.Rate{}, false
	}
	rate, err := decimal.NewFromString(strings.TrimSpace(value.String()))
	if err != nil || !rate.IsPositive() {
		logrus.WithFields(logrus.Fields{"currency": code, "date": rawDate, "value": value.Raw}).Warn("Invalid observation value")
		return domain.Rate{}, false
	}
	return domain.Rate{
		CurrencyCode: code,
		BaseCurrency: domain.BaseCurrency,
		Date:         date,
		Value:        rate,
	}, true
}
