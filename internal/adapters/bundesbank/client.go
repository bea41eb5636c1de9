package bundesbank

import (
	"context"
	"errors"
	"eurofx/internal/domain"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	DefaultCurrenciesPath    = "/rest/metadata/codelist/BBK/CL_BBK_STD_CURRENCY"
	DefaultExchangeRatesPath = "/rest/data/BBEX3/D..EUR.BB.AC.000?startPeriod={date}&endPeriod={date}&detail=dataonly"
	DefaultDataAccept        = "application/vnd.sdmx.data+json;version=1.0.0"
	DefaultStructureAccept   = "application/vnd.sdmx.structure+json;version=1.0"
	DefaultLanguage          = "en"

	datePlaceholder = "{date}"
	csvAccept       = "text/csv"
	maxErrorBody    = 512
)

// errNoData marks a 404, which the SDMX endpoints return for queries without results.
var errNoData = errors.New("no data for query")

type Config struct {
	BaseURL           string
	CurrenciesPath    string
	ExchangeRatesPath string
	DatasetURL        string
	Language          string
	DataAccept        string
	StructureAccept   string
}

type Client struct {
	http     *http.Client
	bulkHTTP *http.Client
	cfg      Config
}

func (c *Client) FetchCurrencies(ctx context.Context) ([]domain.Currency, error) {
	body, err := c.get(ctx, c.cfg.BaseURL+c.cfg.CurrenciesPath, c.cfg.StructureAccept)
	if errors.Is(err, errNoData) {
		return nil, fmt.Errorf("%w: currency list not found", domain.ErrUpstreamUnavailable)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch currency list: %w", err)
	}
	return ParseCurrencies(body, c.cfg.Language), nil
}

func (c *Client) FetchRatesOnDate(ctx context.Context, date time.Time) ([]domain.Rate, error) {
	day := date.Format(domain.DateLayout)
	path := strings.ReplaceAll(c.cfg.ExchangeRatesPath, datePlaceholder, url.QueryEscape(day))

	body, err := c.get(ctx, c.cfg.BaseURL+path, c.cfg.DataAccept)
	if errors.Is(err, errNoData) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch rates for %s: %w", day, err)
	}
	return ParseExchangeRates(body), nil
}

func (c *Client) FetchBulkFeed(ctx context.Context) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.DatasetURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create bulk feed request: %w", err)
	}
	req.Header.Set("Accept", csvAccept)

	resp, err := c.bulkHTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: bulk feed request failed: %v", domain.ErrUpstreamUnavailable, err)
	}
	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		return nil, statusError(resp)
	}
	return resp.Body, nil
}

func (c *Client) get(ctx context.Context, rawURL, accept string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", accept)
	req.Header.Set("Accept-Language", c.cfg.Language)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, errNoData
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, statusError(resp)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response body: %v", domain.ErrUpstreamUnavailable, err)
	}
	return body, nil
}

func statusError(resp *http.Response) error {
	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return fmt.Errorf("%w: unexpected status code %d: %s", domain.ErrUpstreamUnavailable, resp.StatusCode, strings.TrimSpace(string(snippet)))
}

// NewClient uses httpClient for SDMX requests and bulkClient, which should carry a longer timeout, for the CSV dump.
func NewClient(httpClient, bulkClient *http.Client, cfg Config) *Client {
	cfg.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/")
	if cfg.CurrenciesPath == "" {
		cfg.CurrenciesPath = DefaultCurrenciesPath
	}
	if cfg.ExchangeRatesPath == "" {
		cfg.ExchangeRatesPath = DefaultExchangeRatesPath
	}
	if cfg.Language == "" {
		cfg.Language = DefaultLanguage
	}
	if cfg.DataAccept == "" {
		cfg.DataAccept = DefaultDataAccept
	}
	if cfg.StructureAccept == "" {
		cfg.StructureAccept = DefaultStructureAccept
	}
	if bulkClient == nil {
		bulkClient = httpClient
	}
	return &Client{http: httpClient, bulkHTTP: bulkClient, cfg: cfg}
}
