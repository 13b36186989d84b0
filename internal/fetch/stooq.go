package fetch

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/google/go-querystring/query"
	"github.com/rs/zerolog"

	apperrors "chartscan/internal/errors"
	"chartscan/internal/logging"
	"chartscan/internal/models"
	"chartscan/pkg/utils"
)

const stooqBaseURL = "https://stooq.com/q/d/l/"

// stooqQuery holds the query parameters for the Stooq daily CSV endpoint.
type stooqQuery struct {
	Symbol   string `url:"s"`
	Start    string `url:"d1"`
	End      string `url:"d2"`
	Interval string `url:"i"`
}

// StooqClient fetches daily candles from the Stooq CSV endpoint.
type StooqClient struct {
	baseURL string
	client  *http.Client
	retry   utils.RetryConfig
	logger  zerolog.Logger
}

// NewStooqClient creates a Stooq fetcher with default retry settings.
func NewStooqClient(logger zerolog.Logger) *StooqClient {
	return &StooqClient{
		baseURL: stooqBaseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
		retry:   utils.DefaultRetryConfig(),
		logger:  logger,
	}
}

// NewStooqClientWithBaseURL creates a Stooq fetcher against a custom endpoint.
func NewStooqClientWithBaseURL(baseURL string, logger zerolog.Logger) *StooqClient {
	c := NewStooqClient(logger)
	c.baseURL = baseURL
	return c
}

// Fetch retrieves daily candles for the symbol, retrying transient failures
// with exponential backoff.
func (c *StooqClient) Fetch(ctx context.Context, symbol string, from, to time.Time) ([]models.Candle, error) {
	params, err := query.Values(stooqQuery{
		Symbol:   symbol,
		Start:    from.Format("20060102"),
		End:      to.Format("20060102"),
		Interval: "d",
	})
	if err != nil {
		return nil, apperrors.Wrap(err, "building query")
	}
	url := c.baseURL + "?" + params.Encode()

	start := time.Now()
	candles, err := utils.RetryWithResult(ctx, c.retry, func() ([]models.Candle, error) {
		return c.fetchOnce(ctx, symbol, url)
	})
	logging.LogFetch(c.logger, "stooq", symbol, len(candles), time.Since(start), err)
	if err != nil {
		return nil, err
	}
	if len(candles) == 0 {
		return nil, apperrors.NewDataError("candles", symbol, "provider returned no data", apperrors.ErrDataNotFound)
	}
	return candles, nil
}

func (c *StooqClient) fetchOnce(ctx context.Context, symbol, url string) ([]models.Candle, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, apperrors.Wrap(err, "building request")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, apperrors.NewFetchError("stooq", symbol, 0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.NewFetchError("stooq", symbol, resp.StatusCode,
			fmt.Errorf("unexpected status %s", resp.Status))
	}

	var rows []*csvRow
	if err := gocsv.Unmarshal(resp.Body, &rows); err != nil {
		return nil, apperrors.NewDataError("candles", symbol, "parsing provider CSV", err)
	}

	return toCandles(rows), nil
}
