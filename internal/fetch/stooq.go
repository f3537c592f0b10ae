// Package fetch downloads daily adjusted-close history and writes the wide
// CSV the engine consumes.
package fetch

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/nesterchung/stock-decision-maker/internal/metrics"
	"github.com/nesterchung/stock-decision-maker/internal/prices"
)

const (
	defaultBaseURL = "https://stooq.com"
	defaultTimeout = 30 * time.Second
)

// Client pulls daily candles from the Stooq CSV endpoint.
type Client struct {
	baseURL string
	httpc   *http.Client
	log     zerolog.Logger
}

// Option configures Client construction parameters.
type Option func(*Client)

// WithBaseURL overrides the Stooq endpoint, mainly for tests.
func WithBaseURL(base string) Option {
	return func(c *Client) {
		if base != "" {
			c.baseURL = strings.TrimSuffix(base, "/")
		}
	}
}

// WithHTTPClient injects a custom HTTP client.
func WithHTTPClient(httpc *http.Client) Option {
	return func(c *Client) {
		if httpc != nil {
			c.httpc = httpc
		}
	}
}

// NewClient builds a Stooq client with sane timeouts.
func NewClient(log zerolog.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL: defaultBaseURL,
		httpc:   &http.Client{Timeout: defaultTimeout},
		log:     log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Daily fetches one ticker's close prices keyed by ISO date over [start, end].
func (c *Client) Daily(ctx context.Context, ticker string, start, end time.Time) (map[string]float64, error) {
	endpoint := fmt.Sprintf("%s/q/d/l/?%s", c.baseURL, url.Values{
		"s":  {stooqSymbol(ticker)},
		"d1": {start.Format("20060102")},
		"d2": {end.Format("20060102")},
		"i":  {"d"},
	}.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request for %s: %w", ticker, err)
	}
	resp, err := c.httpc.Do(req)
	if err != nil {
		metrics.FetchRequestsTotal.WithLabelValues(ticker, "error").Inc()
		return nil, fmt.Errorf("fetch %s: %w", ticker, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		metrics.FetchRequestsTotal.WithLabelValues(ticker, "error").Inc()
		return nil, fmt.Errorf("fetch %s: status %d", ticker, resp.StatusCode)
	}

	closes, err := parseDailyCSV(resp.Body)
	if err != nil {
		metrics.FetchRequestsTotal.WithLabelValues(ticker, "error").Inc()
		return nil, fmt.Errorf("parse %s: %w", ticker, err)
	}
	metrics.FetchRequestsTotal.WithLabelValues(ticker, "ok").Inc()
	return closes, nil
}

// Download fetches every ticker and inner-joins onto the dates where all of
// them traded so the engine never sees a ragged table. Tickers that return no
// rows fail the run by name.
func (c *Client) Download(ctx context.Context, tickers []string, start, end time.Time) (*prices.Table, error) {
	perTicker := make(map[string]map[string]float64, len(tickers))
	var empty []string
	for _, ticker := range tickers {
		closes, err := c.Daily(ctx, ticker, start, end)
		if err != nil {
			return nil, err
		}
		if len(closes) == 0 {
			empty = append(empty, ticker)
			continue
		}
		c.log.Debug().Str("ticker", ticker).Int("days", len(closes)).Msg("downloaded history")
		perTicker[ticker] = closes
	}
	if len(empty) > 0 {
		sort.Strings(empty)
		return nil, fmt.Errorf("no price data for tickers: %s", strings.Join(empty, ", "))
	}

	shared := sharedDates(perTicker)
	if len(shared) == 0 {
		return nil, errors.New("no trading days with complete data across all tickers")
	}

	dates := make([]time.Time, len(shared))
	for i, iso := range shared {
		date, err := time.Parse(prices.DateLayout, iso)
		if err != nil {
			return nil, fmt.Errorf("unparseable date %q from feed", iso)
		}
		dates[i] = date
	}
	series := make(map[string][]float64, len(perTicker))
	for ticker, closes := range perTicker {
		values := make([]float64, len(shared))
		for i, iso := range shared {
			values[i] = closes[iso]
		}
		series[ticker] = values
	}
	return prices.New(dates, series)
}

// sharedDates returns the sorted dates present for every ticker.
func sharedDates(perTicker map[string]map[string]float64) []string {
	counts := make(map[string]int)
	for _, closes := range perTicker {
		for iso := range closes {
			counts[iso]++
		}
	}
	var shared []string
	for iso, n := range counts {
		if n == len(perTicker) {
			shared = append(shared, iso)
		}
	}
	sort.Strings(shared)
	return shared
}

// parseDailyCSV reads the Stooq daily format: Date,Open,High,Low,Close,Volume.
func parseDailyCSV(r io.Reader) (map[string]float64, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return map[string]float64{}, nil
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	dateCol, closeCol := -1, -1
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "date":
			dateCol = i
		case "close":
			closeCol = i
		}
	}
	if dateCol < 0 || closeCol < 0 {
		return nil, fmt.Errorf("unexpected columns %v", header)
	}

	closes := make(map[string]float64)
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		if len(row) <= closeCol || len(row) <= dateCol {
			continue
		}
		value, err := strconv.ParseFloat(strings.TrimSpace(row[closeCol]), 64)
		if err != nil {
			continue
		}
		closes[strings.TrimSpace(row[dateCol])] = value
	}
	return closes, nil
}

// stooqSymbol maps a plain US ticker to Stooq's symbol convention.
func stooqSymbol(ticker string) string {
	ticker = strings.ToLower(strings.TrimSpace(ticker))
	if strings.Contains(ticker, ".") || strings.HasPrefix(ticker, "^") {
		return ticker
	}
	return ticker + ".us"
}
