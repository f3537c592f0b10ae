package prices

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Load reads a wide CSV (date column plus one column per ticker) and keeps
// only the requested tickers. Columns may be named either as the bare ticker
// symbol or as <ticker>_<priceField>. Any requested ticker present under
// neither convention is a fatal error naming the missing tickers. Empty cells
// become NaN; unparseable dates or numbers abort the load.
func Load(path string, tickers []string, priceField string) (*Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open prices: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read prices header: %w", err)
	}

	dateCol := -1
	for i, name := range header {
		if strings.EqualFold(strings.TrimSpace(name), "date") {
			dateCol = i
			break
		}
	}
	if dateCol < 0 {
		return nil, fmt.Errorf("prices CSV has no date column")
	}

	columns, missing := resolveColumns(header, tickers, priceField)
	if len(missing) > 0 {
		return nil, fmt.Errorf("prices CSV missing required tickers: %s", strings.Join(missing, ", "))
	}

	var dates []time.Time
	series := make(map[string][]float64, len(columns))
	for ticker := range columns {
		series[ticker] = nil
	}

	for line := 2; ; line++ {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read prices row: %w", err)
		}
		date, err := time.Parse(DateLayout, strings.TrimSpace(row[dateCol]))
		if err != nil {
			return nil, fmt.Errorf("line %d: unparseable date %q", line, row[dateCol])
		}
		if n := len(dates); n > 0 && !date.After(dates[n-1]) {
			return nil, fmt.Errorf("line %d: date %s not after %s",
				line, date.Format(DateLayout), dates[n-1].Format(DateLayout))
		}
		dates = append(dates, date)
		for ticker, col := range columns {
			cell := strings.TrimSpace(row[col])
			if cell == "" {
				series[ticker] = append(series[ticker], math.NaN())
				continue
			}
			value, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: unparseable %s price %q", line, ticker, cell)
			}
			series[ticker] = append(series[ticker], value)
		}
	}
	if len(dates) == 0 {
		return nil, fmt.Errorf("prices CSV has no data rows")
	}
	return New(dates, series)
}

// resolveColumns maps each ticker to its column index, trying the bare symbol
// first and the <ticker>_<priceField> suffix second.
func resolveColumns(header, tickers []string, priceField string) (map[string]int, []string) {
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(name)] = i
	}
	columns := make(map[string]int, len(tickers))
	var missing []string
	for _, ticker := range tickers {
		if col, ok := index[ticker]; ok {
			columns[ticker] = col
			continue
		}
		if col, ok := index[ticker+"_"+priceField]; ok {
			columns[ticker] = col
			continue
		}
		missing = append(missing, ticker)
	}
	sort.Strings(missing)
	return columns, missing
}
