// Package prices holds the wide daily price table consumed by the engine.
package prices

import (
	"fmt"
	"math"
	"time"
)

// DateLayout is the ISO date format used throughout the input and output.
const DateLayout = "2006-01-02"

// Table is an immutable, date-ascending price matrix: one row per trading
// date, one aligned float64 series per ticker. Missing observations are NaN.
type Table struct {
	dates  []time.Time
	series map[string][]float64
}

// New builds a table from aligned series, enforcing the ordering invariants:
// dates strictly increasing and duplicate-free, every series the same length
// as the date index.
func New(dates []time.Time, series map[string][]float64) (*Table, error) {
	for i := 1; i < len(dates); i++ {
		if !dates[i].After(dates[i-1]) {
			return nil, fmt.Errorf("dates must be strictly increasing: %s then %s",
				dates[i-1].Format(DateLayout), dates[i].Format(DateLayout))
		}
	}
	for ticker, values := range series {
		if len(values) != len(dates) {
			return nil, fmt.Errorf("series %s has %d values for %d dates", ticker, len(values), len(dates))
		}
	}
	return &Table{dates: dates, series: series}, nil
}

// Len returns the number of dates in the table.
func (t *Table) Len() int { return len(t.dates) }

// Dates returns the date index. Callers must not mutate it.
func (t *Table) Dates() []time.Time { return t.dates }

// Date returns the i-th date.
func (t *Table) Date(i int) time.Time { return t.dates[i] }

// Series returns the aligned price series for a ticker.
func (t *Table) Series(ticker string) ([]float64, bool) {
	s, ok := t.series[ticker]
	return s, ok
}

// Value returns the price of a ticker on the i-th date, NaN when the ticker
// is unknown.
func (t *Table) Value(ticker string, i int) float64 {
	s, ok := t.series[ticker]
	if !ok {
		return math.NaN()
	}
	return s[i]
}
