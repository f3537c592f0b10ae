// Package engine turns a price table and signal definitions into dated
// classifications and assembles the output records.
package engine

import (
	"fmt"
	"math"

	"github.com/nesterchung/stock-decision-maker/internal/config"
	"github.com/nesterchung/stock-decision-maker/internal/prices"
	"github.com/nesterchung/stock-decision-maker/internal/signal"
)

// Series is the derived value and trailing-SMA curves for one signal,
// aligned to the price table's date index.
type Series struct {
	Name   string
	Values []float64
	SMA    []float64
	rule   config.Rule
}

// BuildSeries derives one signal's curves: the a/b price ratio for relative
// strength, or the raw price for a proxy, plus the SMA over exactly window
// trailing samples. Pure function of the table and definition.
func BuildSeries(name string, def config.SignalDef, table *prices.Table, window int) (*Series, error) {
	if window <= 0 {
		return nil, &config.ConfigError{Field: "signals." + name + ".window", Reason: "window must be positive"}
	}
	values := make([]float64, table.Len())
	switch def.Kind {
	case config.KindRelativeStrength:
		num, ok := table.Series(def.Numerator)
		if !ok {
			return nil, fmt.Errorf("signal %s: ticker %s not in price table", name, def.Numerator)
		}
		den, ok := table.Series(def.Denominator)
		if !ok {
			return nil, fmt.Errorf("signal %s: ticker %s not in price table", name, def.Denominator)
		}
		for i := range values {
			values[i] = num[i] / den[i]
		}
	case config.KindPriceProxy:
		raw, ok := table.Series(def.Ticker)
		if !ok {
			return nil, fmt.Errorf("signal %s: ticker %s not in price table", name, def.Ticker)
		}
		copy(values, raw)
	default:
		// Unreachable for configs that passed load-time checks.
		return nil, &config.ConfigError{Field: "signals." + name + ".kind", Reason: fmt.Sprintf("unknown kind %q", def.Kind)}
	}
	return &Series{
		Name:   name,
		Values: values,
		SMA:    rollingMean(values, window),
		rule:   def.Rule,
	}, nil
}

// rollingMean averages the window most recent values ending at each index.
// Indexes with fewer than window samples available, or any NaN inside the
// window, yield NaN — an average is never produced from a partial window.
func rollingMean(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	for i := range out {
		if i < window-1 {
			out[i] = math.NaN()
			continue
		}
		sum := 0.0
		for j := i - window + 1; j <= i; j++ {
			sum += values[j]
		}
		out[i] = sum / float64(window)
	}
	return out
}

// At classifies the i-th date. An undefined SMA forces NA (the value is still
// reported when available); otherwise the rule compares value against SMA,
// with equality resolving to DOWN under both rules.
func (s *Series) At(i int) signal.Result {
	value, sma := s.Values[i], s.SMA[i]
	if math.IsNaN(sma) {
		return signal.Result{Class: signal.NA, Value: value, SMA: math.NaN()}
	}
	class := signal.Down
	switch s.rule {
	case config.RuleAboveSMA:
		if value > sma {
			class = signal.Up
		}
	case config.RuleBelowSMA:
		if value < sma {
			class = signal.Up
		}
	}
	return signal.Result{Class: class, Value: value, SMA: sma}
}
