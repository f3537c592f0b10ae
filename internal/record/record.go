// Package record assembles the per-date output records and serializes them as
// newline-delimited JSON.
package record

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"

	"github.com/nesterchung/stock-decision-maker/internal/signal"
	"github.com/nesterchung/stock-decision-maker/internal/state"
)

// Metric is the numeric value/SMA pair behind one signal classification.
// Nil means NA.
type Metric struct {
	Value *float64 `json:"value"`
	SMA   *float64 `json:"sma"`
}

// State is the composite regime object emitted under the configured field.
type State struct {
	Label   string   `json:"label"`
	Rule    string   `json:"rule"`
	Missing []string `json:"missing,omitempty"`
}

// Inputs echoes the run parameters that produced a record.
type Inputs struct {
	Bench      string   `json:"bench"`
	Tickers    []string `json:"tickers"`
	Window     int      `json:"window"`
	PriceField string   `json:"price_field"`
}

// Record is one date's output. StateField carries the configured output key
// (default "state"); everything else marshals under a fixed name. Records are
// value objects: built once, never mutated.
type Record struct {
	Date       string
	Signals    map[string]signal.Classification
	StateField string
	State      State
	Metrics    map[string]Metric
	Inputs     Inputs
	Version    string
}

// Build assembles a record from one date's signal results.
func Build(date string, results map[string]signal.Result, st state.Result, field string, inputs Inputs, version string) Record {
	if field == "" {
		field = "state"
	}
	signals := make(map[string]signal.Classification, len(results))
	metrics := make(map[string]Metric, len(results))
	for name, res := range results {
		signals[name] = res.Class
		metrics[name] = Metric{Value: finite(res.Value), SMA: finite(res.SMA)}
	}
	return Record{
		Date:       date,
		Signals:    signals,
		StateField: field,
		State:      State{Label: st.Label, Rule: st.Rule, Missing: st.Missing},
		Metrics:    metrics,
		Inputs:     inputs,
		Version:    version,
	}
}

// finite returns a pointer to v, or nil when v is NaN or infinite so it
// serializes as JSON null.
func finite(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// MarshalJSON writes the top-level keys in a fixed order (date, signals, the
// state field, metrics, inputs, version) so identical inputs always produce
// byte-identical lines. Nested maps rely on encoding/json's sorted keys.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	if err := writeField(&buf, "date", r.Date, false); err != nil {
		return nil, err
	}
	if err := writeField(&buf, "signals", r.Signals, true); err != nil {
		return nil, err
	}
	field := r.StateField
	if field == "" {
		field = "state"
	}
	if err := writeField(&buf, field, r.State, true); err != nil {
		return nil, err
	}
	if err := writeField(&buf, "metrics", r.Metrics, true); err != nil {
		return nil, err
	}
	if err := writeField(&buf, "inputs", r.Inputs, true); err != nil {
		return nil, err
	}
	if err := writeField(&buf, "version", r.Version, true); err != nil {
		return nil, err
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func writeField(buf *bytes.Buffer, name string, value interface{}, comma bool) error {
	if comma {
		buf.WriteByte(',')
	}
	key, err := json.Marshal(name)
	if err != nil {
		return fmt.Errorf("marshal key %s: %w", name, err)
	}
	buf.Write(key)
	buf.WriteByte(':')
	body, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal field %s: %w", name, err)
	}
	buf.Write(body)
	return nil
}
