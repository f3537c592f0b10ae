package engine

import (
	"github.com/rs/zerolog"

	"github.com/nesterchung/stock-decision-maker/internal/config"
	"github.com/nesterchung/stock-decision-maker/internal/metrics"
	"github.com/nesterchung/stock-decision-maker/internal/prices"
	"github.com/nesterchung/stock-decision-maker/internal/record"
	"github.com/nesterchung/stock-decision-maker/internal/signal"
	"github.com/nesterchung/stock-decision-maker/internal/state"
)

// Engine runs one deterministic batch pass over a price table. The
// configuration is read-only for the duration of a run.
type Engine struct {
	cfg        *config.Config
	mode       Mode
	classifier *state.Classifier
	log        zerolog.Logger
}

// New wires an engine for the selected mode. A nil cfg under ModeLegacy
// falls back to the built-in v0.1 configuration. On the rule-list path the
// configuration must already have passed Validate.
func New(cfg *config.Config, mode Mode, log zerolog.Logger) *Engine {
	if cfg == nil && mode == ModeLegacy {
		cfg = config.Legacy()
	}
	e := &Engine{cfg: cfg, mode: mode, log: log}
	if mode == ModeRuleList {
		e.classifier = state.NewClassifier(cfg.MarketState)
	}
	return e
}

// Config exposes the effective configuration (the built-in one under
// ModeLegacy).
func (e *Engine) Config() *config.Config { return e.cfg }

// Run derives every signal series and classifies every date, returning one
// record per date in ascending order. Per-date data gaps surface as NA
// classifications, never as errors.
func (e *Engine) Run(table *prices.Table) ([]record.Record, error) {
	names := e.cfg.SignalNames()
	series := make([]*Series, 0, len(names))
	for _, name := range names {
		def := e.cfg.Signals[name]
		s, err := BuildSeries(name, def, table, e.cfg.WindowFor(def))
		if err != nil {
			return nil, err
		}
		series = append(series, s)
	}

	inputs := record.Inputs{
		Bench:      e.cfg.Bench,
		Tickers:    e.cfg.Tickers(),
		Window:     e.cfg.Window,
		PriceField: e.cfg.PriceField,
	}
	field := config.DefaultStateField
	if m := e.cfg.MarketState; m != nil && m.Field != "" {
		field = m.Field
	}

	records := make([]record.Record, 0, table.Len())
	for i := 0; i < table.Len(); i++ {
		results := make(map[string]signal.Result, len(series))
		classes := make(map[string]signal.Classification, len(series))
		for _, s := range series {
			res := s.At(i)
			results[s.Name] = res
			classes[s.Name] = res.Class
			metrics.SignalClassTotal.WithLabelValues(s.Name, string(res.Class)).Inc()
		}

		var st state.Result
		if e.mode == ModeRuleList {
			st = e.classifier.Classify(classes)
		} else {
			st = state.ClassifyFixed(classes)
		}
		metrics.RecordsTotal.WithLabelValues(st.Label).Inc()

		date := table.Date(i).Format(prices.DateLayout)
		records = append(records, record.Build(date, results, st, field, inputs, e.cfg.Version))
	}
	e.log.Debug().
		Int("dates", table.Len()).
		Int("signals", len(series)).
		Stringer("mode", e.mode).
		Msg("computed records")
	return records, nil
}
