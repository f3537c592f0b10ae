package config

import (
	"fmt"

	"github.com/nesterchung/stock-decision-maker/internal/signal"
)

// Validate checks the market_state block for structural correctness. It must
// run before any date is processed on the rule-list path: catching a malformed
// configuration after partial output would leave inconsistent state.
//
// It returns advisory warnings for configuration smells that stay legal for
// backward compatibility (no default label, conditions naming signals that are
// never computed) and a ConfigError for the first hard violation.
func (c *Config) Validate() ([]string, error) {
	m := c.MarketState
	if m == nil {
		return nil, nil
	}
	if m.Version != 1 && m.Version != 2 {
		return nil, &ConfigError{
			Field:  "market_state.version",
			Reason: fmt.Sprintf("unsupported version %d", m.Version),
		}
	}
	if m.Version == 1 {
		// Fixed-rule generation carries only output options; the rule set
		// is hardcoded and needs no label structure.
		return nil, nil
	}

	if len(m.RequiredSignals) == 0 {
		return nil, &ConfigError{Field: "market_state.required_signals", Reason: "must be a non-empty list"}
	}
	for i, name := range m.RequiredSignals {
		if name == "" {
			return nil, &ConfigError{
				Field:  fmt.Sprintf("market_state.required_signals[%d]", i),
				Reason: "empty signal name",
			}
		}
	}
	if len(m.LabelsOrder) == 0 {
		return nil, &ConfigError{Field: "market_state.labels_order", Reason: "must be a non-empty list"}
	}
	if len(m.Labels) == 0 {
		return nil, &ConfigError{Field: "market_state.labels", Reason: "must be a mapping of label rules"}
	}

	defaults := 0
	for _, label := range m.LabelsOrder {
		rule, ok := m.Labels[label]
		if !ok {
			return nil, &ConfigError{
				Field:  "market_state.labels." + label,
				Reason: "label referenced in labels_order but not defined",
			}
		}
		if rule.Default {
			defaults++
			continue
		}
		if len(rule.All) == 0 {
			return nil, &ConfigError{
				Field:  "market_state.labels." + label,
				Reason: "non-default label needs a non-empty condition list",
			}
		}
		for i, cond := range rule.All {
			field := fmt.Sprintf("market_state.labels.%s.all[%d]", label, i)
			if cond.Signal == "" {
				return nil, &ConfigError{Field: field + ".signal", Reason: "missing signal name"}
			}
			if cond.Is == "" {
				return nil, &ConfigError{Field: field + ".is", Reason: "missing classification"}
			}
			if !signal.Classification(cond.Is).Known() {
				return nil, &ConfigError{
					Field:  field + ".is",
					Reason: fmt.Sprintf("must be UP, DOWN, or NA, got %q", cond.Is),
				}
			}
		}
	}
	if defaults > 1 {
		return nil, &ConfigError{Field: "market_state.labels", Reason: "at most one label may be marked default"}
	}

	var warnings []string
	if defaults == 0 {
		warnings = append(warnings, "market_state.labels: no default label; unmatched dates fall back to MIXED")
	}
	warnings = append(warnings, c.unknownSignalRefs()...)
	return warnings, nil
}

// unknownSignalRefs flags required_signals entries and conditions that name a
// signal the config never computes. A condition on an absent signal can never
// match, and an absent required signal forces every date to NA.
func (c *Config) unknownSignalRefs() []string {
	m := c.MarketState
	var warnings []string
	for _, name := range m.RequiredSignals {
		if _, ok := c.Signals[name]; !ok {
			warnings = append(warnings, fmt.Sprintf("market_state.required_signals: %q is not a configured signal", name))
		}
	}
	for _, label := range m.LabelsOrder {
		for _, cond := range m.Labels[label].All {
			if _, ok := c.Signals[cond.Signal]; !ok {
				warnings = append(warnings, fmt.Sprintf("market_state.labels.%s: condition on unknown signal %q", label, cond.Signal))
			}
		}
	}
	return warnings
}
