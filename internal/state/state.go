// Package state derives the composite market regime label for a single date
// from that date's signal classifications.
package state

import (
	"github.com/nesterchung/stock-decision-maker/internal/config"
	"github.com/nesterchung/stock-decision-maker/internal/signal"
)

// Built-in labels shared by both rule generations.
const (
	LabelRiskOn  = "RISK_ON"
	LabelRiskOff = "RISK_OFF"
	LabelMixed   = "MIXED"
	LabelNA      = "NA"
)

// Rule tags recorded alongside the emitted label so a consumer can tell which
// branch produced it.
const (
	RuleFixed           = "fixed"
	RuleDisabled        = "disabled"
	RuleRequiredSignals = "required_signals"
	RuleLabelsOrder     = "labels_order"
	RuleDefault         = "default"
	RuleFallback        = "fallback"
)

// Result is the outcome of classifying one date.
type Result struct {
	Label string
	Rule  string
	// Missing lists required signals that were absent or NA, ordered as
	// configured. Empty except under RuleRequiredSignals.
	Missing []string
}

// ClassifyFixed applies the original three-signal rule: tech leadership with
// defensive sectors and bonds falling is risk-on, the exact mirror is
// risk-off, and anything else is mixed. Any NA input forces NA.
func ClassifyFixed(signals map[string]signal.Classification) Result {
	tech := signals["tech"]
	utilities := signals["utilities"]
	rates := signals["rates"]

	for _, class := range []signal.Classification{tech, utilities, rates} {
		if class == signal.NA || class == "" {
			return Result{Label: LabelNA, Rule: RuleFixed}
		}
	}
	switch {
	case tech == signal.Up && utilities == signal.Down && rates == signal.Down:
		return Result{Label: LabelRiskOn, Rule: RuleFixed}
	case tech == signal.Down && utilities == signal.Up && rates == signal.Up:
		return Result{Label: LabelRiskOff, Rule: RuleFixed}
	}
	return Result{Label: LabelMixed, Rule: RuleFixed}
}

// Classifier evaluates the ordered, user-configurable rule list. The
// configuration must have passed config.Validate before a Classifier is
// built; evaluation assumes structural correctness.
type Classifier struct {
	ms *config.MarketState
}

// NewClassifier wraps a validated market_state block.
func NewClassifier(ms *config.MarketState) *Classifier {
	return &Classifier{ms: ms}
}

// Classify resolves one date. Disabled classification always emits the NA
// label; missing or NA required signals emit it with the offenders attached;
// otherwise the first label whose conditions all hold wins, falling back to
// the default-marked label and finally to the literal MIXED.
func (c *Classifier) Classify(signals map[string]signal.Classification) Result {
	ms := c.ms
	if !ms.IsEnabled() {
		return Result{Label: ms.NALabel, Rule: RuleDisabled}
	}

	var missing []string
	for _, name := range ms.RequiredSignals {
		if class, ok := signals[name]; !ok || class == signal.NA {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return Result{Label: ms.NALabel, Rule: RuleRequiredSignals, Missing: missing}
	}

	for _, label := range ms.LabelsOrder {
		rule := ms.Labels[label]
		if rule.Default || len(rule.All) == 0 {
			continue
		}
		if matches(rule.All, signals) {
			return Result{Label: label, Rule: RuleLabelsOrder}
		}
	}
	if label, ok := ms.DefaultLabel(); ok {
		return Result{Label: label, Rule: RuleDefault}
	}
	return Result{Label: LabelMixed, Rule: RuleFallback}
}

func matches(conditions []config.Condition, signals map[string]signal.Classification) bool {
	for _, cond := range conditions {
		if signals[cond.Signal] != signal.Classification(cond.Is) {
			return false
		}
	}
	return true
}
