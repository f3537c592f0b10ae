package state

import (
	"reflect"
	"testing"

	"github.com/nesterchung/stock-decision-maker/internal/config"
	"github.com/nesterchung/stock-decision-maker/internal/signal"
)

func TestClassifyFixedRiskOn(t *testing.T) {
	got := ClassifyFixed(map[string]signal.Classification{
		"tech": signal.Up, "utilities": signal.Down, "rates": signal.Down,
	})
	if got.Label != LabelRiskOn {
		t.Fatalf("expected RISK_ON, got %s", got.Label)
	}
}

func TestClassifyFixedRiskOff(t *testing.T) {
	got := ClassifyFixed(map[string]signal.Classification{
		"tech": signal.Down, "utilities": signal.Up, "rates": signal.Up,
	})
	if got.Label != LabelRiskOff {
		t.Fatalf("expected RISK_OFF, got %s", got.Label)
	}
}

func TestClassifyFixedSingleFlipIsMixed(t *testing.T) {
	base := map[string]signal.Classification{
		"tech": signal.Up, "utilities": signal.Down, "rates": signal.Down,
	}
	for name := range base {
		signals := map[string]signal.Classification{}
		for k, v := range base {
			signals[k] = v
		}
		if signals[name] == signal.Up {
			signals[name] = signal.Down
		} else {
			signals[name] = signal.Up
		}
		if got := ClassifyFixed(signals); got.Label != LabelMixed {
			t.Fatalf("flipping %s alone should be MIXED, got %s", name, got.Label)
		}
	}
}

func TestClassifyFixedNAPropagates(t *testing.T) {
	got := ClassifyFixed(map[string]signal.Classification{
		"tech": signal.Up, "utilities": signal.NA, "rates": signal.Down,
	})
	if got.Label != LabelNA {
		t.Fatalf("expected NA, got %s", got.Label)
	}
}

func TestClassifyFixedMissingSignalIsNA(t *testing.T) {
	got := ClassifyFixed(map[string]signal.Classification{"tech": signal.Up})
	if got.Label != LabelNA {
		t.Fatalf("expected NA for missing signals, got %s", got.Label)
	}
}

func ruleList() *config.MarketState {
	return &config.MarketState{
		Version:         2,
		Field:           "state",
		NALabel:         "NA",
		RequiredSignals: []string{"tech", "utilities", "rates"},
		LabelsOrder:     []string{"RISK_ON", "RISK_OFF", "MIXED"},
		Labels: map[string]config.LabelRule{
			"RISK_ON": {All: []config.Condition{
				{Signal: "tech", Is: "UP"},
				{Signal: "utilities", Is: "DOWN"},
				{Signal: "rates", Is: "DOWN"},
			}},
			"RISK_OFF": {All: []config.Condition{
				{Signal: "tech", Is: "DOWN"},
				{Signal: "utilities", Is: "UP"},
				{Signal: "rates", Is: "UP"},
			}},
			"MIXED": {Default: true},
		},
	}
}

func TestClassifierFirstMatchWins(t *testing.T) {
	ms := ruleList()
	// Make RISK_OFF satisfiable by the same signal set as a later broad rule.
	ms.LabelsOrder = []string{"RISK_OFF", "BROAD", "MIXED"}
	ms.Labels["BROAD"] = config.LabelRule{All: []config.Condition{{Signal: "tech", Is: "DOWN"}}}
	classifier := NewClassifier(ms)

	got := classifier.Classify(map[string]signal.Classification{
		"tech": signal.Down, "utilities": signal.Up, "rates": signal.Up,
	})
	if got.Label != "RISK_OFF" || got.Rule != RuleLabelsOrder {
		t.Fatalf("expected first-match RISK_OFF, got %+v", got)
	}
}

func TestClassifierDisabled(t *testing.T) {
	ms := ruleList()
	enabled := false
	ms.Enabled = &enabled
	got := NewClassifier(ms).Classify(map[string]signal.Classification{
		"tech": signal.Up, "utilities": signal.Down, "rates": signal.Down,
	})
	if got.Label != "NA" || got.Rule != RuleDisabled {
		t.Fatalf("expected disabled NA, got %+v", got)
	}
}

func TestClassifierRequiredSignalNA(t *testing.T) {
	ms := ruleList()
	ms.RequiredSignals = []string{"rates"}
	got := NewClassifier(ms).Classify(map[string]signal.Classification{
		"tech": signal.Up, "utilities": signal.Down, "rates": signal.NA,
	})
	if got.Label != "NA" || got.Rule != RuleRequiredSignals {
		t.Fatalf("expected required-signal NA, got %+v", got)
	}
	if !reflect.DeepEqual(got.Missing, []string{"rates"}) {
		t.Fatalf("expected missing [rates], got %v", got.Missing)
	}
}

func TestClassifierRequiredSignalAbsent(t *testing.T) {
	got := NewClassifier(ruleList()).Classify(map[string]signal.Classification{
		"tech": signal.Up, "rates": signal.Down,
	})
	if got.Rule != RuleRequiredSignals || !reflect.DeepEqual(got.Missing, []string{"utilities"}) {
		t.Fatalf("expected missing [utilities], got %+v", got)
	}
}

func TestClassifierDefaultLabel(t *testing.T) {
	got := NewClassifier(ruleList()).Classify(map[string]signal.Classification{
		"tech": signal.Up, "utilities": signal.Up, "rates": signal.Up,
	})
	if got.Label != "MIXED" || got.Rule != RuleDefault {
		t.Fatalf("expected default MIXED, got %+v", got)
	}
}

func TestClassifierFallbackWithoutDefault(t *testing.T) {
	ms := ruleList()
	ms.LabelsOrder = []string{"RISK_ON", "RISK_OFF"}
	got := NewClassifier(ms).Classify(map[string]signal.Classification{
		"tech": signal.Up, "utilities": signal.Up, "rates": signal.Up,
	})
	if got.Label != LabelMixed || got.Rule != RuleFallback {
		t.Fatalf("expected literal MIXED fallback, got %+v", got)
	}
}

func TestClassifierCustomNALabel(t *testing.T) {
	ms := ruleList()
	ms.NALabel = "UNKNOWN"
	ms.RequiredSignals = []string{"rates"}
	got := NewClassifier(ms).Classify(map[string]signal.Classification{"rates": signal.NA})
	if got.Label != "UNKNOWN" {
		t.Fatalf("expected configured na_label, got %s", got.Label)
	}
}
