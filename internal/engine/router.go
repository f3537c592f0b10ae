package engine

import (
	"fmt"

	"github.com/nesterchung/stock-decision-maker/internal/config"
)

// Mode is the computation strategy, decided once at startup. Legacy and
// config-driven logic never mix within a run.
type Mode int

const (
	// ModeLegacy runs the built-in v0.1 signal set with the fixed state rule.
	ModeLegacy Mode = iota
	// ModeFixedState runs configured signals with the fixed three-signal
	// state rule (market_state absent or version 1).
	ModeFixedState
	// ModeRuleList runs configured signals with the ordered rule list
	// (market_state version 2).
	ModeRuleList
)

func (m Mode) String() string {
	switch m {
	case ModeLegacy:
		return "legacy"
	case ModeFixedState:
		return "fixed_state"
	case ModeRuleList:
		return "rule_list"
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

// SelectMode picks the strategy for a run. An explicit legacy request wins;
// otherwise the market_state.version discriminator decides between state-rule
// generations.
func SelectMode(legacy bool, cfg *config.Config) (Mode, error) {
	if legacy {
		return ModeLegacy, nil
	}
	m := cfg.MarketState
	if m == nil {
		return ModeFixedState, nil
	}
	switch m.Version {
	case 1:
		return ModeFixedState, nil
	case 2:
		return ModeRuleList, nil
	}
	return 0, &config.ConfigError{
		Field:  "market_state.version",
		Reason: fmt.Sprintf("unsupported version %d", m.Version),
	}
}
