package config

// Legacy returns the built-in v0.1 configuration: the original hardcoded
// sector signal set from before signals became user-editable. Rates is
// inverted on purpose — falling TLT means rising yields.
func Legacy() *Config {
	return &Config{
		PriceField: DefaultPriceField,
		Window:     DefaultWindow,
		Bench:      "SPY",
		Version:    "0.1",
		Signals: map[string]SignalDef{
			"energy":    {Kind: KindRelativeStrength, Numerator: "XLE", Denominator: "SPY", Rule: RuleAboveSMA},
			"rates":     {Kind: KindPriceProxy, Ticker: "TLT", Rule: RuleBelowSMA},
			"tech":      {Kind: KindRelativeStrength, Numerator: "XLK", Denominator: "SPY", Rule: RuleAboveSMA},
			"utilities": {Kind: KindRelativeStrength, Numerator: "XLU", Denominator: "SPY", Rule: RuleAboveSMA},
		},
	}
}
