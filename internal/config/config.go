// Package config exposes the strongly typed engine configuration loaded from
// YAML, mirroring the signals.yaml document format.
package config

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Process-wide defaults applied when the document omits a field.
const (
	DefaultWindow     = 20
	DefaultPriceField = "adj_close"
	DefaultStateField = "state"
	DefaultNALabel    = "NA"
)

// Kind discriminates the signal definition variants. The set is closed;
// anything else is rejected at load time.
type Kind string

const (
	// KindRelativeStrength derives the value series as the ratio of two
	// ticker price series.
	KindRelativeStrength Kind = "rs"
	// KindPriceProxy uses a single ticker's raw price series.
	KindPriceProxy Kind = "price"
)

// Rule decides how a value compares against its moving average.
type Rule string

const (
	// RuleAboveSMA classifies UP when the value is strictly above the SMA.
	RuleAboveSMA Rule = "gt_sma"
	// RuleBelowSMA classifies UP when the value is strictly below the SMA.
	RuleBelowSMA Rule = "lt_sma"
)

// SignalDef describes one configured signal. For kind "rs" the Numerator and
// Denominator tickers are required; for kind "price" the Ticker is. Window,
// when positive, overrides the config-level lookback for this signal only.
type SignalDef struct {
	Kind        Kind   `yaml:"kind"`
	Numerator   string `yaml:"a"`
	Denominator string `yaml:"b"`
	Ticker      string `yaml:"ticker"`
	Rule        Rule   `yaml:"rule"`
	Window      int    `yaml:"window"`
}

// Tickers returns the ticker symbols the definition reads.
func (d SignalDef) Tickers() []string {
	if d.Kind == KindPriceProxy {
		return []string{d.Ticker}
	}
	return []string{d.Numerator, d.Denominator}
}

// Condition is a single equality check against a date's classification.
type Condition struct {
	Signal string `yaml:"signal"`
	Is     string `yaml:"is"`
}

// LabelRule is either the default marker or a conjunction of conditions. In
// YAML a label maps to the scalar "default", a bare condition sequence, or a
// mapping with "all" and/or "default" keys.
type LabelRule struct {
	Default bool
	All     []Condition
}

// UnmarshalYAML accepts the three document shapes a label rule may take.
func (r *LabelRule) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var marker string
		if err := node.Decode(&marker); err != nil {
			return err
		}
		if marker != "default" {
			return fmt.Errorf("label rule scalar must be %q, got %q", "default", marker)
		}
		r.Default = true
		return nil
	case yaml.SequenceNode:
		return node.Decode(&r.All)
	case yaml.MappingNode:
		var body struct {
			Default bool        `yaml:"default"`
			All     []Condition `yaml:"all"`
		}
		if err := node.Decode(&body); err != nil {
			return err
		}
		r.Default = body.Default
		r.All = body.All
		return nil
	}
	return fmt.Errorf("label rule must be a scalar, sequence, or mapping")
}

// MarshalYAML writes the compact scalar form for pure default markers.
func (r LabelRule) MarshalYAML() (interface{}, error) {
	if r.Default && len(r.All) == 0 {
		return "default", nil
	}
	return struct {
		Default bool        `yaml:"default,omitempty"`
		All     []Condition `yaml:"all"`
	}{Default: r.Default, All: r.All}, nil
}

// MarketState configures the composite state classification. Version selects
// the rule generation: 1 is the fixed three-signal rule, 2 the ordered rule
// list. A nil Enabled counts as enabled.
type MarketState struct {
	Version         int                  `yaml:"version"`
	Enabled         *bool                `yaml:"enabled"`
	Field           string               `yaml:"field"`
	NALabel         string               `yaml:"na_label"`
	RequiredSignals []string             `yaml:"required_signals"`
	LabelsOrder     []string             `yaml:"labels_order"`
	Labels          map[string]LabelRule `yaml:"labels"`
}

// IsEnabled reports whether state classification is switched on. Only an
// explicit "enabled: false" turns it off.
func (m *MarketState) IsEnabled() bool {
	return m == nil || m.Enabled == nil || *m.Enabled
}

// DefaultLabel returns the label marked default, if exactly one exists.
func (m *MarketState) DefaultLabel() (string, bool) {
	for _, name := range m.LabelsOrder {
		if rule, ok := m.Labels[name]; ok && rule.Default {
			return name, true
		}
	}
	return "", false
}

// Config is the full signals.yaml document.
type Config struct {
	PriceField  string               `yaml:"price_field"`
	Window      int                  `yaml:"window"`
	Bench       string               `yaml:"bench"`
	Version     string               `yaml:"version"`
	Signals     map[string]SignalDef `yaml:"signals"`
	MarketState *MarketState         `yaml:"market_state"`
}

// Load reads a YAML file from disk, applies defaults, and rejects definitions
// outside the closed kind/rule sets. Structural market_state checks live in
// Validate and must run before any computation on the rule-list path.
func Load(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	var cfg Config
	if err := yaml.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.checkSignals(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save persists a Config struct to disk as YAML.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("nil config")
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.PriceField == "" {
		c.PriceField = DefaultPriceField
	}
	if c.Window <= 0 {
		c.Window = DefaultWindow
	}
	if m := c.MarketState; m != nil {
		if m.Field == "" {
			m.Field = DefaultStateField
		}
		if m.NALabel == "" {
			m.NALabel = DefaultNALabel
		}
		if m.Version == 0 {
			m.Version = 2
		}
	}
}

// checkSignals enforces the closed kind/rule enums and per-kind ticker shape
// so a bad definition can never reach per-date evaluation.
func (c *Config) checkSignals() error {
	for _, name := range c.SignalNames() {
		def := c.Signals[name]
		field := "signals." + name
		switch def.Kind {
		case KindRelativeStrength:
			if def.Numerator == "" || def.Denominator == "" {
				return &ConfigError{Field: field, Reason: "kind rs requires both a and b tickers"}
			}
		case KindPriceProxy:
			if def.Ticker == "" {
				return &ConfigError{Field: field, Reason: "kind price requires a ticker"}
			}
		default:
			return &ConfigError{Field: field + ".kind", Reason: fmt.Sprintf("unknown kind %q", def.Kind)}
		}
		switch def.Rule {
		case RuleAboveSMA, RuleBelowSMA:
		default:
			return &ConfigError{Field: field + ".rule", Reason: fmt.Sprintf("unknown rule %q", def.Rule)}
		}
		if def.Window < 0 {
			return &ConfigError{Field: field + ".window", Reason: "window must be positive"}
		}
	}
	return nil
}

// SignalNames returns the configured signal names in sorted order so every
// traversal of the signal set is deterministic.
func (c *Config) SignalNames() []string {
	names := make([]string, 0, len(c.Signals))
	for name := range c.Signals {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Tickers returns the sorted distinct set of tickers referenced by any signal
// definition plus the benchmark.
func (c *Config) Tickers() []string {
	seen := make(map[string]struct{})
	if c.Bench != "" {
		seen[c.Bench] = struct{}{}
	}
	for _, def := range c.Signals {
		for _, ticker := range def.Tickers() {
			if ticker != "" {
				seen[ticker] = struct{}{}
			}
		}
	}
	out := make([]string, 0, len(seen))
	for ticker := range seen {
		out = append(out, ticker)
	}
	sort.Strings(out)
	return out
}

// WindowFor resolves the effective lookback for one signal definition.
func (c *Config) WindowFor(def SignalDef) int {
	if def.Window > 0 {
		return def.Window
	}
	return c.Window
}
