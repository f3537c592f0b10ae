package config

import "fmt"

// ConfigError reports a structural problem with the loaded configuration. It
// always names the first offending field; no partial recovery is attempted.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Reason)
}
