// Package signal standardizes the classification vocabulary shared between the
// series engine and the state classifier.
package signal

// Classification is the direction of a signal relative to its moving average
// on a single date.
type Classification string

const (
	// Up means the signal value cleared its rule threshold.
	Up Classification = "UP"
	// Down means the signal value did not clear its rule threshold.
	Down Classification = "DOWN"
	// NA means the lookback window was not full or data was missing.
	NA Classification = "NA"
)

// Known reports whether c is one of the three valid classifications.
func (c Classification) Known() bool {
	switch c {
	case Up, Down, NA:
		return true
	}
	return false
}

// Result carries a single date's classification together with the numbers it
// was derived from. Value and SMA are NaN when unavailable.
type Result struct {
	Class Classification
	Value float64
	SMA   float64
}
