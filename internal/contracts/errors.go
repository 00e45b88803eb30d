package contracts

import "errors"

// Error taxonomy for the analysis pipeline. Callers match with errors.Is;
// wrapping layers must preserve the kind.
var (
	// ErrInvalidSeries means the raw series fails ordering or uniqueness
	// constraints. A caller bug, surfaced immediately and never retried.
	ErrInvalidSeries = errors.New("invalid series")

	// ErrInsufficientData means the enriched series lacks a required
	// latest-value field for scoring. "Cannot score yet", not a fault.
	ErrInsufficientData = errors.New("insufficient data")

	// ErrDataUnavailable means the external fetch returned nothing usable.
	ErrDataUnavailable = errors.New("data unavailable")
)
