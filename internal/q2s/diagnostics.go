package q2s

import (
	"fmt"
	"log/slog"
)

// Diagnostics accumulates non-fatal warnings raised during an evaluation:
// missing domain variables, unsupported relations, degenerate rows. They
// travel with results instead of going straight to a logger so callers can
// inspect, count, or drop them.
type Diagnostics []string

// Warnf records a warning.
func (d *Diagnostics) Warnf(format string, args ...any) {
	*d = append(*d, fmt.Sprintf(format, args...))
}

// Merge appends all warnings from other.
func (d *Diagnostics) Merge(other Diagnostics) {
	*d = append(*d, other...)
}

// Log emits every warning at warn level.
func (d Diagnostics) Log(logger *slog.Logger) {
	for _, w := range d {
		logger.Warn(w)
	}
}
