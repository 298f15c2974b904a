package format

import (
	"fmt"
	"math"
	"time"
)

// FormatExecutionDuration formats a time.Duration for display.
// It shows microseconds for durations less than a millisecond, milliseconds for
// durations less than a second, and the default string representation otherwise.
//
// Parameters:
//   - d: The duration to format.
//
// Returns:
//   - string: A formatted string representing the duration.
func FormatExecutionDuration(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%dµs", d.Microseconds())
	} else if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return d.Round(time.Millisecond).String()
}

// FormatRate formats an items-per-second rate with a unit suffix, e.g.
// "1.25k items/s". Non-positive rates format as "0 items/s".
func FormatRate(perSec float64) string {
	switch {
	case perSec <= 0 || math.IsNaN(perSec):
		return "0 items/s"
	case perSec >= 1e6:
		return fmt.Sprintf("%.2fM items/s", perSec/1e6)
	case perSec >= 1e3:
		return fmt.Sprintf("%.2fk items/s", perSec/1e3)
	default:
		return fmt.Sprintf("%.2f items/s", perSec)
	}
}
