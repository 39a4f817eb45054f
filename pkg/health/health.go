// Package health derives a battery wear percentage and a categorical
// status from design and full-charge capacity readings.
package health

import (
	"math"

	pkgerrors "github.com/pkg/errors"

	"github.com/fatih/color"
)

// ErrUndefined is returned when health cannot be computed because the
// design capacity is zero or negative.
var ErrUndefined = pkgerrors.New("health undefined: design capacity must be positive")

// Status is a categorical wear label.
type Status string

const (
	Excellent Status = "Excellent"
	Good      Status = "Good"
	Fair      Status = "Fair"
	Poor      Status = "Poor"
	Critical  Status = "Critical"
)

// Bucket thresholds, evaluated top-down, first match wins. This is the
// canonical scheme; display colors derive from it (see Color).
const (
	thresholdExcellent = 90
	thresholdGood      = 70
	thresholdFair      = 50
	thresholdPoor      = 30
)

// Result is the outcome of one health computation. Percent is not
// clamped: the OS can report a full-charge capacity above design, and
// we keep what it says.
type Result struct {
	DesignCapacity     float64 `json:"designCapacity"`
	FullChargeCapacity float64 `json:"fullChargeCapacity"`
	Percent            float64 `json:"healthPercent"`
	Status             Status  `json:"status"`
}

// Compute calculates full/design*100 rounded to two decimals and
// buckets it. Capacities must share a unit (powercfg reports mWh).
func Compute(design, fullCharge float64) (*Result, error) {
	if design <= 0 {
		return nil, ErrUndefined
	}

	pct := math.Round(fullCharge/design*100*100) / 100

	return &Result{
		DesignCapacity:     design,
		FullChargeCapacity: fullCharge,
		Percent:            pct,
		Status:             StatusOf(pct),
	}, nil
}

// StatusOf buckets a health percentage. The partition is total over
// [0, +inf); values above 100 still land in Excellent.
func StatusOf(pct float64) Status {
	switch {
	case pct >= thresholdExcellent:
		return Excellent
	case pct >= thresholdGood:
		return Good
	case pct >= thresholdFair:
		return Fair
	case pct >= thresholdPoor:
		return Poor
	default:
		return Critical
	}
}

// Color returns the terminal color used to render this status.
func (s Status) Color() *color.Color {
	switch s {
	case Excellent:
		return color.New(color.FgGreen)
	case Good:
		return color.New(color.FgHiGreen)
	case Fair:
		return color.New(color.FgYellow)
	case Poor:
		return color.New(color.FgHiRed)
	default:
		return color.New(color.FgRed)
	}
}

func (s Status) String() string {
	return string(s)
}
