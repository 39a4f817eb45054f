// Package checker sequences the battery health pipeline: enumeration,
// report generation, capacity extraction, and health computation.
package checker

import (
	"context"
	"fmt"
	"time"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/battcheck/battcheck/pkg/battery"
	"github.com/battcheck/battcheck/pkg/health"
	"github.com/battcheck/battcheck/pkg/report"
)

// State is a phase of one check run. Transitions are strictly
// sequential: Idle -> Discovering -> Generating -> Parsing -> Computing
// -> Done, with any stage failure jumping straight to Failed.
type State string

const (
	StateIdle        State = "Idle"
	StateDiscovering State = "Discovering"
	StateGenerating  State = "Generating"
	StateParsing     State = "Parsing"
	StateComputing   State = "Computing"
	StateDone        State = "Done"
	StateFailed      State = "Failed"
)

// ErrNoBattery reports that nothing was enumerated. It is "operation
// not applicable" rather than a failed check; callers surface it as an
// explicit no-battery state.
var ErrNoBattery = pkgerrors.New("no battery detected in the system")

// StageError tags a pipeline failure with the stage it happened in.
type StageError struct {
	Stage State
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", stageMessage(e.Stage), e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

func stageMessage(s State) string {
	switch s {
	case StateDiscovering:
		return "battery discovery failed"
	case StateGenerating:
		return "failed to generate battery report"
	case StateParsing:
		return "failed to parse battery report"
	case StateComputing:
		return "failed to compute battery health"
	default:
		return "check failed"
	}
}

// Result is the flat record produced by one successful check. It lives
// for a single invocation; nothing is persisted across checks.
type Result struct {
	Battery            battery.Info  `json:"battery"`
	BatteryCount       int           `json:"batteryCount"`
	DesignCapacity     float64       `json:"designCapacity"`
	FullChargeCapacity float64       `json:"fullChargeCapacity"`
	Percent            float64       `json:"healthPercent"`
	Status             health.Status `json:"status"`
	CheckedAt          time.Time     `json:"checkedAt"`
}

// Checker runs the pipeline. Stage functions are fields so tests can
// substitute any stage.
type Checker struct {
	Generator *report.Generator

	// OnTransition, when set, observes every state change.
	OnTransition func(from, to State)

	enumerate func() []battery.Info
	generate  func(ctx context.Context, device string) error
	extract   func(path string, index int) (*report.Capacity, error)
	compute   func(design, fullCharge float64) (*health.Result, error)
}

// New builds a Checker writing its diagnostic report to reportPath.
func New(reportPath string) *Checker {
	c := &Checker{
		Generator: report.NewGenerator(reportPath),
		enumerate: battery.Enumerate,
		extract:   report.ExtractCapacity,
		compute:   health.Compute,
	}
	c.generate = func(ctx context.Context, device string) error {
		return c.Generator.Generate(ctx, device)
	}
	return c
}

// Run performs one check against the battery at the given zero-based
// index. The enumerated battery list is captured at the start of the
// run and used throughout; hardware changes mid-run are not chased.
// A system without batteries yields ErrNoBattery before any report is
// generated. Other failures come back as a *StageError.
func (c *Checker) Run(ctx context.Context, index int) (*Result, error) {
	state := StateIdle
	advance := func(to State) {
		if c.OnTransition != nil {
			c.OnTransition(state, to)
		}
		state = to
	}

	advance(StateDiscovering)
	batteries := c.enumerate()
	if len(batteries) == 0 {
		advance(StateFailed)
		return nil, ErrNoBattery
	}
	if index < 0 || index >= len(batteries) {
		logrus.WithFields(logrus.Fields{
			"requested": index,
			"available": len(batteries),
		}).Debug("battery index out of range, using first")
		index = 0
	}
	selected := batteries[index]

	advance(StateGenerating)
	if err := c.generate(ctx, selected.Device); err != nil {
		advance(StateFailed)
		return nil, &StageError{Stage: StateGenerating, Err: err}
	}

	advance(StateParsing)
	capacity, err := c.extract(c.Generator.Path, selected.Index)
	if err != nil {
		advance(StateFailed)
		return nil, &StageError{Stage: StateParsing, Err: err}
	}

	advance(StateComputing)
	res, err := c.compute(capacity.Design, capacity.FullCharge)
	if err != nil {
		advance(StateFailed)
		return nil, &StageError{Stage: StateComputing, Err: err}
	}

	advance(StateDone)
	return &Result{
		Battery:            selected,
		BatteryCount:       len(batteries),
		DesignCapacity:     res.DesignCapacity,
		FullChargeCapacity: res.FullChargeCapacity,
		Percent:            res.Percent,
		Status:             res.Status,
		CheckedAt:          time.Now(),
	}, nil
}
