package checker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/battcheck/battcheck/pkg/events"
)

// ErrCheckInProgress is returned when a check is triggered while one is
// already running. Checks are never queued; the caller re-triggers.
var ErrCheckInProgress = pkgerrors.New("a check is already in progress")

// Callbacks are the worker's three lifecycle signals.
type Callbacks struct {
	OnProgress func(percent int)
	OnDone     func(*Result)
	OnFailed   func(stage State, message string)
}

// Coarse progress milestones per state, for progress display only; they
// carry no meaning about actual work completed.
func progressFor(s State) int {
	switch s {
	case StateDiscovering:
		return 10
	case StateGenerating:
		return 25
	case StateParsing:
		return 50
	case StateComputing:
		return 75
	case StateDone:
		return 100
	default:
		return 0
	}
}

// Worker runs checks off the caller's goroutine, one at a time. There
// is no cancellation once a check starts; it runs to Done or Failed.
type Worker struct {
	checker *Checker
	hub     *events.Hub // may be nil

	mu      sync.Mutex
	running bool
	state   State
	last    *Result
	lastErr string
}

// NewWorker wraps a Checker. Events are additionally published to hub
// when one is given.
func NewWorker(c *Checker, hub *events.Hub) *Worker {
	return &Worker{checker: c, hub: hub, state: StateIdle}
}

// State returns the current pipeline state.
func (w *Worker) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// LastResult returns the most recent successful result and the failure
// message of the most recent failed run, if any. Held in memory only.
func (w *Worker) LastResult() (*Result, string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.last, w.lastErr
}

// Running reports whether a check is in flight.
func (w *Worker) Running() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

// Trigger starts one check in a new goroutine. A second trigger while
// one is in flight is rejected with ErrCheckInProgress. Panics inside
// the pipeline are caught at this boundary and surfaced through
// OnFailed instead of crashing the process.
func (w *Worker) Trigger(index int, cb Callbacks) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return ErrCheckInProgress
	}
	w.running = true
	w.state = StateIdle
	w.mu.Unlock()

	go w.run(index, cb)
	return nil
}

func (w *Worker) run(index int, cb Callbacks) {
	defer func() {
		if r := recover(); r != nil {
			logrus.Errorf("check panicked: %v", r)
			w.fail(cb, StateFailed, fmt.Sprintf("an unexpected error occurred: %v", r))
		}
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
	}()

	w.checker.OnTransition = func(from, to State) {
		w.mu.Lock()
		w.state = to
		w.mu.Unlock()

		w.hub.Publish(events.CheckState, events.CheckStateEvent{
			From: string(from),
			To:   string(to),
			Ts:   time.Now().Unix(),
		})

		if pct := progressFor(to); pct > 0 && to != StateFailed {
			if cb.OnProgress != nil {
				cb.OnProgress(pct)
			}
			w.hub.Publish(events.CheckProgress, events.CheckProgressEvent{
				Percent: pct,
				Ts:      time.Now().Unix(),
			})
		}
	}

	result, err := w.checker.Run(context.Background(), index)
	if err != nil {
		stage := StateFailed
		if se, ok := err.(*StageError); ok {
			stage = se.Stage
		} else if errors.Is(err, ErrNoBattery) {
			// Not a failed stage, but consumers still need to tell the
			// no-battery outcome apart without parsing the message.
			stage = StateDiscovering
		}
		w.fail(cb, stage, err.Error())
		return
	}

	w.mu.Lock()
	w.last = result
	w.lastErr = ""
	w.mu.Unlock()

	logrus.WithFields(logrus.Fields{
		"percent": result.Percent,
		"status":  result.Status,
	}).Info("battery health check completed")

	if cb.OnDone != nil {
		cb.OnDone(result)
	}
	w.hub.Publish(events.CheckDone, result)
}

func (w *Worker) fail(cb Callbacks, stage State, message string) {
	w.mu.Lock()
	w.state = StateFailed
	w.lastErr = message
	w.mu.Unlock()

	logrus.WithField("stage", stage).Errorf("battery health check failed: %s", message)

	if cb.OnFailed != nil {
		cb.OnFailed(stage, message)
	}
	w.hub.Publish(events.CheckFailed, events.CheckFailedEvent{
		Stage:   string(stage),
		Message: message,
		Ts:      time.Now().Unix(),
	})
}
