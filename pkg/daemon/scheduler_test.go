package daemon

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/robfig/cron/v3"
)

func TestCronParse(t *testing.T) {
	parser := cron.NewParser(cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	schedule, err := parser.Parse("@every 10m")
	if err != nil {
		t.Fatalf("failed to parse cron expression: %v", err)
	}

	now := time.Now()
	next1 := schedule.Next(now)
	next2 := schedule.Next(next1)

	if !next2.After(next1) {
		t.Fatalf("expected next2 to be after next1, got next1=%v next2=%v", next1, next2)
	}
}

func TestSchedulerScheduleStatus(t *testing.T) {
	s := NewScheduler(func() error { return nil }, nil, nil, nil)

	if err := s.Schedule("@every 1m"); err != nil {
		t.Fatalf("Schedule returned error: %v", err)
	}

	next, running := s.Status()
	if running {
		t.Fatalf("scheduler should not be running")
	}
	if next.IsZero() {
		t.Fatalf("next run should be set after scheduling")
	}
}

func TestSchedulerRejectsBadExpression(t *testing.T) {
	s := NewScheduler(func() error { return nil }, nil, nil, nil)

	if err := s.Schedule("not a cron expr"); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestSchedulerClear(t *testing.T) {
	s := NewScheduler(func() error { return nil }, nil, nil, nil)

	if err := s.Schedule("@every 1m"); err != nil {
		t.Fatalf("Schedule returned error: %v", err)
	}
	s.Clear()

	next, _ := s.Status()
	if !next.IsZero() {
		t.Fatalf("next run should be cleared, got %v", next)
	}
}

func TestSchedulerRunsTask(t *testing.T) {
	var ran atomic.Int32
	s := NewScheduler(func() error {
		ran.Add(1)
		return nil
	}, nil, nil, nil)

	if err := s.Schedule("@every 1s"); err != nil {
		t.Fatalf("Schedule returned error: %v", err)
	}
	s.Start()
	defer s.Stop()

	deadline := time.Now().Add(3 * time.Second)
	for ran.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if ran.Load() == 0 {
		t.Fatal("task never ran")
	}
}

func TestSchedulerPreCheckBlocksTask(t *testing.T) {
	var ran atomic.Int32
	var prechecks atomic.Int32
	errCh := make(chan error, 1)

	s := NewScheduler(
		func() error {
			ran.Add(1)
			return nil
		},
		func() error {
			prechecks.Add(1)
			return errors.New("no battery detected")
		},
		nil,
		func(data any) {
			select {
			case errCh <- data.(error):
			default:
			}
		})

	if err := s.Schedule("@every 1s"); err != nil {
		t.Fatalf("Schedule returned error: %v", err)
	}
	s.Start()
	defer s.Stop()

	select {
	case err := <-errCh:
		if err == nil {
			t.Fatal("expected a precheck error")
		}
	case <-time.After(3 * time.Second):
		t.Fatal("precheck error never reported")
	}

	if ran.Load() != 0 {
		t.Fatal("task ran despite failing precheck")
	}
}
