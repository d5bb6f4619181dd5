package jobs

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/riskibarqy/fantasy-roster/internal/platform/logging"
	"github.com/riskibarqy/fantasy-roster/internal/usecase"
)

type calculatorStub struct {
	mu     sync.Mutex
	calls  int
	events *[]string
	err    error
	ran    chan struct{}
}

func (c *calculatorStub) CalculateCurrentWeeks(context.Context) (usecase.CurrentWeeksResult, error) {
	c.mu.Lock()
	c.calls++
	if c.events != nil {
		*c.events = append(*c.events, "calculate")
	}
	c.mu.Unlock()

	if c.ran != nil {
		select {
		case c.ran <- struct{}{}:
		default:
		}
	}
	return usecase.CurrentWeeksResult{Processed: 1}, c.err
}

type invalidatorStub struct {
	events *[]string
}

func (i invalidatorStub) Invalidate(context.Context) {
	*i.events = append(*i.events, "invalidate")
}

func TestRunOnce_InvalidatesBeforeCalculating(t *testing.T) {
	var events []string
	calc := &calculatorStub{events: &events}
	s := NewScheduler(calc, invalidatorStub{events: &events}, Options{Spec: "0 * * * *"}, logging.NewNop())

	if err := s.RunOnce(t.Context()); err != nil {
		t.Fatalf("run once: %v", err)
	}
	if len(events) != 2 || events[0] != "invalidate" || events[1] != "calculate" {
		t.Fatalf("unexpected call order: %v", events)
	}
}

func TestRunOnce_WrapsCalculatorError(t *testing.T) {
	feedDown := errors.New("feed down")
	s := NewScheduler(&calculatorStub{err: feedDown}, nil, Options{Spec: "0 * * * *", Location: time.UTC}, logging.NewNop())

	err := s.RunOnce(t.Context())
	if !errors.Is(err, feedDown) {
		t.Fatalf("expected wrapped calculator error, got %v", err)
	}
}

func TestStart_RejectsInvalidSpec(t *testing.T) {
	s := NewScheduler(&calculatorStub{}, nil, Options{Spec: "not a cron spec", Mode: usecase.CumulativeRecompute}, logging.NewNop())
	if err := s.Start(t.Context()); err == nil {
		t.Fatalf("expected error for invalid cron spec")
	}
}

func TestStart_RunsOnSchedule(t *testing.T) {
	calc := &calculatorStub{ran: make(chan struct{}, 1)}
	s := NewScheduler(calc, nil, Options{Spec: "@every 1s", Location: time.UTC, Mode: usecase.CumulativeRecompute}, logging.NewNop())

	if err := s.Start(t.Context()); err != nil {
		t.Fatalf("start scheduler: %v", err)
	}
	defer s.Stop()

	select {
	case <-calc.ran:
	case <-time.After(5 * time.Second):
		t.Fatalf("expected a scheduled scoring run")
	}
}

func TestStart_RefusesNonIdempotentMode(t *testing.T) {
	tests := []struct {
		name string
		mode usecase.CumulativeMode
	}{
		{name: "additive", mode: usecase.CumulativeAdditive},
		{name: "unset", mode: ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			calc := &calculatorStub{}
			s := NewScheduler(calc, nil, Options{Spec: "@every 1s", Mode: tc.mode}, logging.NewNop())

			err := s.Start(t.Context())
			if !errors.Is(err, ErrNonIdempotentMode) {
				t.Fatalf("expected ErrNonIdempotentMode, got %v", err)
			}
			if len(s.cron.Entries()) != 0 {
				t.Fatalf("no run must be registered in %q mode", tc.mode)
			}
		})
	}
}
