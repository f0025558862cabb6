package retry

import (
	"context"
	"errors"
	"testing"
	"time"
)

// TestDefaultPolicy verifies the baseline default values.
func TestDefaultPolicy(t *testing.T) {
	p := DefaultPolicy()
	if p.Mode != ModeLinear {
		t.Fatalf("expected linear default mode got %s", p.Mode)
	}
	if p.Initial != 500*time.Millisecond {
		t.Fatalf("expected initial 500ms got %v", p.Initial)
	}
	if p.Max != 5*time.Second {
		t.Fatalf("expected max 5s got %v", p.Max)
	}
	if p.MaxRetries != 2 {
		t.Fatalf("expected max retries 2 got %d", p.MaxRetries)
	}
}

// TestNewPolicyOverrides checks override precedence and clamping when initial > max.
func TestNewPolicyOverrides(t *testing.T) {
	p := NewPolicy(ModeFixed, 5*time.Second, 2*time.Second, 5)
	if p.Initial != 2*time.Second {
		t.Fatalf("expected clamped initial 2s got %v", p.Initial)
	}
	if p.Max != 2*time.Second {
		t.Fatalf("expected max 2s got %v", p.Max)
	}
	if p.Mode != ModeFixed {
		t.Fatalf("expected fixed mode got %s", p.Mode)
	}
	if p.MaxRetries != 5 {
		t.Fatalf("expected maxRetries 5 got %d", p.MaxRetries)
	}

	if u := NewPolicy("bogus", 0, 0, -1); u != DefaultPolicy() {
		t.Fatalf("expected defaults for invalid input got %+v", u)
	}
}

// TestDelayModes ensures fixed, linear, exponential behave and respect cap.
func TestDelayModes(t *testing.T) {
	fixed := NewPolicy(ModeFixed, 100*time.Millisecond, 500*time.Millisecond, 3)
	for i := 1; i <= 3; i++ {
		if d := fixed.Delay(i); d != 100*time.Millisecond {
			t.Fatalf("fixed attempt %d expected 100ms got %v", i, d)
		}
	}

	linear := NewPolicy(ModeLinear, 100*time.Millisecond, 250*time.Millisecond, 5)
	cases := []struct {
		attempt int
		want    time.Duration
	}{{1, 100 * time.Millisecond}, {2, 200 * time.Millisecond}, {3, 250 * time.Millisecond}, {4, 250 * time.Millisecond}}
	for _, c := range cases {
		if d := linear.Delay(c.attempt); d != c.want {
			t.Fatalf("linear attempt %d expected %v got %v", c.attempt, c.want, d)
		}
	}

	exp := NewPolicy(ModeExponential, 100*time.Millisecond, time.Second, 5)
	expCases := []struct {
		attempt int
		want    time.Duration
	}{{1, 100 * time.Millisecond}, {2, 200 * time.Millisecond}, {3, 400 * time.Millisecond}, {4, 800 * time.Millisecond}, {5, time.Second}}
	for _, c := range expCases {
		if d := exp.Delay(c.attempt); d != c.want {
			t.Fatalf("exponential attempt %d expected %v got %v", c.attempt, c.want, d)
		}
	}

	if d := exp.Delay(0); d != 0 {
		t.Fatalf("attempt 0 should have no delay, got %v", d)
	}
}

func TestValidate(t *testing.T) {
	if err := DefaultPolicy().Validate(); err != nil {
		t.Fatalf("default policy invalid: %v", err)
	}
	if err := (Policy{Initial: 0, Max: time.Second}).Validate(); err == nil {
		t.Fatal("expected error for zero initial")
	}
	if err := (Policy{Initial: time.Second, Max: time.Second, MaxRetries: -1}).Validate(); err == nil {
		t.Fatal("expected error for negative retries")
	}
}

func TestDo(t *testing.T) {
	p := NewPolicy(ModeFixed, time.Millisecond, time.Millisecond, 3)
	boom := errors.New("boom")

	calls := 0
	err := p.Do(context.Background(), func() error {
		calls++
		if calls < 3 {
			return boom
		}
		return nil
	}, nil)
	if err != nil || calls != 3 {
		t.Fatalf("expected success on third call, got err=%v calls=%d", err, calls)
	}

	calls = 0
	retries := 0
	err = p.Do(context.Background(), func() error {
		calls++
		return boom
	}, func(int, time.Duration, error) { retries++ })
	if !errors.Is(err, boom) || calls != 4 || retries != 3 {
		t.Fatalf("expected 4 calls and 3 retries, got err=%v calls=%d retries=%d", err, calls, retries)
	}
}

func TestDoStopsOnCancel(t *testing.T) {
	p := NewPolicy(ModeFixed, time.Hour, time.Hour, 3)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := p.Do(ctx, func() error {
		calls++
		return errors.New("down")
	}, nil)
	if err == nil || calls != 1 {
		t.Fatalf("expected a single call before cancellation, got err=%v calls=%d", err, calls)
	}
}
