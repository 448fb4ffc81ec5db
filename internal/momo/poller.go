package momo

import (
	"context"
	"time"
)

// StatusQuerier is the subset of the gateway client the poller drives.
type StatusQuerier interface {
	QueryStatus(ctx context.Context, h Handle) (any, error)
}

// PollResult carries the reconciliation outcome together with the raw
// provider payload that produced it.
type PollResult struct {
	Outcome  Outcome
	Payload  any
	TimedOut bool
}

// Poller drives status queries on a fixed cadence until a terminal outcome
// or the deadline. A single query failure is not retried internally; it
// propagates so the coordinator can decide, never silently reclassified.
type Poller struct {
	interval time.Duration
	timeout  time.Duration

	// replaced in tests to run without wall-clock delay
	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// NewPoller builds a poller. Non-positive durations fall back to the
// provider defaults of 5s interval and 60s deadline.
func NewPoller(interval, timeout time.Duration) *Poller {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Poller{
		interval: interval,
		timeout:  timeout,
		now:      time.Now,
		sleep:    sleepCtx,
	}
}

// Poll queries the handle's status until the normalizer yields a terminal
// outcome or the deadline passes. Past the deadline it returns the last
// observed payload's outcome if it had one, else Unknown, with TimedOut set.
// Cancelling ctx aborts the loop with the context error.
func (p *Poller) Poll(ctx context.Context, q StatusQuerier, h Handle) (PollResult, error) {
	deadline := p.now().Add(p.timeout)
	var last any

	for p.now().Before(deadline) {
		payload, err := q.QueryStatus(ctx, h)
		if err != nil {
			return PollResult{}, err
		}
		last = payload

		if outcome, ok := Normalize(payload); ok {
			return PollResult{Outcome: outcome, Payload: payload}, nil
		}

		if err := p.sleep(ctx, p.interval); err != nil {
			return PollResult{}, err
		}
	}

	outcome, ok := Normalize(last)
	if !ok {
		outcome = OutcomeUnknown
	}
	if last == nil {
		last = map[string]any{"status": "UNKNOWN", "reason": "timeout"}
	}
	return PollResult{Outcome: outcome, Payload: last, TimedOut: true}, nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
