// Package scheduler drains queued path requests a bounded number per tick.
package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/udisondev/gridpath/internal/pathfind"
)

const (
	// DefaultBudget is the number of requests served per tick.
	DefaultBudget = 64
	// DefaultTickRate is the tick frequency in Hz.
	DefaultTickRate = 30

	minTickRate = 1
	maxTickRate = 1000
)

// Planner answers one request. *pathfind.Planner implements it.
type Planner interface {
	FindPath(field pathfind.Field, req pathfind.Request) pathfind.Result
}

// Scheduler is a FIFO of path requests served in budgeted ticks.
// Enqueue and Pending may be called from any goroutine; Tick, Run and
// RunUntilDrained must stay on the goroutine that owns the grid.
type Scheduler struct {
	planner  Planner
	field    pathfind.Field
	onResult func(pathfind.Result)
	budget   int
	tickRate int

	mu    sync.Mutex
	queue []pathfind.Request
	batch []pathfind.Request
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithBudget sets the per-tick request budget. Values below 1 keep the default.
func WithBudget(n int) Option {
	return func(s *Scheduler) {
		if n > 0 {
			s.budget = n
		}
	}
}

// WithTickRate sets the Run tick frequency, clamped to 1..1000 Hz.
func WithTickRate(hz int) Option {
	return func(s *Scheduler) { s.tickRate = min(max(hz, minTickRate), maxTickRate) }
}

// New returns a scheduler feeding field to planner and reporting each
// result to onResult. A nil onResult discards results.
func New(planner Planner, field pathfind.Field, onResult func(pathfind.Result), opts ...Option) *Scheduler {
	s := &Scheduler{
		planner:  planner,
		field:    field,
		onResult: onResult,
		budget:   DefaultBudget,
		tickRate: DefaultTickRate,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.onResult == nil {
		s.onResult = func(pathfind.Result) {}
	}
	return s
}

// Budget returns the per-tick budget.
func (s *Scheduler) Budget() int { return s.budget }

// Interval returns the period between Run ticks.
func (s *Scheduler) Interval() time.Duration {
	return time.Second / time.Duration(s.tickRate)
}

// Enqueue appends req and returns its ID, generating one when empty.
func (s *Scheduler) Enqueue(req pathfind.Request) string {
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	s.mu.Lock()
	s.queue = append(s.queue, req)
	s.mu.Unlock()
	return req.ID
}

// Pending returns the number of queued requests.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue)
}

// Tick serves up to Budget requests in FIFO order and returns how many ran.
// Requests beyond the budget wait for the next tick.
func (s *Scheduler) Tick() int {
	s.mu.Lock()
	n := min(s.budget, len(s.queue))
	s.batch = append(s.batch[:0], s.queue[:n]...)
	rest := copy(s.queue, s.queue[n:])
	clear(s.queue[rest:])
	s.queue = s.queue[:rest]
	s.mu.Unlock()

	for i := range s.batch {
		s.onResult(s.planner.FindPath(s.field, s.batch[i]))
	}
	clear(s.batch)
	return n
}

// Run ticks at the configured rate until ctx is canceled.
func (s *Scheduler) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.Interval())
	defer ticker.Stop()

	slog.Info("path scheduler started", "tick_rate", s.tickRate, "budget", s.budget)

	for {
		select {
		case <-ctx.Done():
			slog.Info("path scheduler stopping", "pending", s.Pending())
			return ctx.Err()
		case <-ticker.C:
			if n := s.Tick(); n > 0 {
				slog.Debug("path tick completed", "served", n, "pending", s.Pending())
			}
		}
	}
}

// RunUntilDrained ticks until the queue is empty or ctx is canceled.
func (s *Scheduler) RunUntilDrained(ctx context.Context) error {
	if s.Pending() == 0 {
		return nil
	}
	ticker := time.NewTicker(s.Interval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.Tick()
			if s.Pending() == 0 {
				return nil
			}
		}
	}
}
