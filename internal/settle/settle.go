// Package settle provides a "settle all" join over concurrent tasks.
//
// All launches every task, waits until each one has reached a terminal
// state (succeeded, failed or timed out) and returns one Outcome per task in
// input order. It never exits early on the first failure or the first
// success. A task that ignores its context is abandoned when its timeout or
// the overall deadline fires; whatever it returns afterwards is discarded.
package settle

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/semaphore"
)

// Status is the terminal state of a task.
type Status int

// Terminal states.
const (
	Succeeded Status = iota
	Failed
	TimedOut
)

func (s Status) String() string {
	switch s {
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	case TimedOut:
		return "timed_out"
	default:
		return "unknown"
	}
}

var (
	// ErrAbandoned is reported for a task that had not settled when its
	// timeout or the overall deadline expired.
	ErrAbandoned = errors.New("task abandoned")

	// ErrPanic is reported for a task that panicked.
	ErrPanic = errors.New("task panicked")
)

// Task is one unit of work.
type Task[T any] struct {
	// Name identifies the task in its Outcome.
	Name string
	// Run does the work. It should honour ctx.
	Run func(ctx context.Context) (T, error)
}

// Outcome is the terminal result of one task.
type Outcome[T any] struct {
	Name     string
	Value    T
	Err      error
	Status   Status
	Duration time.Duration
}

// Options bounds a settle run.
type Options struct {
	// TaskTimeout bounds each task individually. Zero means no per-task bound.
	TaskTimeout time.Duration
	// Deadline bounds the whole run. Zero means the caller's context decides.
	Deadline time.Duration
	// MaxConcurrency caps how many tasks run at once. Zero means unbounded.
	MaxConcurrency int
}

type settled[T any] struct {
	index   int
	outcome Outcome[T]
}

// All runs every task concurrently and waits for all of them to settle.
// The returned slice has one Outcome per task in the same order as tasks.
func All[T any](ctx context.Context, tasks []Task[T], opts Options) []Outcome[T] {
	outcomes := make([]Outcome[T], len(tasks))
	if len(tasks) == 0 {
		return outcomes
	}

	if opts.Deadline > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Deadline)
		defer cancel()
	}

	var sem *semaphore.Weighted
	if opts.MaxConcurrency > 0 {
		sem = semaphore.NewWeighted(int64(opts.MaxConcurrency))
	}

	// Buffered to len(tasks) so a task settling after All has returned
	// never blocks and its goroutine exits.
	results := make(chan settled[T], len(tasks))
	started := time.Now()
	for i, task := range tasks {
		go func(index int, task Task[T]) {
			results <- settled[T]{index: index, outcome: runOne(ctx, sem, task, opts.TaskTimeout)}
		}(i, task)
	}

	done := make([]bool, len(tasks))
	remaining := len(tasks)
	record := func(r settled[T]) {
		if done[r.index] {
			return
		}
		outcomes[r.index] = r.outcome
		done[r.index] = true
		remaining--
	}

	for remaining > 0 {
		select {
		case r := <-results:
			record(r)
		case <-ctx.Done():
			// Keep anything that settled at the same instant as the deadline.
		drain:
			for {
				select {
				case r := <-results:
					record(r)
				default:
					break drain
				}
			}
			for i, task := range tasks {
				if done[i] {
					continue
				}
				outcomes[i] = Outcome[T]{
					Name:     task.Name,
					Err:      fmt.Errorf("%w: %w", ErrAbandoned, ctx.Err()),
					Status:   TimedOut,
					Duration: time.Since(started),
				}
			}
			return outcomes
		}
	}
	return outcomes
}

type attempt[T any] struct {
	value T
	err   error
}

func runOne[T any](ctx context.Context, sem *semaphore.Weighted, task Task[T], timeout time.Duration) Outcome[T] {
	start := time.Now()
	out := Outcome[T]{Name: task.Name}

	if sem != nil {
		if err := sem.Acquire(ctx, 1); err != nil {
			out.Err = fmt.Errorf("%w: %w", ErrAbandoned, err)
			out.Status = TimedOut
			out.Duration = time.Since(start)
			return out
		}
		defer sem.Release(1)
	}

	taskCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		taskCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	ch := make(chan attempt[T], 1)
	go func() {
		var a attempt[T]
		defer func() {
			if r := recover(); r != nil {
				a.err = fmt.Errorf("%w: %v", ErrPanic, r)
			}
			ch <- a
		}()
		a.value, a.err = task.Run(taskCtx)
	}()

	select {
	case a := <-ch:
		out.Value, out.Err = a.value, a.err
		switch {
		case a.err == nil:
			out.Status = Succeeded
		case errors.Is(a.err, context.DeadlineExceeded) || errors.Is(taskCtx.Err(), context.DeadlineExceeded):
			out.Status = TimedOut
		default:
			out.Status = Failed
		}
	case <-taskCtx.Done():
		out.Err = fmt.Errorf("%w: %w", ErrAbandoned, taskCtx.Err())
		out.Status = TimedOut
	}
	out.Duration = time.Since(start)
	return out
}
