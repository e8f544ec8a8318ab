// Package pipeline runs site tasks in order against one browser session and
// reports every task's outcome.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/webtesting/sitetasks/internal/browser"
	"github.com/webtesting/sitetasks/internal/output"
)

// ErrSkipped marks tasks that never ran because an earlier one failed.
var ErrSkipped = errors.New("skipped after earlier failure")

// Task is one step of the run. Number is the task's fixed position in the
// full sequence and stays the same when a subset is selected.
type Task struct {
	Number  int
	Name    string
	Message string
	Run     func(ctx context.Context, d browser.Driver) ([]string, error)
}

// Result is a task's outcome.
type Result struct {
	Task    Task
	Lines   []string
	Err     error
	Elapsed time.Duration
}

// Skipped reports whether the task was never attempted.
func (r Result) Skipped() bool {
	return errors.Is(r.Err, ErrSkipped)
}

// Report aggregates results in execution order.
type Report struct {
	Results []Result
}

// Failed returns the results that carry an error, skipped ones included.
func (r *Report) Failed() []Result {
	var out []Result
	for _, res := range r.Results {
		if res.Err != nil {
			out = append(out, res)
		}
	}
	return out
}

// Err joins every task error, or returns nil when all tasks succeeded.
func (r *Report) Err() error {
	var errs []error
	for _, res := range r.Failed() {
		if res.Skipped() {
			continue
		}
		errs = append(errs, fmt.Errorf("task %d (%s): %w", res.Task.Number, res.Task.Name, res.Err))
	}
	return errors.Join(errs...)
}

// Runner owns the driver for the duration of Run and always closes it.
type Runner struct {
	Driver      browser.Driver
	Sink        output.Sink
	StopOnError bool
}

// Run executes tasks in order. Each result is written to the sink as soon as
// it is known; sink failures are logged and do not affect the run.
func (r *Runner) Run(ctx context.Context, tasks []Task) *Report {
	defer func() {
		if err := r.Driver.Close(); err != nil {
			slog.ErrorContext(ctx, "failed to close driver", "error", err)
		}
	}()

	if err := r.Sink.Prepare(); err != nil {
		slog.ErrorContext(ctx, "failed to prepare output", "error", err)
	}

	report := &Report{Results: make([]Result, 0, len(tasks))}
	halted := false

	for _, t := range tasks {
		if halted || ctx.Err() != nil {
			report.Results = append(report.Results, Result{Task: t, Err: ErrSkipped})
			slog.WarnContext(ctx, "task skipped", "task", t.Number, "name", t.Name)
			continue
		}

		slog.InfoContext(ctx, "task started", "task", t.Number, "name", t.Name)
		start := time.Now()
		lines, err := t.Run(ctx, r.Driver)
		res := Result{Task: t, Lines: lines, Err: err, Elapsed: time.Since(start)}
		report.Results = append(report.Results, res)

		r.Driver.Snapshot(ctx, t.Name)

		if err != nil {
			slog.ErrorContext(ctx, "task failed", "task", t.Number, "name", t.Name, "error", err)
			halted = r.StopOnError
		} else {
			slog.InfoContext(ctx, "task completed", "task", t.Number, "name", t.Name, "results", len(lines), "elapsed", res.Elapsed)
		}

		rec := output.Record{Number: t.Number, Message: t.Message, Lines: lines, Err: err}
		if err := r.Sink.Write(rec); err != nil {
			slog.ErrorContext(ctx, "error writing results", "task", t.Number, "error", err)
		}
	}

	if len(report.Failed()) == 0 {
		slog.InfoContext(ctx, "all tasks completed", "output", r.Sink.Location())
	} else {
		slog.WarnContext(ctx, "tasks finished with failures", "failed", len(report.Failed()), "output", r.Sink.Location())
	}
	return report
}

// Select returns the tasks named in names, in sequence order. The first task
// of all is always included because every later task starts from its state.
// An empty names selects everything.
func Select(all []Task, names []string) ([]Task, error) {
	if len(names) == 0 {
		return all, nil
	}

	for _, n := range names {
		if !slices.ContainsFunc(all, func(t Task) bool { return t.Name == n }) {
			return nil, fmt.Errorf("unknown task %q", n)
		}
	}

	var out []Task
	for i, t := range all {
		if i == 0 || slices.Contains(names, t.Name) {
			out = append(out, t)
		}
	}
	return out, nil
}
