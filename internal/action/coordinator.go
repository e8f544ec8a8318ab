package action

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Target resolves elements to page geometry.
type Target interface {
	Geometry(ctx context.Context, selector string) (ElementGeometry, error)
	ChromeOffset(ctx context.Context) (int, error)
}

// Coordinator turns element selectors into pointer clicks.
type Coordinator struct {
	Pointer Pointer
	// Settle is how long to wait after a click for the page to react.
	Settle time.Duration
}

// ClickElement locates selector on t and clicks its centre. Lookup failures
// are returned; a failed click is logged and swallowed so the caller's task
// can carry on and fail later on whatever the click should have revealed.
func (c *Coordinator) ClickElement(ctx context.Context, t Target, selector string) error {
	g, err := t.Geometry(ctx, selector)
	if err != nil {
		return fmt.Errorf("locating %s: %w", selector, err)
	}

	offset := 0
	if c.Pointer.Space() == SpaceScreen {
		offset, err = t.ChromeOffset(ctx)
		if err != nil {
			return fmt.Errorf("measuring chrome offset: %w", err)
		}
	}

	point := ComputeClickPoint(g, offset)

	if err := IssueClick(ctx, c.Pointer, point); err != nil {
		slog.WarnContext(ctx, "failed to perform mouse click", "selector", selector, "error", err)
		return nil
	}
	slog.InfoContext(ctx, "mouse clicked", "selector", selector, "x", point.X, "y", point.Y, "backend", c.Pointer.Name())

	if c.Settle > 0 {
		timer := time.NewTimer(c.Settle)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}
