package action

import (
	"context"
	"errors"
	"fmt"

	"github.com/chromedp/chromedp"
)

// Executor runs chromedp actions against a live browser target.
type Executor interface {
	Exec(ctx context.Context, actions ...chromedp.Action) error
}

// CDPPointer dispatches mouse events through the DevTools Input domain of
// the browser behind Browser.
type CDPPointer struct {
	Browser Executor
}

func (CDPPointer) Name() string { return "cdp" }

func (CDPPointer) Space() Space { return SpaceViewport }

// Click clicks at the given viewport coordinates.
func (c CDPPointer) Click(ctx context.Context, p ScreenPoint) error {
	if c.Browser == nil {
		return fmt.Errorf("%w: no browser attached", ErrBackendUnavailable)
	}
	err := c.Browser.Exec(ctx, chromedp.MouseClickXY(float64(p.X), float64(p.Y), chromedp.ButtonLeft))
	if errors.Is(err, chromedp.ErrInvalidContext) {
		return fmt.Errorf("%w: %w", ErrBackendUnavailable, err)
	}
	return err
}
