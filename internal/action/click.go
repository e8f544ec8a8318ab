package action

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrBackendUnavailable implies the pointer backend cannot reach an input device
	// (no display, no XTEST, no browser target).
	ErrBackendUnavailable = errors.New("pointer backend unavailable")

	// ErrPermissionDenied implies the host refused programmatic input control.
	ErrPermissionDenied = errors.New("pointer permission denied")

	// ErrInvalidGeometry implies a box or chrome offset with a negative component.
	ErrInvalidGeometry = errors.New("invalid element geometry")
)

// ScreenPoint is an absolute position in the pointer backend's coordinate space.
type ScreenPoint struct {
	X int
	Y int
}

func (p ScreenPoint) String() string {
	return fmt.Sprintf("(%d, %d)", p.X, p.Y)
}

// ElementGeometry is an element's bounding box in page coordinates.
type ElementGeometry struct {
	OriginX int
	OriginY int
	Width   int
	Height  int
}

// Validate checks that g and chromeOffset meet ComputeClickPoint's
// preconditions: nothing negative.
func (g ElementGeometry) Validate(chromeOffset int) error {
	for _, f := range []struct {
		name string
		v    int
	}{
		{"x", g.OriginX},
		{"y", g.OriginY},
		{"width", g.Width},
		{"height", g.Height},
		{"offset", chromeOffset},
	} {
		if f.v < 0 {
			return fmt.Errorf("%w: %s is %d", ErrInvalidGeometry, f.name, f.v)
		}
	}
	return nil
}

// Space is the coordinate space a Pointer expects its points in.
type Space int

const (
	// SpaceViewport points are relative to the page viewport.
	SpaceViewport Space = iota
	// SpaceScreen points are absolute display coordinates.
	SpaceScreen
)

// Pointer presses and releases the primary button at a point.
type Pointer interface {
	Name() string
	Space() Space
	Click(ctx context.Context, p ScreenPoint) error
}

// ClickError reports a click that the pointer backend could not deliver.
type ClickError struct {
	Point   ScreenPoint
	Backend string
	Err     error
}

func (e *ClickError) Error() string {
	return fmt.Sprintf("click at %s via %s: %v", e.Point, e.Backend, e.Err)
}

func (e *ClickError) Unwrap() error {
	return e.Err
}

// ComputeClickPoint returns the centre of g shifted down by chromeOffset,
// the height of the browser UI above the page.
func ComputeClickPoint(g ElementGeometry, chromeOffset int) ScreenPoint {
	return ScreenPoint{
		X: g.OriginX + g.Width/2,
		Y: g.OriginY + chromeOffset + g.Height/2,
	}
}

// IssueClick clicks at p with ptr. Any failure is returned as a *ClickError.
func IssueClick(ctx context.Context, ptr Pointer, p ScreenPoint) error {
	if err := ptr.Click(ctx, p); err != nil {
		var ce *ClickError
		if errors.As(err, &ce) {
			return ce
		}
		return &ClickError{Point: p, Backend: ptr.Name(), Err: err}
	}
	return nil
}
