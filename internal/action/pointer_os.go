package action

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
	"github.com/jezek/xgb/xtest"
)

// OSPointer moves the real system pointer through the X server's XTEST
// extension. Points are absolute root window coordinates, so callers must add
// the browser chrome offset.
type OSPointer struct {
	display string

	getenv func(string) string
	dial   func(display string) (xServer, error)
}

// xServer is the part of an X connection a click needs.
type xServer interface {
	// FakeInput sends one synthetic event at root coordinates and waits until
	// the server has accepted it.
	FakeInput(event, detail byte, x, y int16) error
	Close()
}

// NewOSPointer returns an OSPointer for display. An empty display means $DISPLAY.
func NewOSPointer(display string) *OSPointer {
	return &OSPointer{
		display: display,
		getenv:  os.Getenv,
		dial:    dialX,
	}
}

func (*OSPointer) Name() string { return "os" }

func (*OSPointer) Space() Space { return SpaceScreen }

// Click moves the pointer to p, then presses and releases button 1.
func (o *OSPointer) Click(ctx context.Context, p ScreenPoint) error {
	display := o.display
	if display == "" {
		display = o.getenv("DISPLAY")
	}
	if display == "" {
		return fmt.Errorf("%w: DISPLAY is not set", ErrBackendUnavailable)
	}
	if !fitsInt16(p.X) || !fitsInt16(p.Y) {
		return fmt.Errorf("point %s is outside the X coordinate range", p)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	x, err := o.dial(display)
	if err != nil {
		return err
	}
	defer x.Close()

	events := []struct {
		event, detail byte
	}{
		{xproto.MotionNotify, 0},
		{xproto.ButtonPress, 1},
		{xproto.ButtonRelease, 1},
	}
	for _, e := range events {
		if err := x.FakeInput(e.event, e.detail, int16(p.X), int16(p.Y)); err != nil {
			return classifyXError(err)
		}
	}
	return nil
}

func fitsInt16(v int) bool {
	return v >= math.MinInt16 && v <= math.MaxInt16
}

// xConn is an xServer backed by a real X connection with XTEST initialised.
type xConn struct {
	c    *xgb.Conn
	root xproto.Window
}

func dialX(display string) (xServer, error) {
	c, err := xgb.NewConnDisplay(display)
	if err != nil {
		return nil, classifyConnectError(display, err)
	}
	if err := xtest.Init(c); err != nil {
		c.Close()
		return nil, fmt.Errorf("%w: XTEST extension on %s: %w", ErrPermissionDenied, display, err)
	}
	return &xConn{c: c, root: xproto.Setup(c).DefaultScreen(c).Root}, nil
}

func (x *xConn) FakeInput(event, detail byte, rootX, rootY int16) error {
	return xtest.FakeInputChecked(x.c, event, detail, 0, x.root, rootX, rootY, 0).Check()
}

func (x *xConn) Close() { x.c.Close() }

// classifyConnectError separates a server that refused our credentials from
// one that could not be reached at all.
func classifyConnectError(display string, err error) error {
	if strings.Contains(err.Error(), "authentication refused") {
		return fmt.Errorf("%w: X server %s: %w", ErrPermissionDenied, display, err)
	}
	return fmt.Errorf("%w: X server %s: %w", ErrBackendUnavailable, display, err)
}

// classifyXError maps an X protocol error from a fake input request.
func classifyXError(err error) error {
	var access xproto.AccessError
	if errors.As(err, &access) {
		return fmt.Errorf("%w: %w", ErrPermissionDenied, err)
	}
	return fmt.Errorf("xtest fake input: %w", err)
}
