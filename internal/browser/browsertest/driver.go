// Package browsertest provides a testify mock of browser.Driver.
package browsertest

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/webtesting/sitetasks/internal/action"
	"github.com/webtesting/sitetasks/internal/browser"
)

// Driver is a mock browser.Driver. Snapshot is recorded but needs no expectation.
type Driver struct {
	mock.Mock
	Snapshots []string
}

var _ browser.Driver = (*Driver)(nil)

func (d *Driver) Navigate(ctx context.Context, url string) error {
	return d.Called(ctx, url).Error(0)
}

func (d *Driver) Back(ctx context.Context) error {
	return d.Called(ctx).Error(0)
}

func (d *Driver) CurrentURL(ctx context.Context) (string, error) {
	args := d.Called(ctx)
	return args.String(0), args.Error(1)
}

func (d *Driver) WaitPresent(ctx context.Context, selector string, timeout time.Duration) (bool, error) {
	args := d.Called(ctx, selector, timeout)
	return args.Bool(0), args.Error(1)
}

func (d *Driver) Hover(ctx context.Context, selector string) error {
	return d.Called(ctx, selector).Error(0)
}

func (d *Driver) HTML(ctx context.Context) (string, error) {
	args := d.Called(ctx)
	return args.String(0), args.Error(1)
}

func (d *Driver) Attribute(ctx context.Context, selector, name string) (string, bool, error) {
	args := d.Called(ctx, selector, name)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (d *Driver) Geometry(ctx context.Context, selector string) (action.ElementGeometry, error) {
	args := d.Called(ctx, selector)
	return args.Get(0).(action.ElementGeometry), args.Error(1)
}

func (d *Driver) ChromeOffset(ctx context.Context) (int, error) {
	args := d.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (d *Driver) Snapshot(_ context.Context, label string) {
	d.Snapshots = append(d.Snapshots, label)
}

func (d *Driver) Close() error {
	return d.Called().Error(0)
}

// Pointer records clicks without touching any input device.
type Pointer struct {
	Err    error
	Clicks []action.ScreenPoint
}

func (*Pointer) Name() string { return "test" }

func (*Pointer) Space() action.Space { return action.SpaceViewport }

func (p *Pointer) Click(_ context.Context, pt action.ScreenPoint) error {
	p.Clicks = append(p.Clicks, pt)
	return p.Err
}
