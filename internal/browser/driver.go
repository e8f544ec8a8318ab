// Package browser owns the Chrome session that the site tasks drive.
package browser

import (
	"context"
	"errors"
	"time"

	"github.com/webtesting/sitetasks/internal/action"
)

var (
	// ErrElementNotFound implies no element matched a selector before the lookup timed out.
	ErrElementNotFound = errors.New("element not found")

	// ErrClosed implies the session has already been torn down.
	ErrClosed = errors.New("browser session closed")
)

// Driver is the browser capability the tasks call into. Selectors are CSS
// selectors or XPath expressions.
type Driver interface {
	action.Target

	Navigate(ctx context.Context, url string) error
	Back(ctx context.Context) error
	CurrentURL(ctx context.Context) (string, error)

	// WaitPresent reports whether selector appears within timeout.
	WaitPresent(ctx context.Context, selector string, timeout time.Duration) (bool, error)
	Hover(ctx context.Context, selector string) error

	HTML(ctx context.Context) (string, error)
	Attribute(ctx context.Context, selector, name string) (string, bool, error)

	// Snapshot saves debug artifacts of the current page. It never fails.
	Snapshot(ctx context.Context, label string)

	Close() error
}
