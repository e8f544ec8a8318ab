package browser

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/dom"
	"github.com/chromedp/cdproto/input"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"

	"github.com/webtesting/sitetasks/internal/action"
	"github.com/webtesting/sitetasks/internal/app"
)

// Session owns the chromedp lifecycle for one run.
type Session struct {
	ctx         context.Context
	cancel      context.CancelFunc
	allocCancel context.CancelFunc

	elementTimeout time.Duration
	snapshotDir    string
	events         *eventLog

	closeOnce sync.Once
	mu        sync.Mutex
	closed    bool
}

var (
	_ Driver          = (*Session)(nil)
	_ action.Executor = (*Session)(nil)
)

// NewSession launches Chrome and applies the profile overrides. The browser
// lives until Close is called or ctx is cancelled.
func NewSession(ctx context.Context, cfg app.BrowserConfig) (*Session, error) {
	profile := NewProfile()
	slog.Debug("browser profile generated",
		"ua", profile.UserAgent,
		"platform", profile.Platform,
		"timezone", profile.TimezoneID,
		"window", fmt.Sprintf("%dx%d", cfg.WindowWidth, cfg.WindowHeight),
	)

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, allocatorOpts(cfg, profile)...)
	taskCtx, taskCancel := chromedp.NewContext(allocCtx)

	events := newEventLog(maxPageEvents)
	chromedp.ListenTarget(taskCtx, events.Listen)

	// The first Run allocates the browser, so it must not use a child context
	// with a deadline or the whole browser dies with it.
	launched := make(chan error, 1)
	go func() {
		launched <- chromedp.Run(taskCtx,
			runtime.Enable(),
			network.Enable(),
			injectCDPStealth(profile),
		)
	}()

	var err error
	select {
	case err = <-launched:
	case <-time.After(cfg.Timeout):
		err = fmt.Errorf("browser launch timed out after %s", cfg.Timeout)
	}
	if err != nil {
		taskCancel()
		allocCancel()
		return nil, fmt.Errorf("starting browser: %w", err)
	}
	slog.Info("browser started")

	return &Session{
		ctx:            taskCtx,
		cancel:         taskCancel,
		allocCancel:    allocCancel,
		elementTimeout: cfg.ElementTimeout,
		snapshotDir:    filepath.Join(".debug", fmt.Sprintf("sitetasks-%d", time.Now().UnixMilli())),
		events:         events,
	}, nil
}

// run executes actions on the browser target, bounded by the caller's ctx.
func (s *Session) run(ctx context.Context, actions ...chromedp.Action) error {
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return ErrClosed
	}

	runCtx, cancel := context.WithCancel(s.ctx)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	err := chromedp.Run(runCtx, actions...)
	if err != nil && ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}

// Exec runs actions on the browser target. It lets other packages drive the
// page directly, such as the CDP pointer.
func (s *Session) Exec(ctx context.Context, actions ...chromedp.Action) error {
	return s.run(ctx, actions...)
}

// lookup runs actions that wait for selector, failing with ErrElementNotFound
// once the element timeout passes.
func (s *Session) lookup(ctx context.Context, selector string, actions ...chromedp.Action) error {
	lctx, cancel := context.WithTimeout(ctx, s.elementTimeout)
	defer cancel()

	err := s.run(lctx, actions...)
	if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
		return fmt.Errorf("%w: %s", ErrElementNotFound, selector)
	}
	return err
}

func (s *Session) Navigate(ctx context.Context, url string) error {
	slog.DebugContext(ctx, "navigating", "url", url)
	if err := s.run(ctx, chromedp.Navigate(url), chromedp.WaitReady("body", chromedp.ByQuery)); err != nil {
		return fmt.Errorf("navigating to %s: %w", url, err)
	}
	return nil
}

func (s *Session) Back(ctx context.Context) error {
	if err := s.run(ctx, chromedp.NavigateBack(), chromedp.WaitReady("body", chromedp.ByQuery)); err != nil {
		return fmt.Errorf("navigating back: %w", err)
	}
	return nil
}

func (s *Session) CurrentURL(ctx context.Context) (string, error) {
	var u string
	if err := s.run(ctx, chromedp.Location(&u)); err != nil {
		return "", fmt.Errorf("reading location: %w", err)
	}
	return u, nil
}

func (s *Session) WaitPresent(ctx context.Context, selector string, timeout time.Duration) (bool, error) {
	wctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	err := s.run(wctx, chromedp.WaitReady(selector, queryOpt(selector)))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil:
		return false, nil
	}
	return false, err
}

// Hover moves the pointer over the centre of selector so hover menus open.
func (s *Session) Hover(ctx context.Context, selector string) error {
	g, err := s.Geometry(ctx, selector)
	if err != nil {
		return err
	}
	p := action.ComputeClickPoint(g, 0)
	if err := s.run(ctx, chromedp.MouseEvent(input.MouseMoved, float64(p.X), float64(p.Y))); err != nil {
		return fmt.Errorf("hovering %s: %w", selector, err)
	}
	return nil
}

func (s *Session) HTML(ctx context.Context) (string, error) {
	var html string
	if err := s.run(ctx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return "", fmt.Errorf("reading page HTML: %w", err)
	}
	return html, nil
}

// Attribute returns the DOM attribute name of the first match of selector.
// ok is false when the element exists but has no such attribute.
func (s *Session) Attribute(ctx context.Context, selector, name string) (string, bool, error) {
	var (
		value string
		ok    bool
	)
	if err := s.lookup(ctx, selector, chromedp.AttributeValue(selector, name, &value, &ok, queryOpt(selector))); err != nil {
		return "", false, err
	}
	return value, ok, nil
}

// Geometry scrolls selector into view and returns its border box in
// viewport coordinates.
func (s *Session) Geometry(ctx context.Context, selector string) (action.ElementGeometry, error) {
	var nodes []*cdp.Node
	if err := s.lookup(ctx, selector,
		chromedp.ScrollIntoView(selector, queryOpt(selector)),
		chromedp.Nodes(selector, &nodes, queryOpt(selector)),
	); err != nil {
		return action.ElementGeometry{}, err
	}
	if len(nodes) == 0 {
		return action.ElementGeometry{}, fmt.Errorf("%w: %s", ErrElementNotFound, selector)
	}

	var box *dom.BoxModel
	err := s.run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		var err error
		box, err = dom.GetBoxModel().WithNodeID(nodes[0].NodeID).Do(ctx)
		return err
	}))
	if err != nil {
		return action.ElementGeometry{}, fmt.Errorf("reading box model of %s: %w", selector, err)
	}

	return geometryFromQuad(box.Border)
}

// queryOpt picks the chromedp query mode for selector: XPath expressions go
// through DOM.performSearch, everything else is a CSS query.
func queryOpt(selector string) chromedp.QueryOption {
	if strings.HasPrefix(selector, "/") || strings.HasPrefix(selector, "(") {
		return chromedp.BySearch
	}
	return chromedp.ByQuery
}

// geometryFromQuad converts a four-corner quad into an axis-aligned box.
func geometryFromQuad(q dom.Quad) (action.ElementGeometry, error) {
	if len(q) < 8 {
		return action.ElementGeometry{}, fmt.Errorf("element has no box (quad of %d values)", len(q))
	}

	minX := min(q[0], q[2], q[4], q[6])
	maxX := max(q[0], q[2], q[4], q[6])
	minY := min(q[1], q[3], q[5], q[7])
	maxY := max(q[1], q[3], q[5], q[7])

	return action.ElementGeometry{
		OriginX: int(math.Floor(minX)),
		OriginY: int(math.Floor(minY)),
		Width:   int(math.Round(maxX - minX)),
		Height:  int(math.Round(maxY - minY)),
	}, nil
}

// ChromeOffset returns the height of the browser UI above the page.
func (s *Session) ChromeOffset(ctx context.Context) (int, error) {
	var offset int64
	if err := s.run(ctx, chromedp.Evaluate(`window.outerHeight - window.innerHeight`, &offset)); err != nil {
		return 0, fmt.Errorf("evaluating chrome offset: %w", err)
	}
	return int(offset), nil
}

func (s *Session) Snapshot(ctx context.Context, label string) {
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return
	}
	snapshot(s.ctx, s.snapshotDir, label, s.events)
}

// Events returns the console errors, exceptions and failed requests seen so far.
func (s *Session) Events() []PageEvent {
	return s.events.Events()
}

// Close tears down the browser and allocator. It is safe to call repeatedly.
func (s *Session) Close() error {
	var err error
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.closed = true
		s.mu.Unlock()

		if cerr := chromedp.Cancel(s.ctx); cerr != nil && !errors.Is(cerr, context.Canceled) {
			err = fmt.Errorf("closing browser: %w", cerr)
		}
		s.cancel()
		s.allocCancel()
		slog.Info("browser closed", "page_events", len(s.Events()))
	})
	return err
}
