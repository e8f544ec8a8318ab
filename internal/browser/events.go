package browser

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/runtime"
)

// maxPageEvents bounds how many events a session keeps for snapshots.
const maxPageEvents = 200

// PageEvent is a page-side problem seen while a task ran: a console error,
// an uncaught exception, or a request that failed or returned an error status.
type PageEvent struct {
	At     time.Time
	Kind   string
	Detail string
}

func (e PageEvent) String() string {
	return fmt.Sprintf("%s %-9s %s", e.At.Format(time.TimeOnly), e.Kind, e.Detail)
}

// eventLog collects page events from chromedp.ListenTarget. Only the most
// recent maxEvents are kept; identical consecutive events are folded.
type eventLog struct {
	maxEvents int
	now       func() time.Time

	mu     sync.Mutex
	events []PageEvent
}

func newEventLog(maxEvents int) *eventLog {
	return &eventLog{maxEvents: maxEvents, now: time.Now}
}

// Listen is the chromedp.ListenTarget handler.
func (l *eventLog) Listen(ev any) {
	switch e := ev.(type) {
	case *runtime.EventConsoleAPICalled:
		if e.Type != runtime.APITypeError {
			return
		}
		l.add("console", consoleText(e.Args))

	case *runtime.EventExceptionThrown:
		if e.ExceptionDetails == nil {
			return
		}
		text := e.ExceptionDetails.Text
		if ex := e.ExceptionDetails.Exception; ex != nil && ex.Description != "" {
			text = ex.Description
		}
		l.add("exception", firstLine(text))

	case *network.EventLoadingFailed:
		if e.Canceled {
			return
		}
		l.add("request", fmt.Sprintf("%s %s", e.Type, e.ErrorText))

	case *network.EventResponseReceived:
		if e.Response == nil || e.Response.Status < 400 {
			return
		}
		l.add("response", fmt.Sprintf("%d %s", e.Response.Status, e.Response.URL))
	}
}

func (l *eventLog) add(kind, detail string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if n := len(l.events); n > 0 && l.events[n-1].Kind == kind && l.events[n-1].Detail == detail {
		return
	}

	slog.Debug("page event", "kind", kind, "detail", detail)
	l.events = append(l.events, PageEvent{At: l.now(), Kind: kind, Detail: detail})
	if over := len(l.events) - l.maxEvents; over > 0 {
		l.events = append(l.events[:0], l.events[over:]...)
	}
}

// Events returns a copy of the collected events, oldest first.
func (l *eventLog) Events() []PageEvent {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]PageEvent(nil), l.events...)
}

// WriteTo writes one event per line.
func (l *eventLog) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for _, e := range l.Events() {
		n, err := fmt.Fprintln(w, e)
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

func consoleText(args []*runtime.RemoteObject) string {
	parts := make([]string, 0, len(args))
	for _, arg := range args {
		switch {
		case len(arg.Value) > 0:
			parts = append(parts, strings.Trim(string(arg.Value), `"`))
		case arg.Description != "":
			parts = append(parts, arg.Description)
		}
	}
	return firstLine(strings.Join(parts, " "))
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
