package browser

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/chromedp/chromedp"
)

// maxSnapshotName caps the page part of a snapshot file name.
const maxSnapshotName = 80

var snapshotSeq atomic.Int64

// artifact is one file of a debug snapshot.
type artifact struct {
	ext  string
	data []byte
}

// snapshot stores what the page looked like after a task: a screenshot, its
// HTML and the page events seen so far. Nothing is captured unless debug
// logging is on, and failures only show up in the debug log.
func snapshot(ctx context.Context, dir, label string, events io.WriterTo) {
	if !slog.Default().Enabled(ctx, slog.LevelDebug) {
		return
	}

	var location string
	_ = chromedp.Run(ctx, chromedp.Location(&location))

	artifacts := captureArtifacts(ctx, label, events)
	if len(artifacts) == 0 {
		return
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		slog.DebugContext(ctx, "snapshot dir not created", "dir", dir, "error", err)
		return
	}

	base := filepath.Join(dir, snapshotName(snapshotSeq.Add(1), label, location))
	written := 0
	for _, a := range artifacts {
		if err := os.WriteFile(base+a.ext, a.data, 0o644); err != nil {
			slog.DebugContext(ctx, "snapshot file not written", "file", base+a.ext, "error", err)
			continue
		}
		written++
	}
	slog.DebugContext(ctx, "snapshot saved", "task", label, "files", written, "base", base)
}

func captureArtifacts(ctx context.Context, label string, events io.WriterTo) []artifact {
	var out []artifact

	var png []byte
	if err := chromedp.Run(ctx, chromedp.CaptureScreenshot(&png)); err != nil {
		slog.DebugContext(ctx, "snapshot screenshot skipped", "task", label, "error", err)
	} else {
		out = append(out, artifact{".png", png})
	}

	var html string
	if err := chromedp.Run(ctx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		slog.DebugContext(ctx, "snapshot html skipped", "task", label, "error", err)
	} else {
		out = append(out, artifact{".html", []byte(html)})
	}

	if events != nil {
		var b bytes.Buffer
		if _, err := events.WriteTo(&b); err == nil && b.Len() > 0 {
			out = append(out, artifact{".events.log", b.Bytes()})
		}
	}
	return out
}

// snapshotName orders snapshots by seq and tells them apart by task and page.
func snapshotName(seq int64, label, location string) string {
	return fmt.Sprintf("%03d_%s_%s", seq, label, sanitize(location))
}

// sanitize reduces a page URL to host and path, keeping only characters that
// are safe in file names.
func sanitize(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return "unknown"
	}
	s := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-':
			return r
		}
		return '_'
	}, strings.TrimSuffix(u.Host+u.Path, "/"))
	if len(s) > maxSnapshotName {
		s = s[:maxSnapshotName]
	}
	return s
}
