// Package site holds the Playtech careers tasks: where to click, what to read,
// and how to filter it.
package site

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/webtesting/sitetasks/internal/action"
	"github.com/webtesting/sitetasks/internal/app"
	"github.com/webtesting/sitetasks/internal/browser"
	"github.com/webtesting/sitetasks/internal/pipeline"
)

// Task names accepted by pipeline.Select.
const (
	TaskOpen        = "open"
	TaskLocations   = "locations"
	TaskDescription = "description"
	TaskJobs        = "jobs"
	TaskClose       = "close"
)

// Site binds the careers tasks to a click coordinator and site settings.
type Site struct {
	cfg            app.SiteConfig
	clicker        *action.Coordinator
	elementTimeout time.Duration
}

func New(cfg app.SiteConfig, clicker *action.Coordinator, elementTimeout time.Duration) *Site {
	return &Site{cfg: cfg, clicker: clicker, elementTimeout: elementTimeout}
}

// Tasks returns the full task sequence.
func (s *Site) Tasks() []pipeline.Task {
	return []pipeline.Task{
		{Number: 1, Name: TaskOpen, Message: "Opened web browser at URL:", Run: s.Open},
		{Number: 2, Name: TaskLocations, Message: "Found %d Playtech locations:", Run: s.Locations},
		{Number: 3, Name: TaskDescription, Message: "Casino unit description:", Run: s.CasinoDescription},
		{Number: 4, Name: TaskJobs, Message: "Available positions in Estonia from both Tartu and Tallinn:", Run: s.Jobs},
		{Number: 5, Name: TaskClose, Message: "Browser closed", Run: s.Close},
	}
}

// Open loads the home page and accepts the cookie banner if it shows up.
func (s *Site) Open(ctx context.Context, d browser.Driver) ([]string, error) {
	if err := d.Navigate(ctx, s.cfg.BaseURL); err != nil {
		return nil, err
	}

	present, err := d.WaitPresent(ctx, selConsentAllowAll, s.cfg.ConsentTimeout)
	if err != nil {
		return nil, fmt.Errorf("waiting for cookie banner: %w", err)
	}
	if !present {
		slog.InfoContext(ctx, "cookie banner not shown", "timeout", s.cfg.ConsentTimeout)
		return []string{s.cfg.BaseURL}, nil
	}

	if err := s.clicker.ClickElement(ctx, d, selConsentAllowAll); err != nil {
		return nil, err
	}
	return []string{s.cfg.BaseURL}, nil
}

// Locations opens the Locations menu and lists the countries in it.
func (s *Site) Locations(ctx context.Context, d browser.Driver) ([]string, error) {
	if err := d.Hover(ctx, selMenuLocations); err != nil {
		return nil, err
	}

	html, err := d.HTML(ctx)
	if err != nil {
		return nil, err
	}
	return ParseLocations(html)
}

// CasinoDescription opens Who we are and reads the Casino product blurb.
func (s *Site) CasinoDescription(ctx context.Context, d browser.Driver) ([]string, error) {
	if err := d.Hover(ctx, selMenuLifeAtPlay); err != nil {
		return nil, err
	}
	if err := s.clicker.ClickElement(ctx, d, selWhoWeAreLink); err != nil {
		return nil, err
	}
	if err := s.waitFor(ctx, d, selCasinoHeading); err != nil {
		return nil, err
	}

	html, err := d.HTML(ctx)
	if err != nil {
		return nil, err
	}
	desc, err := ParseCasinoDescription(html)
	if err != nil {
		return nil, err
	}
	return []string{desc}, nil
}

// Jobs opens All Jobs and keeps the Estonian postings open in both Tartu and Tallinn.
func (s *Site) Jobs(ctx context.Context, d browser.Driver) ([]string, error) {
	if err := s.clicker.ClickElement(ctx, d, selAllJobsButton); err != nil {
		return nil, err
	}
	if err := s.waitFor(ctx, d, selJobsWrap); err != nil {
		return nil, err
	}

	listURL, err := d.CurrentURL(ctx)
	if err != nil {
		return nil, err
	}
	base, _ := url.Parse(listURL)

	html, err := d.HTML(ctx)
	if err != nil {
		return nil, err
	}
	links, err := ParseEstoniaJobLinks(html, base)
	if err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "found Estonia job cards", "count", len(links))

	var matched []string
	for _, link := range links {
		if !strings.HasPrefix(link, s.cfg.JobLinkPrefix) {
			slog.DebugContext(ctx, "job link outside expected board", "link", link, "prefix", s.cfg.JobLinkPrefix)
		}

		if err := d.Navigate(ctx, link); err != nil {
			if ctx.Err() != nil {
				return matched, ctx.Err()
			}
			slog.WarnContext(ctx, "skipping job posting", "link", link, "error", err)
			continue
		}

		posting, perr := readPosting(ctx, d)

		if err := d.Back(ctx); err != nil {
			return matched, err
		}

		if perr != nil {
			slog.WarnContext(ctx, "skipping job posting", "link", link, "error", perr)
			continue
		}
		if posting.Wanted() {
			matched = append(matched, link)
		}
		slog.DebugContext(ctx, "job posting checked", "link", link, "address", posting.Address, "apply", posting.ApplyEnabled)
	}
	return matched, nil
}

func readPosting(ctx context.Context, d browser.Driver) (Posting, error) {
	addr, _, err := d.Attribute(ctx, selJobLocation, attrFormattedAddr)
	if err != nil {
		return Posting{}, err
	}
	_, disabled, err := d.Attribute(ctx, selApplyButton, attrDisabled)
	if err != nil {
		return Posting{}, err
	}
	return Posting{Address: addr, ApplyEnabled: !disabled}, nil
}

// Close ends the browser session.
func (s *Site) Close(_ context.Context, d browser.Driver) ([]string, error) {
	if err := d.Close(); err != nil {
		return nil, err
	}
	return nil, nil
}

func (s *Site) waitFor(ctx context.Context, d browser.Driver, selector string) error {
	present, err := d.WaitPresent(ctx, selector, s.elementTimeout)
	if err != nil {
		return err
	}
	if !present {
		return fmt.Errorf("%w: %s", browser.ErrElementNotFound, selector)
	}
	return nil
}
