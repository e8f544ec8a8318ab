package site

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/webtesting/sitetasks/internal/action"
	"github.com/webtesting/sitetasks/internal/app"
	"github.com/webtesting/sitetasks/internal/browser"
)

// TestLiveSite runs the tasks against the real careers site. The expected
// values describe the site as it was when these tasks were written.
func TestLiveSite(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	if os.Getenv("SITETASKS_LIVE") == "" {
		t.Skip("Set SITETASKS_LIVE=1 to run against the live site")
	}

	cfg := app.Default()
	cfg.Browser.Headless = os.Getenv("DISPLAY") == ""

	ctx := context.Background()
	sess, err := browser.NewSession(ctx, cfg.Browser)
	require.NoError(t, err)
	t.Cleanup(func() { _ = sess.Close() })

	s := New(cfg.Site, &action.Coordinator{Pointer: action.CDPPointer{Browser: sess}, Settle: cfg.Pointer.Settle}, cfg.Browser.ElementTimeout)

	opened, err := s.Open(ctx, sess)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://www.playtechpeople.com"}, opened)

	locations, err := s.Locations(ctx, sess)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"Australia", "Austria", "Bulgaria", "Cyprus", "Estonia", "Germany", "Gibraltar", "Israel",
		"Latvia", "Malta", "Peru", "Romania", "Sweden", "Ukraine", "United Kingdom", "United States",
	}, locations)

	desc, err := s.CasinoDescription(ctx, sess)
	require.NoError(t, err)
	assert.Equal(t, []string{"The world’s largest and most diverse online casino content developers with 8 content studios."}, desc)

	jobs, err := s.Jobs(ctx, sess)
	require.NoError(t, err)
	if len(jobs) == 0 {
		t.Skip("No jobs found")
	}
	for _, job := range jobs {
		assert.Contains(t, job, cfg.Site.JobLinkPrefix)
	}

	_, err = s.Close(ctx, sess)
	require.NoError(t, err)
	_, err = sess.HTML(ctx)
	assert.ErrorIs(t, err, browser.ErrClosed)
}
