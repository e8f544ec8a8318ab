package site

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/webtesting/sitetasks/internal/browser"
)

const headerHTML = `
<html><body>
<header>
  <ul class="menu">
    <li id="menu-item-82"><a href="/locations/">Locations</a></li>
  </ul>
  <div class="header-locations__wrap">
    <div class="header-locations__item"><a href="https://www.playtechpeople.com/country/australia/">Australia</a></div>
    <div class="header-locations__item"><a href="https://www.playtechpeople.com/country/austria/">
        Austria
    </a></div>
    <div class="header-locations__title"><a href="/locations/">All locations</a></div>
    <div class="header-locations__item"><a href="https://www.playtechpeople.com/country/united-kingdom/">United   Kingdom</a></div>
    <div class="header-locations__item"><span>Coming soon</span></div>
  </div>
</header>
</body></html>`

func TestParseLocations(t *testing.T) {
	got, err := ParseLocations(headerHTML)
	require.NoError(t, err)
	assert.Equal(t, []string{"Australia", "Austria", "United Kingdom"}, got)
}

func TestParseLocationsMissingWrap(t *testing.T) {
	_, err := ParseLocations(`<html><body><nav></nav></body></html>`)
	assert.ErrorIs(t, err, browser.ErrElementNotFound)
}

func TestParseLocationsEmptyWrap(t *testing.T) {
	got, err := ParseLocations(`<div class="header-locations__wrap"></div>`)
	require.NoError(t, err)
	assert.Empty(t, got)
}

const whoWeAreHTML = `
<html><body>
<section class="products">
  <div class="product">
    <h3>Live</h3>
    <p>Live casino studios.</p>
  </div>
  <div class="product">
    <h3><span class="icon"></span>Casino</h3>
    <p>The world’s largest and most diverse online casino content developers
       with 8 content studios.</p>
    <p>Second paragraph.</p>
  </div>
  <div class="product">
    <h3>Casino Plus</h3>
    <p>Wrong one.</p>
  </div>
</section>
</body></html>`

func TestParseCasinoDescription(t *testing.T) {
	got, err := ParseCasinoDescription(whoWeAreHTML)
	require.NoError(t, err)
	assert.Equal(t, "The world’s largest and most diverse online casino content developers with 8 content studios.", got)
}

func TestParseCasinoDescriptionSplitLabel(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
	}{
		{"label before line break", `<html><body><h3>Casino<br>suite</h3><p>Desc.</p></body></html>`, "Desc."},
		{"label after icon", `<html><body><h3><i></i>Casino</h3><p>Icon desc.</p></body></html>`, "Icon desc."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCasinoDescription(tt.html)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseCasinoDescriptionMissing(t *testing.T) {
	tests := []struct {
		name string
		html string
	}{
		{"no label", `<html><body><h3>Poker</h3><p>x</p></body></html>`},
		{"no sibling", `<html><body><div><h3>Casino</h3></div></body></html>`},
		{"label only inside a longer text node", `<html><body><h3>Casino Plus</h3><p>x</p></body></html>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCasinoDescription(tt.html)
			assert.ErrorIs(t, err, browser.ErrElementNotFound)
		})
	}
}

const jobsHTML = `
<html><body>
<div class="jobs-wrap">
  <a class="job" data-location="estonia" href="https://jobs.smartrecruiters.com/Playtech/743999-senior-go-engineer">Senior Go Engineer</a>
  <a class="job" data-location="latvia" href="https://jobs.smartrecruiters.com/Playtech/743998-qa">QA</a>
  <a class="job" data-location="estonia" href="/jobs/relative-posting/">Relative</a>
  <a class="job" data-location="estonia">No link</a>
  <div class="wrapper"><a data-location="estonia" href="https://nested.example/">Nested</a></div>
</div>
</body></html>`

func TestParseEstoniaJobLinks(t *testing.T) {
	base, _ := url.Parse("https://www.playtechpeople.com/jobs/")

	got, err := ParseEstoniaJobLinks(jobsHTML, base)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"https://jobs.smartrecruiters.com/Playtech/743999-senior-go-engineer",
		"https://www.playtechpeople.com/jobs/relative-posting/",
	}, got)
}

func TestParseEstoniaJobLinksMissingWrap(t *testing.T) {
	_, err := ParseEstoniaJobLinks(`<html></html>`, nil)
	assert.ErrorIs(t, err, browser.ErrElementNotFound)
}

func TestPostingWanted(t *testing.T) {
	tests := []struct {
		name string
		p    Posting
		want bool
	}{
		{"both offices open", Posting{Address: "Tartu, Tallinn, Estonia", ApplyEnabled: true}, true},
		{"both offices closed", Posting{Address: "Tallinn, Tartu, Estonia", ApplyEnabled: false}, false},
		{"only Tallinn", Posting{Address: "Tallinn, Estonia", ApplyEnabled: true}, false},
		{"only Tartu", Posting{Address: "Tartu, Estonia", ApplyEnabled: true}, false},
		{"empty", Posting{ApplyEnabled: true}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.p.Wanted())
		})
	}
}
