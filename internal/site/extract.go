package site

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/webtesting/sitetasks/internal/browser"
)

func parseDoc(html string) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parsing page HTML: %w", err)
	}
	return doc, nil
}

// normalizeSpace collapses runs of whitespace the way rendered text does.
func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// hasTextNode reports whether one of s's direct text-node children reads
// exactly want, ignoring surrounding whitespace. Each text node is compared
// on its own, like the XPath test text()="...".
func hasTextNode(s *goquery.Selection, want string) bool {
	found := false
	s.Contents().EachWithBreak(func(_ int, c *goquery.Selection) bool {
		if goquery.NodeName(c) == "#text" && normalizeSpace(c.Text()) == want {
			found = true
		}
		return !found
	})
	return found
}

// ParseLocations returns the country names listed under the Locations menu,
// in page order. Entries whose link is not a country page are skipped.
func ParseLocations(html string) ([]string, error) {
	doc, err := parseDoc(html)
	if err != nil {
		return nil, err
	}

	wrap := doc.Find(docLocationsWrap).First()
	if wrap.Length() == 0 {
		return nil, fmt.Errorf("%w: %s", browser.ErrElementNotFound, docLocationsWrap)
	}

	var countries []string
	wrap.Children().Each(func(_ int, loc *goquery.Selection) {
		href, ok := loc.ChildrenFiltered("a").First().Attr("href")
		if !ok || !strings.Contains(href, locationLinkMarker) {
			return
		}
		if name := normalizeSpace(loc.Text()); name != "" {
			countries = append(countries, name)
		}
	})
	return countries, nil
}

// ParseCasinoDescription returns the text of the element that follows the
// "Casino" label on the Who we are page.
func ParseCasinoDescription(html string) (string, error) {
	doc, err := parseDoc(html)
	if err != nil {
		return "", err
	}

	label := doc.Find("body *").FilterFunction(func(_ int, s *goquery.Selection) bool {
		return hasTextNode(s, docCasinoLabel)
	}).First()
	if label.Length() == 0 {
		return "", fmt.Errorf("%w: element with text %q", browser.ErrElementNotFound, docCasinoLabel)
	}

	desc := label.Next()
	if desc.Length() == 0 {
		return "", fmt.Errorf("%w: sibling after %q", browser.ErrElementNotFound, docCasinoLabel)
	}
	return normalizeSpace(desc.Text()), nil
}

// ParseEstoniaJobLinks returns the hrefs of job cards tagged with the Estonia
// location, resolved against base.
func ParseEstoniaJobLinks(html string, base *url.URL) ([]string, error) {
	doc, err := parseDoc(html)
	if err != nil {
		return nil, err
	}

	wrap := doc.Find(docJobsWrap).First()
	if wrap.Length() == 0 {
		return nil, fmt.Errorf("%w: %s", browser.ErrElementNotFound, docJobsWrap)
	}

	var links []string
	wrap.ChildrenFiltered(docEstoniaJobs).Each(func(_ int, job *goquery.Selection) {
		href, ok := job.Attr("href")
		if !ok || strings.TrimSpace(href) == "" {
			return
		}
		links = append(links, resolveLink(base, strings.TrimSpace(href)))
	})
	return links, nil
}

func resolveLink(base *url.URL, href string) string {
	ref, err := url.Parse(href)
	if err != nil || base == nil {
		return href
	}
	return base.ResolveReference(ref).String()
}

// Posting is what a job detail page says about where and whether one can apply.
type Posting struct {
	Address      string
	ApplyEnabled bool
}

// Wanted reports whether the posting is open and lists every required office.
func (p Posting) Wanted() bool {
	if !p.ApplyEnabled {
		return false
	}
	for _, office := range requiredOffices {
		if !strings.Contains(p.Address, office) {
			return false
		}
	}
	return true
}
