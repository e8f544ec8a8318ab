package browser

import (
	"fmt"
	"math/rand/v2"
)

// Profile is the browser identity presented for one session. UA, Client Hints
// and locale fields all describe the same desktop Chrome.
type Profile struct {
	UserAgent         string
	Brands            [][2]string // [brand, majorVersion]
	FullVersionList   [][2]string // [brand, fullVersion]
	Platform          string      // Client Hints platform (e.g. "Windows")
	PlatformVersion   string
	Architecture      string
	Bitness           string
	NavigatorPlatform string
	AcceptLanguage    string
	Languages         []string
	TimezoneID        string
}

type platformPreset struct {
	uaOS              string
	navigatorPlatform string
	chPlatform        string
	chPlatformVersion string
	architecture      string
}

var platformPresets = []platformPreset{
	{"Windows NT 10.0; Win64; x64", "Win32", "Windows", "10.0.0", "x86"},
	{"Windows NT 10.0; Win64; x64", "Win32", "Windows", "15.0.0", "x86"},
	{"X11; Linux x86_64", "Linux x86_64", "Linux", "6.5.0", "x86"},
}

type localePreset struct {
	timezoneID     string
	acceptLanguage string
	languages      []string
}

// The target site serves Estonian offices, so European locales are preferred.
var localePresets = []localePreset{
	{"Europe/Tallinn", "en-US,en;q=0.9,et;q=0.8", []string{"en-US", "en", "et"}},
	{"Europe/London", "en-GB,en;q=0.9,en-US;q=0.8", []string{"en-GB", "en", "en-US"}},
}

type chromeVersion struct {
	major string
	full  string
}

var chromeVersions = []chromeVersion{
	{"131", "131.0.0.0"},
	{"132", "132.0.0.0"},
	{"133", "133.0.0.0"},
}

var greaseBrands = []string{`Not A(Brand`, `Not/A)Brand`, `Not_A Brand`}

// NewProfile picks a random but internally consistent desktop identity.
func NewProfile() *Profile {
	plat := platformPresets[rand.IntN(len(platformPresets))]
	loc := localePresets[rand.IntN(len(localePresets))]
	ver := chromeVersions[rand.IntN(len(chromeVersions))]
	grease := greaseBrands[rand.IntN(len(greaseBrands))]

	return &Profile{
		UserAgent: fmt.Sprintf(
			"Mozilla/5.0 (%s) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/%s Safari/537.36",
			plat.uaOS, ver.full,
		),
		Brands: [][2]string{
			{grease, "8"},
			{"Chromium", ver.major},
			{"Google Chrome", ver.major},
		},
		FullVersionList: [][2]string{
			{grease, "8.0.0.0"},
			{"Chromium", ver.full},
			{"Google Chrome", ver.full},
		},
		Platform:          plat.chPlatform,
		PlatformVersion:   plat.chPlatformVersion,
		Architecture:      plat.architecture,
		Bitness:           "64",
		NavigatorPlatform: plat.navigatorPlatform,
		AcceptLanguage:    loc.acceptLanguage,
		Languages:         loc.languages,
		TimezoneID:        loc.timezoneID,
	}
}
