package site

// Live page locators, passed to the browser driver.
const (
	selConsentAllowAll  = "#CybotCookiebotDialogBodyLevelButtonLevelOptinAllowAll"
	selMenuLocations    = "#menu-item-82"
	selMenuLifeAtPlay   = "#menu-item-49"
	selWhoWeAreLink     = `//a[text()="Who we are"]`
	selCasinoHeading    = `//*[text()="Casino"]`
	selAllJobsButton    = ".yellow-button"
	selJobsWrap         = ".jobs-wrap"
	selJobLocation      = "spl-job-location"
	selApplyButton      = "#st-apply"
	attrFormattedAddr   = "formattedaddress"
	attrDisabled        = "disabled"
	locationLinkMarker  = "country"
	estoniaLocationAttr = "estonia"
)

// Document locators, applied with goquery to the page HTML.
const (
	docLocationsWrap = ".header-locations__wrap"
	docJobsWrap      = ".jobs-wrap"
	docEstoniaJobs   = `[data-location="` + estoniaLocationAttr + `"]`
	docCasinoLabel   = "Casino"
)

// Offices a job posting must list to be reported.
var requiredOffices = []string{"Tartu", "Tallinn"}
