package cianparser

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	mapset "github.com/deckarep/golang-set/v2"
)

// ExtractLinks collects the listing detail links and the pagination links of a search results
// page. Relative hrefs are resolved against pageURL. A missing container yields an empty set.
func (m Markers) ExtractLinks(doc *goquery.Document, pageURL string) (listings, pagination mapset.Set[string]) {
	listings = mapset.NewThreadUnsafeSet[string]()
	pagination = mapset.NewThreadUnsafeSet[string]()

	base, err := url.Parse(pageURL)
	if err != nil {
		base = &url.URL{}
	}

	doc.Find(m.Pagination).First().Find("a").Each(func(_ int, a *goquery.Selection) {
		if link, ok := resolveHref(base, a); ok {
			pagination.Add(link)
		}
	})

	doc.Find(m.ListingCard).Each(func(_ int, card *goquery.Selection) {
		if link, ok := resolveHref(base, card.Find("a").First()); ok {
			listings.Add(link)
		}
	})

	return listings, pagination
}

func resolveHref(base *url.URL, a *goquery.Selection) (string, bool) {
	href, ok := a.Attr("href")
	href = strings.TrimSpace(href)
	if !ok || href == "" {
		return "", false
	}
	ref, err := url.Parse(href)
	if err != nil {
		return "", false
	}
	abs := base.ResolveReference(ref)
	abs.Fragment = ""
	if !abs.IsAbs() {
		return "", false
	}
	return abs.String(), true
}
