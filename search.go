package cianparser

import (
	"fmt"
	"net/url"
)

const searchBaseURL = "https://www.cian.ru/cat.php"

// SearchFilter describes one seed: flats for sale in a region, by room count and price band.
// Zero prices leave that side of the band open.
type SearchFilter struct {
	Region   int
	Rooms    int
	MinPrice int64
	MaxPrice int64
}

// URL renders the filter as a results page URL with keys in sorted order.
func (f SearchFilter) URL() string {
	query := url.Values{}
	query.Set("currency", "2")
	query.Set("deal_type", "sale")
	query.Set("engine_version", "2")
	query.Set("object_type[0]", "1")
	query.Set("offer_type", "flat")
	query.Set("region", fmt.Sprint(max(f.Region, 1)))
	if f.Rooms > 0 {
		query.Set(fmt.Sprintf("room%d", f.Rooms), "1")
	}
	if f.MinPrice > 0 {
		query.Set("minprice", fmt.Sprint(f.MinPrice))
	}
	if f.MaxPrice > 0 {
		query.Set("maxprice", fmt.Sprint(f.MaxPrice))
	}
	return searchBaseURL + "?" + query.Encode()
}

// PriceBands splits the price range at bounds: [0, b0], [b0+1, b1], and so on.
func PriceBands(region, rooms int, bounds ...int64) []SearchFilter {
	var filters []SearchFilter
	var lower int64
	for _, upper := range bounds {
		filters = append(filters, SearchFilter{
			Region:   region,
			Rooms:    rooms,
			MinPrice: lower,
			MaxPrice: upper,
		})
		lower = upper + 1
	}
	return filters
}
