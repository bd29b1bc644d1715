package cianparser

// Markers are the CSS selectors that locate each block of the site's markup.
type Markers struct {
	Pagination     string
	ListingCard    string
	OfferTitle     string
	Geo            string
	Summary        string
	GeneralInfo    string
	HouseInfo      string
	UndergroundFor string // substring of the hashed class on transit spans
	OfferTerms     string
}

func DefaultMarkers() Markers {
	return Markers{
		Pagination:     `div[data-name="Pagination"]`,
		ListingCard:    `div[data-name="LinkArea"]`,
		OfferTitle:     `div[data-name="OfferTitle"] h1`,
		Geo:            `div[data-name="Geo"] span[content]`,
		Summary:        `div[data-testid="object-summary-description-info"]`,
		GeneralInfo:    `li[data-name="AdditionalFeatureItem"]`,
		HouseInfo:      `div[data-name="Item"]`,
		UndergroundFor: "underground_time",
		OfferTerms:     `div[data-name="OfferTerms"] span[itemprop="price"]`,
	}
}

// Labels as printed on detail pages.
const (
	labelTotalArea     = "Общая"
	labelLivingSpace   = "Жилая"
	labelKitchenArea   = "Кухня"
	labelFloor         = "Этаж"
	labelBuilt         = "Построен"
	labelCeiling       = "Высота потолков"
	labelRenovation    = "Ремонт"
	labelView          = "Вид из окон"
	labelBathroom      = "Санузел"
	labelBalcony       = "Балкон/лоджия"
	labelBuildingType  = "Тип дома"
	labelOverlapType   = "Тип перекрытий"
	labelLifts         = "Лифты"
	labelHeating       = "Отопление"
	labelEmergency     = "Аварийность"
	labelParking       = "Парковка"
	labelGarbageChute  = "Мусоропровод"
	kindBalcony        = "балк"
	kindLoggia         = "лодж"
	kindSeparate       = "разд"
	kindCombined       = "совм"
	kindPassengerLift  = "пасс"
	kindServiceLift    = "груз"
	transitByWalk      = "пешк"
	transitByCar       = "маши"
	transitByTransport = "тран"
)
