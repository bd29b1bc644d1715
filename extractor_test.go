package cianparser

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const listingPage = `<html><body>
<div data-name="OfferTitle"><h1>2-комн. квартира, 62,5 м²</h1></div>
<div data-name="Geo"><span itemprop="name" content="Москва, ЮЗАО, р-н Черемушки, Профсоюзная ул., 56"></span></div>
<div data-testid="object-summary-description-info"><div>62,5 м²</div><div>Общая</div></div>
<div data-testid="object-summary-description-info"><div>40 м²</div><div>Жилая</div></div>
<div data-testid="object-summary-description-info"><div>10,2 м²</div><div>Кухня</div></div>
<div data-testid="object-summary-description-info"><div>5 из 12</div><div>Этаж</div></div>
<div data-testid="object-summary-description-info"><div>1985</div><div>Построен</div></div>
<ul>
<li data-name="AdditionalFeatureItem"><span>Высота потолков</span><span>2,7 м</span></li>
<li data-name="AdditionalFeatureItem"><span>Ремонт</span><span>Косметический</span></li>
<li data-name="AdditionalFeatureItem"><span>Вид из окон</span><span>Во двор</span></li>
<li data-name="AdditionalFeatureItem"><span>Санузел</span><span>1 раздельный, 2 совмещенных</span></li>
<li data-name="AdditionalFeatureItem"><span>Балкон/лоджия</span><span>2 балкона, 1 лоджия</span></li>
</ul>
<div data-name="Item"><div>Тип дома</div><div>Панельный</div></div>
<div data-name="Item"><div>Тип перекрытий</div><div>Железобетонные</div></div>
<div data-name="Item"><div>Лифты</div><div>1 пассажирский, 1 грузовой</div></div>
<div data-name="Item"><div>Отопление</div><div>Центральное</div></div>
<div data-name="Item"><div>Аварийность</div><div>Нет</div></div>
<div data-name="Item"><div>Парковка</div><div>Наземная</div></div>
<div data-name="Item"><div>Мусоропровод</div><div>Есть</div></div>
<ul>
<li><span class="a10a3f92e9--underground_time--YvrcI">⋅  9 мин. пешком</span></li>
<li><span class="a10a3f92e9--underground_time--YvrcI">⋅  6 мин. пешком</span></li>
<li><span class="a10a3f92e9--underground_time--YvrcI">15 мин. на транспорте</span></li>
</ul>
<div data-name="OfferTerms"><span itemprop="price" content="5 500 000 ₽"></span></div>
</body></html>`

func parseDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func TestExtractListing(t *testing.T) {
	l := DefaultMarkers().ExtractListing(parseDoc(t, listingPage), "https://www.cian.ru/sale/flat/1/")

	assert.Equal(t, "https://www.cian.ru/sale/flat/1/", l.Url)
	assert.Equal(t, Some(2), l.Rooms)
	assert.Equal(t, "ЮЗАО", l.TerritorialDivision)
	assert.Equal(t, "Черемушки", l.District)
	assert.Equal(t, Some(62.5), l.TotalArea)
	assert.Equal(t, Some(40.0), l.LivingSpace)
	assert.Equal(t, Some(10.2), l.KitchenArea)
	assert.Equal(t, Some(5), l.Floor)
	assert.Equal(t, Some(12), l.TotalFloors)
	assert.Equal(t, Some(1985), l.YearBuilt)
	assert.Equal(t, Some(2.7), l.CeilingHeight)
	assert.Equal(t, "Косметический", l.RenovationType)
	assert.Equal(t, "Во двор", l.OutsideView)
	assert.Equal(t, 2, l.Balconies)
	assert.Equal(t, 1, l.Loggias)
	assert.Equal(t, 1, l.SeparateBathrooms)
	assert.Equal(t, 2, l.CombinedBathrooms)
	assert.Equal(t, "Панельный", l.BuildingType)
	assert.Equal(t, "Железобетонные", l.OverlapType)
	assert.Equal(t, 1, l.PassengerLifts)
	assert.Equal(t, 1, l.ServiceLifts)
	assert.Equal(t, "Центральное", l.HeatingType)
	assert.Equal(t, "Нет", l.HomeEmergency)
	assert.Equal(t, "Наземная", l.ParkingType)
	assert.Equal(t, "Есть", l.GarbageChute)
	assert.Equal(t, Some(6), l.MinsToSubwayByWalk)
	assert.False(t, l.MinsToSubwayByCar.Valid)
	assert.Equal(t, Some(15), l.MinsToSubwayByTrans)
	assert.Equal(t, 5500000.0, l.Price)
	assert.False(t, l.CreatedAt.IsZero())
}

func TestExtractListingEmptyPage(t *testing.T) {
	l := DefaultMarkers().ExtractListing(parseDoc(t, `<html><body><p>gone</p></body></html>`), "u")

	assert.Equal(t, "u", l.Url)
	assert.False(t, l.Rooms.Valid)
	assert.False(t, l.TotalArea.Valid)
	assert.False(t, l.CeilingHeight.Valid)
	assert.Empty(t, l.District)
	assert.Empty(t, l.RenovationType)
	assert.Zero(t, l.Balconies)
	assert.Zero(t, l.PassengerLifts)
	assert.False(t, l.MinsToSubwayByWalk.Valid)
	assert.Zero(t, l.Price)
}

func TestExtractListingStudioHasNoRoomCount(t *testing.T) {
	l := DefaultMarkers().ExtractListing(parseDoc(t, `<div data-name="OfferTitle"><h1>Студия, 25 м²</h1></div>`), "u")
	assert.False(t, l.Rooms.Valid)
}

func TestLiftCountsComeFromHouseData(t *testing.T) {
	t.Run("general info without lifts", func(t *testing.T) {
		page := `<li data-name="AdditionalFeatureItem"><span>Ремонт</span><span>Евроремонт</span></li>
<div data-name="Item"><div>Лифты</div><div>2 пассажирских, 1 грузовой</div></div>`
		l := DefaultMarkers().ExtractListing(parseDoc(t, page), "u")
		assert.Equal(t, 2, l.PassengerLifts)
		assert.Equal(t, 1, l.ServiceLifts)
	})

	t.Run("lifts only in general info", func(t *testing.T) {
		page := `<li data-name="AdditionalFeatureItem"><span>Лифты</span><span>3 пассажирских</span></li>`
		l := DefaultMarkers().ExtractListing(parseDoc(t, page), "u")
		assert.Zero(t, l.PassengerLifts)
	})
}

func TestBalconyCountsWithoutBathroomRow(t *testing.T) {
	page := `<li data-name="AdditionalFeatureItem"><span>Балкон/лоджия</span><span>1 балкон</span></li>`
	l := DefaultMarkers().ExtractListing(parseDoc(t, page), "u")
	assert.Equal(t, 1, l.Balconies)
	assert.Zero(t, l.Loggias)
	assert.Zero(t, l.SeparateBathrooms)
}

func TestParseCounts(t *testing.T) {
	assert.Equal(t, labels{"балк": "2", "лодж": "1"}, parseCounts("2 балк, 1 лодж", nil))
	assert.Equal(t, labels{"разд": "1"}, parseCounts("1 раздельный", nil))
	assert.Empty(t, parseCounts("", nil))
	assert.Empty(t, parseCounts("x", errFieldMissing))
}

func TestParsePrice(t *testing.T) {
	price, err := parsePrice("5 500 000 ₸", nil)
	require.NoError(t, err)
	assert.Equal(t, 5500000.0, price)

	for _, raw := range []string{"", "₽", "цена договорная ₽", "NaN ₽"} {
		_, err := parsePrice(raw, nil)
		assert.Error(t, err, raw)
	}
	assert.Zero(t, orDefault(parsePrice("договорная", nil)))
}

func TestTransitMinutes(t *testing.T) {
	got := transitMinutes([][]string{
		{"5", "мин", "пешк"},
		{"⋅", "3", "мин.", "пешком"},
		{"12", "мин.", "на", "машине"},
		{"7", "мин.", "вертолётом"},
		{"мин.", "пешком"},
		{"1", "2"},
	})
	assert.Equal(t, Some(3), got[transitByWalk])
	assert.Equal(t, Some(12), got[transitByCar])
	_, ok := got[transitByTransport]
	assert.False(t, ok)
	assert.Len(t, got, 2)
}

func TestParseGeo(t *testing.T) {
	division, district := parseGeo("Москва, САО, р-н Беговой, Ленинградский просп.", nil)
	assert.Equal(t, "САО", division)
	assert.Equal(t, "Беговой", district)

	division, district = parseGeo("Москва", nil)
	assert.Empty(t, division)
	assert.Empty(t, district)
}
