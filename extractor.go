package cianparser

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

// ExtractListing parses a listing detail page. Every field is extracted independently: a missing
// block or an unparsable value only resets that field to its default.
func (m Markers) ExtractListing(doc *goquery.Document, sourceURL string) *Listing {
	summary := m.summaryLabels(doc)
	general := m.generalLabels(doc)
	house := m.houseLabels(doc)

	bathrooms := parseCounts(general.value(labelBathroom))
	balconies := parseCounts(general.value(labelBalcony))
	lifts := parseCounts(house.value(labelLifts))
	division, district := parseGeo(attr(doc.Find(m.Geo).First(), "content"))
	transit := transitMinutes(m.transitEntries(doc))

	return &Listing{
		Url:                 sourceURL,
		Rooms:               optional(toInt(firstRune(text(doc.Find(m.OfferTitle).First())))),
		TerritorialDivision: division,
		District:            district,
		TotalArea:           optional(toFloat(summary.token(labelTotalArea, 0))),
		LivingSpace:         optional(toFloat(summary.token(labelLivingSpace, 0))),
		KitchenArea:         optional(toFloat(summary.token(labelKitchenArea, 0))),
		Floor:               optional(toInt(summary.token(labelFloor, 0))),
		TotalFloors:         optional(toInt(summary.token(labelFloor, 2))),
		YearBuilt:           optional(toInt(summary.token(labelBuilt, 0))),
		CeilingHeight:       optional(toFloat(general.token(labelCeiling, 0))),
		RenovationType:      orDefault(general.value(labelRenovation)),
		OutsideView:         orDefault(general.value(labelView)),
		Balconies:           orDefault(toInt(balconies.value(kindBalcony))),
		Loggias:             orDefault(toInt(balconies.value(kindLoggia))),
		SeparateBathrooms:   orDefault(toInt(bathrooms.value(kindSeparate))),
		CombinedBathrooms:   orDefault(toInt(bathrooms.value(kindCombined))),
		BuildingType:        orDefault(house.value(labelBuildingType)),
		OverlapType:         orDefault(house.value(labelOverlapType)),
		PassengerLifts:      orDefault(toInt(lifts.value(kindPassengerLift))),
		ServiceLifts:        orDefault(toInt(lifts.value(kindServiceLift))),
		HeatingType:         orDefault(house.value(labelHeating)),
		HomeEmergency:       orDefault(house.value(labelEmergency)),
		ParkingType:         orDefault(house.value(labelParking)),
		GarbageChute:        orDefault(house.value(labelGarbageChute)),
		MinsToSubwayByWalk:  transit[transitByWalk],
		MinsToSubwayByCar:   transit[transitByCar],
		MinsToSubwayByTrans: transit[transitByTransport],
		Price:               orDefault(parsePrice(attr(doc.Find(m.OfferTerms).First(), "content"))),
		CreatedAt:           time.Now().UTC(),
	}
}

// summaryLabels pairs the caption (second div) with the value (first div) of each summary tile.
func (m Markers) summaryLabels(doc *goquery.Document) labels {
	return pairLabels(doc.Find(m.Summary), "div", 1, 0)
}

func (m Markers) generalLabels(doc *goquery.Document) labels {
	return pairLabels(doc.Find(m.GeneralInfo), "span", 0, 1)
}

func (m Markers) houseLabels(doc *goquery.Document) labels {
	return pairLabels(doc.Find(m.HouseInfo), "div", 0, 1)
}

func pairLabels(blocks *goquery.Selection, child string, labelAt, valueAt int) labels {
	result := labels{}
	blocks.Each(func(_ int, block *goquery.Selection) {
		children := block.Find(child)
		if children.Length() <= max(labelAt, valueAt) {
			return
		}
		label := strings.TrimSpace(children.Eq(labelAt).Text())
		if label == "" {
			return
		}
		result[label] = strings.TrimSpace(children.Eq(valueAt).Text())
	})
	return result
}

func (m Markers) transitEntries(doc *goquery.Document) [][]string {
	var entries [][]string
	doc.Find(fmt.Sprintf(`span[class*=%q]`, m.UndergroundFor)).Each(func(_ int, s *goquery.Selection) {
		entries = append(entries, strings.Fields(s.Text()))
	})
	return entries
}

// parseCounts reads values like "2 балк, 1 лодж" into a map keyed by the first four letters of
// each kind.
func parseCounts(raw string, err error) labels {
	counts := labels{}
	if err != nil {
		return counts
	}
	for _, pair := range strings.Split(raw, ",") {
		tokens := strings.Fields(pair)
		if len(tokens) < 2 {
			continue
		}
		counts[runePrefix(tokens[1], 4)] = tokens[0]
	}
	return counts
}

// parseGeo splits the address line: the second part is the okrug, the third is "р-н <district>".
func parseGeo(raw string, err error) (division, district string) {
	if err != nil {
		return "", ""
	}
	parts := strings.Split(raw, ",")
	if len(parts) > 1 {
		division = strings.TrimSpace(parts[1])
	}
	if len(parts) > 2 {
		if words := strings.Fields(parts[2]); len(words) > 1 {
			district = strings.Join(words[1:], " ")
		}
	}
	return division, district
}

// transitMinutes keeps the shortest time per travel mode. Each entry is the tokenized text of one
// station line, e.g. ["⋅", "6", "мин.", "пешком"]; the last token names the mode.
func transitMinutes(entries [][]string) map[string]Optional[int] {
	best := map[string]Optional[int]{}
	for _, tokens := range entries {
		if len(tokens) < 2 {
			continue
		}
		mode := runePrefix(tokens[len(tokens)-1], 4)
		if !isLetters(mode) || !isTransitMode(mode) {
			continue
		}
		minutes, ok := firstInt(tokens[:len(tokens)-1])
		if !ok {
			continue
		}
		if current, seen := best[mode]; !seen || minutes < current.Value {
			best[mode] = Some(minutes)
		}
	}
	return best
}

func isTransitMode(mode string) bool {
	return mode == transitByWalk || mode == transitByCar || mode == transitByTransport
}

// firstInt prefers the second token, where the site prints the minutes, then any integer token.
func firstInt(tokens []string) (int, bool) {
	if len(tokens) > 1 {
		if n, err := strconv.Atoi(tokens[1]); err == nil {
			return n, true
		}
	}
	for _, token := range tokens {
		if n, err := strconv.Atoi(token); err == nil {
			return n, true
		}
	}
	return 0, false
}

// parsePrice drops the trailing currency token: "5 500 000 ₸" is 5500000.
func parsePrice(raw string, err error) (float64, error) {
	if err != nil {
		return 0, err
	}
	tokens := strings.Fields(raw)
	if len(tokens) < 2 {
		return 0, fmt.Errorf("price %q: %w", raw, errFieldMissing)
	}
	price, err := strconv.ParseFloat(strings.Join(tokens[:len(tokens)-1], ""), 64)
	if err != nil || math.IsNaN(price) || math.IsInf(price, 0) {
		return 0, fmt.Errorf("price %q: %w", raw, errFieldMissing)
	}
	return price, nil
}

func text(s *goquery.Selection) (string, error) {
	if s.Length() == 0 {
		return "", errFieldMissing
	}
	return strings.TrimSpace(s.Text()), nil
}

func attr(s *goquery.Selection, name string) (string, error) {
	v, ok := s.Attr(name)
	if !ok {
		return "", fmt.Errorf("attribute %s: %w", name, errFieldMissing)
	}
	return v, nil
}

func firstRune(s string, err error) (string, error) {
	if err != nil {
		return "", err
	}
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 || r == utf8.RuneError {
		return "", errFieldMissing
	}
	return string(r), nil
}

func runePrefix(s string, n int) string {
	runes := []rune(s)
	if len(runes) > n {
		runes = runes[:n]
	}
	return string(runes)
}

func isLetters(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}
