package cianparser

import "time"

// Listing is one apartment offer as extracted from its detail page.
type Listing struct {
	Url                 string            `json:"url" bson:"url"`
	Rooms               Optional[int]     `json:"n_rooms" bson:"n_rooms"`
	TerritorialDivision string            `json:"territorial_division" bson:"territorial_division"`
	District            string            `json:"district" bson:"district"`
	TotalArea           Optional[float64] `json:"total_area" bson:"total_area"`
	LivingSpace         Optional[float64] `json:"living_space" bson:"living_space"`
	KitchenArea         Optional[float64] `json:"kitchen_area" bson:"kitchen_area"`
	Floor               Optional[int]     `json:"floor" bson:"floor"`
	TotalFloors         Optional[int]     `json:"total_floors" bson:"total_floors"`
	YearBuilt           Optional[int]     `json:"year_of_built" bson:"year_of_built"`
	CeilingHeight       Optional[float64] `json:"ceiling_height" bson:"ceiling_height"`
	RenovationType      string            `json:"renovation_type" bson:"renovation_type"`
	OutsideView         string            `json:"outside_view" bson:"outside_view"`
	Balconies           int               `json:"n_balconies" bson:"n_balconies"`
	Loggias             int               `json:"n_loggias" bson:"n_loggias"`
	SeparateBathrooms   int               `json:"n_sep_bathrooms" bson:"n_sep_bathrooms"`
	CombinedBathrooms   int               `json:"n_comb_bathrooms" bson:"n_comb_bathrooms"`
	BuildingType        string            `json:"building_type" bson:"building_type"`
	OverlapType         string            `json:"overlap_type" bson:"overlap_type"`
	PassengerLifts      int               `json:"n_pass_lifts" bson:"n_pass_lifts"`
	ServiceLifts        int               `json:"n_serv_lifts" bson:"n_serv_lifts"`
	HeatingType         string            `json:"heating_type" bson:"heating_type"`
	HomeEmergency       string            `json:"home_emergency" bson:"home_emergency"`
	ParkingType         string            `json:"parking_type" bson:"parking_type"`
	GarbageChute        string            `json:"garbage_chute" bson:"garbage_chute"`
	MinsToSubwayByWalk  Optional[int]     `json:"mins_to_subway_by_walk" bson:"mins_to_subway_by_walk"`
	MinsToSubwayByCar   Optional[int]     `json:"mins_to_subway_by_car" bson:"mins_to_subway_by_car"`
	MinsToSubwayByTrans Optional[int]     `json:"mins_to_subway_by_trans" bson:"mins_to_subway_by_trans"`
	Price               float64           `json:"price" bson:"price"`
	CreatedAt           time.Time         `json:"created_at" bson:"created_at"`
}

type column struct {
	Key   string
	Value interface{}
}

// columns lists the listing keys in document order. Optional values appear as "" or the number.
func (l *Listing) columns() []column {
	return []column{
		{"url", l.Url},
		{"n_rooms", l.Rooms.value()},
		{"territorial_division", l.TerritorialDivision},
		{"district", l.District},
		{"total_area", l.TotalArea.value()},
		{"living_space", l.LivingSpace.value()},
		{"kitchen_area", l.KitchenArea.value()},
		{"floor", l.Floor.value()},
		{"total_floors", l.TotalFloors.value()},
		{"year_of_built", l.YearBuilt.value()},
		{"ceiling_height", l.CeilingHeight.value()},
		{"renovation_type", l.RenovationType},
		{"outside_view", l.OutsideView},
		{"n_balconies", l.Balconies},
		{"n_loggias", l.Loggias},
		{"n_sep_bathrooms", l.SeparateBathrooms},
		{"n_comb_bathrooms", l.CombinedBathrooms},
		{"building_type", l.BuildingType},
		{"overlap_type", l.OverlapType},
		{"n_pass_lifts", l.PassengerLifts},
		{"n_serv_lifts", l.ServiceLifts},
		{"heating_type", l.HeatingType},
		{"home_emergency", l.HomeEmergency},
		{"parking_type", l.ParkingType},
		{"garbage_chute", l.GarbageChute},
		{"mins_to_subway_by_walk", l.MinsToSubwayByWalk.value()},
		{"mins_to_subway_by_car", l.MinsToSubwayByCar.value()},
		{"mins_to_subway_by_trans", l.MinsToSubwayByTrans.value()},
		{"price", l.Price},
		{"created_at", l.CreatedAt},
	}
}
