package domain

// Itinerary is the observable planning state for one trip.
type Itinerary struct {
	Cities         []City     `json:"cities"`
	POIs           []POI      `json:"pois"`
	Routes         []RouteLeg `json:"routes,omitempty"`
	Valid          bool       `json:"valid"`
	Loading        bool       `json:"loading"`
	DrivingMinutes float64    `json:"driving_minutes"`
}

// Section groups the detour POIs that follow one city.
type Section struct {
	City City  `json:"city"`
	POIs []POI `json:"pois"`
}

// Sections groups POIs by parent city in city order.
func (it Itinerary) Sections() []Section {
	byCity := make(map[int64][]POI, len(it.Cities))
	for _, p := range it.POIs {
		byCity[p.ParentCityID] = append(byCity[p.ParentCityID], p)
	}

	out := make([]Section, 0, len(it.Cities))
	for _, c := range it.Cities {
		pois := byCity[c.ID]
		if pois == nil {
			pois = []POI{}
		}
		out = append(out, Section{City: c, POIs: pois})
	}
	return out
}
