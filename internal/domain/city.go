package domain

// City is a user-chosen stop on the trip.
type City struct {
	ID          int64       `json:"id"`
	Name        string      `json:"name"`
	Country     string      `json:"country"`
	State       string      `json:"state,omitempty"`
	Coordinates Coordinates `json:"coordinates"`
	BBox        *BBox       `json:"bbox,omitempty"`
	Route       []POI       `json:"route,omitempty"`
	Hotels      []Hotel     `json:"hotels,omitempty"`
}

// Clone returns a deep copy so stored cities never alias caller slices.
func (c City) Clone() City {
	out := c
	if c.BBox != nil {
		b := *c.BBox
		out.BBox = &b
	}
	if c.Route != nil {
		out.Route = append([]POI(nil), c.Route...)
	}
	if c.Hotels != nil {
		out.Hotels = append([]Hotel(nil), c.Hotels...)
	}
	return out
}
