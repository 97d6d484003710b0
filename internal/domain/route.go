package domain

// RouteLeg is a drivable polyline between two anchors with its travel time.
// Legs are replaced, never mutated.
type RouteLeg struct {
	Path            []Coordinates `json:"path"`
	DurationMinutes float64       `json:"duration_minutes"`
	BBox            *BBox         `json:"bbox,omitempty"`
}

// Start returns the first vertex of the leg.
func (l RouteLeg) Start() Coordinates {
	if len(l.Path) == 0 {
		return Coordinates{}
	}
	return l.Path[0]
}

// End returns the last vertex of the leg.
func (l RouteLeg) End() Coordinates {
	if len(l.Path) == 0 {
		return Coordinates{}
	}
	return l.Path[len(l.Path)-1]
}
