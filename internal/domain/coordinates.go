package domain

import (
	"math"
	"strconv"
)

// Immutable geographic coordinates (longitude, latitude).
type Coordinates struct {
	Lon float64 `json:"lon"`
	Lat float64 `json:"lat"`
}

// Return coordinates as [lon, lat] for external API compatibility.
func (c Coordinates) CoordsToList() []float64 { return []float64{c.Lon, c.Lat} }

// CoordsFromList builds Coordinates from a [lon, lat] pair.
func CoordsFromList(v []float64) (Coordinates, bool) {
	if len(v) < 2 {
		return Coordinates{}, false
	}
	return Coordinates{Lon: v[0], Lat: v[1]}, true
}

// coordScale fixes keys at 1e-7 degrees (about 1cm), finer than any provider returns.
const coordScale = 1e7

// CoordKey is a fixed-point composite key used for set membership.
type CoordKey struct {
	Lon int64
	Lat int64
}

// Key returns the fixed-point identity of c.
func (c Coordinates) Key() CoordKey {
	return CoordKey{
		Lon: int64(math.Round(c.Lon * coordScale)),
		Lat: int64(math.Round(c.Lat * coordScale)),
	}
}

// String renders the key as "lon,lat" in fixed-point units for storage.
func (k CoordKey) String() string {
	return strconv.FormatInt(k.Lon, 10) + "," + strconv.FormatInt(k.Lat, 10)
}

// BBox is a [minLon, minLat, maxLon, maxLat] bounding box.
type BBox struct {
	MinLon float64 `json:"min_lon"`
	MinLat float64 `json:"min_lat"`
	MaxLon float64 `json:"max_lon"`
	MaxLat float64 `json:"max_lat"`
}

func (b BBox) List() []float64 { return []float64{b.MinLon, b.MinLat, b.MaxLon, b.MaxLat} }

// BBoxFromList accepts a 4-element [minLon, minLat, maxLon, maxLat] slice.
func BBoxFromList(v []float64) *BBox {
	if len(v) != 4 {
		return nil
	}
	return &BBox{MinLon: v[0], MinLat: v[1], MaxLon: v[2], MaxLat: v[3]}
}
