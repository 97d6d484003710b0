package domain

import (
	"math"
	"strconv"
	"strings"
	"unicode"
)

// Hotel is a lodging suggestion for one night in a city.
type Hotel struct {
	ID          string      `json:"id,omitempty"`
	Name        string      `json:"name"`
	PriceLabel  string      `json:"price_label"`
	Coordinates Coordinates `json:"coordinates"`
}

// Price parses the numeric part of PriceLabel ("£1,234" -> 1234).
// Labels without a number sort last.
func (h Hotel) Price() float64 {
	var b strings.Builder
scan:
	for _, r := range h.PriceLabel {
		switch {
		case unicode.IsDigit(r) || r == '.':
			b.WriteRune(r)
		case r == ',':
		case b.Len() > 0:
			break scan
		}
	}

	v, err := strconv.ParseFloat(b.String(), 64)
	if err != nil {
		return math.Inf(1)
	}
	return v
}
