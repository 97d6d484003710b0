package dto

// PlanRequest selects the Places category used for detours and city routes.
// Accepted values: general, tourism, food, sightseeing, outdoors, museum.
type PlanRequest struct {
	Category string `json:"category"`
}

type PlanResponse struct {
	ItineraryResponse
	Warning string `json:"warning,omitempty"`
}
